package menu

import (
	"encoding/json"
	"errors"
)

// Kind tags a menu Item.
type Kind string

const (
	KindLeaf  Kind = "leaf"
	KindGroup Kind = "group"
)

var ErrNotFound = errors.New("menu entry not found")

// Item is either a leaf (navigates to Path) or a group (holds Children).
// Use Leaf and Group to build one; the zero value is not meaningful.
type Item struct {
	kind     Kind
	title    string
	icon     string
	path     string
	children []Item
}

// Leaf builds a navigable entry.
func Leaf(title, path, icon string) Item {
	return Item{kind: KindLeaf, title: title, path: path, icon: icon}
}

// Group builds a collapsible entry.
func Group(title, icon string, children ...Item) Item {
	return Item{kind: KindGroup, title: title, icon: icon, children: children}
}

func (i Item) Kind() Kind       { return i.kind }
func (i Item) Title() string    { return i.title }
func (i Item) Icon() string     { return i.icon }
func (i Item) IsGroup() bool    { return i.kind == KindGroup }
func (i Item) Children() []Item { return i.children }

// Path is empty for groups.
func (i Item) Path() string { return i.path }

type wireItem struct {
	Kind     Kind       `json:"kind"`
	Title    string     `json:"title"`
	Icon     string     `json:"icon"`
	Path     string     `json:"path,omitempty"`
	Children []wireItem `json:"items,omitempty"`
}

func (i Item) wire() wireItem {
	w := wireItem{Kind: i.kind, Title: i.title, Icon: i.icon, Path: i.path}
	for _, c := range i.children {
		w.Children = append(w.Children, c.wire())
	}
	return w
}

func (i Item) MarshalJSON() ([]byte, error) {
	return json.Marshal(i.wire())
}

// Default is the console's sidebar.
func Default() []Item {
	return []Item{
		Leaf("Início", "/", "home"),
		Leaf("Dashboard", "/dashboard", "dashboard"),
		Group("Unidades", "business",
			Leaf("Visualizar Unidades", "/visualizar-unidades", "business"),
			Leaf("Adicionar Unidades", "/adicionar-unidades", "add_business"),
			Leaf("Monitoramento da Unidade", "/monitoramento-unidade", "monitor"),
		),
		Group("Falhas", "error",
			Leaf("Adicionar Falhas", "/adicionar-falhas", "error"),
			Leaf("Listagem de Falhas", "/listagem-falhas", "error"),
		),
	}
}

// Find returns the leaf routed at path, searching groups depth first.
func Find(items []Item, path string) (Item, error) {
	for _, it := range items {
		switch it.kind {
		case KindLeaf:
			if it.path == path {
				return it, nil
			}
		case KindGroup:
			if found, err := Find(it.children, path); err == nil {
				return found, nil
			}
		}
	}
	return Item{}, ErrNotFound
}
