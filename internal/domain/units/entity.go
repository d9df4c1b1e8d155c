package units

import "time"

// ID identifier for a Unit
type ID = int64

// Unit is a tracked site or piece of equipment.
type Unit struct {
	ID         ID        `json:"id"`
	Name       string    `json:"nome_unidade"`
	Group      string    `json:"grupo_unidade"`
	Technician string    `json:"tecnico_unidade"`
	ExternalID string    `json:"id_unidade"`
	Notes      string    `json:"observacoes"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// DeletePolicy decides what happens to a unit's failures when the unit is removed.
type DeletePolicy string

const (
	// DeleteCascade removes the unit's failures together with the unit.
	DeleteCascade DeletePolicy = "cascade"
	// DeleteOrphan keeps the failures; they resolve to the placeholder name afterwards.
	DeleteOrphan DeletePolicy = "orphan"
)

// Valid reports whether p is a known policy.
func (p DeletePolicy) Valid() bool {
	return p == DeleteCascade || p == DeleteOrphan
}

// Index maps units by id.
func Index(list []*Unit) map[ID]*Unit {
	out := make(map[ID]*Unit, len(list))
	for _, u := range list {
		if u == nil {
			continue
		}
		out[u.ID] = u
	}
	return out
}
