package dashboard

import (
	"slices"

	"github.com/bryanwahyu/unit-monitor/internal/domain/failures"
	"github.com/bryanwahyu/unit-monitor/internal/domain/units"
)

// UnknownUnitName is shown for failures whose unit cannot be resolved.
const UnknownUnitName = "Unidade Desconhecida"

// FailureWithUnitName is a failure annotated with its unit's display name.
type FailureWithUnitName struct {
	failures.Failure
	UnitName string `json:"unidade_nome"`
}

// Counts value object. Total is always Active + Resolved.
type Counts struct {
	Active   int `json:"ativas"`
	Resolved int `json:"fechadas"`
	Total    int `json:"total"`
}

// Report is the dashboard view of one period.
type Report struct {
	Period   Period                 `json:"periodo"`
	Counts   Counts                 `json:"estatisticas"`
	Active   []*FailureWithUnitName `json:"ativas"`
	Resolved []*FailureWithUnitName `json:"fechadas"`
	All      []*FailureWithUnitName `json:"todas"`
}

// Subset selects one of the report's sequences.
type Subset string

const (
	SubsetActive   Subset = "ativas"
	SubsetResolved Subset = "fechadas"
	SubsetAll      Subset = "todas"
)

// ParseSubset accepts ativas, fechadas or todas; empty means todas.
func ParseSubset(s string) (Subset, error) {
	switch Subset(s) {
	case "", SubsetAll:
		return SubsetAll, nil
	case SubsetActive, SubsetResolved:
		return Subset(s), nil
	}
	return "", ErrInvalidSubset
}

// Subset returns the sequence for kind.
func (r Report) Subset(kind Subset) []*FailureWithUnitName {
	switch kind {
	case SubsetActive:
		return r.Active
	case SubsetResolved:
		return r.Resolved
	default:
		return r.All
	}
}

// Aggregate partitions the failures of period p into active, resolved and
// all, each annotated with the unit name and ordered newest first. Failures
// with the same date keep their input order. The inputs are not modified.
func Aggregate(directory map[units.ID]*units.Unit, list []*failures.Failure, p Period) Report {
	r := Report{
		Period:   p,
		Active:   []*FailureWithUnitName{},
		Resolved: []*FailureWithUnitName{},
		All:      []*FailureWithUnitName{},
	}

	for _, f := range list {
		if f == nil || !p.Contains(f.Date.Time) {
			continue
		}
		item := annotate(directory, f)
		r.All = append(r.All, item)
		if f.Active {
			r.Active = append(r.Active, item)
		} else {
			r.Resolved = append(r.Resolved, item)
		}
	}

	sortNewestFirst(r.Active)
	sortNewestFirst(r.Resolved)
	sortNewestFirst(r.All)

	r.Counts = Counts{
		Active:   len(r.Active),
		Resolved: len(r.Resolved),
		Total:    len(r.All),
	}
	return r
}

// Annotate attaches unit names to every failure, newest first, with no
// period filter. Used by the failure listing and the unit history.
func Annotate(directory map[units.ID]*units.Unit, list []*failures.Failure) []*FailureWithUnitName {
	out := make([]*FailureWithUnitName, 0, len(list))
	for _, f := range list {
		if f == nil {
			continue
		}
		out = append(out, annotate(directory, f))
	}
	sortNewestFirst(out)
	return out
}

// UnitName resolves a unit id to its display name, or the placeholder.
func UnitName(directory map[units.ID]*units.Unit, id units.ID) string {
	if u, ok := directory[id]; ok && u != nil && u.Name != "" {
		return u.Name
	}
	return UnknownUnitName
}

func annotate(directory map[units.ID]*units.Unit, f *failures.Failure) *FailureWithUnitName {
	return &FailureWithUnitName{
		Failure:  *f,
		UnitName: UnitName(directory, f.UnitID),
	}
}

func sortNewestFirst(list []*FailureWithUnitName) {
	slices.SortStableFunc(list, func(a, b *FailureWithUnitName) int {
		return b.Date.Compare(a.Date.Time)
	})
}
