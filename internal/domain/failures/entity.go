package failures

import (
	"time"

	"github.com/bryanwahyu/unit-monitor/internal/domain/units"
)

// ID identifier for a Failure
type ID = int64

// Failure is an incident reported against a unit.
type Failure struct {
	ID          ID        `json:"id"`
	Description string    `json:"falha_ocorrida"`
	Date        Date      `json:"data_falha"`
	Active      bool      `json:"ativa"`
	Note        string    `json:"observacao"`
	UnitID      units.ID  `json:"unidade"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Status label used by the console.
func (f *Failure) Status() string {
	if f.Active {
		return "Ativa"
	}
	return "Resolvida"
}

// Filter narrows a failure listing. Nil fields are not applied.
type Filter struct {
	UnitID *units.ID
	Active *bool
}
