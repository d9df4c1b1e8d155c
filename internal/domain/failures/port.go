package failures

import (
	"context"

	"github.com/bryanwahyu/unit-monitor/internal/domain/units"
)

// Repository port (persistence for failures)
type Repository interface {
	List(ctx context.Context, f Filter) ([]*Failure, error)
	Get(ctx context.Context, id ID) (*Failure, error)
	Create(ctx context.Context, f *Failure) error
	Update(ctx context.Context, f *Failure) error
	// DeleteByUnit removes every failure of a unit and reports how many went.
	DeleteByUnit(ctx context.Context, unitID units.ID) (int64, error)
}
