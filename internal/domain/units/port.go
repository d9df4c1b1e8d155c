package units

import "context"

// Repository port (persistence for units)
type Repository interface {
	List(ctx context.Context) ([]*Unit, error)
	Get(ctx context.Context, id ID) (*Unit, error)
	Create(ctx context.Context, u *Unit) error
	Update(ctx context.Context, u *Unit) error
	Delete(ctx context.Context, id ID) error
}
