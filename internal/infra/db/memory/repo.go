// Package memory keeps units and failures in process memory. It backs the
// "memory" database driver and the service tests.
package memory

import (
	"cmp"
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/bryanwahyu/unit-monitor/internal/domain/failures"
	"github.com/bryanwahyu/unit-monitor/internal/domain/units"
)

// Store holds both tables behind one lock.
type Store struct {
	mu          sync.RWMutex
	units       map[units.ID]units.Unit
	failures    map[failures.ID]failures.Failure
	nextUnit    units.ID
	nextFailure failures.ID
}

func NewStore() *Store {
	return &Store{
		units:    map[units.ID]units.Unit{},
		failures: map[failures.ID]failures.Failure{},
	}
}

// Units returns the unit repository view of the store.
func (s *Store) Units() *UnitRepo { return &UnitRepo{s: s} }

// Failures returns the failure repository view of the store.
func (s *Store) Failures() *FailureRepo { return &FailureRepo{s: s} }

var (
	_ units.Repository    = (*UnitRepo)(nil)
	_ failures.Repository = (*FailureRepo)(nil)
)

type UnitRepo struct{ s *Store }

func (r *UnitRepo) List(ctx context.Context) ([]*units.Unit, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]*units.Unit, 0, len(r.s.units))
	for _, u := range r.s.units {
		u := u
		out = append(out, &u)
	}
	slices.SortFunc(out, func(a, b *units.Unit) int {
		if c := strings.Compare(a.Name, b.Name); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return out, nil
}

func (r *UnitRepo) Get(ctx context.Context, id units.ID) (*units.Unit, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	u, ok := r.s.units[id]
	if !ok {
		return nil, units.ErrNotFound
	}
	return &u, nil
}

func (r *UnitRepo) Create(ctx context.Context, u *units.Unit) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if r.s.externalIDTaken(u.ExternalID, 0) {
		return units.ErrDuplicateExternalID
	}
	r.s.nextUnit++
	u.ID = r.s.nextUnit
	r.s.units[u.ID] = *u
	return nil
}

func (r *UnitRepo) Update(ctx context.Context, u *units.Unit) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.units[u.ID]; !ok {
		return units.ErrNotFound
	}
	if r.s.externalIDTaken(u.ExternalID, u.ID) {
		return units.ErrDuplicateExternalID
	}
	r.s.units[u.ID] = *u
	return nil
}

func (r *UnitRepo) Delete(ctx context.Context, id units.ID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.units[id]; !ok {
		return units.ErrNotFound
	}
	delete(r.s.units, id)
	return nil
}

func (s *Store) externalIDTaken(externalID string, except units.ID) bool {
	for id, u := range s.units {
		if id != except && u.ExternalID == externalID {
			return true
		}
	}
	return false
}

type FailureRepo struct{ s *Store }

// List orders by data_falha then created_at, newest first, then id.
func (r *FailureRepo) List(ctx context.Context, f failures.Filter) ([]*failures.Failure, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]*failures.Failure, 0, len(r.s.failures))
	for _, item := range r.s.failures {
		if f.UnitID != nil && item.UnitID != *f.UnitID {
			continue
		}
		if f.Active != nil && item.Active != *f.Active {
			continue
		}
		item := item
		out = append(out, &item)
	}
	slices.SortFunc(out, func(a, b *failures.Failure) int {
		if c := b.Date.Compare(a.Date.Time); c != 0 {
			return c
		}
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return out, nil
}

func (r *FailureRepo) Get(ctx context.Context, id failures.ID) (*failures.Failure, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	f, ok := r.s.failures[id]
	if !ok {
		return nil, failures.ErrNotFound
	}
	return &f, nil
}

func (r *FailureRepo) Create(ctx context.Context, f *failures.Failure) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.nextFailure++
	f.ID = r.s.nextFailure
	r.s.failures[f.ID] = *f
	return nil
}

func (r *FailureRepo) Update(ctx context.Context, f *failures.Failure) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.failures[f.ID]; !ok {
		return failures.ErrNotFound
	}
	r.s.failures[f.ID] = *f
	return nil
}

func (r *FailureRepo) DeleteByUnit(ctx context.Context, unitID units.ID) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var n int64
	for id, f := range r.s.failures {
		if f.UnitID == unitID {
			delete(r.s.failures, id)
			n++
		}
	}
	return n, nil
}
