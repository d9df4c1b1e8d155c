package units

import (
	"context"
	"fmt"
	"strings"

	"github.com/bryanwahyu/unit-monitor/internal/application"
	"github.com/bryanwahyu/unit-monitor/internal/domain/dashboard"
	"github.com/bryanwahyu/unit-monitor/internal/domain/failures"
	domain "github.com/bryanwahyu/unit-monitor/internal/domain/units"
	"github.com/bryanwahyu/unit-monitor/internal/pkg/logger"
)

// Service implements use-cases untuk Unit.
// Safe for concurrent use as long as the repositories are.
type Service struct {
	Repo     domain.Repository
	Failures failures.Repository
	// Policy applied by Delete; empty means cascade.
	Policy domain.DeletePolicy
	Clock  application.Clock
}

// UnitCommand carries the editable fields of a unit.
type UnitCommand struct {
	Name       string
	Group      string
	Technician string
	ExternalID string
	Notes      string
}

func (c UnitCommand) apply(u *domain.Unit) {
	u.Name = strings.TrimSpace(c.Name)
	u.Group = strings.TrimSpace(c.Group)
	u.Technician = strings.TrimSpace(c.Technician)
	u.ExternalID = strings.TrimSpace(c.ExternalID)
	u.Notes = c.Notes
}

// List returns all units ordered by name.
func (s *Service) List(ctx context.Context) ([]*domain.Unit, error) {
	list, err := s.Repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list units: %w", err)
	}
	if list == nil {
		list = []*domain.Unit{}
	}
	return list, nil
}

// Get ambil 1 unit by id
func (s *Service) Get(ctx context.Context, id domain.ID) (*domain.Unit, error) {
	return s.Repo.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, cmd UnitCommand) (*domain.Unit, error) {
	now := application.NowOr(s.Clock)
	u := &domain.Unit{CreatedAt: now, UpdatedAt: now}
	cmd.apply(u)

	if err := s.Repo.Create(ctx, u); err != nil {
		return nil, err
	}
	logger.Infof(ctx, "unit created id=%d id_unidade=%s", u.ID, u.ExternalID)
	return u, nil
}

// Update replaces every editable field of unit id.
func (s *Service) Update(ctx context.Context, id domain.ID, cmd UnitCommand) (*domain.Unit, error) {
	u, err := s.Repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	cmd.apply(u)
	u.UpdatedAt = application.NowOr(s.Clock)

	if err := s.Repo.Update(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// DeleteResult reports what Delete removed.
type DeleteResult struct {
	UnitID          domain.ID           `json:"id"`
	Policy          domain.DeletePolicy `json:"politica"`
	FailuresRemoved int64               `json:"falhas_removidas"`
}

// Delete removes a unit following the configured policy. With cascade the
// unit's failures go first, so a failure never points at a missing unit
// unless the unit delete itself fails afterwards.
func (s *Service) Delete(ctx context.Context, id domain.ID) (DeleteResult, error) {
	policy := s.policy()
	res := DeleteResult{UnitID: id, Policy: policy}

	if _, err := s.Repo.Get(ctx, id); err != nil {
		return res, err
	}

	if policy == domain.DeleteCascade {
		n, err := s.Failures.DeleteByUnit(ctx, id)
		if err != nil {
			return res, fmt.Errorf("delete failures of unit %d: %w", id, err)
		}
		res.FailuresRemoved = n
	}

	if err := s.Repo.Delete(ctx, id); err != nil {
		if res.FailuresRemoved > 0 {
			logger.Errorf(ctx, "unit %d kept after %d failures were removed: %v", id, res.FailuresRemoved, err)
		}
		return res, err
	}
	logger.Infof(ctx, "unit deleted id=%d policy=%s failures_removed=%d", id, policy, res.FailuresRemoved)
	return res, nil
}

// History returns the unit's failures newest first, annotated with its name.
func (s *Service) History(ctx context.Context, id domain.ID) ([]*dashboard.FailureWithUnitName, error) {
	u, err := s.Repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	list, err := s.Failures.List(ctx, failures.Filter{UnitID: &u.ID})
	if err != nil {
		return nil, fmt.Errorf("list failures of unit %d: %w", id, err)
	}
	return dashboard.Annotate(domain.Index([]*domain.Unit{u}), list), nil
}

func (s *Service) policy() domain.DeletePolicy {
	if s.Policy == "" {
		return domain.DeleteCascade
	}
	return s.Policy
}
