package failures

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bryanwahyu/unit-monitor/internal/application"
	"github.com/bryanwahyu/unit-monitor/internal/domain/dashboard"
	domain "github.com/bryanwahyu/unit-monitor/internal/domain/failures"
	"github.com/bryanwahyu/unit-monitor/internal/domain/units"
	"github.com/bryanwahyu/unit-monitor/internal/pkg/logger"
)

// Service implements use-cases untuk Failure.
type Service struct {
	Repo  domain.Repository
	Units units.Repository
	Clock application.Clock
}

// FailureCommand carries a full failure record. Active nil means true.
type FailureCommand struct {
	Description string
	Date        domain.Date
	Active      *bool
	Note        string
	UnitID      units.ID
}

// FailurePatch changes only the non-nil fields.
type FailurePatch struct {
	Description *string
	Date        *domain.Date
	Active      *bool
	Note        *string
	UnitID      *units.ID
}

func (s *Service) List(ctx context.Context, f domain.Filter) ([]*domain.Failure, error) {
	list, err := s.Repo.List(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("list failures: %w", err)
	}
	if list == nil {
		list = []*domain.Failure{}
	}
	return list, nil
}

func (s *Service) Get(ctx context.Context, id domain.ID) (*domain.Failure, error) {
	return s.Repo.Get(ctx, id)
}

// Create records a new failure. The unit must exist.
func (s *Service) Create(ctx context.Context, cmd FailureCommand) (*domain.Failure, error) {
	if err := s.ensureUnit(ctx, cmd.UnitID); err != nil {
		return nil, err
	}

	now := application.NowOr(s.Clock)
	f := &domain.Failure{
		Description: strings.TrimSpace(cmd.Description),
		Date:        cmd.Date,
		Active:      true,
		Note:        cmd.Note,
		UnitID:      cmd.UnitID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if cmd.Active != nil {
		f.Active = *cmd.Active
	}
	if f.Date.IsZero() {
		f.Date = domain.DateOf(now)
	}

	if err := s.Repo.Create(ctx, f); err != nil {
		return nil, err
	}
	logger.Infof(ctx, "failure created id=%d unidade=%d ativa=%t", f.ID, f.UnitID, f.Active)
	return f, nil
}

// Update replaces the failure's fields. Active nil keeps the stored value.
func (s *Service) Update(ctx context.Context, id domain.ID, cmd FailureCommand) (*domain.Failure, error) {
	f, err := s.Repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if cmd.UnitID != f.UnitID {
		if err := s.ensureUnit(ctx, cmd.UnitID); err != nil {
			return nil, err
		}
	}

	f.Description = strings.TrimSpace(cmd.Description)
	if !cmd.Date.IsZero() {
		f.Date = cmd.Date
	}
	if cmd.Active != nil {
		f.Active = *cmd.Active
	}
	f.Note = cmd.Note
	f.UnitID = cmd.UnitID
	f.UpdatedAt = application.NowOr(s.Clock)

	if err := s.Repo.Update(ctx, f); err != nil {
		return nil, err
	}
	return f, nil
}

// Patch applies a partial update, e.g. resolving or reopening a failure.
func (s *Service) Patch(ctx context.Context, id domain.ID, p FailurePatch) (*domain.Failure, error) {
	f, err := s.Repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.UnitID != nil && *p.UnitID != f.UnitID {
		if err := s.ensureUnit(ctx, *p.UnitID); err != nil {
			return nil, err
		}
		f.UnitID = *p.UnitID
	}
	if p.Description != nil {
		f.Description = strings.TrimSpace(*p.Description)
	}
	if p.Date != nil && !p.Date.IsZero() {
		f.Date = *p.Date
	}
	if p.Active != nil {
		f.Active = *p.Active
	}
	if p.Note != nil {
		f.Note = *p.Note
	}
	f.UpdatedAt = application.NowOr(s.Clock)

	if err := s.Repo.Update(ctx, f); err != nil {
		return nil, err
	}
	return f, nil
}

// ListDetailed returns failures annotated with unit names, newest first.
// Resolved failures are left out unless showClosed.
func (s *Service) ListDetailed(ctx context.Context, showClosed bool) ([]*dashboard.FailureWithUnitName, error) {
	var filter domain.Filter
	if !showClosed {
		active := true
		filter.Active = &active
	}
	list, err := s.Repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list failures: %w", err)
	}
	directory, err := s.Units.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list units: %w", err)
	}
	return dashboard.Annotate(units.Index(directory), list), nil
}

func (s *Service) ensureUnit(ctx context.Context, id units.ID) error {
	if _, err := s.Units.Get(ctx, id); err != nil {
		if errors.Is(err, units.ErrNotFound) {
			return fmt.Errorf("%w: %d", domain.ErrUnknownUnit, id)
		}
		return err
	}
	return nil
}
