package dashboard

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/bryanwahyu/unit-monitor/internal/application"
	"github.com/bryanwahyu/unit-monitor/internal/domain/ai"
	domain "github.com/bryanwahyu/unit-monitor/internal/domain/dashboard"
	"github.com/bryanwahyu/unit-monitor/internal/domain/failures"
	"github.com/bryanwahyu/unit-monitor/internal/domain/units"
	"github.com/bryanwahyu/unit-monitor/internal/pkg/logger"
)

// Service builds the monthly dashboard.
// Artifacts and AI are optional; without them Export and Digest are disabled.
type Service struct {
	Units     units.Repository
	Failures  failures.Repository
	Artifacts domain.ArtifactStore
	AI        ai.Client
	Clock     application.Clock
}

// CurrentPeriod is the month the dashboard opens on.
func (s *Service) CurrentPeriod() domain.Period {
	return domain.PeriodOf(application.NowOr(s.Clock))
}

// Report loads units and failures concurrently and aggregates period p.
func (s *Service) Report(ctx context.Context, p domain.Period) (domain.Report, error) {
	var (
		unitList    []*units.Unit
		failureList []*failures.Failure
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		list, err := s.Units.List(gctx)
		if err != nil {
			return fmt.Errorf("list units: %w", err)
		}
		unitList = list
		return nil
	})
	g.Go(func() error {
		list, err := s.Failures.List(gctx, failures.Filter{})
		if err != nil {
			return fmt.Errorf("list failures: %w", err)
		}
		failureList = list
		return nil
	})
	if err := g.Wait(); err != nil {
		return domain.Report{}, err
	}

	return domain.Aggregate(units.Index(unitList), failureList, p), nil
}

// Details returns one page of the selected subset of period p.
func (s *Service) Details(ctx context.Context, p domain.Period, kind domain.Subset, page, size int) (domain.Page, error) {
	r, err := s.Report(ctx, p)
	if err != nil {
		return domain.Page{}, err
	}
	return domain.Paginate(r.Subset(kind), page, size), nil
}

// ExportResult describes an archived report.
type ExportResult struct {
	Period     domain.Period `json:"periodo"`
	Counts     domain.Counts `json:"estatisticas"`
	Key        string        `json:"chave"`
	URL        string        `json:"url"`
	ExportedAt time.Time     `json:"exportado_em"`
}

// Export stores the report of period p as JSON in the artifact store.
func (s *Service) Export(ctx context.Context, p domain.Period) (ExportResult, error) {
	if s.Artifacts == nil {
		return ExportResult{}, domain.ErrExportDisabled
	}
	r, err := s.Report(ctx, p)
	if err != nil {
		return ExportResult{}, err
	}

	body, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return ExportResult{}, fmt.Errorf("encode report: %w", err)
	}
	key := fmt.Sprintf("relatorios/%s/%s.json", p.Key(), uuid.New().String())

	url, err := s.Artifacts.Upload(ctx, key, body, "application/json")
	if err != nil {
		return ExportResult{}, fmt.Errorf("upload report: %w", err)
	}
	logger.Infof(ctx, "report exported period=%s key=%s total=%d", p, key, r.Counts.Total)

	return ExportResult{
		Period:     p,
		Counts:     r.Counts,
		Key:        key,
		URL:        url,
		ExportedAt: application.NowOr(s.Clock),
	}, nil
}

// DigestResult is the narrative summary of a period.
type DigestResult struct {
	Period domain.Period `json:"periodo"`
	Counts domain.Counts `json:"estatisticas"`
	Text   string        `json:"resumo"`
}

// Digest asks the AI client to summarise period p. An empty month is
// answered locally without calling the provider.
func (s *Service) Digest(ctx context.Context, p domain.Period) (DigestResult, error) {
	if s.AI == nil {
		return DigestResult{}, domain.ErrDigestDisabled
	}
	r, err := s.Report(ctx, p)
	if err != nil {
		return DigestResult{}, err
	}
	res := DigestResult{Period: p, Counts: r.Counts}
	if r.Counts.Total == 0 {
		res.Text = fmt.Sprintf("Nenhuma falha registrada em %s.", p)
		return res, nil
	}

	text, err := s.AI.Digest(ctx, r)
	if err != nil {
		return DigestResult{}, fmt.Errorf("digest %s: %w", p, err)
	}
	res.Text = text
	return res, nil
}
