package ai

import (
	"context"

	"github.com/bryanwahyu/unit-monitor/internal/domain/dashboard"
)

// Client writes a short narrative of a month's failure report.
type Client interface {
	Digest(ctx context.Context, r dashboard.Report) (string, error)
}
