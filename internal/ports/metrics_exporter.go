package ports

import (
	"context"

	"github.com/emiliopalmerini/crodash/internal/domain"
)

// MetricsExporter exports sync run metrics to an external observability system.
type MetricsExporter interface {
	// ExportSyncRun records the counters and duration of a finished run.
	ExportSyncRun(ctx context.Context, run *domain.SyncRun) error
	// Close shuts down the exporter and flushes any pending metrics.
	Close(ctx context.Context) error
}
