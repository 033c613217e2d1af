package ports

import (
	"context"

	"github.com/emiliopalmerini/crodash/internal/pipeline"
)

// SnapshotStore archives the raw fields a run fetched, per source role.
type SnapshotStore interface {
	Store(ctx context.Context, runID, role string, rows []pipeline.Fields) (string, error)
	Get(ctx context.Context, runID, role string) ([]pipeline.Fields, error)
}
