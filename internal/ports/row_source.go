package ports

import (
	"context"

	"github.com/emiliopalmerini/crodash/internal/pipeline"
)

// RowSource fetches one full snapshot of projected rows.
type RowSource interface {
	Name() string
	Fetch(ctx context.Context) ([]pipeline.Fields, error)
}
