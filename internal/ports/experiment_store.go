package ports

import (
	"context"

	"github.com/emiliopalmerini/crodash/internal/domain"
)

// ExperimentStore is the external record store keyed by experiment id.
type ExperimentStore interface {
	// UpsertBatch inserts or replaces every record of one batch. A batch must
	// not contain duplicate ids.
	UpsertBatch(ctx context.Context, records []domain.ExperimentRecord) error
	List(ctx context.Context) ([]domain.ExperimentRecord, error)
}
