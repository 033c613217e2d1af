package ports

import (
	"context"

	"github.com/emiliopalmerini/crodash/internal/domain"
)

type SyncRunRepository interface {
	Start(ctx context.Context, run *domain.SyncRun) error
	Finish(ctx context.Context, run *domain.SyncRun) error
	// Latest returns nil when no run was recorded yet.
	Latest(ctx context.Context) (*domain.SyncRun, error)
}
