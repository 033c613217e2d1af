package turso

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/emiliopalmerini/crodash/internal/domain"
	"github.com/emiliopalmerini/crodash/internal/util"
)

// startedAtLayout is fixed width so started_at sorts lexicographically.
const startedAtLayout = "2006-01-02T15:04:05.000000Z"

type SyncRunRepository struct {
	db *sql.DB
}

func NewSyncRunRepository(db *sql.DB) *SyncRunRepository {
	return &SyncRunRepository{db: db}
}

func (r *SyncRunRepository) Start(ctx context.Context, run *domain.SyncRun) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO sync_runs (id, source, sink, started_at, status)
		VALUES (?, ?, ?, ?, ?)`,
		run.ID, run.Source, run.Sink, run.StartedAt.UTC().Format(startedAtLayout), run.Status,
	)
	if err != nil {
		return fmt.Errorf("failed to record sync run start: %w", err)
	}
	return nil
}

func (r *SyncRunRepository) Finish(ctx context.Context, run *domain.SyncRun) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE sync_runs SET
			finished_at = ?, rows_read = ?, rows_dropped = ?, duplicates = ?, records = ?,
			upserted = ?, ambiguous_dates = ?, status = ?, error = ?
		WHERE id = ?`,
		util.NullTime(run.FinishedAt), run.RowsRead, run.RowsDropped, run.Duplicates, run.Records,
		run.Upserted, run.AmbiguousDates, run.Status, util.NullStringPtr(run.Error),
		run.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to record sync run finish: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("sync run %s not found", run.ID)
	}
	return nil
}

func (r *SyncRunRepository) Latest(ctx context.Context) (*domain.SyncRun, error) {
	run, err := withRetry(ctx, func() (*domain.SyncRun, error) {
		return r.latest(ctx)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get latest sync run: %w", err)
	}
	return run, nil
}

func (r *SyncRunRepository) latest(ctx context.Context) (*domain.SyncRun, error) {
	var (
		run       domain.SyncRun
		startedAt string
		finished  sql.NullString
		errMsg    sql.NullString
	)
	err := r.db.QueryRowContext(ctx, `
		SELECT id, source, sink, started_at, finished_at, rows_read, rows_dropped, duplicates,
		       records, upserted, ambiguous_dates, status, error
		FROM sync_runs
		ORDER BY started_at DESC
		LIMIT 1`,
	).Scan(
		&run.ID, &run.Source, &run.Sink, &startedAt, &finished, &run.RowsRead, &run.RowsDropped,
		&run.Duplicates, &run.Records, &run.Upserted, &run.AmbiguousDates, &run.Status, &errMsg,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	run.StartedAt, _ = time.Parse(startedAtLayout, startedAt)
	run.FinishedAt = util.NullTimeToPtr(finished)
	run.Error = util.NullStringToPtr(errMsg)
	return &run, nil
}
