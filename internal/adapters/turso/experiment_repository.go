package turso

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/emiliopalmerini/crodash/internal/domain"
	"github.com/emiliopalmerini/crodash/internal/util"
)

const upsertExperiment = `
INSERT INTO experiments (
    id, code, title, description, status_name, category_name, start_date, end_date,
    date_created, result, url, elx_markets, aeg_markets, page_type, updated_at
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
    code = excluded.code,
    title = excluded.title,
    description = excluded.description,
    status_name = excluded.status_name,
    category_name = excluded.category_name,
    start_date = excluded.start_date,
    end_date = excluded.end_date,
    date_created = excluded.date_created,
    result = excluded.result,
    url = excluded.url,
    elx_markets = excluded.elx_markets,
    aeg_markets = excluded.aeg_markets,
    page_type = excluded.page_type,
    updated_at = excluded.updated_at`

const listExperiments = `
SELECT id, code, title, description, status_name, category_name, start_date, end_date,
       date_created, result, url, elx_markets, aeg_markets, page_type, updated_at
FROM experiments
ORDER BY id`

type ExperimentRepository struct {
	db *sql.DB
}

func NewExperimentRepository(db *sql.DB) *ExperimentRepository {
	return &ExperimentRepository{db: db}
}

// UpsertBatch writes records in one transaction, so a batch is applied
// entirely or not at all.
func (r *ExperimentRepository) UpsertBatch(ctx context.Context, records []domain.ExperimentRecord) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin upsert: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, upsertExperiment)
	if err != nil {
		return fmt.Errorf("failed to prepare upsert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, rec := range records {
		_, err := stmt.ExecContext(ctx,
			rec.ID, rec.Code, rec.Title, rec.Description, rec.StatusName, rec.CategoryName,
			util.NullStringPtr(rec.StartDate), util.NullStringPtr(rec.EndDate), util.NullStringPtr(rec.DateCreated),
			rec.Result, rec.URL, rec.ELXMarkets, rec.AEGMarkets, rec.PageType,
			rec.UpdatedAt.UTC().Format(time.RFC3339),
		)
		if err != nil {
			return fmt.Errorf("failed to upsert experiment %s: %w", rec.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit upsert: %w", err)
	}
	return nil
}

func (r *ExperimentRepository) List(ctx context.Context) ([]domain.ExperimentRecord, error) {
	records, err := withRetry(ctx, func() ([]domain.ExperimentRecord, error) {
		return r.list(ctx)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list experiments: %w", err)
	}
	return records, nil
}

func (r *ExperimentRepository) list(ctx context.Context) ([]domain.ExperimentRecord, error) {
	rows, err := r.db.QueryContext(ctx, listExperiments)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var records []domain.ExperimentRecord
	for rows.Next() {
		var (
			rec                 domain.ExperimentRecord
			start, end, created sql.NullString
			updatedAt           string
		)
		if err := rows.Scan(
			&rec.ID, &rec.Code, &rec.Title, &rec.Description, &rec.StatusName, &rec.CategoryName,
			&start, &end, &created, &rec.Result, &rec.URL, &rec.ELXMarkets, &rec.AEGMarkets,
			&rec.PageType, &updatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan experiment: %w", err)
		}
		rec.StartDate = util.NullStringToPtr(start)
		rec.EndDate = util.NullStringToPtr(end)
		rec.DateCreated = util.NullStringToPtr(created)
		ts, err := time.Parse(time.RFC3339, updatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to parse updated_at of experiment %s: %w", rec.ID, err)
		}
		rec.UpdatedAt = ts
		records = append(records, rec)
	}
	return records, rows.Err()
}
