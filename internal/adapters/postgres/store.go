// Package postgres upserts experiment records into a Postgres (Supabase)
// table.
package postgres

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/emiliopalmerini/crodash/internal/domain"
)

//go:embed schema.sql
var schemaSQL string

const upsertSQL = `
INSERT INTO experiments (
    id, code, title, description, status_name, category_name, start_date, end_date,
    date_created, result, url, elx_markets, aeg_markets, page_type, updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
ON CONFLICT (id) DO UPDATE SET
    code = EXCLUDED.code,
    title = EXCLUDED.title,
    description = EXCLUDED.description,
    status_name = EXCLUDED.status_name,
    category_name = EXCLUDED.category_name,
    start_date = EXCLUDED.start_date,
    end_date = EXCLUDED.end_date,
    date_created = EXCLUDED.date_created,
    result = EXCLUDED.result,
    url = EXCLUDED.url,
    elx_markets = EXCLUDED.elx_markets,
    aeg_markets = EXCLUDED.aeg_markets,
    page_type = EXCLUDED.page_type,
    updated_at = EXCLUDED.updated_at`

const listSQL = `
SELECT id, code, title, description, status_name, category_name, start_date, end_date,
       date_created, result, url, elx_markets, aeg_markets, page_type, updated_at
FROM experiments
ORDER BY id`

// Store is an ExperimentStore backed by a pgx connection pool.
type Store struct {
	pool *pgxpool.Pool
}

// Open connects to connString and verifies the connection.
func Open(ctx context.Context, connString string) (*Store, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, fmt.Errorf("failed to create postgres pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}
	return &Store{pool: pool}, nil
}

// NewStore wraps an existing pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

func (s *Store) Close() {
	s.pool.Close()
}

// EnsureSchema creates the experiments table when it is missing.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("failed to ensure postgres schema: %w", err)
	}
	return nil
}

// UpsertBatch sends every record of one batch in a single round trip inside
// a transaction.
func (s *Store) UpsertBatch(ctx context.Context, records []domain.ExperimentRecord) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin upsert: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	batch := queueUpserts(records)
	br := tx.SendBatch(ctx, batch)
	for _, rec := range records {
		if _, err := br.Exec(); err != nil {
			_ = br.Close()
			return fmt.Errorf("failed to upsert experiment %s: %w", rec.ID, err)
		}
	}
	if err := br.Close(); err != nil {
		return fmt.Errorf("failed to close upsert batch: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit upsert: %w", err)
	}
	return nil
}

func queueUpserts(records []domain.ExperimentRecord) *pgx.Batch {
	b := &pgx.Batch{}
	for _, rec := range records {
		b.Queue(upsertSQL,
			rec.ID, rec.Code, rec.Title, rec.Description, rec.StatusName, rec.CategoryName,
			rec.StartDate, rec.EndDate, rec.DateCreated,
			rec.Result, rec.URL, rec.ELXMarkets, rec.AEGMarkets, rec.PageType,
			rec.UpdatedAt.UTC(),
		)
	}
	return b
}

func (s *Store) List(ctx context.Context) ([]domain.ExperimentRecord, error) {
	rows, err := s.pool.Query(ctx, listSQL)
	if err != nil {
		return nil, fmt.Errorf("failed to list experiments: %w", err)
	}
	records, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.ExperimentRecord, error) {
		var rec domain.ExperimentRecord
		err := row.Scan(
			&rec.ID, &rec.Code, &rec.Title, &rec.Description, &rec.StatusName, &rec.CategoryName,
			&rec.StartDate, &rec.EndDate, &rec.DateCreated, &rec.Result, &rec.URL,
			&rec.ELXMarkets, &rec.AEGMarkets, &rec.PageType, &rec.UpdatedAt,
		)
		return rec, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan experiments: %w", err)
	}
	return records, nil
}
