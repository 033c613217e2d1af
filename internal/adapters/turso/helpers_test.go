package turso_test

import (
	"context"
	"database/sql"
	"testing"

	_ "github.com/tursodatabase/go-libsql"

	"github.com/emiliopalmerini/crodash/internal/migrate"
)

func testDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("libsql", "file::memory:")
	if err != nil {
		t.Fatalf("Failed to open in-memory database: %v", err)
	}
	// One connection keeps every query on the same in-memory database.
	db.SetMaxOpenConns(1)

	ctx := context.Background()
	if err := migrate.RunAll(ctx, db); err != nil {
		_ = db.Close()
		t.Fatalf("Failed to run migrations: %v", err)
	}

	t.Cleanup(func() { _ = db.Close() })
	return db
}

func strPtr(s string) *string { return &s }
