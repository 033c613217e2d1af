package cli

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/emiliopalmerini/crodash/internal/adapters/postgres"
	"github.com/emiliopalmerini/crodash/internal/adapters/turso"
	"github.com/emiliopalmerini/crodash/internal/config"
	"github.com/emiliopalmerini/crodash/internal/ports"
)

// AppContext holds the shared dependencies of the data commands.
type AppContext struct {
	DB       *sql.DB
	Postgres *postgres.Store

	Experiments ports.ExperimentStore
	Runs        ports.SyncRunRepository
}

// NewAppContext opens the libsql database, which always holds the run
// ledger, and the store selected by sink.
func NewAppContext(ctx context.Context, c *config.Config, sink string) (*AppContext, error) {
	dbURL, err := databaseURL(c.Database)
	if err != nil {
		return nil, err
	}
	db, err := turso.NewDB(ctx, dbURL, c.Database.AuthToken)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	app := &AppContext{
		DB:          db,
		Experiments: turso.NewExperimentRepository(db),
		Runs:        turso.NewSyncRunRepository(db),
	}

	switch sink {
	case "", config.SinkTurso:
	case config.SinkPostgres:
		if c.Postgres.URL == "" {
			_ = db.Close()
			return nil, fmt.Errorf("CRODASH_POSTGRES_URL is required for the postgres sink")
		}
		store, err := postgres.Open(ctx, c.Postgres.URL)
		if err != nil {
			_ = db.Close()
			return nil, err
		}
		if err := store.EnsureSchema(ctx); err != nil {
			store.Close()
			_ = db.Close()
			return nil, err
		}
		app.Postgres = store
		app.Experiments = store
	default:
		_ = db.Close()
		return nil, fmt.Errorf("unknown sink %q", sink)
	}

	logger.Debug("app context ready", zap.String("sink", sink))
	return app, nil
}

// Close releases all resources held by the AppContext.
func (a *AppContext) Close() error {
	if a.Postgres != nil {
		a.Postgres.Close()
	}
	if a.DB != nil {
		return a.DB.Close()
	}
	return nil
}
