package migrate

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/emiliopalmerini/crodash/migrations"
)

var upPattern = regexp.MustCompile(`^(\d+)_(.+)\.up\.sql$`)

// Migration represents a single schema migration with up and down SQL.
type Migration struct {
	Version int
	Name    string
	UpSQL   string
	DownSQL string
}

// Migrator applies migrations to one database.
type Migrator struct {
	db  *sql.DB
	fs  fs.FS
	log *zap.Logger
}

// New returns a Migrator over the embedded migrations.
func New(db *sql.DB, log *zap.Logger) *Migrator {
	return NewWithFS(db, migrations.FS, log)
}

// NewWithFS returns a Migrator reading migration files from fsys.
func NewWithFS(db *sql.DB, fsys fs.FS, log *zap.Logger) *Migrator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Migrator{db: db, fs: fsys, log: log}
}

// EnsureTable creates the schema_migrations table if it doesn't exist.
func (m *Migrator) EnsureTable(ctx context.Context) error {
	_, err := m.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			dirty INTEGER NOT NULL DEFAULT 0
		)
	`)
	return err
}

// CurrentVersion returns the applied version and dirty state.
func (m *Migrator) CurrentVersion(ctx context.Context) (int, bool, error) {
	var version, dirty int
	err := m.db.QueryRowContext(ctx, `SELECT version, dirty FROM schema_migrations ORDER BY version DESC LIMIT 1`).Scan(&version, &dirty)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return version, dirty == 1, nil
}

func (m *Migrator) setVersion(ctx context.Context, version int, dirty bool) error {
	dirtyInt := 0
	if dirty {
		dirtyInt = 1
	}
	if _, err := m.db.ExecContext(ctx, `DELETE FROM schema_migrations`); err != nil {
		return err
	}
	if version <= 0 {
		return nil
	}
	_, err := m.db.ExecContext(ctx, `INSERT INTO schema_migrations (version, dirty) VALUES (?, ?)`, version, dirtyInt)
	return err
}

// Load reads every migration file and returns them sorted by version.
func (m *Migrator) Load() ([]Migration, error) {
	var result []Migration

	err := fs.WalkDir(m.fs, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		matches := upPattern.FindStringSubmatch(path.Base(p))
		if matches == nil {
			return nil
		}

		version, _ := strconv.Atoi(matches[1])
		up, err := fs.ReadFile(m.fs, p)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", p, err)
		}
		down, _ := fs.ReadFile(m.fs, path.Join(path.Dir(p), matches[1]+"_"+matches[2]+".down.sql"))

		result = append(result, Migration{
			Version: version,
			Name:    matches[2],
			UpSQL:   string(up),
			DownSQL: string(down),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	slices.SortFunc(result, func(a, b Migration) int { return a.Version - b.Version })
	return result, nil
}

func (m *Migrator) run(ctx context.Context, mig Migration, up bool) error {
	direction, content, target := "up", mig.UpSQL, mig.Version
	if !up {
		direction, content, target = "down", mig.DownSQL, mig.Version-1
	}
	m.log.Info("applying migration",
		zap.String("direction", direction),
		zap.Int("version", mig.Version),
		zap.String("name", mig.Name))

	if err := m.setVersion(ctx, mig.Version, true); err != nil {
		return fmt.Errorf("failed to set dirty flag: %w", err)
	}
	for _, stmt := range SplitSQL(content) {
		if _, err := m.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to execute migration %d %s: %w\nSQL: %s", mig.Version, direction, err, stmt)
		}
	}
	if err := m.setVersion(ctx, target, false); err != nil {
		return fmt.Errorf("failed to clear dirty flag: %w", err)
	}
	return nil
}

// SplitSQL splits a script on semicolons, dropping blank statements.
func SplitSQL(script string) []string {
	var out []string
	for _, stmt := range strings.Split(script, ";") {
		if stmt = strings.TrimSpace(stmt); stmt != "" {
			out = append(out, stmt)
		}
	}
	return out
}

// To migrates up or down to target. A negative target means the latest
// version.
func (m *Migrator) To(ctx context.Context, target int) error {
	if err := m.EnsureTable(ctx); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}
	current, dirty, err := m.CurrentVersion(ctx)
	if err != nil {
		return fmt.Errorf("failed to get current version: %w", err)
	}
	if dirty {
		return fmt.Errorf("database is in dirty state at version %d", current)
	}
	all, err := m.Load()
	if err != nil {
		return fmt.Errorf("failed to load migrations: %w", err)
	}
	if target < 0 && len(all) > 0 {
		target = all[len(all)-1].Version
	}

	switch {
	case target > current:
		for _, mig := range all {
			if mig.Version <= current || mig.Version > target {
				continue
			}
			if err := m.run(ctx, mig, true); err != nil {
				return err
			}
		}
	case target < current:
		for i := len(all) - 1; i >= 0; i-- {
			mig := all[i]
			if mig.Version > current || mig.Version <= target {
				continue
			}
			if mig.DownSQL == "" {
				return fmt.Errorf("no down migration for version %d", mig.Version)
			}
			if err := m.run(ctx, mig, false); err != nil {
				return err
			}
		}
	default:
		m.log.Info("no migrations to run", zap.Int("version", current))
		return nil
	}

	m.log.Info("migrated", zap.Int("from", current), zap.Int("to", target))
	return nil
}

// RunAll applies every pending embedded migration.
func RunAll(ctx context.Context, db *sql.DB) error {
	return New(db, nil).To(ctx, -1)
}
