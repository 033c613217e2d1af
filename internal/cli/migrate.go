package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/emiliopalmerini/crodash/internal/adapters/turso"
	"github.com/emiliopalmerini/crodash/internal/migrate"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate [version]",
	Short: "Run database migrations",
	Long: `Run database migrations to bring the libsql schema up to date.

Without arguments, migrates to the latest version.
With a version number, migrates up or down to that version.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runMigrate,
}

var migrateStatus bool

func init() {
	migrateCmd.Flags().BoolVar(&migrateStatus, "status", false, "print the current schema version and exit")
}

func runMigrate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	target := -1
	if len(args) > 0 {
		v, err := strconv.Atoi(args[0])
		if err != nil || v < 0 {
			return fmt.Errorf("invalid version %q", args[0])
		}
		target = v
	}

	dbURL, err := databaseURL(cfg.Database)
	if err != nil {
		return err
	}
	db, err := turso.NewDB(ctx, dbURL, cfg.Database.AuthToken)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	m := migrate.New(db, logger)
	if !migrateStatus {
		if err := m.To(ctx, target); err != nil {
			return err
		}
	} else if err := m.EnsureTable(ctx); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	version, dirty, err := m.CurrentVersion(ctx)
	if err != nil {
		return fmt.Errorf("failed to get current version: %w", err)
	}
	state := ""
	if dirty {
		state = " (dirty)"
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Schema version: %d%s\n", version, state)
	return nil
}
