package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/emiliopalmerini/crodash/internal/adapters/otel"
	"github.com/emiliopalmerini/crodash/internal/adapters/storage"
	"github.com/emiliopalmerini/crodash/internal/domain"
	"github.com/emiliopalmerini/crodash/internal/ingest"
	"github.com/emiliopalmerini/crodash/internal/util"
)

var (
	syncSource string
	syncSink   string
	syncLegacy bool
	syncDryRun bool
	syncReplay string
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Fetch experiments from a source and upsert them into a sink",
	Long: `Fetch every row from the live source, optionally enrich it with the legacy
spreadsheet, normalize the rows and upsert the records in batches.

Each run is recorded in the sync_runs ledger. Use --replay to re-run the
pipeline over the raw rows archived by an earlier run.`,
	RunE: runSync,
}

func init() {
	syncCmd.Flags().StringVar(&syncSource, "source", "", "live source: sheet or ideation (default from CRODASH_SYNC_SOURCE)")
	syncCmd.Flags().StringVar(&syncSink, "sink", "", "sink: turso or postgres (default from CRODASH_SYNC_SINK)")
	syncCmd.Flags().BoolVar(&syncLegacy, "legacy-sheet", false, "enrich live rows with the legacy spreadsheet")
	syncCmd.Flags().BoolVar(&syncDryRun, "dry-run", false, "run the pipeline without writing records or the ledger")
	syncCmd.Flags().StringVar(&syncReplay, "replay", "", "replay the archived rows of a previous run id")
}

func runSync(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	source := firstNonEmpty(syncSource, cfg.Sync.Source)
	sink := firstNonEmpty(syncSink, cfg.Sync.Sink)

	app, err := NewAppContext(ctx, cfg, sink)
	if err != nil {
		return err
	}
	defer app.Close()

	req, snapshots, err := buildSyncRequest(ctx, source, sink)
	if err != nil {
		return err
	}

	metrics, err := otel.New(ctx, cfg.OTel)
	if err != nil {
		return err
	}
	defer func() {
		if err := metrics.Close(context.WithoutCancel(ctx)); err != nil {
			logger.Warn("failed to close metrics exporter", zap.Error(err))
		}
	}()

	policy, err := cfg.StatusPolicy()
	if err != nil {
		return err
	}

	deps := ingest.Deps{
		Store:     app.Experiments,
		Runs:      app.Runs,
		Metrics:   metrics,
		Logger:    logger,
		BatchSize: cfg.Sync.BatchSize,
		Policy:    policy,
	}
	// A nil *SnapshotStorage must not reach the interface field.
	if snapshots != nil {
		deps.Snapshots = snapshots
	}

	run, runErr := ingest.NewService(deps).Run(ctx, req)
	if run != nil {
		printRunSummary(cmd.OutOrStdout(), run, syncDryRun)
	}
	return runErr
}

// buildSyncRequest resolves the live and legacy sources. Snapshot storage is
// returned when rows should be archived.
func buildSyncRequest(ctx context.Context, source, sink string) (ingest.Request, *storage.SnapshotStorage, error) {
	req := ingest.Request{Sink: sink, DryRun: syncDryRun}

	var snapshots *storage.SnapshotStorage
	if cfg.Sync.Snapshots || syncReplay != "" {
		s, err := storage.NewSnapshotStorage()
		if err != nil {
			return req, nil, err
		}
		snapshots = s
	}

	mapping, err := loadMapping(cfg.Sync)
	if err != nil {
		return req, nil, err
	}

	if syncReplay != "" {
		req.Live = storage.NewReplay(snapshots, syncReplay, ingest.RoleLive)
		if syncLegacy {
			req.Legacy = storage.NewReplay(snapshots, syncReplay, ingest.RoleLegacy)
		}
		// Replayed rows are already archived.
		return req, nil, nil
	}

	live, err := liveSource(ctx, cfg, mapping, source)
	if err != nil {
		return req, nil, err
	}
	req.Live = live

	if syncLegacy {
		legacy, err := legacySource(cfg, mapping)
		if err != nil {
			return req, nil, err
		}
		req.Legacy = legacy
	}
	if !cfg.Sync.Snapshots {
		snapshots = nil
	}
	return req, snapshots, nil
}

func printRunSummary(w io.Writer, run *domain.SyncRun, dryRun bool) {
	mode := ""
	if dryRun {
		mode = " (dry run)"
	}
	fmt.Fprintf(w, "Sync %s %s%s\n", run.ID, run.Status, mode)
	fmt.Fprintf(w, "  Source:     %s\n", run.Source)
	fmt.Fprintf(w, "  Sink:       %s\n", run.Sink)
	fmt.Fprintf(w, "  Rows read:  %s\n", util.FormatNumber(run.RowsRead))
	fmt.Fprintf(w, "  Dropped:    %s\n", util.FormatNumber(run.RowsDropped))
	fmt.Fprintf(w, "  Duplicates: %s\n", util.FormatNumber(run.Duplicates))
	fmt.Fprintf(w, "  Records:    %s\n", util.FormatNumber(run.Records))
	fmt.Fprintf(w, "  Upserted:   %s\n", util.FormatNumber(run.Upserted))
	if run.AmbiguousDates > 0 {
		fmt.Fprintf(w, "  Ambiguous:  %s dates\n", util.FormatNumber(run.AmbiguousDates))
	}
	if d := run.Duration(); d > 0 {
		fmt.Fprintf(w, "  Duration:   %s\n", util.FormatDuration(d))
	}
	if run.Error != nil {
		fmt.Fprintf(w, "  Error:      %s\n", *run.Error)
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
