package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/emiliopalmerini/crodash/internal/web"
)

var (
	serveAddr            string
	serveRefreshInterval time.Duration
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the experiment dashboard",
	Long: `Load the stored experiments into memory and serve the dashboard pages
and JSON API. With --refresh-interval the collection is rebuilt from the
store periodically; POST /api/refresh rebuilds it on demand.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from CRODASH_SERVER_ADDR)")
	serveCmd.Flags().DurationVar(&serveRefreshInterval, "refresh-interval", 0, "rebuild the collection from the store at this interval")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := NewAppContext(ctx, cfg, cfg.Sync.Sink)
	if err != nil {
		return err
	}
	defer app.Close()

	policy, err := cfg.StatusPolicy()
	if err != nil {
		return err
	}
	missing, err := cfg.MissingDatePolicy()
	if err != nil {
		return err
	}

	catalog := web.NewCatalog(app.Experiments, policy, time.Now, logger)
	if _, err := catalog.Refresh(ctx); err != nil {
		return err
	}

	server := web.NewServer(web.Deps{
		Catalog:      catalog,
		Runs:         app.Runs,
		MissingDates: missing,
		Logger:       logger,
	})

	addr := firstNonEmpty(serveAddr, cfg.Server.Addr)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return server.Start(ctx, addr, cfg.Server.ShutdownTimeout)
	})
	if serveRefreshInterval > 0 {
		g.Go(func() error {
			refreshLoop(ctx, catalog, serveRefreshInterval)
			return nil
		})
	}
	return g.Wait()
}

// refreshLoop keeps serving the previous collection when a refresh fails.
func refreshLoop(ctx context.Context, catalog *web.Catalog, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := catalog.Refresh(ctx); err != nil {
				logger.Warn("catalog refresh failed", zap.Error(err))
			}
		}
	}
}
