package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/gridsight/gridsight/internal/contract"
	"github.com/gridsight/gridsight/internal/httpserver"
)

// serveCmd runs the dashboard API server.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the dashboard JSON API over HTTP.",
	Long: `Start the HTTP server that backs the portfolio dashboard.

Endpoints:
  GET /healthz                               liveness probe
  GET /metrics                               Prometheus metrics
  GET /api/sites                             site listing
  GET /api/sites/{site}/categories           categories for one site
  GET /api/sites/{site}/files                file inventory for one site
  GET /api/sites/{site}/series/{kind}        assembled plot series

The result cache is shared across requests and swept on a timer, so repeated
plot loads within the TTL window hit memory instead of parquet.

Examples:
  # Serve on the default address
  gridsight serve --data-root /srv/portfolio

  # Serve on a custom port with debug logging
  gridsight serve --listen-addr :9090 --verbose`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		ctx, stop := signal.NotifyContext(rootCtx, os.Interrupt, syscall.SIGTERM)
		defer stop()

		pipeline.Cache.StartSweeping(ctx, cfg.SweepInterval)
		srv := httpserver.New(cfg.ListenAddr, pipeline, siteCat, registry, logger)

		errCh := make(chan error, 1)
		go func() { errCh <- srv.ListenAndServe() }()

		select {
		case err := <-errCh:
			if err != nil {
				contract.LogFatal("HTTP server failed", err)
			}
		case <-ctx.Done():
			logger.Info("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				contract.LogFatal("Shutdown failed", err)
			}
		}
	},
}
