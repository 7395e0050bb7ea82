package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"bookdash/internal/books"
	"bookdash/internal/dashboard"
	"bookdash/internal/logging"
	"bookdash/internal/metrics"
)

// newServeCmd creates and configures the 'serve' subcommand.
func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serves the book dashboard over HTTP",
		Long: `Loads the configured CSV, cleans it, and serves the dashboard until
interrupted. Open the printed address in a browser; the page reports the
screen resolution and the layout adapts to it.`,

		RunE: runServeCommand,
	}
	return cmd
}

func runServeCommand(cmd *cobra.Command, _ []string) error {
	cfg := rootCfg
	logger := logging.L

	metrics.Init()

	records, report, err := books.LoadCSV(cfg.Data.CSVPath)
	if err != nil {
		return fmt.Errorf("load %s: %w", cfg.Data.CSVPath, err)
	}
	metrics.ObserveDatasetLoad(report.Loaded, report.Dropped)
	logger.Info("dataset loaded",
		zap.String("path", cfg.Data.CSVPath),
		zap.Int("rows", report.Rows),
		zap.Int("loaded", report.Loaded),
		zap.Int("dropped", report.DropTotal()),
	)
	for reason, n := range report.Dropped {
		logger.Warn("rows dropped during cleaning", zap.String("reason", reason), zap.Int("count", n))
	}

	srv, err := dashboard.NewServer(records, report, cfg.Data.CSVPath, cfg, logger)
	if err != nil {
		return fmt.Errorf("init dashboard server: %w", err)
	}

	httpSrv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("dashboard listening",
			zap.String("addr", fmt.Sprintf("http://localhost:%d", cfg.Server.Port)),
		)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.RequestTimeout())
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	logger.Info("server stopped")
	return nil
}
