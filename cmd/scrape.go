package cmd

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"bookdash/internal/logging"
	"bookdash/internal/metrics"
	"bookdash/internal/scrape"
)

// newScrapeCmd creates and configures the 'scrape' subcommand.
func newScrapeCmd() *cobra.Command {
	var (
		output   string
		maxPages int
		details  bool
	)

	cmd := &cobra.Command{
		Use:   "scrape",
		Short: "Scrapes the book catalogue into a CSV",
		Long: `Walks the configured catalogue site page by page, extracts and cleans
each book record, and writes the result to a CSV the serve command can
load. Detail pages add category and description columns.`,

		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := rootCfg.Scrape
			if output != "" {
				cfg.Output = output
			}
			if maxPages > 0 {
				cfg.MaxPages = maxPages
			}
			if cmd.Flags().Changed("details") {
				cfg.FetchDetails = details
			}

			logger := logging.L
			metrics.Init()

			s, err := scrape.NewScraper(cfg, logger)
			if err != nil {
				return fmt.Errorf("init scraper: %w", err)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			logger.Info("scrape starting",
				zap.String("base_url", cfg.BaseURL),
				zap.Int("max_pages", cfg.MaxPages),
				zap.Bool("fetch_details", cfg.FetchDetails),
			)

			result, err := s.Run(ctx)
			if err != nil {
				return fmt.Errorf("scrape: %w", err)
			}
			if len(result.Books) == 0 {
				return fmt.Errorf("no books scraped from %s", cfg.BaseURL)
			}

			if err := scrape.WriteCSV(cfg.Output, result.Books); err != nil {
				return fmt.Errorf("write %s: %w", cfg.Output, err)
			}

			logger.Info("scrape finished",
				zap.Int("books", len(result.Books)),
				zap.Int("pages", result.Pages),
				zap.Int("skipped", result.Skipped),
				zap.Int("errors", result.Errors),
				zap.Duration("elapsed", result.Elapsed),
				zap.String("output", cfg.Output),
			)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output CSV path (overrides scrape.output)")
	cmd.Flags().IntVar(&maxPages, "max-pages", 0, "maximum catalogue pages to visit (overrides scrape.max_pages)")
	cmd.Flags().BoolVar(&details, "details", true, "fetch per-book detail pages for category and description")

	return cmd
}
