// Package cmd defines and implements the CLI commands for the bookdash executable.
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"bookdash/internal/config"
	"bookdash/internal/logging"
)

var (
	cfgFile  string
	dataFile string

	// rootCfg is populated by the root command's PersistentPreRunE and
	// read by every subcommand.
	rootCfg config.Config
)

// newRootCmd creates and configures the root command.
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bookdash",
		Short: "An interactive dashboard for scraped book data.",
		Long: `bookdash loads a CSV of scraped book records, cleans the messy text
fields into numbers and booleans, and serves an interactive dashboard of
KPIs, charts and a detail table in the browser. It can also refresh the
dataset by scraping the source catalogue directly.`,

		SilenceUsage: true,

		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(cfgFile)
			if err != nil {
				return fmt.Errorf("load configuration: %w", err)
			}
			if dataFile != "" {
				cfg.Data.CSVPath = dataFile
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("validate configuration: %w", err)
			}

			logging.InitLogger(cfg.Logging.Development)
			rootCfg = cfg
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./bookdash.yaml)")
	cmd.PersistentFlags().StringVar(&dataFile, "data", "", "path to the book CSV (overrides data.csv_path)")

	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newScrapeCmd())
	cmd.AddCommand(newStatsCmd())

	return cmd
}

// Execute is the main entry point.
func Execute() {
	defer func() {
		_ = logging.L.Sync() // best-effort flush
	}()
	if err := newRootCmd().Execute(); err != nil {
		logging.L.Fatal("Command execution failed", zap.Error(err))
	}
}
