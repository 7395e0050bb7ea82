package cmd

import (
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"bookdash/internal/books"
	"bookdash/internal/logging"
	"bookdash/internal/stats"
)

// newStatsCmd creates and configures the 'stats' subcommand.
func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Prints dataset statistics to the terminal",
		Long: `Loads and cleans the configured CSV, then prints the same KPIs and
breakdowns the dashboard shows, as terminal tables. Useful for a quick
look at a freshly scraped file without starting the server.`,

		RunE: runStatsCommand,
	}
	return cmd
}

func runStatsCommand(_ *cobra.Command, _ []string) error {
	cfg := rootCfg

	records, report, err := books.LoadCSV(cfg.Data.CSVPath)
	if err != nil {
		return fmt.Errorf("load %s: %w", cfg.Data.CSVPath, err)
	}
	if len(records) == 0 {
		return fmt.Errorf("no usable records in %s", cfg.Data.CSVPath)
	}
	logging.L.Info("dataset loaded",
		zap.String("path", cfg.Data.CSVPath),
		zap.Int("loaded", report.Loaded),
		zap.Int("dropped", report.DropTotal()),
	)

	summary := stats.Summarize(records)

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetTitle("Key Performance Indicators")
	t.AppendHeader(table.Row{"Metric", "Value"})
	t.AppendRow(table.Row{"Total Books", summary.TotalBooks})
	t.AppendRow(table.Row{"Average Price", fmt.Sprintf("£%.2f", summary.AvgPrice)})
	t.AppendRow(table.Row{"Min Price", fmt.Sprintf("£%.2f", summary.MinPrice)})
	t.AppendRow(table.Row{"Max Price", fmt.Sprintf("£%.2f", summary.MaxPrice)})
	t.AppendRow(table.Row{"Average Rating", fmt.Sprintf("%.2f", summary.AvgRating)})
	t.AppendRow(table.Row{"Books in Stock", summary.InStock})
	t.AppendRow(table.Row{"In Stock Rate", fmt.Sprintf("%.1f%%", summary.AvailabilityRate)})
	t.SetStyle(table.StyleRounded)
	t.Render()

	t = table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetTitle("Average Price by Rating")
	t.AppendHeader(table.Row{"Rating", "Avg Price", "Books"})
	for _, rp := range stats.AvgPriceByRating(records) {
		t.AppendRow(table.Row{rp.Rating, fmt.Sprintf("£%.2f", rp.AvgPrice), rp.Count})
	}
	t.SetStyle(table.StyleRounded)
	t.Render()

	t = table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetTitle("Price Distribution")
	t.AppendHeader(table.Row{"Bucket", "Books"})
	for _, b := range stats.PriceHistogram(records, 5) {
		t.AppendRow(table.Row{b.Label, b.Count})
	}
	t.SetStyle(table.StyleRounded)
	t.Render()

	t = table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetTitle("Availability")
	t.AppendHeader(table.Row{"Status", "Books"})
	for _, sc := range stats.AvailabilityCounts(records) {
		t.AppendRow(table.Row{sc.Status, sc.Count})
	}
	t.SetStyle(table.StyleRounded)
	t.Render()

	if report.DropTotal() > 0 {
		t = table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.SetTitle("Rows Dropped During Cleaning")
		t.AppendHeader(table.Row{"Reason", "Rows"})
		for reason, n := range report.Dropped {
			t.AppendRow(table.Row{reason, n})
		}
		t.SetStyle(table.StyleRounded)
		t.Render()
	}

	return nil
}
