package dashboard

import (
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"io"

	"bookdash/internal/books"
	"bookdash/internal/stats"
)

//go:embed templates/dashboard.html.tmpl
var templateFS embed.FS

var dashboardTmpl = template.Must(template.ParseFS(templateFS, "templates/dashboard.html.tmpl"))

// ratingOption is one checkbox in the rating filter.
type ratingOption struct {
	Rating   int
	Count    int
	Selected bool
}

// statusOption is one checkbox in the availability filter.
type statusOption struct {
	Status   string
	Count    int
	Selected bool
}

// dashboardView is everything the page template consumes.
type dashboardView struct {
	Title         string
	Source        string
	Layout        Layout
	Summary       stats.Summary
	Books         []books.Book
	HasCategory   bool
	TotalLoaded   int
	Dropped       int
	RatingOptions []ratingOption
	StatusOptions []statusOption
	MinPriceValue string
	MaxPriceValue string
	PriceFloor    float64
	PriceCeil     float64
	ChartData     template.JS
}

// chartPayload is marshaled into the page for the chart scripts.
type chartPayload struct {
	AvgPriceByRating []stats.RatingPrice `json:"avg_price_by_rating"`
	RatingDist       []stats.RatingCount `json:"rating_distribution"`
	PriceHist        []stats.PriceBucket `json:"price_histogram"`
	Availability     []stats.StatusCount `json:"availability"`
	ChartHeight      int                 `json:"chart_height"`
	FontBase         int                 `json:"font_base"`
}

func (s *Server) buildView(filter stats.Filter, layout Layout) dashboardView {
	agg := s.aggregatesFor(filter)
	matched := filter.Apply(s.records)

	selectedRatings := make(map[int]bool, len(filter.Ratings))
	for _, r := range filter.Ratings {
		selectedRatings[r] = true
	}
	selectedStatuses := make(map[string]bool, len(filter.Availability))
	for _, st := range filter.Availability {
		selectedStatuses[st] = true
	}

	full := stats.Summarize(s.records)

	var ratingOpts []ratingOption
	for _, rc := range stats.RatingDistribution(s.records) {
		ratingOpts = append(ratingOpts, ratingOption{
			Rating:   rc.Rating,
			Count:    rc.Count,
			Selected: len(selectedRatings) == 0 || selectedRatings[rc.Rating],
		})
	}

	var statusOpts []statusOption
	for _, sc := range stats.AvailabilityCounts(s.records) {
		statusOpts = append(statusOpts, statusOption{
			Status:   sc.Status,
			Count:    sc.Count,
			Selected: len(selectedStatuses) == 0 || selectedStatuses[sc.Status],
		})
	}

	hasCategory := false
	for _, b := range matched {
		if b.Category != "" {
			hasCategory = true
			break
		}
	}

	payload, err := json.Marshal(chartPayload{
		AvgPriceByRating: agg.AvgPriceByRating,
		RatingDist:       agg.RatingDist,
		PriceHist:        agg.PriceHist,
		Availability:     agg.Availability,
		ChartHeight:      layout.ChartHeight,
		FontBase:         layout.FontBase,
	})
	if err != nil {
		// Marshaling plain structs of numbers and strings cannot fail;
		// fall back to an empty object if it somehow does.
		payload = []byte("{}")
	}

	view := dashboardView{
		Title:         "Books Dashboard",
		Source:        s.source,
		Layout:        layout,
		Summary:       agg.Summary,
		Books:         matched,
		HasCategory:   hasCategory,
		TotalLoaded:   s.report.Loaded,
		Dropped:       s.report.DropTotal(),
		RatingOptions: ratingOpts,
		StatusOptions: statusOpts,
		PriceFloor:    full.MinPrice,
		PriceCeil:     full.MaxPrice,
		ChartData:     template.JS(payload),
	}
	if filter.MinPrice > 0 {
		view.MinPriceValue = fmt.Sprintf("%.2f", filter.MinPrice)
	}
	if filter.MaxPrice > 0 {
		view.MaxPriceValue = fmt.Sprintf("%.2f", filter.MaxPrice)
	}
	return view
}

func renderDashboard(w io.Writer, view dashboardView) error {
	if err := dashboardTmpl.Execute(w, view); err != nil {
		return fmt.Errorf("execute dashboard template: %w", err)
	}
	return nil
}
