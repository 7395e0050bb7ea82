// Package metrics exposes Prometheus collectors for the dashboard service.
package metrics

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal          *prometheus.CounterVec
	httpRequestDurationSeconds *prometheus.HistogramVec
	datasetRowsLoaded          prometheus.Gauge
	datasetRowsDropped         *prometheus.CounterVec
	dashboardRendersTotal      prometheus.Counter
	scrapePagesTotal           prometheus.Counter
	scrapeBooksTotal           prometheus.Counter
	scrapeErrorsTotal          prometheus.Counter

	once sync.Once
)

// Init initializes the Prometheus metrics collectors.
// It is safe to call this function multiple times.
func Init() {
	once.Do(func() {
		httpRequestsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bookdash_http_requests_total",
				Help: "Total number of HTTP requests, labeled by method and code.",
			},
			[]string{"method", "code"},
		)

		httpRequestDurationSeconds = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "bookdash_http_request_duration_seconds",
				Help:    "Histogram of HTTP request latencies, labeled by method and route.",
				Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
			},
			[]string{"method", "route"},
		)

		datasetRowsLoaded = promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "bookdash_dataset_rows_loaded",
				Help: "Number of cleaned book records currently held in memory.",
			},
		)

		datasetRowsDropped = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bookdash_dataset_rows_dropped_total",
				Help: "Rows rejected during CSV cleaning, labeled by reason.",
			},
			[]string{"reason"},
		)

		dashboardRendersTotal = promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "bookdash_dashboard_renders_total",
				Help: "Total number of dashboard page renders.",
			},
		)

		scrapePagesTotal = promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "bookdash_scrape_pages_total",
				Help: "Catalogue pages fetched by the scrape command.",
			},
		)

		scrapeBooksTotal = promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "bookdash_scrape_books_total",
				Help: "Book records extracted by the scrape command.",
			},
		)

		scrapeErrorsTotal = promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "bookdash_scrape_errors_total",
				Help: "Request errors encountered by the scrape command.",
			},
		)
	})
}

// Handler returns an http.Handler for exposing Prometheus metrics.
func Handler() http.Handler {
	return promhttp.Handler()
}

// ObserveHTTPRequest increments the HTTP request metrics.
func ObserveHTTPRequest(method, route string, code int, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, strconv.Itoa(code)).Inc()
	httpRequestDurationSeconds.WithLabelValues(method, route).Observe(duration.Seconds())
}

// ObserveDatasetLoad records the outcome of a CSV load.
func ObserveDatasetLoad(loaded int, dropped map[string]int) {
	datasetRowsLoaded.Set(float64(loaded))
	for reason, n := range dropped {
		datasetRowsDropped.WithLabelValues(reason).Add(float64(n))
	}
}

// ObserveDashboardRender increments the page render counter.
func ObserveDashboardRender() {
	dashboardRendersTotal.Inc()
}

// ObserveScrapePage increments the fetched catalogue page counter.
func ObserveScrapePage() {
	scrapePagesTotal.Inc()
}

// ObserveScrapeBook increments the extracted book counter.
func ObserveScrapeBook() {
	scrapeBooksTotal.Inc()
}

// ObserveScrapeError increments the scrape error counter.
func ObserveScrapeError() {
	scrapeErrorsTotal.Inc()
}

// Middleware is a chi middleware that records HTTP request metrics.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := &responseWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(ww, r)

		routePattern := chi.RouteContext(r.Context()).RoutePattern()
		if routePattern == "" {
			routePattern = "unknown"
		}

		ObserveHTTPRequest(r.Method, routePattern, ww.status, time.Since(start))
	})
}

type responseWriter struct {
	http.ResponseWriter
	status int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.status = code
	rw.ResponseWriter.WriteHeader(code)
}
