// Package dashboard serves the interactive book dashboard over HTTP.
package dashboard

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"

	"bookdash/internal/books"
	"bookdash/internal/config"
	"bookdash/internal/metrics"
	"bookdash/internal/stats"
)

// aggregateCacheSize bounds the filter-keyed memo. Distinct filters come
// from a small form, so a handful of entries is plenty.
const aggregateCacheSize = 128

// Server wires HTTP handlers to the in-memory dataset.
type Server struct {
	router  chi.Router
	records []books.Book
	report  books.LoadReport
	source  string
	cfg     config.Config
	logger  *zap.Logger
	cache   *lru.Cache[string, aggregates]
}

// aggregates bundles everything the charts and KPI cards need for one
// filter. The dataset is immutable per process, so entries never expire.
type aggregates struct {
	Summary          stats.Summary       `json:"summary"`
	AvgPriceByRating []stats.RatingPrice `json:"avg_price_by_rating"`
	RatingDist       []stats.RatingCount `json:"rating_distribution"`
	PriceHist        []stats.PriceBucket `json:"price_histogram"`
	Availability     []stats.StatusCount `json:"availability"`
}

// NewServer constructs a Server with middleware and routes.
func NewServer(records []books.Book, report books.LoadReport, source string, cfg config.Config, logger *zap.Logger) (*Server, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	cache, err := lru.New[string, aggregates](aggregateCacheSize)
	if err != nil {
		return nil, fmt.Errorf("init aggregate cache: %w", err)
	}

	s := &Server{
		records: records,
		report:  report,
		source:  source,
		cfg:     cfg,
		logger:  logger,
		cache:   cache,
	}

	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(s.loggingMiddleware)
	r.Use(s.recoverMiddleware)
	r.Use(timeoutMiddleware(cfg.RequestTimeout()))
	r.Use(metrics.Middleware)

	r.Get("/", s.dashboard)
	r.Get("/healthz", s.healthz)
	r.Get("/readyz", s.readyz)
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/summary", s.apiSummary)
		r.Get("/books", s.apiBooks)
	})

	s.router = r
	return s, nil
}

// Handler returns the router for use with http.Server.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) readyz(w http.ResponseWriter, _ *http.Request) {
	if len(s.records) == 0 {
		writeError(w, http.StatusServiceUnavailable, "no records loaded")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func (s *Server) dashboard(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r.URL.Query())
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	hintW, hintH := screenHints(r.URL.Query())
	layout := ComputeLayout(hintW, hintH, s.cfg.Layout.FallbackWidth, s.cfg.Layout.FallbackHeight)

	view := s.buildView(filter, layout)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := renderDashboard(w, view); err != nil {
		s.logger.Error("render dashboard failed", zap.Error(err))
		return
	}
	metrics.ObserveDashboardRender()
}

func (s *Server) apiSummary(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, s.aggregatesFor(filter))
}

func (s *Server) apiBooks(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	matched := filter.Apply(s.records)
	writeJSON(w, http.StatusOK, map[string]any{
		"count": len(matched),
		"books": matched,
	})
}

// aggregatesFor memoizes the per-filter aggregate computation.
func (s *Server) aggregatesFor(filter stats.Filter) aggregates {
	key := filter.Key()
	if agg, ok := s.cache.Get(key); ok {
		return agg
	}

	matched := filter.Apply(s.records)
	agg := aggregates{
		Summary:          stats.Summarize(matched),
		AvgPriceByRating: stats.AvgPriceByRating(matched),
		RatingDist:       stats.RatingDistribution(matched),
		PriceHist:        stats.PriceHistogram(matched, 5),
		Availability:     stats.AvailabilityCounts(matched),
	}
	s.cache.Add(key, agg)
	return agg
}

// parseFilter decodes the filter query parameters. Repeated "rating" and
// "availability" parameters accumulate; prices are single values.
func parseFilter(q url.Values) (stats.Filter, error) {
	var f stats.Filter

	for _, raw := range q["rating"] {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 5 {
			return stats.Filter{}, fmt.Errorf("invalid rating %q", raw)
		}
		f.Ratings = append(f.Ratings, n)
	}

	if raw := q.Get("min_price"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || v < 0 {
			return stats.Filter{}, fmt.Errorf("invalid min_price %q", raw)
		}
		f.MinPrice = v
	}
	if raw := q.Get("max_price"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || v < 0 {
			return stats.Filter{}, fmt.Errorf("invalid max_price %q", raw)
		}
		f.MaxPrice = v
	}
	if f.MaxPrice > 0 && f.MinPrice > f.MaxPrice {
		return stats.Filter{}, fmt.Errorf("min_price %.2f exceeds max_price %.2f", f.MinPrice, f.MaxPrice)
	}

	f.Availability = append(f.Availability, q["availability"]...)
	return f, nil
}

func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := uuid.NewString()
		ctx := context.WithValue(r.Context(), requestIDKey{}, reqID)
		w.Header().Set("X-Request-ID", reqID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(ww, r)
		s.logger.Info("request completed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.status),
			zap.Int64("duration_ms", time.Since(start).Milliseconds()),
		)
	})
}

func (s *Server) recoverMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				s.logger.Error("panic recovered", zap.Any("error", rec))
				writeError(w, http.StatusInternalServerError, "internal server error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}

func timeoutMiddleware(d time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.TimeoutHandler(next, d, "request timed out")
	}
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (sw *statusWriter) WriteHeader(code int) {
	sw.status = code
	sw.ResponseWriter.WriteHeader(code)
}

type requestIDKey struct{}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		zap.L().Error("write JSON failed", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
