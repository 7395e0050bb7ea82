// Package scrape collects book records from a books.toscrape.com style
// catalogue and hands them to the CSV writer the dashboard loads from.
package scrape

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gocolly/colly/v2"
	"go.uber.org/zap"

	"bookdash/internal/books"
	"bookdash/internal/config"
	"bookdash/internal/metrics"
)

// Result summarizes one crawl.
type Result struct {
	Books   []books.Book
	Pages   int
	Skipped int
	Errors  int
	Elapsed time.Duration
}

// Scraper walks catalogue pages and, optionally, per-book detail pages.
type Scraper struct {
	cfg     config.ScrapeConfig
	logger  *zap.Logger
	listing *colly.Collector
	detail  *colly.Collector

	mu      sync.Mutex
	found   []pendingBook
	pages   int
	skipped int
	errors  int
}

// pendingBook holds a listing-page record until its detail page fills in
// category and description.
type pendingBook struct {
	book      books.Book
	detailURL string
}

// NewScraper builds a scraper for cfg's base URL.
func NewScraper(cfg config.ScrapeConfig, logger *zap.Logger) (*Scraper, error) {
	parsed, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if parsed.Host == "" {
		return nil, fmt.Errorf("base url %q must include a host", cfg.BaseURL)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	listing := colly.NewCollector(
		colly.AllowedDomains(parsed.Host),
		colly.UserAgent(cfg.UserAgent),
	)
	listing.SetRequestTimeout(cfg.Timeout())
	if err := listing.Limit(&colly.LimitRule{
		DomainGlob: "*",
		Delay:      cfg.Delay(),
	}); err != nil {
		return nil, fmt.Errorf("configure rate limit: %w", err)
	}

	s := &Scraper{
		cfg:     cfg,
		logger:  logger,
		listing: listing,
		detail:  listing.Clone(),
	}
	return s, nil
}

// WithTransport swaps the HTTP transport on both collectors. Tests use it
// to serve canned pages.
func (s *Scraper) WithTransport(rt http.RoundTripper) {
	s.listing.WithTransport(rt)
	s.detail.WithTransport(rt)
}

// Run crawls the catalogue and returns the cleaned records. Listing pages
// are walked in order up to cfg.MaxPages; when cfg.FetchDetails is set the
// detail page of every record is fetched afterwards.
func (s *Scraper) Run(ctx context.Context) (*Result, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	start := time.Now()
	s.registerListingHandlers(ctx)

	if err := s.listing.Visit(s.cfg.BaseURL); err != nil {
		return nil, fmt.Errorf("visit %s: %w", s.cfg.BaseURL, err)
	}
	s.listing.Wait()

	if s.cfg.FetchDetails && ctx.Err() == nil {
		s.fetchDetails(ctx)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]books.Book, 0, len(s.found))
	for _, p := range s.found {
		out = append(out, p.book)
	}
	return &Result{
		Books:   out,
		Pages:   s.pages,
		Skipped: s.skipped,
		Errors:  s.errors,
		Elapsed: time.Since(start),
	}, nil
}

func (s *Scraper) registerListingHandlers(ctx context.Context) {
	s.listing.OnRequest(func(r *colly.Request) {
		if ctx.Err() != nil {
			r.Abort()
			return
		}
		s.logger.Debug("fetching page", zap.String("url", r.URL.String()))
	})

	s.listing.OnError(func(r *colly.Response, err error) {
		s.mu.Lock()
		s.errors++
		s.mu.Unlock()
		metrics.ObserveScrapeError()

		target := ""
		if r != nil && r.Request != nil && r.Request.URL != nil {
			target = r.Request.URL.String()
		}
		s.logger.Error("page fetch failed", zap.String("url", target), zap.Error(err))
	})

	s.listing.OnScraped(func(r *colly.Response) {
		s.mu.Lock()
		s.pages++
		s.mu.Unlock()
		metrics.ObserveScrapePage()
	})

	s.listing.OnHTML("article.product_pod", func(e *colly.HTMLElement) {
		book, detailURL, err := extractBook(e)
		if err != nil {
			s.mu.Lock()
			s.skipped++
			s.mu.Unlock()
			s.logger.Warn("skipping product",
				zap.String("page", e.Request.URL.String()),
				zap.Error(err),
			)
			return
		}

		s.mu.Lock()
		s.found = append(s.found, pendingBook{book: book, detailURL: detailURL})
		s.mu.Unlock()
		metrics.ObserveScrapeBook()
	})

	s.listing.OnHTML("li.next a", func(e *colly.HTMLElement) {
		// Depth counts chained visits starting at 1, so it equals the
		// number of the catalogue page being parsed. The page counter
		// cannot be used here: OnScraped runs after this handler.
		if e.Request.Depth >= s.cfg.MaxPages {
			return
		}
		if ctx.Err() != nil {
			return
		}
		next := e.Request.AbsoluteURL(e.Attr("href"))
		if err := e.Request.Visit(next); err != nil {
			s.logger.Debug("pagination visit", zap.String("url", next), zap.Error(err))
		}
	})
}

// extractBook pulls one record out of a catalogue tile and cleans its
// fields. Records with unparseable prices or ratings are rejected here so
// the CSV output never needs a second cleaning pass.
func extractBook(e *colly.HTMLElement) (books.Book, string, error) {
	title := strings.TrimSpace(e.ChildAttr("h3 a", "title"))
	if title == "" {
		title = strings.TrimSpace(e.ChildText("h3 a"))
	}
	if title == "" {
		return books.Book{}, "", fmt.Errorf("product tile has no title")
	}

	price, err := books.ParsePrice(e.ChildText("p.price_color"))
	if err != nil {
		return books.Book{}, "", fmt.Errorf("price for %q: %w", title, err)
	}

	ratingWord := ""
	if parts := strings.Fields(e.ChildAttr("p.star-rating", "class")); len(parts) > 1 {
		ratingWord = parts[1]
	}
	rating, err := books.ParseRating(ratingWord)
	if err != nil {
		return books.Book{}, "", fmt.Errorf("rating for %q: %w", title, err)
	}

	availability := books.CleanAvailability(e.ChildText("p.instock.availability"))
	if availability == "" {
		availability = books.CleanAvailability(e.ChildText("p.availability"))
	}

	detailURL := ""
	if href := e.ChildAttr("h3 a", "href"); href != "" {
		detailURL = e.Request.AbsoluteURL(href)
	}

	return books.Book{
		Title:        title,
		Price:        price,
		Rating:       rating,
		Availability: availability,
		InStock:      books.InStock(availability),
	}, detailURL, nil
}
