package scrape

import (
	"bytes"
	"context"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly/v2"
	"go.uber.org/zap"
)

// fetchDetails visits every pending record's detail page and fills in
// category and description. Failures leave the fields empty; the record
// itself is already complete.
func (s *Scraper) fetchDetails(ctx context.Context) {
	s.mu.Lock()
	byURL := make(map[string]int, len(s.found))
	urls := make([]string, 0, len(s.found))
	for i, p := range s.found {
		if p.detailURL == "" {
			continue
		}
		byURL[p.detailURL] = i
		urls = append(urls, p.detailURL)
	}
	s.mu.Unlock()

	if len(urls) == 0 {
		return
	}

	s.detail.OnRequest(func(r *colly.Request) {
		if ctx.Err() != nil {
			r.Abort()
		}
	})

	s.detail.OnError(func(r *colly.Response, err error) {
		s.mu.Lock()
		s.errors++
		s.mu.Unlock()

		target := ""
		if r != nil && r.Request != nil && r.Request.URL != nil {
			target = r.Request.URL.String()
		}
		s.logger.Warn("detail fetch failed", zap.String("url", target), zap.Error(err))
	})

	s.detail.OnResponse(func(r *colly.Response) {
		doc, err := goquery.NewDocumentFromReader(bytes.NewReader(r.Body))
		if err != nil {
			s.logger.Warn("detail parse failed",
				zap.String("url", r.Request.URL.String()),
				zap.Error(err),
			)
			return
		}
		category, description := parseDetail(doc)

		s.mu.Lock()
		if i, ok := byURL[r.Request.URL.String()]; ok {
			s.found[i].book.Category = category
			s.found[i].book.Description = description
		}
		s.mu.Unlock()
	})

	for _, u := range urls {
		if ctx.Err() != nil {
			return
		}
		if err := s.detail.Visit(u); err != nil {
			s.logger.Debug("detail visit", zap.String("url", u), zap.Error(err))
		}
	}
	s.detail.Wait()
}

// parseDetail reads the category from the breadcrumb trail and the blurb
// that follows the product description heading.
func parseDetail(doc *goquery.Document) (category, description string) {
	crumbs := doc.Find("ul.breadcrumb li a")
	if crumbs.Length() >= 3 {
		category = strings.TrimSpace(crumbs.Eq(2).Text())
	}

	if heading := doc.Find("#product_description"); heading.Length() > 0 {
		description = strings.TrimSpace(heading.NextFiltered("p").Text())
	}
	return category, description
}
