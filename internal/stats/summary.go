// Package stats computes the aggregates the dashboard displays: KPI
// summaries, per-rating groupings, price histograms, and availability
// breakdowns over an in-memory book slice.
package stats

import (
	"fmt"
	"sort"

	"bookdash/internal/books"
)

// Summary holds the KPI values shown at the top of the dashboard.
type Summary struct {
	TotalBooks       int     `json:"total_books"`
	AvgPrice         float64 `json:"avg_price"`
	MinPrice         float64 `json:"min_price"`
	MaxPrice         float64 `json:"max_price"`
	AvgRating        float64 `json:"avg_rating"`
	InStock          int     `json:"in_stock"`
	AvailabilityRate float64 `json:"availability_rate"`
}

// RatingPrice is the mean price of all books sharing a rating.
type RatingPrice struct {
	Rating   int     `json:"rating"`
	AvgPrice float64 `json:"avg_price"`
	Count    int     `json:"count"`
}

// RatingCount is the number of books with a given rating.
type RatingCount struct {
	Rating int `json:"rating"`
	Count  int `json:"count"`
}

// PriceBucket is one bar of the price histogram.
type PriceBucket struct {
	Label string  `json:"label"`
	Low   float64 `json:"low"`
	High  float64 `json:"high"`
	Count int     `json:"count"`
}

// StatusCount is the number of books sharing an availability string.
type StatusCount struct {
	Status  string `json:"status"`
	Count   int    `json:"count"`
	InStock bool   `json:"in_stock"`
}

// Summarize computes the KPI summary. An empty slice yields the zero
// Summary (rates and averages are 0, not NaN).
func Summarize(records []books.Book) Summary {
	if len(records) == 0 {
		return Summary{}
	}

	s := Summary{
		TotalBooks: len(records),
		MinPrice:   records[0].Price,
		MaxPrice:   records[0].Price,
	}

	var priceSum, ratingSum float64
	for _, b := range records {
		priceSum += b.Price
		ratingSum += float64(b.Rating)
		if b.Price < s.MinPrice {
			s.MinPrice = b.Price
		}
		if b.Price > s.MaxPrice {
			s.MaxPrice = b.Price
		}
		if b.InStock {
			s.InStock++
		}
	}

	n := float64(len(records))
	s.AvgPrice = priceSum / n
	s.AvgRating = ratingSum / n
	s.AvailabilityRate = float64(s.InStock) / n * 100
	return s
}

// AvgPriceByRating returns the mean price per rating, sorted by rating.
// Ratings absent from the data are omitted.
func AvgPriceByRating(records []books.Book) []RatingPrice {
	sums := make(map[int]float64)
	counts := make(map[int]int)
	for _, b := range records {
		sums[b.Rating] += b.Price
		counts[b.Rating]++
	}

	out := make([]RatingPrice, 0, len(sums))
	for rating, sum := range sums {
		out = append(out, RatingPrice{
			Rating:   rating,
			AvgPrice: sum / float64(counts[rating]),
			Count:    counts[rating],
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Rating < out[j].Rating })
	return out
}

// RatingDistribution returns the book count per rating, sorted by rating.
func RatingDistribution(records []books.Book) []RatingCount {
	counts := make(map[int]int)
	for _, b := range records {
		counts[b.Rating]++
	}

	out := make([]RatingCount, 0, len(counts))
	for rating, count := range counts {
		out = append(out, RatingCount{Rating: rating, Count: count})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Rating < out[j].Rating })
	return out
}

// PriceHistogram buckets prices into equal-width bins over the observed
// range. All prices equal collapses to a single bucket. The result is
// never nil: no records yields an empty slice so callers that marshal it
// get a JSON array, not null.
func PriceHistogram(records []books.Book, bins int) []PriceBucket {
	if len(records) == 0 || bins <= 0 {
		return []PriceBucket{}
	}

	min, max := records[0].Price, records[0].Price
	for _, b := range records {
		if b.Price < min {
			min = b.Price
		}
		if b.Price > max {
			max = b.Price
		}
	}

	if min == max {
		return []PriceBucket{{
			Label: bucketLabel(min, max),
			Low:   min,
			High:  max,
			Count: len(records),
		}}
	}

	width := (max - min) / float64(bins)
	out := make([]PriceBucket, bins)
	for i := range out {
		low := min + float64(i)*width
		high := low + width
		if i == bins-1 {
			high = max
		}
		out[i] = PriceBucket{Label: bucketLabel(low, high), Low: low, High: high}
	}

	for _, b := range records {
		idx := int((b.Price - min) / width)
		if idx >= bins {
			idx = bins - 1
		}
		out[idx].Count++
	}
	return out
}

// AvailabilityCounts returns the count per distinct availability string,
// most common first, ties broken by name for deterministic output.
func AvailabilityCounts(records []books.Book) []StatusCount {
	counts := make(map[string]int)
	inStock := make(map[string]bool)
	for _, b := range records {
		counts[b.Availability]++
		inStock[b.Availability] = b.InStock
	}

	out := make([]StatusCount, 0, len(counts))
	for status, count := range counts {
		out = append(out, StatusCount{Status: status, Count: count, InStock: inStock[status]})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Status < out[j].Status
	})
	return out
}

func bucketLabel(low, high float64) string {
	return fmt.Sprintf("£%.2f - £%.2f", low, high)
}
