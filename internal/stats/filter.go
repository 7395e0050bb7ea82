package stats

import (
	"fmt"
	"sort"
	"strings"

	"bookdash/internal/books"
)

// Filter selects a subset of records. The zero value matches everything:
// empty slices mean "no restriction" and MaxPrice <= 0 means unbounded.
type Filter struct {
	Ratings      []int
	MinPrice     float64
	MaxPrice     float64
	Availability []string
}

// IsZero reports whether the filter has no restrictions.
func (f Filter) IsZero() bool {
	return len(f.Ratings) == 0 && f.MinPrice == 0 && f.MaxPrice <= 0 && len(f.Availability) == 0
}

// Apply returns the records matching the filter. The input slice is never
// mutated; when the filter is empty the input is returned as-is.
func (f Filter) Apply(records []books.Book) []books.Book {
	if f.IsZero() {
		return records
	}

	ratings := make(map[int]bool, len(f.Ratings))
	for _, r := range f.Ratings {
		ratings[r] = true
	}
	statuses := make(map[string]bool, len(f.Availability))
	for _, s := range f.Availability {
		statuses[s] = true
	}

	out := make([]books.Book, 0, len(records))
	for _, b := range records {
		if len(ratings) > 0 && !ratings[b.Rating] {
			continue
		}
		if b.Price < f.MinPrice {
			continue
		}
		if f.MaxPrice > 0 && b.Price > f.MaxPrice {
			continue
		}
		if len(statuses) > 0 && !statuses[b.Availability] {
			continue
		}
		out = append(out, b)
	}
	return out
}

// Key returns a canonical string for the filter, suitable as a cache key.
// Equivalent filters produce identical keys regardless of slice order.
func (f Filter) Key() string {
	ratings := append([]int(nil), f.Ratings...)
	sort.Ints(ratings)
	statuses := append([]string(nil), f.Availability...)
	sort.Strings(statuses)

	var b strings.Builder
	b.WriteString("r=")
	for i, r := range ratings {
		if i > 0 {
			b.WriteByte(',')
		}
		fmt.Fprintf(&b, "%d", r)
	}
	fmt.Fprintf(&b, ";p=%.2f-%.2f;a=", f.MinPrice, f.MaxPrice)
	b.WriteString(strings.Join(statuses, ","))
	return b.String()
}
