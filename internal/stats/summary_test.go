package stats

import (
	"math"
	"testing"

	"bookdash/internal/books"
)

func sampleBooks() []books.Book {
	return []books.Book{
		{Title: "A", Price: 10.00, Rating: 1, Availability: "In stock", InStock: true},
		{Title: "B", Price: 20.00, Rating: 3, Availability: "In stock", InStock: true},
		{Title: "C", Price: 30.00, Rating: 3, Availability: "Out of stock", InStock: false},
		{Title: "D", Price: 40.00, Rating: 5, Availability: "In stock (2 available)", InStock: true},
	}
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestSummarize(t *testing.T) {
	s := Summarize(sampleBooks())

	if s.TotalBooks != 4 {
		t.Errorf("total = %d, want 4", s.TotalBooks)
	}
	if !almostEqual(s.AvgPrice, 25.0) {
		t.Errorf("avg price = %v, want 25", s.AvgPrice)
	}
	if s.MinPrice != 10.0 || s.MaxPrice != 40.0 {
		t.Errorf("price range = [%v, %v], want [10, 40]", s.MinPrice, s.MaxPrice)
	}
	if !almostEqual(s.AvgRating, 3.0) {
		t.Errorf("avg rating = %v, want 3", s.AvgRating)
	}
	if s.InStock != 3 {
		t.Errorf("in stock = %d, want 3", s.InStock)
	}
	if !almostEqual(s.AvailabilityRate, 75.0) {
		t.Errorf("availability rate = %v, want 75", s.AvailabilityRate)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil)
	if s != (Summary{}) {
		t.Fatalf("empty summary = %+v, want zero value", s)
	}
}

func TestAvgPriceByRating(t *testing.T) {
	got := AvgPriceByRating(sampleBooks())

	want := []RatingPrice{
		{Rating: 1, AvgPrice: 10.00, Count: 1},
		{Rating: 3, AvgPrice: 25.00, Count: 2},
		{Rating: 5, AvgPrice: 40.00, Count: 1},
	}
	if len(got) != len(want) {
		t.Fatalf("groups = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i].Rating != want[i].Rating || !almostEqual(got[i].AvgPrice, want[i].AvgPrice) || got[i].Count != want[i].Count {
			t.Errorf("group[%d] = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestRatingDistribution(t *testing.T) {
	got := RatingDistribution(sampleBooks())

	want := []RatingCount{{Rating: 1, Count: 1}, {Rating: 3, Count: 2}, {Rating: 5, Count: 1}}
	if len(got) != len(want) {
		t.Fatalf("distribution = %+v, want %+v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("distribution[%d] = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestPriceHistogram(t *testing.T) {
	buckets := PriceHistogram(sampleBooks(), 5)
	if len(buckets) != 5 {
		t.Fatalf("buckets = %d, want 5", len(buckets))
	}

	total := 0
	for _, b := range buckets {
		total += b.Count
	}
	if total != 4 {
		t.Errorf("histogram total = %d, want 4", total)
	}

	// max price lands in the last bucket, not out of range
	last := buckets[len(buckets)-1]
	if last.Count != 1 {
		t.Errorf("last bucket count = %d, want 1", last.Count)
	}
	if last.High != 40.0 {
		t.Errorf("last bucket high = %v, want 40", last.High)
	}
	if buckets[0].Label != "£10.00 - £16.00" {
		t.Errorf("bucket label = %q", buckets[0].Label)
	}
}

func TestPriceHistogramDegenerate(t *testing.T) {
	same := []books.Book{
		{Title: "A", Price: 9.99, Rating: 1, Availability: "In stock", InStock: true},
		{Title: "B", Price: 9.99, Rating: 2, Availability: "In stock", InStock: true},
	}
	buckets := PriceHistogram(same, 5)
	if len(buckets) != 1 || buckets[0].Count != 2 {
		t.Fatalf("degenerate histogram = %+v, want single bucket of 2", buckets)
	}

	if got := PriceHistogram(nil, 5); got == nil || len(got) != 0 {
		t.Fatalf("empty histogram = %#v, want empty non-nil slice", got)
	}
	if got := PriceHistogram(sampleBooks(), 0); got == nil || len(got) != 0 {
		t.Fatalf("zero-bin histogram = %#v, want empty non-nil slice", got)
	}
}

func TestAvailabilityCounts(t *testing.T) {
	got := AvailabilityCounts(sampleBooks())

	if len(got) != 3 {
		t.Fatalf("statuses = %d, want 3", len(got))
	}
	if got[0].Status != "In stock" || got[0].Count != 2 || !got[0].InStock {
		t.Errorf("top status = %+v, want In stock x2", got[0])
	}
	// ties broken by name
	if got[1].Status != "In stock (2 available)" || got[2].Status != "Out of stock" {
		t.Errorf("tie order = %q, %q", got[1].Status, got[2].Status)
	}
	if got[2].InStock {
		t.Errorf("out of stock status flagged in stock")
	}
}
