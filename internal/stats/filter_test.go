package stats

import (
	"testing"
)

func TestFilterApply(t *testing.T) {
	records := sampleBooks()

	tests := []struct {
		name   string
		filter Filter
		want   []string
	}{
		{
			name:   "zero filter matches everything",
			filter: Filter{},
			want:   []string{"A", "B", "C", "D"},
		},
		{
			name:   "ratings",
			filter: Filter{Ratings: []int{3}},
			want:   []string{"B", "C"},
		},
		{
			name:   "price range",
			filter: Filter{MinPrice: 15, MaxPrice: 35},
			want:   []string{"B", "C"},
		},
		{
			name:   "min price only",
			filter: Filter{MinPrice: 25},
			want:   []string{"C", "D"},
		},
		{
			name:   "availability",
			filter: Filter{Availability: []string{"In stock"}},
			want:   []string{"A", "B"},
		},
		{
			name:   "combined",
			filter: Filter{Ratings: []int{1, 3}, MaxPrice: 25, Availability: []string{"In stock"}},
			want:   []string{"A", "B"},
		},
		{
			name:   "no matches",
			filter: Filter{Ratings: []int{2}},
			want:   []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.filter.Apply(records)
			if len(got) != len(tt.want) {
				t.Fatalf("matched %d records, want %d", len(got), len(tt.want))
			}
			for i, b := range got {
				if b.Title != tt.want[i] {
					t.Errorf("match[%d] = %q, want %q", i, b.Title, tt.want[i])
				}
			}
		})
	}
}

func TestFilterApplyDoesNotMutate(t *testing.T) {
	records := sampleBooks()
	Filter{Ratings: []int{3}}.Apply(records)

	if records[0].Title != "A" || len(records) != 4 {
		t.Fatalf("input slice mutated: %+v", records)
	}
}

func TestFilterKeyCanonical(t *testing.T) {
	a := Filter{Ratings: []int{3, 1}, MinPrice: 5, MaxPrice: 20, Availability: []string{"Out of stock", "In stock"}}
	b := Filter{Ratings: []int{1, 3}, MinPrice: 5, MaxPrice: 20, Availability: []string{"In stock", "Out of stock"}}

	if a.Key() != b.Key() {
		t.Fatalf("keys differ for equivalent filters:\n%s\n%s", a.Key(), b.Key())
	}

	c := Filter{Ratings: []int{1, 3}, MinPrice: 5, MaxPrice: 21}
	if a.Key() == c.Key() {
		t.Fatalf("different filters share key %s", a.Key())
	}
}

func TestFilterIsZero(t *testing.T) {
	if !(Filter{}).IsZero() {
		t.Errorf("zero filter not reported zero")
	}
	if (Filter{MinPrice: 1}).IsZero() {
		t.Errorf("bounded filter reported zero")
	}
}
