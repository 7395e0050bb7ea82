package books

import (
	"errors"
	"testing"
)

func TestParsePrice(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    float64
		wantErr error
	}{
		{
			name:  "pound symbol",
			input: "£12.99",
			want:  12.99,
		},
		{
			name:  "dollar symbol",
			input: "$45.17",
			want:  45.17,
		},
		{
			name:  "mojibake pound",
			input: "Â£51.77",
			want:  51.77,
		},
		{
			name:  "whitespace",
			input: "  £10.50  ",
			want:  10.5,
		},
		{
			name:  "thousands separator",
			input: "£1,024.00",
			want:  1024,
		},
		{
			name:  "already clean",
			input: "25.99",
			want:  25.99,
		},
		{
			name:    "not available",
			input:   "N/A",
			wantErr: ErrBadPrice,
		},
		{
			name:    "empty",
			input:   "",
			wantErr: ErrEmptyPrice,
		},
		{
			name:    "symbols only",
			input:   "£ ,",
			wantErr: ErrEmptyPrice,
		},
		{
			name:    "free text",
			input:   "call for price",
			wantErr: ErrBadPrice,
		},
		{
			name:    "two decimal points",
			input:   "£1.2.3",
			wantErr: ErrBadPrice,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParsePrice(tt.input)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("ParsePrice(%q) error = %v, want %v", tt.input, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParsePrice(%q) error = %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParsePrice(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseRating(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    int
		wantErr bool
	}{
		{name: "digit", input: "3", want: 3},
		{name: "digit with whitespace", input: " 5 ", want: 5},
		{name: "word capitalized", input: "Three", want: 3},
		{name: "word lowercase", input: "five", want: 5},
		{name: "word uppercase", input: "ONE", want: 1},
		{name: "zero out of range", input: "0", wantErr: true},
		{name: "six out of range", input: "6", wantErr: true},
		{name: "unknown word", input: "Ten", wantErr: true},
		{name: "empty", input: "", wantErr: true},
		{name: "decimal", input: "3.5", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseRating(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseRating(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err == nil && got != tt.want {
				t.Errorf("ParseRating(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestCleanAvailability(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "site formatting",
			input:    "\n\n    \n        In stock (22 available)\n    \n",
			expected: "In stock (22 available)",
		},
		{
			name:     "plain",
			input:    "In stock",
			expected: "In stock",
		},
		{
			name:     "inner runs collapsed",
			input:    "Out  of   stock",
			expected: "Out of stock",
		},
		{
			name:     "empty",
			input:    "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CleanAvailability(tt.input); got != tt.expected {
				t.Errorf("CleanAvailability(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestInStock(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"In stock", true},
		{"In stock (22 available)", true},
		{"in stock", true},
		{"IN STOCK", true},
		{"Out of stock", false},
		{"Preorder", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := InStock(tt.input); got != tt.want {
			t.Errorf("InStock(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}
