package books

import (
	"errors"
	"strconv"
	"strings"
)

// Cleaning errors. Callers use these as drop-reason labels, so they stay
// short and stable.
var (
	ErrEmptyPrice  = errors.New("empty price")
	ErrBadPrice    = errors.New("unparseable price")
	ErrBadRating   = errors.New("unparseable rating")
	ErrRatingRange = errors.New("rating out of range")
)

var wordRatings = map[string]int{
	"one":   1,
	"two":   2,
	"three": 3,
	"four":  4,
	"five":  5,
}

// ParsePrice converts a currency-formatted price string to a float.
// It tolerates pound/dollar signs, thousands separators, surrounding
// whitespace, and the mojibake "Â£" that UTF-8 scrapes of the demo site
// tend to carry. "N/A" and empty strings are unparseable.
func ParsePrice(raw string) (float64, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, ErrEmptyPrice
	}
	if strings.EqualFold(s, "n/a") {
		return 0, ErrBadPrice
	}

	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9', r == '.':
			b.WriteRune(r)
		case r == '£' || r == '$' || r == ',' || r == ' ' || r == 'Â':
			// currency symbols, separators, and double-encoding
			// artifacts are stripped
		default:
			return 0, ErrBadPrice
		}
	}
	cleaned := b.String()
	if cleaned == "" {
		return 0, ErrEmptyPrice
	}

	value, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, ErrBadPrice
	}
	return value, nil
}

// ParseRating converts a rating in digit form ("3") or word form
// ("Three", "three") to an int on the 1..5 scale.
func ParseRating(raw string) (int, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, ErrBadRating
	}

	if n, err := strconv.Atoi(s); err == nil {
		if n < 1 || n > 5 {
			return 0, ErrRatingRange
		}
		return n, nil
	}

	if n, ok := wordRatings[strings.ToLower(s)]; ok {
		return n, nil
	}
	return 0, ErrBadRating
}

// CleanAvailability trims and collapses whitespace in a free-text stock
// status. The site wraps these in newlines and indentation.
func CleanAvailability(raw string) string {
	return strings.Join(strings.Fields(raw), " ")
}

// InStock reports whether an availability string marks the book as in
// stock, matching "in stock" case-insensitively anywhere in the text.
func InStock(availability string) bool {
	return strings.Contains(strings.ToLower(availability), "in stock")
}
