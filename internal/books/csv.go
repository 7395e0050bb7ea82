package books

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// Required logical columns. The CSV may name them loosely ("Price (£)",
// "availability" etc.); header mapping is substring-based like the
// dashboard this replaces.
var requiredColumns = []string{"title", "price", "rating", "availability"}

// ErrNoHeader is returned for a CSV without a header row.
var ErrNoHeader = errors.New("csv has no header row")

// LoadCSV reads and cleans book records from path. Malformed rows are
// dropped and counted in the report; only I/O failures and missing
// required columns are fatal.
func LoadCSV(path string) ([]Book, LoadReport, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, LoadReport{}, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()

	records, report, err := ReadCSV(f)
	if err != nil {
		return nil, report, fmt.Errorf("read %s: %w", path, err)
	}
	return records, report, nil
}

// ReadCSV cleans book records from r. See LoadCSV.
func ReadCSV(r io.Reader) ([]Book, LoadReport, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, LoadReport{}, ErrNoHeader
	}
	if err != nil {
		return nil, LoadReport{}, fmt.Errorf("read header: %w", err)
	}

	cols, err := mapColumns(header)
	if err != nil {
		return nil, LoadReport{}, err
	}

	report := LoadReport{Dropped: make(map[string]int)}
	var out []Book

	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		// Parse errors cost one row; anything else means the reader
		// itself is broken and retrying would loop on the same fault.
		var parseErr *csv.ParseError
		if errors.As(err, &parseErr) {
			report.Rows++
			report.Dropped["malformed_row"]++
			continue
		}
		if err != nil {
			return out, report, fmt.Errorf("read csv row: %w", err)
		}
		report.Rows++

		book, reason := cleanRow(row, cols)
		if reason != "" {
			report.Dropped[reason]++
			continue
		}
		out = append(out, book)
		report.Loaded++
	}

	return out, report, nil
}

// columnIndex maps logical column names to positions in the CSV header.
type columnIndex map[string]int

// mapColumns resolves the loose header names to logical columns. The first
// header containing the keyword wins; later duplicates are ignored.
func mapColumns(header []string) (columnIndex, error) {
	cols := make(columnIndex)
	for i, name := range header {
		lower := strings.ToLower(strings.TrimSpace(stripBOM(name)))
		switch {
		case strings.Contains(lower, "title"):
			claim(cols, "title", i)
		case strings.Contains(lower, "price"):
			claim(cols, "price", i)
		case strings.Contains(lower, "rating"):
			claim(cols, "rating", i)
		case strings.Contains(lower, "avail"):
			claim(cols, "availability", i)
		case strings.Contains(lower, "category"):
			claim(cols, "category", i)
		case strings.Contains(lower, "desc"):
			claim(cols, "description", i)
		}
	}

	var missing []string
	for _, name := range requiredColumns {
		if _, ok := cols[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required columns: %s", strings.Join(missing, ", "))
	}
	return cols, nil
}

func claim(cols columnIndex, name string, idx int) {
	if _, ok := cols[name]; !ok {
		cols[name] = idx
	}
}

func cleanRow(row []string, cols columnIndex) (Book, string) {
	title := strings.TrimSpace(field(row, cols, "title"))
	if title == "" {
		return Book{}, "missing_title"
	}

	price, err := ParsePrice(field(row, cols, "price"))
	if err != nil {
		return Book{}, "bad_price"
	}

	rating, err := ParseRating(field(row, cols, "rating"))
	if err != nil {
		return Book{}, "bad_rating"
	}

	availability := CleanAvailability(field(row, cols, "availability"))
	if availability == "" {
		return Book{}, "missing_availability"
	}

	return Book{
		Title:        title,
		Price:        price,
		Rating:       rating,
		Availability: availability,
		InStock:      InStock(availability),
		Category:     strings.TrimSpace(field(row, cols, "category")),
		Description:  strings.TrimSpace(field(row, cols, "description")),
	}, ""
}

func field(row []string, cols columnIndex, name string) string {
	idx, ok := cols[name]
	if !ok || idx >= len(row) {
		return ""
	}
	return row[idx]
}

// stripBOM removes a UTF-8 byte order mark. The original dataset was
// written with a BOM-prefixed encoding, so the first header cell may
// carry one.
func stripBOM(s string) string {
	return strings.TrimPrefix(s, "\ufeff")
}
