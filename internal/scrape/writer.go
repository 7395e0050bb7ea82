package scrape

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"bookdash/internal/books"
)

// csvHeader matches what the dashboard's fuzzy column mapping expects.
var csvHeader = []string{"Title", "Price (£)", "Rating", "Availability", "Category", "Description"}

// CSVWriter appends scraped records to a CSV file. The file starts with a
// UTF-8 BOM so spreadsheet tools pick the right encoding for the £ signs.
type CSVWriter struct {
	file   *os.File
	writer *csv.Writer
	mu     sync.Mutex
}

// NewCSVWriter creates the output file and writes the BOM and header row.
func NewCSVWriter(path string) (*CSVWriter, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create output directory %q: %w", dir, err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create csv file: %w", err)
	}
	if _, err := f.WriteString("\ufeff"); err != nil {
		f.Close()
		return nil, fmt.Errorf("write byte order mark: %w", err)
	}

	w := csv.NewWriter(f)
	if err := w.Write(csvHeader); err != nil {
		f.Close()
		return nil, fmt.Errorf("write csv header: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return nil, fmt.Errorf("flush csv header: %w", err)
	}

	return &CSVWriter{file: f, writer: w}, nil
}

// Write appends records to the file.
func (cw *CSVWriter) Write(records []books.Book) error {
	cw.mu.Lock()
	defer cw.mu.Unlock()

	for _, b := range records {
		row := []string{
			b.Title,
			fmt.Sprintf("£%.2f", b.Price),
			strconv.Itoa(b.Rating),
			b.Availability,
			b.Category,
			b.Description,
		}
		if err := cw.writer.Write(row); err != nil {
			return fmt.Errorf("write csv record: %w", err)
		}
	}

	cw.writer.Flush()
	if err := cw.writer.Error(); err != nil {
		return fmt.Errorf("flush csv records: %w", err)
	}
	return nil
}

// Close flushes buffered rows and closes the file.
func (cw *CSVWriter) Close() error {
	cw.mu.Lock()
	defer cw.mu.Unlock()

	cw.writer.Flush()
	if err := cw.writer.Error(); err != nil {
		return fmt.Errorf("flush csv writer: %w", err)
	}
	return cw.file.Close()
}

// WriteCSV writes records to path in one shot.
func WriteCSV(path string, records []books.Book) error {
	cw, err := NewCSVWriter(path)
	if err != nil {
		return err
	}
	if err := cw.Write(records); err != nil {
		cw.Close()
		return err
	}
	return cw.Close()
}
