package books

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const sampleCSV = `Title,Price (£),Rating,Availability,Category,Description
A Light in the Attic,£51.77,Three,In stock (22 available),Poetry,Classic verse.
Tipping the Velvet,Â£53.74,One,In stock (20 available),Historical Fiction,
Soumission,£50.10,five,Out of stock,Fiction,French novel.
Broken Price,N/A,Two,In stock,Fiction,
Broken Rating,£10.00,Eleven,In stock,Fiction,
,£12.00,Two,In stock,Fiction,
`

func TestReadCSVCleansRows(t *testing.T) {
	records, report, err := ReadCSV(strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatalf("ReadCSV() error = %v", err)
	}

	if len(records) != 3 {
		t.Fatalf("loaded %d records, want 3", len(records))
	}
	if report.Rows != 6 || report.Loaded != 3 {
		t.Fatalf("report = %+v, want rows=6 loaded=3", report)
	}
	if report.Dropped["bad_price"] != 1 {
		t.Errorf("expected one bad_price drop, got %d", report.Dropped["bad_price"])
	}
	if report.Dropped["bad_rating"] != 1 {
		t.Errorf("expected one bad_rating drop, got %d", report.Dropped["bad_rating"])
	}
	if report.Dropped["missing_title"] != 1 {
		t.Errorf("expected one missing_title drop, got %d", report.Dropped["missing_title"])
	}

	first := records[0]
	if first.Title != "A Light in the Attic" {
		t.Errorf("title = %q", first.Title)
	}
	if first.Price != 51.77 {
		t.Errorf("price = %v, want 51.77", first.Price)
	}
	if first.Rating != 3 {
		t.Errorf("rating = %d, want 3", first.Rating)
	}
	if !first.InStock {
		t.Errorf("expected first record in stock")
	}
	if first.Category != "Poetry" {
		t.Errorf("category = %q, want Poetry", first.Category)
	}

	// mojibake price and lowercase word rating both survive cleaning
	if records[1].Price != 53.74 {
		t.Errorf("mojibake price = %v, want 53.74", records[1].Price)
	}
	if records[2].Rating != 5 {
		t.Errorf("word rating = %d, want 5", records[2].Rating)
	}
	if records[2].InStock {
		t.Errorf("out-of-stock record marked in stock")
	}
}

func TestReadCSVHeaderMapping(t *testing.T) {
	tests := []struct {
		name    string
		csv     string
		wantErr string
	}{
		{
			name: "loose header names",
			csv:  "book_title,price_gbp,star_rating,avail\nX,£1.00,1,In stock\n",
		},
		{
			name: "bom prefixed header",
			csv:  "\ufeffTitle,Price,Rating,Availability\nX,£1.00,1,In stock\n",
		},
		{
			name:    "missing rating column",
			csv:     "Title,Price,Availability\nX,£1.00,In stock\n",
			wantErr: "rating",
		},
		{
			name:    "empty file",
			csv:     "",
			wantErr: "no header",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records, _, err := ReadCSV(strings.NewReader(tt.csv))
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("expected error containing %q, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ReadCSV() error = %v", err)
			}
			if len(records) != 1 {
				t.Fatalf("loaded %d records, want 1", len(records))
			}
		})
	}
}

func TestReadCSVDuplicateColumnsIgnored(t *testing.T) {
	csv := "Title,Title 2,Price,Rating,Availability\nFirst,Second,£2.50,4,In stock\n"
	records, _, err := ReadCSV(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("ReadCSV() error = %v", err)
	}
	if len(records) != 1 || records[0].Title != "First" {
		t.Fatalf("expected first title column to win, got %+v", records)
	}
}

// faultyReader serves its buffered data, then fails every subsequent read
// with a persistent error, like a file on a dying disk.
type faultyReader struct {
	data *strings.Reader
	err  error
}

func (f *faultyReader) Read(p []byte) (int, error) {
	if f.data.Len() > 0 {
		return f.data.Read(p)
	}
	return 0, f.err
}

func TestReadCSVReaderFailureAborts(t *testing.T) {
	readErr := errors.New("read books.csv: input/output error")
	r := &faultyReader{
		data: strings.NewReader("Title,Price (£),Rating,Availability\nGood Book,£5.00,1,In stock\n"),
		err:  readErr,
	}

	records, report, err := ReadCSV(r)
	if !errors.Is(err, readErr) {
		t.Fatalf("ReadCSV() error = %v, want wrapped %v", err, readErr)
	}
	if len(records) != 1 || report.Loaded != 1 {
		t.Errorf("rows before the fault should survive: records=%d report=%+v", len(records), report)
	}
	if report.Dropped["malformed_row"] != 0 {
		t.Errorf("an I/O fault is not a malformed row: %+v", report.Dropped)
	}
}

func TestLoadCSV(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "books.csv")
	if err := os.WriteFile(path, []byte(sampleCSV), 0o600); err != nil {
		t.Fatalf("write sample: %v", err)
	}

	records, report, err := LoadCSV(path)
	if err != nil {
		t.Fatalf("LoadCSV() error = %v", err)
	}
	if len(records) != 3 || report.DropTotal() != 3 {
		t.Fatalf("records=%d dropped=%d, want 3 and 3", len(records), report.DropTotal())
	}

	if _, _, err := LoadCSV(filepath.Join(dir, "missing.csv")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
