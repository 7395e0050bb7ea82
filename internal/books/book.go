// Package books defines the book record and the cleaning rules that turn
// scraped CSV text into typed values.
package books

// Book is one cleaned record from the source CSV.
//
// Price and Rating are numeric after cleaning; Availability keeps the
// normalized status text (the dashboard charts distinct statuses) with
// InStock derived from it. Category and Description are present only when
// the CSV carries them.
type Book struct {
	Title        string  `csv:"title" json:"title"`
	Price        float64 `csv:"price" json:"price"`
	Rating       int     `csv:"rating" json:"rating"`
	Availability string  `csv:"availability" json:"availability"`
	InStock      bool    `csv:"in_stock" json:"in_stock"`
	Category     string  `csv:"category" json:"category,omitempty"`
	Description  string  `csv:"description" json:"description,omitempty"`
}

// LoadReport summarizes a CSV load: how many data rows were seen, how many
// survived cleaning, and why the rest were dropped.
type LoadReport struct {
	Rows    int
	Loaded  int
	Dropped map[string]int
}

// DropTotal returns the number of rows rejected during cleaning.
func (r LoadReport) DropTotal() int {
	total := 0
	for _, n := range r.Dropped {
		total += n
	}
	return total
}
