package export

import (
	"io"
	"strings"
)

// CSVHeader is the fixed column order of CSV exports
var CSVHeader = []string{"Company Name", "Contact Person", "Contact Number", "Email", "Location", "Sector"}

// WriteCSV writes records as CSV. Every field is wrapped in double quotes with internal quotes
// doubled, and rows are separated by a single newline.
func WriteCSV(w io.Writer, records []Record) error {
	var b strings.Builder
	b.WriteString(strings.Join(CSVHeader, ","))
	for _, r := range records {
		b.WriteByte('\n')
		fields := []string{r.CompanyName, r.ContactPerson, r.ContactNumber, r.Email, r.Location, r.Sector}
		for i, f := range fields {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(quoteField(f))
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func quoteField(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
