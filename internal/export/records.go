package export

import (
	"fmt"
	"strings"

	"github.com/iloilo-msme/produkta/internal/models"
	"github.com/iloilo-msme/produkta/internal/utils"
)

// RecordsPerPage is the number of record blocks on one PDF page
const RecordsPerPage = 8

// Format is an export file format
type Format string

const (
	FormatCSV Format = "csv"
	FormatPDF Format = "pdf"
)

// File names and content types of the produced downloads
const (
	CSVFilename    = "msme_data.csv"
	PDFFilename    = "msme_data.pdf"
	CSVContentType = "text/csv; charset=utf-8"
	PDFContentType = "application/pdf"
)

// ParseFormat maps a user supplied format name to a Format
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatCSV:
		return FormatCSV, nil
	case FormatPDF:
		return FormatPDF, nil
	}
	return "", fmt.Errorf("%w: %q", models.ErrUnsupportedFormat, s)
}

// Filename returns the download name for f
func (f Format) Filename() string {
	if f == FormatPDF {
		return PDFFilename
	}
	return CSVFilename
}

// ContentType returns the MIME type for f
func (f Format) ContentType() string {
	if f == FormatPDF {
		return PDFContentType
	}
	return CSVContentType
}

// Record is the projection of an MSME written into export files
type Record struct {
	ID            int64
	CompanyName   string
	ContactPerson string
	ContactNumber string
	Email         string
	Location      string
	Sector        string
	Address       string
}

// Resolve picks the records to export: the selection when it is non-empty, otherwise the visible ids.
// Unknown ids are skipped and the order follows the chosen id list.
func Resolve(selected, visible []int64, all []models.MSME) []models.MSME {
	chosen := selected
	if len(chosen) == 0 {
		chosen = visible
	}
	if len(chosen) == 0 {
		return []models.MSME{}
	}

	byID := make(map[int64]models.MSME, len(all))
	for _, m := range all {
		byID[m.ID] = m
	}

	out := make([]models.MSME, 0, len(chosen))
	seen := make(map[int64]struct{}, len(chosen))
	for _, id := range chosen {
		m, ok := byID[id]
		if !ok {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, m)
	}
	return out
}

// Project converts MSMEs into export records. sectors maps sector ids to display names.
func Project(msmes []models.MSME, sectors map[int64]string) []Record {
	out := make([]Record, 0, len(msmes))
	for _, m := range msmes {
		out = append(out, Record{
			ID:            m.ID,
			CompanyName:   m.CompanyName,
			ContactPerson: m.ContactPerson,
			ContactNumber: utils.FormatPhilippinePhone(m.ContactNumber),
			Email:         m.Email,
			Location:      m.CityMunicipality,
			Sector:        sectors[m.SectorID],
			Address:       addressLine(m),
		})
	}
	return out
}

// Pages groups records into chunks of at most size records
func Pages(records []Record, size int) [][]Record {
	if size < 1 {
		size = RecordsPerPage
	}
	pages := make([][]Record, 0, (len(records)+size-1)/size)
	for start := 0; start < len(records); start += size {
		end := start + size
		if end > len(records) {
			end = len(records)
		}
		pages = append(pages, records[start:end])
	}
	return pages
}

func addressLine(m models.MSME) string {
	parts := make([]string, 0, 3)
	for _, p := range []string{m.Barangay, m.CityMunicipality, m.Province} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}
