package export

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/go-pdf/fpdf"
)

// Page geometry in millimetres (A4 portrait)
const (
	pageMargin   = 10.0
	headerHeight = 24.0
	logoSize     = 18.0
	gridColumns  = 2
	gridRows     = 4
	blockPadding = 3.0
	lineHeight   = 6.0
)

// PDFOptions configures the page header of PDF exports
type PDFOptions struct {
	Title       string
	LogoPath    string
	GeneratedAt time.Time
}

// WritePDF renders records onto A4 pages holding up to 8 records each in a 2x4 grid.
// It returns the number of pages written.
func WritePDF(w io.Writer, records []Record, opts PDFOptions) (int, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(false, pageMargin)
	pdf.SetTitle(opts.Title, true)
	pdf.SetCreator("ProdukTa", true)
	if !opts.GeneratedAt.IsZero() {
		pdf.SetCreationDate(opts.GeneratedAt)
	}
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	logo := opts.LogoPath
	if logo != "" {
		if _, err := os.Stat(logo); err != nil {
			logo = ""
		}
	}

	pageWidth, pageHeight := pdf.GetPageSize()
	contentWidth := pageWidth - 2*pageMargin
	gridTop := pageMargin + headerHeight
	blockWidth := contentWidth / gridColumns
	blockHeight := (pageHeight - gridTop - pageMargin) / gridRows

	pages := Pages(records, RecordsPerPage)
	for pageIdx, page := range pages {
		pdf.AddPage()
		writeHeader(pdf, tr, opts, logo, contentWidth, pageIdx+1, len(pages))

		for i, r := range page {
			col := i % gridColumns
			row := i / gridColumns
			x := pageMargin + float64(col)*blockWidth
			y := gridTop + float64(row)*blockHeight
			writeBlock(pdf, tr, r, x, y, blockWidth, blockHeight)
		}
	}

	if err := pdf.Output(w); err != nil {
		return 0, fmt.Errorf("failed to render pdf: %w", err)
	}
	return len(pages), nil
}

func writeHeader(pdf *fpdf.Fpdf, tr func(string) string, opts PDFOptions, logo string, width float64, page, total int) {
	titleX := pageMargin
	if logo != "" {
		pdf.ImageOptions(logo, pageMargin, pageMargin, logoSize, logoSize, false, fpdf.ImageOptions{ReadDpi: true}, 0, "")
		titleX += logoSize + 4
	}

	pdf.SetXY(titleX, pageMargin+2)
	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetTextColor(20, 20, 20)
	pdf.CellFormat(width-(titleX-pageMargin), 8, tr(opts.Title), "", 2, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(110, 110, 110)
	sub := fmt.Sprintf("Page %d of %d", page, total)
	if !opts.GeneratedAt.IsZero() {
		sub = opts.GeneratedAt.Format("2 January 2006") + "  |  " + sub
	}
	pdf.CellFormat(width-(titleX-pageMargin), 6, sub, "", 2, "L", false, 0, "")

	pdf.SetDrawColor(180, 180, 180)
	pdf.Line(pageMargin, pageMargin+headerHeight-2, pageMargin+width, pageMargin+headerHeight-2)
}

func writeBlock(pdf *fpdf.Fpdf, tr func(string) string, r Record, x, y, w, h float64) {
	pdf.SetDrawColor(200, 200, 200)
	pdf.Rect(x+1, y+1, w-2, h-2, "D")

	inner := w - 2*blockPadding
	pdf.SetXY(x+blockPadding, y+blockPadding)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetTextColor(20, 20, 20)
	pdf.MultiCell(inner, lineHeight+1, tr(r.CompanyName), "", "L", false)

	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(60, 60, 60)
	lines := []string{
		"Contact: " + r.ContactPerson,
		"Phone: " + r.ContactNumber,
		"Email: " + r.Email,
		"Address: " + r.Address,
	}
	for _, line := range lines {
		pdf.SetX(x + blockPadding)
		pdf.MultiCell(inner, lineHeight-1, tr(line), "", "L", false)
	}
}
