// Package render — PDF renderer.
// Produces a one-document summary sheet of the extracted records using
// gofpdf: header block, covered markets, then a price table grouped by
// category.
package render

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/budgetwise/pricepipe/core"
	"github.com/jung-kurt/gofpdf"
)

// PDFRenderer renders a ParseResult as a PDF summary sheet.
type PDFRenderer struct{}

// NewPDFRenderer creates a PDFRenderer.
func NewPDFRenderer() *PDFRenderer {
	return &PDFRenderer{}
}

// Column widths in mm; the price column is right-aligned.
var pdfColWidths = []float64{70, 30, 20, 25}

// Render builds the summary sheet.
func (r *PDFRenderer) Render(res *core.ParseResult) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()

	// Title block.
	pdf.SetFont("Helvetica", "B", 18)
	title := "Daily Price Index"
	if res.Date != "" {
		title += " - " + res.Date
	}
	pdf.MultiCell(0, 8, title, "", "L", false)

	if res.Source != "" {
		pdf.SetFont("Helvetica", "I", 9)
		pdf.SetTextColor(100, 100, 100)
		pdf.MultiCell(0, 5, "Source: "+res.Source, "", "L", false)
		pdf.SetTextColor(0, 0, 0)
	}
	pdf.Ln(4)

	// Covered markets.
	if len(res.Markets) > 0 {
		pdf.SetFont("Helvetica", "B", 12)
		pdf.MultiCell(0, 6, "Covered Markets", "", "L", false)
		pdf.SetFont("Helvetica", "", 10)
		pdf.MultiCell(0, 5, strings.Join(res.Markets, ", "), "", "L", false)
		pdf.Ln(4)
	}

	// Price table grouped by category, preserving source order.
	currentCategory := ""
	for _, rec := range res.Records {
		if rec.Category != currentCategory {
			currentCategory = rec.Category
			pdf.Ln(2)
			pdf.SetFont("Helvetica", "B", 12)
			pdf.MultiCell(0, 6, currentCategory, "", "L", false)
			writeTableHeader(pdf)
		}
		writeTableRow(pdf, rec)
	}

	if res.Dropped > 0 {
		pdf.Ln(4)
		pdf.SetFont("Helvetica", "I", 9)
		pdf.MultiCell(0, 5, fmt.Sprintf("%d malformed row(s) dropped.", res.Dropped), "", "L", false)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Extension returns the file extension for PDF output.
func (r *PDFRenderer) Extension() string {
	return ".pdf"
}

// writeTableHeader writes the column header row.
func writeTableHeader(pdf *gofpdf.Fpdf) {
	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(245, 245, 245)
	headers := []string{"Commodity", "Origin", "Unit", "Price"}
	for i, h := range headers {
		align := "L"
		if i == len(headers)-1 {
			align = "R"
		}
		pdf.CellFormat(pdfColWidths[i], 6, h, "1", 0, align, true, 0, "")
	}
	pdf.Ln(-1)
}

// writeTableRow writes one record row.
func writeTableRow(pdf *gofpdf.Fpdf, rec core.PriceRecord) {
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(pdfColWidths[0], 5.5, rec.Commodity, "1", 0, "L", false, 0, "")
	pdf.CellFormat(pdfColWidths[1], 5.5, string(rec.Origin), "1", 0, "L", false, 0, "")
	pdf.CellFormat(pdfColWidths[2], 5.5, rec.Unit, "1", 0, "L", false, 0, "")
	pdf.CellFormat(pdfColWidths[3], 5.5, fmt.Sprintf("%.2f", rec.Price), "1", 0, "R", false, 0, "")
	pdf.Ln(-1)
}
