// Package extract implements the Extractor interface.
// It turns DPI PDF bytes into the ordered sequence of text lines the parser
// consumes. Extraction is text-only: no OCR, no layout or geometry analysis.
package extract

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// PDFExtractor extracts plain-text lines from PDF bytes.
type PDFExtractor struct{}

// New creates a PDFExtractor.
func New() *PDFExtractor {
	return &PDFExtractor{}
}

// ExtractLines reads every page and returns the text split into lines,
// preserving page order. Pages that fail to extract are skipped; a single
// unreadable page must not abort the document.
func (e *PDFExtractor) ExtractLines(data []byte) ([]string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("opening PDF: %w", err)
	}

	var sb strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		sb.WriteString(text)
		sb.WriteString("\n")
	}

	return SplitLines(sb.String()), nil
}

// SplitLines breaks raw extracted text into trimmed lines. Blank lines are
// kept: the parser's market extractor uses blank runs as a block terminator.
func SplitLines(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	raw := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	lines := make([]string, len(raw))
	for i, l := range raw {
		lines[i] = strings.TrimSpace(l)
	}
	return lines
}
