// Package render provides output renderers for the PricePipe pipeline.
// This file implements the Markdown renderer: a human-readable summary
// table of the extracted price records.
package render

import (
	"fmt"
	"strings"

	"github.com/budgetwise/pricepipe/core"
)

// MarkdownRenderer writes the result as a Markdown report.
type MarkdownRenderer struct{}

// NewMarkdownRenderer creates a MarkdownRenderer.
func NewMarkdownRenderer() *MarkdownRenderer {
	return &MarkdownRenderer{}
}

// Render builds the Markdown report.
func (r *MarkdownRenderer) Render(res *core.ParseResult) ([]byte, error) {
	var b strings.Builder

	b.WriteString("# Daily Price Index\n\n")
	if res.Date != "" {
		fmt.Fprintf(&b, "Date: %s\n\n", res.Date)
	}
	if res.Source != "" {
		fmt.Fprintf(&b, "Source: %s\n\n", res.Source)
	}

	if len(res.Markets) > 0 {
		b.WriteString("## Covered Markets\n\n")
		for _, m := range res.Markets {
			fmt.Fprintf(&b, "- %s\n", m)
		}
		b.WriteString("\n")
	}

	b.WriteString("## Prices\n\n")
	b.WriteString("| Category | Commodity | Origin | Unit | Price |\n")
	b.WriteString("|---|---|---|---|---:|\n")
	for _, rec := range res.Records {
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %.2f |\n",
			rec.Category, rec.Commodity, rec.Origin, rec.Unit, rec.Price)
	}

	if res.Dropped > 0 {
		fmt.Fprintf(&b, "\n%d malformed row(s) dropped.\n", res.Dropped)
	}

	return []byte(b.String()), nil
}

// Extension returns the file extension for Markdown output.
func (r *MarkdownRenderer) Extension() string {
	return ".md"
}
