// Package output handles file naming and writing for PricePipe outputs.
// Filenames are derived from the bulletin date when known, otherwise from
// the sanitized source identifier.
package output

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/budgetwise/pricepipe/core"
)

// Writer writes rendered output to disk.
type Writer struct {
	OutputDir string
}

// New creates a Writer targeting the given output directory.
// If outputDir is empty, it defaults to the current working directory.
func New(outputDir string) (*Writer, error) {
	if outputDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getting working directory: %w", err)
		}
		outputDir = wd
	}

	// Ensure the output directory exists.
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	return &Writer{OutputDir: outputDir}, nil
}

// Write stores rendered bytes for a result under a derived filename and
// returns the written path.
func (w *Writer) Write(res *core.ParseResult, data []byte, ext string) (string, error) {
	path := filepath.Join(w.OutputDir, Filename(res)+ext)

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("writing file %s: %w", path, err)
	}
	return path, nil
}

// Filename derives a flat filename from the result: "dpi_2025-12-10" when
// the date is known, otherwise the sanitized source, otherwise "dpi".
func Filename(res *core.ParseResult) string {
	if res.Date != "" {
		return "dpi_" + res.Date
	}
	if res.Source != "" {
		return sanitize(res.Source)
	}
	return "dpi"
}

// sanitize replaces non-alphanumeric characters with underscores and trims
// runs of them.
func sanitize(s string) string {
	var b strings.Builder
	for _, ch := range s {
		if (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || (ch >= '0' && ch <= '9') {
			b.WriteRune(ch)
		} else {
			b.WriteRune('_')
		}
	}
	out := b.String()
	for strings.Contains(out, "__") {
		out = strings.ReplaceAll(out, "__", "_")
	}
	return strings.Trim(out, "_")
}
