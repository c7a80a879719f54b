// Package cmd — parse command for local PDF files.
package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/budgetwise/pricepipe/core/discover"
	"github.com/budgetwise/pricepipe/core/extract"
	"github.com/budgetwise/pricepipe/core/output"
	"github.com/budgetwise/pricepipe/core/parse"
)

var parseCmd = &cobra.Command{
	Use:   "parse <file.pdf>",
	Short: "Parse a local Daily Price Index PDF",
	Long: `Parse extracts price records from an already-downloaded bulletin PDF.
The bulletin date is taken from the filename when it follows the usual
Daily-Price-Index-January-2-2006.pdf pattern, otherwise from the cover page.

Examples:
  pricepipe parse Daily-Price-Index-December-10-2025.pdf --json
  pricepipe parse bulletin.pdf --markdown --output_dir ./out`,
	Args: cobra.ExactArgs(1),
	RunE: runParse,
}

func init() {
	rootCmd.AddCommand(parseCmd)

	parseCmd.Flags().BoolVar(&flagPDF, "pdf", false, "Output a condensed PDF report")
	parseCmd.Flags().BoolVar(&flagMarkdown, "markdown", false, "Output Markdown")
	parseCmd.Flags().BoolVar(&flagJSON, "json", false, "Output structured JSON")
	parseCmd.Flags().StringVar(&flagOutputDir, "output_dir", "", "Output directory (default: current directory)")
	parseCmd.Flags().StringVar(&flagTablesPath, "tables", "", "YAML rule-table overrides")
	parseCmd.Flags().Float64Var(&flagMinPrice, "min-price", 0, "Smallest numeric token accepted as a price")
}

func runParse(cmd *cobra.Command, args []string) error {
	path := args[0]

	if err := validateFormatFlags(); err != nil {
		return err
	}
	renderer, err := selectRenderer()
	if err != nil {
		return err
	}
	parser, err := buildParser()
	if err != nil {
		return err
	}
	writer, err := output.New(flagOutputDir)
	if err != nil {
		return fmt.Errorf("initializing output writer: %w", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	lines, err := extract.New().ExtractLines(data)
	if err != nil {
		return fmt.Errorf("extract: %w", err)
	}

	opts := []parse.Option{parse.WithSource(filepath.Base(path))}
	if t, ok := discover.DateFromFilename(filepath.Base(path)); ok {
		opts = append(opts, parse.WithDate(t.Format("2006-01-02")))
	}

	res, err := parser.Parse(lines, opts...)
	if err != nil {
		return fmt.Errorf("parse: %w", err)
	}
	if res.NoPrices() {
		fmt.Fprintln(os.Stderr, "warning: no price records were recovered")
	}

	out, err := renderer.Render(res)
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}

	written, err := writer.Write(res, out, renderer.Extension())
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "✓ Written: %s (%d records, %d markets, %d dropped)\n",
		written, len(res.Records), len(res.Markets), res.Dropped)
	return nil
}
