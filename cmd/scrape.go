// Package cmd — scrape command.
// This is the main command that orchestrates the pipeline:
// discover → fetch → extract → parse → render → write (→ deliver).
//
// It handles flag validation, renderer selection, and optional delivery to a
// downstream ingestion endpoint.
package cmd

import (
	"context"
	"fmt"
	"net/url"
	"os"

	"github.com/spf13/cobra"

	"github.com/budgetwise/pricepipe/core"
	"github.com/budgetwise/pricepipe/core/deliver"
	"github.com/budgetwise/pricepipe/core/discover"
	"github.com/budgetwise/pricepipe/core/extract"
	"github.com/budgetwise/pricepipe/core/fetch"
	"github.com/budgetwise/pricepipe/core/output"
	"github.com/budgetwise/pricepipe/core/parse"
	"github.com/budgetwise/pricepipe/core/render"
)

// Flag variables.
var (
	flagURL        string
	flagPDF        bool
	flagMarkdown   bool
	flagJSON       bool
	flagOutputDir  string
	flagDeliverURL string
	flagTablesPath string
	flagMinPrice   float64
)

const defaultListingURL = "https://www.da.gov.ph/price-monitoring/"

var scrapeCmd = &cobra.Command{
	Use:   "scrape",
	Short: "Discover and process the newest Daily Price Index bulletin",
	Long: `Scrape finds the newest Daily Price Index PDF on the monitoring page,
downloads it, extracts its price records, and writes the chosen output format.

Examples:
  pricepipe scrape --json
  pricepipe scrape --markdown --output_dir ./out
  pricepipe scrape --json --deliver http://localhost:9000/ingest
  pricepipe scrape --url https://www.da.gov.ph/price-monitoring/ --pdf`,
	Args: cobra.NoArgs,
	RunE: runScrape,
}

func init() {
	rootCmd.AddCommand(scrapeCmd)

	scrapeCmd.Flags().StringVar(&flagURL, "url", defaultListingURL, "Listing page to discover bulletins on")

	// Output format flags (mutually exclusive).
	scrapeCmd.Flags().BoolVar(&flagPDF, "pdf", false, "Output a condensed PDF report")
	scrapeCmd.Flags().BoolVar(&flagMarkdown, "markdown", false, "Output Markdown")
	scrapeCmd.Flags().BoolVar(&flagJSON, "json", false, "Output structured JSON")

	scrapeCmd.Flags().StringVar(&flagOutputDir, "output_dir", "", "Output directory (default: current directory)")
	scrapeCmd.Flags().StringVar(&flagDeliverURL, "deliver", "", "Also POST the payload to this ingestion endpoint")
	scrapeCmd.Flags().StringVar(&flagTablesPath, "tables", "", "YAML rule-table overrides")
	scrapeCmd.Flags().Float64Var(&flagMinPrice, "min-price", 0, "Smallest numeric token accepted as a price")
}

func runScrape(cmd *cobra.Command, args []string) error {
	if err := validateFormatFlags(); err != nil {
		return err
	}

	parsed, err := url.Parse(flagURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("invalid URL: %s (must include scheme, e.g. https://www.da.gov.ph)", flagURL)
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

	ctx := context.Background()
	fetcher := fetch.New()

	fmt.Fprintf(os.Stdout, "Discovering bulletins on %s...\n", flagURL)
	bulletin, err := discover.Newest(ctx, flagURL, fetcher)
	if err != nil {
		return fmt.Errorf("discovering bulletins: %w", err)
	}
	fmt.Fprintf(os.Stdout, "Newest bulletin: %s (%s)\n", bulletin.URL, bulletin.Date)

	res, err := processPDF(ctx, bulletin.URL, fetcher, parser,
		parse.WithDate(bulletin.Date), parse.WithSource(bulletin.URL))
	if err != nil {
		return err
	}

	data, err := renderer.Render(res)
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}

	path, err := writer.Write(res, data, renderer.Extension())
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "✓ Written: %s (%d records, %d markets, %d dropped)\n",
		path, len(res.Records), len(res.Markets), res.Dropped)

	if flagDeliverURL != "" {
		d := deliver.New(flagDeliverURL)
		if err := d.Deliver(ctx, core.NewPayload(res)); err != nil {
			return fmt.Errorf("deliver: %w", err)
		}
		fmt.Fprintf(os.Stdout, "✓ Delivered to %s\n", flagDeliverURL)
	}
	return nil
}

// processPDF downloads a bulletin and runs it through extraction and parsing.
func processPDF(
	ctx context.Context,
	pdfURL string,
	fetcher core.Fetcher,
	parser *parse.Parser,
	opts ...parse.Option,
) (*core.ParseResult, error) {
	data, err := fetcher.Fetch(ctx, pdfURL)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}

	lines, err := extract.New().ExtractLines(data)
	if err != nil {
		return nil, fmt.Errorf("extract: %w", err)
	}

	res, err := parser.Parse(lines, opts...)
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	if res.NoPrices() {
		fmt.Fprintln(os.Stderr, "warning: no price records were recovered")
	}
	return res, nil
}

// buildParser assembles a Parser from the shared --tables and --min-price flags.
func buildParser() (*parse.Parser, error) {
	tables := parse.DefaultTables()
	if flagTablesPath != "" {
		var err error
		tables, err = parse.LoadTables(flagTablesPath)
		if err != nil {
			return nil, fmt.Errorf("loading rule tables: %w", err)
		}
	}
	cfg := parse.DefaultConfig()
	if flagMinPrice > 0 {
		cfg.MinPrice = flagMinPrice
	}
	return parse.New(cfg, tables), nil
}

// validateFormatFlags checks that exactly one output format is chosen.
func validateFormatFlags() error {
	formatCount := 0
	if flagPDF {
		formatCount++
	}
	if flagMarkdown {
		formatCount++
	}
	if flagJSON {
		formatCount++
	}

	if formatCount == 0 {
		return fmt.Errorf("exactly one output format is required: --pdf, --markdown, or --json")
	}
	if formatCount > 1 {
		return fmt.Errorf("only one output format allowed per run (got %d)", formatCount)
	}
	return nil
}

// selectRenderer creates the appropriate Renderer based on flags.
func selectRenderer() (core.Renderer, error) {
	switch {
	case flagMarkdown:
		return render.NewMarkdownRenderer(), nil
	case flagJSON:
		return render.NewJSONRenderer(), nil
	case flagPDF:
		return render.NewPDFRenderer(), nil
	default:
		return nil, fmt.Errorf("no output format selected")
	}
}
