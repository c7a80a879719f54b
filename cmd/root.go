// Package cmd implements the CLI commands for PricePipe using Cobra.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "pricepipe",
	Short: "PricePipe — extract structured price data from DA Daily Price Index bulletins",
	Long: `PricePipe is a deterministic ingestion pipeline that discovers, downloads,
and parses DA Daily Price Index PDF bulletins into structured price records.

Usage:
  pricepipe scrape [flags]
  pricepipe parse <file.pdf> [flags]
  pricepipe serve`,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
