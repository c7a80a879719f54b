// Package cmd — serve command for the HTTP API.
package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/budgetwise/pricepipe/config"
	"github.com/budgetwise/pricepipe/core"
	"github.com/budgetwise/pricepipe/core/deliver"
	"github.com/budgetwise/pricepipe/core/extract"
	"github.com/budgetwise/pricepipe/core/fetch"
	"github.com/budgetwise/pricepipe/core/parse"
	"github.com/budgetwise/pricepipe/logger"
	"github.com/budgetwise/pricepipe/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Long: `Serve exposes the pipeline over HTTP. Configuration comes from the
environment (optionally a .env file): PORT, TARGET_URL, DELIVER_URL,
MIN_PRICE, TABLES_PATH, LOG_LEVEL.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}
	log := logger.New(cfg.LogLevel)

	tables := parse.DefaultTables()
	if cfg.TablesPath != "" {
		tables, err = parse.LoadTables(cfg.TablesPath)
		if err != nil {
			return fmt.Errorf("loading rule tables: %w", err)
		}
	}
	pcfg := parse.DefaultConfig()
	if cfg.MinPrice > 0 {
		pcfg.MinPrice = cfg.MinPrice
	}

	var deliverer core.Deliverer
	if cfg.DeliverURL != "" {
		deliverer = deliver.New(cfg.DeliverURL)
	}

	srv := server.New(cfg,
		parse.New(pcfg, tables),
		fetch.NewWithTimeout(cfg.HTTPTimeout),
		extract.New(),
		deliverer,
		log,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return srv.Run(ctx)
}
