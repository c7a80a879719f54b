// Package server exposes the scrape and manual-extraction pipeline over HTTP.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/budgetwise/pricepipe/config"
	"github.com/budgetwise/pricepipe/core"
	"github.com/budgetwise/pricepipe/core/parse"
)

// Server wires the pipeline stages behind HTTP handlers.
type Server struct {
	cfg       *config.AppConfig
	parser    *parse.Parser
	fetcher   core.Fetcher
	extractor core.Extractor
	deliverer core.Deliverer // nil disables delivery
	log       *slog.Logger
}

// New assembles a Server. deliverer may be nil when no downstream ingestion
// endpoint is configured.
func New(cfg *config.AppConfig, parser *parse.Parser, fetcher core.Fetcher, extractor core.Extractor, deliverer core.Deliverer, log *slog.Logger) *Server {
	return &Server{
		cfg:       cfg,
		parser:    parser,
		fetcher:   fetcher,
		extractor: extractor,
		deliverer: deliverer,
		log:       log,
	}
}

// Router builds the route table.
func (s *Server) Router() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /", s.handleHealth)
	mux.HandleFunc("POST /api/scrape-new-pdf", s.withRequestID(s.handleScrapeNew))
	mux.HandleFunc("POST /api/extract-manual", s.withRequestID(s.handleExtractManual))
	return mux
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:        net.JoinHostPort("", s.cfg.Port),
		Handler:     s.Router(),
		ReadTimeout: s.cfg.HTTPTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("server listening", "port", s.cfg.Port)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
