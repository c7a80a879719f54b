package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/budgetwise/pricepipe/core"
	"github.com/budgetwise/pricepipe/core/discover"
	"github.com/budgetwise/pricepipe/core/parse"
)

// scrapeRequest optionally overrides the configured listing page.
type scrapeRequest struct {
	TargetURL string `json:"target_url"`
}

// extractResponse is the API representation of one processed bulletin.
type extractResponse struct {
	Status         string             `json:"status"`
	DateProcessed  string             `json:"date_processed"`
	OriginalURL    string             `json:"original_url"`
	CoveredMarkets []string           `json:"covered_markets"`
	PriceData      []core.PriceRecord `json:"price_data"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// withRequestID tags every request with a UUID for log correlation.
func (s *Server) withRequestID(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := uuid.NewString()
		w.Header().Set("X-Request-ID", id)
		s.log.Info("request", "id", id, "method", r.Method, "path", r.URL.Path)
		next(w, r)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		sendError(w, http.StatusNotFound, "not found")
		return
	}
	sendJSON(w, http.StatusOK, map[string]string{"status": "ok", "service": "pricepipe"})
}

// handleScrapeNew discovers the newest bulletin on the listing page, runs it
// through the pipeline, and forwards the payload downstream when a deliverer
// is configured.
func (s *Server) handleScrapeNew(w http.ResponseWriter, r *http.Request) {
	target := s.cfg.TargetURL
	if r.Body != nil {
		var req scrapeRequest
		if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(&req); err == nil && req.TargetURL != "" {
			target = req.TargetURL
		}
	}

	bulletin, err := discover.Newest(r.Context(), target, s.fetcher)
	if err != nil {
		s.log.Error("discovery failed", "target", target, "error", err)
		sendError(w, http.StatusBadGateway, "could not discover a bulletin on the target page")
		return
	}

	data, err := s.fetcher.Fetch(r.Context(), bulletin.URL)
	if err != nil {
		s.log.Error("fetch failed", "url", bulletin.URL, "error", err)
		sendError(w, http.StatusBadGateway, "could not download the bulletin PDF")
		return
	}

	res, err := s.process(data, parse.WithDate(bulletin.Date), parse.WithSource(bulletin.URL))
	if err != nil {
		s.respondParseError(w, err)
		return
	}

	if s.deliverer != nil {
		if err := s.deliverer.Deliver(r.Context(), core.NewPayload(res)); err != nil {
			s.log.Error("delivery failed", "url", bulletin.URL, "error", err)
			sendError(w, http.StatusBadGateway, "extracted data could not be delivered downstream")
			return
		}
	}

	sendJSON(w, http.StatusOK, buildResponse(res))
}

// handleExtractManual parses an uploaded PDF without touching the network.
func (s *Server) handleExtractManual(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(s.cfg.MaxUploadSizeBytes); err != nil {
		sendError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		sendError(w, http.StatusBadRequest, "missing file field")
		return
	}
	defer file.Close()

	if !strings.EqualFold(filepath.Ext(header.Filename), ".pdf") {
		sendError(w, http.StatusBadRequest, "only PDF uploads are accepted")
		return
	}

	data, err := io.ReadAll(io.LimitReader(file, s.cfg.MaxUploadSizeBytes))
	if err != nil {
		sendError(w, http.StatusBadRequest, "could not read upload")
		return
	}

	opts := []parse.Option{parse.WithSource(header.Filename)}
	if t, ok := discover.DateFromFilename(header.Filename); ok {
		opts = append(opts, parse.WithDate(t.Format("2006-01-02")))
	}

	res, err := s.process(data, opts...)
	if err != nil {
		s.respondParseError(w, err)
		return
	}
	sendJSON(w, http.StatusOK, buildResponse(res))
}

// process runs extraction and parsing on raw PDF bytes.
func (s *Server) process(data []byte, opts ...parse.Option) (*core.ParseResult, error) {
	lines, err := s.extractor.ExtractLines(data)
	if err != nil {
		return nil, err
	}
	res, err := s.parser.Parse(lines, opts...)
	if err != nil {
		return nil, err
	}
	if res.NoPrices() {
		s.log.Warn("parse produced no price records", "source", res.Source, "dropped", res.Dropped)
	}
	return res, nil
}

func (s *Server) respondParseError(w http.ResponseWriter, err error) {
	if errors.Is(err, parse.ErrEmptyDocument) {
		sendError(w, http.StatusUnprocessableEntity, "no text could be extracted from the document")
		return
	}
	s.log.Error("extraction failed", "error", err)
	sendError(w, http.StatusUnprocessableEntity, "document could not be processed")
}

func buildResponse(res *core.ParseResult) extractResponse {
	payload := core.NewPayload(res)
	status := "Success"
	if res.NoPrices() {
		status = "Empty"
	}
	return extractResponse{
		Status:         status,
		DateProcessed:  res.Date,
		OriginalURL:    res.Source,
		CoveredMarkets: payload.Data.CoveredMarkets,
		PriceData:      payload.Data.PriceData,
	}
}

func sendJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func sendError(w http.ResponseWriter, status int, msg string) {
	sendJSON(w, status, errorResponse{Error: msg})
}
