// Package fetch implements the Fetcher interface.
// It performs HTTP GET requests with sensible defaults for scraping the DA
// website: the same fetcher retrieves the price-monitoring listing page and
// the bulletin PDFs it links to.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	defaultTimeout   = 30 * time.Second
	defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"
)

// HTTPFetcher fetches pages and documents via HTTP.
type HTTPFetcher struct {
	client *http.Client
}

// New creates an HTTPFetcher with the default timeout.
func New() *HTTPFetcher {
	return NewWithTimeout(defaultTimeout)
}

// NewWithTimeout creates an HTTPFetcher with an explicit timeout; PDF
// downloads on slow links may need more headroom than page fetches.
func NewWithTimeout(timeout time.Duration) *HTTPFetcher {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &HTTPFetcher{
		client: &http.Client{Timeout: timeout},
	}
}

// Fetch retrieves the raw bytes of the given URL.
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", defaultUserAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status %d for %s", resp.StatusCode, url)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	return body, nil
}
