// Package deliver implements the Deliverer interface.
// It forwards the parsed payload to the downstream ingestion service as an
// HTTP POST with a bounded retry; retry policy lives here at the boundary,
// never inside the parsing core.
package deliver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/budgetwise/pricepipe/core"
)

const (
	deliveryTimeout = 60 * time.Second
	maxAttempts     = 3
	retryBackoff    = 2 * time.Second
)

// HTTPDeliverer posts payloads to a fixed ingestion endpoint.
type HTTPDeliverer struct {
	Endpoint string
	client   *http.Client
}

// New creates an HTTPDeliverer for the given endpoint.
func New(endpoint string) *HTTPDeliverer {
	return &HTTPDeliverer{
		Endpoint: endpoint,
		client:   &http.Client{Timeout: deliveryTimeout},
	}
}

// Deliver posts the payload, retrying transient failures. A 2xx response is
// success; 4xx responses are terminal (the payload will not get better).
func (d *HTTPDeliverer) Deliver(ctx context.Context, payload core.Payload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshaling payload: %w", err)
	}

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if attempt > 1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(retryBackoff):
			}
		}

		terminal, err := d.post(ctx, body)
		if err == nil {
			return nil
		}
		lastErr = err
		if terminal {
			return err
		}
	}
	return fmt.Errorf("delivery failed after %d attempts: %w", maxAttempts, lastErr)
}

// post performs one delivery attempt. The bool reports whether the failure
// is terminal (retrying cannot help).
func (d *HTTPDeliverer) post(ctx context.Context, body []byte) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.Endpoint, bytes.NewReader(body))
	if err != nil {
		return true, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return false, fmt.Errorf("posting to %s: %w", d.Endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return false, nil
	}

	msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	err = fmt.Errorf("ingestion service returned %d: %s", resp.StatusCode, string(msg))
	terminal := resp.StatusCode >= 400 && resp.StatusCode < 500
	return terminal, err
}
