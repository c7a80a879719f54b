// Package render — JSON renderer.
// Serializes a ParseResult into the downstream ingestion payload. The field
// names and nesting are a compatibility contract and must not change.
package render

import (
	"encoding/json"
	"fmt"

	"github.com/budgetwise/pricepipe/core"
)

// JSONRenderer produces the ingestion-service payload.
type JSONRenderer struct{}

// NewJSONRenderer creates a JSONRenderer.
func NewJSONRenderer() *JSONRenderer {
	return &JSONRenderer{}
}

// Render serializes the result as the delivery payload.
func (r *JSONRenderer) Render(res *core.ParseResult) ([]byte, error) {
	data, err := json.MarshalIndent(core.NewPayload(res), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling JSON: %w", err)
	}
	return data, nil
}

// Extension returns the file extension for JSON output.
func (r *JSONRenderer) Extension() string {
	return ".json"
}
