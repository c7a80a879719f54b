// Package core defines the pipeline interfaces and data model for PricePipe.
// Each stage of the pipeline is a clean, testable interface.
package core

import "context"

// Origin is the provenance of a commodity.
type Origin string

// Origin values. The DPI marks provenance explicitly on some rows and by
// category convention on others; everything else is Unspecified.
const (
	OriginLocal       Origin = "Local"
	OriginImported    Origin = "Imported"
	OriginUnspecified Origin = "Unspecified"
)

// PriceRecord is one normalized commodity price entry.
// The JSON field names are part of the downstream ingestion contract.
type PriceRecord struct {
	Category  string  `json:"category"`
	Commodity string  `json:"commodity"`
	Origin    Origin  `json:"origin"`
	Unit      string  `json:"unit"`
	Price     float64 `json:"price"`
}

// ParseResult is everything recovered from one bulletin.
// Records are in source-line order, mirroring the printed table.
type ParseResult struct {
	Date    string // YYYY-MM-DD; empty if neither supplied nor found
	Source  string // opaque source identifier (URL or filename)
	Markets []string
	Records []PriceRecord
	Dropped int // rows that failed validation and were discarded
}

// NoPrices reports the empty-result condition: the parse completed but
// produced zero records. This is not an error; callers decide whether to
// retry or alert.
func (r *ParseResult) NoPrices() bool {
	return len(r.Records) == 0
}

// Payload is the JSON body forwarded to the downstream ingestion service.
// Field names and nesting must be preserved bit-for-bit.
type Payload struct {
	Date string      `json:"date"`
	Data PayloadData `json:"data"`
}

// PayloadData nests the extracted content inside the payload.
type PayloadData struct {
	CoveredMarkets []string      `json:"covered_markets"`
	PriceData      []PriceRecord `json:"price_data"`
}

// NewPayload builds the delivery payload from a parse result.
// Slices are never nil so the contract serializes [] rather than null.
func NewPayload(res *ParseResult) Payload {
	markets := res.Markets
	if markets == nil {
		markets = []string{}
	}
	records := res.Records
	if records == nil {
		records = []PriceRecord{}
	}
	return Payload{
		Date: res.Date,
		Data: PayloadData{
			CoveredMarkets: markets,
			PriceData:      records,
		},
	}
}

// Bulletin is a discovered DPI document: where to fetch it and the
// publication date recovered from its filename.
type Bulletin struct {
	URL  string
	Date string // YYYY-MM-DD
}

// Fetcher retrieves raw bytes (an HTML listing page or a PDF) from a URL.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// Extractor turns PDF bytes into an ordered sequence of text lines.
type Extractor interface {
	ExtractLines(data []byte) ([]string, error)
}

// Renderer converts a ParseResult into a final output format.
type Renderer interface {
	Render(res *ParseResult) ([]byte, error)
	// Extension returns the file extension for this renderer (e.g. ".json").
	Extension() string
}

// Deliverer forwards a payload to the downstream ingestion service.
// Retry policy belongs to the implementation, not to the parsing core.
type Deliverer interface {
	Deliver(ctx context.Context, payload Payload) error
}
