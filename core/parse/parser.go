// Package parse implements the line-classification and record-assembly
// engine for DA Daily Price Index bulletins. It consumes the text lines an
// Extractor produced and recovers normalized price records plus the list of
// covered markets. The engine is single-threaded and stateless across
// invocations: all mutable state lives in a per-call context, so concurrent
// document parses never share anything.
package parse

import (
	"strings"
	"time"

	"github.com/budgetwise/pricepipe/core"
)

// Config carries the tunable boundaries of the rule set.
type Config struct {
	// MinPrice is the smallest numeric token accepted as a price. The
	// boundary between a plausible price and a specification value is
	// empirically tuned against observed bulletins, so it is a parameter,
	// not a constant.
	MinPrice float64

	// MaxPendingAge bounds how many lines a pending entry may span before
	// it is discarded as a misclassified block.
	MaxPendingAge int

	// MarketBlankRun ends covered-markets collection after this many
	// consecutive blank lines.
	MarketBlankRun int

	// FoldBrand appends a detected brand to the commodity name instead of
	// only reporting it on the normalized fields.
	FoldBrand bool
}

// DefaultConfig returns the tuning used against current DPI documents.
func DefaultConfig() Config {
	return Config{
		MinPrice:       5.0,
		MaxPendingAge:  8,
		MarketBlankRun: 2,
	}
}

// Parser applies the fixed rule set to bulletin line streams. Safe for
// concurrent use: Parse keeps all per-document state on its own stack.
type Parser struct {
	cfg    Config
	tables *Tables
	norm   *normalizer
}

// New creates a Parser. A nil tables uses the built-in rule set; zero
// Config fields fall back to their defaults.
func New(cfg Config, tables *Tables) *Parser {
	def := DefaultConfig()
	if cfg.MinPrice == 0 {
		cfg.MinPrice = def.MinPrice
	}
	if cfg.MaxPendingAge == 0 {
		cfg.MaxPendingAge = def.MaxPendingAge
	}
	if cfg.MarketBlankRun == 0 {
		cfg.MarketBlankRun = def.MarketBlankRun
	}
	if tables == nil {
		tables = DefaultTables()
	}
	return &Parser{
		cfg:    cfg,
		tables: tables,
		norm:   &normalizer{tables: tables, cfg: cfg},
	}
}

// Option supplies caller-known document attributes.
type Option func(*parserContext)

// WithDate sets the bulletin date (YYYY-MM-DD) when the caller already
// knows it, e.g. from the PDF's filename. Disables the date-line fallback.
func WithDate(date string) Option {
	return func(c *parserContext) {
		c.date = date
		c.dateKnown = date != ""
	}
}

// WithSource records an opaque source identifier on the result.
func WithSource(src string) Option {
	return func(c *parserContext) { c.source = src }
}

// parserContext is the mutable state of one Parse invocation. It is created
// fresh per call and never escapes it.
type parserContext struct {
	category     string // raw matched header; "" until the first header
	pending      *pendingEntry
	inMarkets    bool
	marketBlanks int
	markets      *orderedSet
	records      []core.PriceRecord
	dropped      int
	date         string
	dateKnown    bool
	source       string
}

// Parse consumes the ordered line stream and returns the assembled result.
// Returns ErrEmptyDocument when there are no lines at all; a parse that
// completes without records is reported via ParseResult.NoPrices, not as an
// error.
func (p *Parser) Parse(lines []string, opts ...Option) (*core.ParseResult, error) {
	if len(lines) == 0 {
		return nil, ErrEmptyDocument
	}

	ctx := &parserContext{markets: newOrderedSet()}
	for _, opt := range opts {
		opt(ctx)
	}

	for _, raw := range lines {
		p.step(ctx, collapse(controlRe.ReplaceAllString(raw, "")))
	}

	// Anything still accumulating at end-of-document never found a price.
	ctx.pending = nil

	return &core.ParseResult{
		Date:    ctx.date,
		Source:  ctx.source,
		Markets: ctx.markets.All(),
		Records: ctx.records,
		Dropped: ctx.dropped,
	}, nil
}

// step classifies one line and advances the state machine.
func (p *Parser) step(ctx *parserContext, line string) {
	lc := &lineContext{
		text:      line,
		upper:     strings.ToUpper(line),
		pending:   ctx.pending != nil,
		inMarkets: ctx.inMarkets,
		tables:    p.tables,
		cfg:       p.cfg,
	}
	tag := classify(lc)

	// Blank-run bookkeeping ends the covered-markets block.
	if ctx.inMarkets {
		if line == "" {
			ctx.marketBlanks++
			if ctx.marketBlanks > p.cfg.MarketBlankRun {
				ctx.inMarkets = false
			}
		} else {
			ctx.marketBlanks = 0
		}
	}

	switch tag {
	case TagCategoryHeader:
		// A new category cannot continue a prior commodity name: any
		// pending entry is discarded, priceless.
		ctx.category = p.tables.MatchCategory(lc.upper)
		ctx.pending = nil
		ctx.inMarkets = false

	case TagMarketList:
		ctx.inMarkets = true
		collectMarkets(line, ctx.markets)
		p.agePending(ctx)

	case TagDateMarker:
		if !ctx.dateKnown && ctx.date == "" {
			if d, ok := parseDateLine(line); ok {
				ctx.date = d
			}
		}
		p.agePending(ctx)

	case TagPriceBearing:
		p.resolve(ctx, line)

	case TagCommodityCandidate:
		e := &pendingEntry{}
		e.absorb(line, p.tables)
		ctx.pending = e

	case TagContinuation:
		ctx.pending.absorb(line, p.tables)
		p.agePending(ctx)

	default: // Noise
		p.agePending(ctx)
	}
}

// agePending advances the staleness counter and discards entries that have
// buffered too long.
func (p *Parser) agePending(ctx *parserContext) {
	if ctx.pending == nil {
		return
	}
	ctx.pending.age++
	if ctx.pending.stale(p.cfg.MaxPendingAge) {
		ctx.pending = nil
	}
}

// resolve assembles a record from the pending entry and the price line,
// then validates it. Malformed rows are dropped and counted, never fatal.
func (p *Parser) resolve(ctx *parserContext, line string) {
	idx := priceTailRe.FindStringSubmatchIndex(line)
	tok := line[idx[2]:idx[3]]
	remainder := strings.TrimSpace(line[:idx[2]])

	var nameText, specText string
	if ctx.pending != nil {
		nameText = ctx.pending.name()
		specText = ctx.pending.specText()
	}
	switch {
	case nameText == "":
		// Single-line row: the price line carries the commodity itself.
		nameText = remainder
	case remainder != "":
		// Multi-line row: trailing text on the price line is
		// specification, not name.
		specText = joinSpec(specText, remainder)
	}
	ctx.pending = nil

	var price float64
	if !strings.EqualFold(tok, "n/a") {
		price, _ = parsePrice(tok)
	}

	category := ctx.category
	if category == "" {
		category = "Uncategorized"
	}

	norm := p.norm.normalize(nameText, specText, category)
	rec := core.PriceRecord{
		Category:  CleanCategory(category),
		Commodity: norm.Name,
		Origin:    norm.Origin,
		Unit:      norm.Unit,
		Price:     price,
	}

	if len(rec.Commodity) <= 2 || rec.Price <= 0 {
		ctx.dropped++
		return
	}
	ctx.records = append(ctx.records, rec)
}

// dateLineFormats are the layouts bulletin cover dates print in.
var dateLineFormats = []string{
	"January 2, 2006",
	"January 2 2006",
	"January-2-2006",
	"Jan 2, 2006",
	"Jan-2-2006",
}

// parseDateLine converts a standalone date line to YYYY-MM-DD.
func parseDateLine(line string) (string, bool) {
	for _, layout := range dateLineFormats {
		if t, err := time.Parse(layout, line); err == nil {
			return t.Format("2006-01-02"), true
		}
	}
	return "", false
}
