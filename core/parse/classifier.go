// Package parse — line classifier.
// Assigns exactly one LineTag per raw line using an ordered rule table.
// Evaluation is short-circuiting: the first matching rule wins. The rank of
// a rule is load-bearing (the same substring can look like noise, a header,
// or a price, and a mis-tagged line cascades into malformed records), so new
// rules must be inserted at an explicit rank, never appended ad hoc.
package parse

import (
	"regexp"
	"strconv"
	"strings"
)

// LineTag is the coarse classification of one raw line.
type LineTag int

// LineTag values, in no particular order; precedence lives in the rule
// table, not here.
const (
	TagNoise LineTag = iota
	TagCategoryHeader
	TagMarketList
	TagDateMarker
	TagPriceBearing
	TagCommodityCandidate
	TagContinuation
)

// String returns the tag name for diagnostics.
func (t LineTag) String() string {
	switch t {
	case TagCategoryHeader:
		return "CategoryHeader"
	case TagMarketList:
		return "MarketList"
	case TagDateMarker:
		return "DateMarker"
	case TagPriceBearing:
		return "PriceBearing"
	case TagCommodityCandidate:
		return "CommodityCandidate"
	case TagContinuation:
		return "Continuation"
	default:
		return "Noise"
	}
}

// lineContext is the classifier's view of one line plus the parse state the
// rules are allowed to consult.
type lineContext struct {
	text      string
	upper     string
	pending   bool // a commodity name is accumulating
	inMarkets bool // inside the covered-markets block
	tables    *Tables
	cfg       Config
}

// rule pairs a predicate with the tag it assigns.
type rule struct {
	name  string
	tag   LineTag
	match func(*lineContext) bool
}

var (
	pageMarkerRe   = regexp.MustCompile(`(?i)page\s+\d+\s+of\s+\d+`)
	marketMarkerRe = regexp.MustCompile(`(?i)(?:^d\)|covered\s+markets)`)

	// dateLineRe matches standalone bulletin dates such as
	// "December 10, 2025" or "December-10-2025".
	dateLineRe = regexp.MustCompile(`^[A-Za-z]+[ -]\d{1,2},?[ -]\d{4}$`)

	// priceTailRe matches a currency-price token isolated at the end of the
	// line: digits with optional thousands separators and one or two
	// fractional digits, or the bulletin's "n/a" placeholder. DPI prices
	// always print fractional digits; bare integers are measurements or
	// page artifacts and never match.
	priceTailRe = regexp.MustCompile(`(?i)(?:^|\s)(\d{1,3}(?:,\d{3})*\.\d{1,2}|n/a)\s*$`)

	// specShapeRe matches lines that are a bare specification value such as
	// "250 ml", "1 kg", "12-15 cm", or "8-10 pcs/kg", which must never be
	// taken for prices.
	specShapeRe = regexp.MustCompile(`(?i)^\(?\d+(?:\.\d+)?(?:\s*-\s*\d+(?:\.\d+)?)?\s*(?:ml|kg|gm?|grams?|cm|l|pcs?)(?:\s*/\s*(?:kg|pc|head))?\)?\.?$`)
)

// classifierRules is the ordered dispatch table. Rank (highest first):
//
//  1. blank lines
//  2. pagination markers
//  3. letterhead/footer boilerplate
//  4. repeated table-header text
//  5. known category headers
//  6. covered-markets marker and block lines
//  7. standalone date lines
//  8. price-bearing lines
//  9. commodity candidate (no pending entry)
//  10. continuation (pending entry active)
//
// Anything that falls through is noise.
var classifierRules = []rule{
	{
		name: "blank",
		tag:  TagNoise,
		match: func(c *lineContext) bool {
			return c.text == ""
		},
	},
	{
		name: "page-marker",
		tag:  TagNoise,
		match: func(c *lineContext) bool {
			return pageMarkerRe.MatchString(c.text)
		},
	},
	{
		name: "letterhead",
		tag:  TagNoise,
		match: func(c *lineContext) bool {
			return c.tables.isLetterhead(c.text)
		},
	},
	{
		name: "table-header",
		tag:  TagNoise,
		match: func(c *lineContext) bool {
			return c.tables.headerKeywordCount(c.upper) >= 1
		},
	},
	{
		name: "category-header",
		tag:  TagCategoryHeader,
		match: func(c *lineContext) bool {
			return c.tables.MatchCategory(c.upper) != ""
		},
	},
	{
		name: "market-marker",
		tag:  TagMarketList,
		match: func(c *lineContext) bool {
			return marketMarkerRe.MatchString(c.text)
		},
	},
	{
		name: "market-line",
		tag:  TagMarketList,
		match: func(c *lineContext) bool {
			return c.inMarkets
		},
	},
	{
		name: "date-marker",
		tag:  TagDateMarker,
		match: func(c *lineContext) bool {
			return dateLineRe.MatchString(c.text)
		},
	},
	{
		name: "price-bearing",
		tag:  TagPriceBearing,
		match: func(c *lineContext) bool {
			tok, ok := priceToken(c.text)
			if !ok {
				return false
			}
			if specShapeRe.MatchString(c.text) {
				return false
			}
			if strings.EqualFold(tok, "n/a") {
				return true
			}
			v, err := parsePrice(tok)
			return err == nil && v >= c.cfg.MinPrice
		},
	},
	{
		name: "commodity-candidate",
		tag:  TagCommodityCandidate,
		match: func(c *lineContext) bool {
			return !c.pending
		},
	},
	{
		name: "continuation",
		tag:  TagContinuation,
		match: func(c *lineContext) bool {
			return c.pending
		},
	},
}

// classify runs the rule table over one line and returns the winning tag.
func classify(c *lineContext) LineTag {
	for _, r := range classifierRules {
		if r.match(c) {
			return r.tag
		}
	}
	return TagNoise
}

// priceToken returns the trailing price token of the line, if any.
func priceToken(line string) (string, bool) {
	m := priceTailRe.FindStringSubmatch(line)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// parsePrice converts a price token ("1,250.50") to its numeric value.
func parsePrice(tok string) (float64, error) {
	return strconv.ParseFloat(strings.ReplaceAll(tok, ",", ""), 64)
}
