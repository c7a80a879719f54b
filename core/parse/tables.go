// Package parse — rule data tables.
// Every token list the parser matches against lives here as data, not
// control flow, so the rule set can be audited and tuned without touching
// the state machine. LoadTables overlays a YAML file onto the defaults.
package parse

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Tables holds the token lists consumed by the classifier and normalizer.
type Tables struct {
	// Categories are the known DPI table headers, matched case-insensitively
	// by substring. Longer entries win over shorter ones so that
	// "IMPORTED COMMERCIAL RICE" matches before "COMMERCIAL RICE".
	Categories []string `yaml:"categories"`

	// Brands are stripped from commodity names so branded and generic
	// variants of the same base product stay distinguishable.
	Brands []string `yaml:"brands"`

	// NoiseWords are header/boilerplate remnants removed from an
	// accumulated name after fragment concatenation.
	NoiseWords []string `yaml:"noise_words"`

	// UnitSynonyms fold abbreviation variants to one canonical unit token.
	// Keys are uppercase raw tokens, values canonical units.
	UnitSynonyms map[string]string `yaml:"unit_synonyms"`

	// CategoryUnits are per-category fallback units applied when no unit
	// token is found in the specification text. Categories absent from the
	// map fall back to kg, the DPI's dominant unit.
	CategoryUnits map[string]string `yaml:"category_units"`

	// HeaderKeywords mark repeated table-header text ("PREVAILING RETAIL
	// PRICE PER UNIT" and friends) that can appear mid-document.
	HeaderKeywords []string `yaml:"header_keywords"`

	// LetterheadMarkers identify footer/letterhead lines by substring.
	LetterheadMarkers []string `yaml:"letterhead_markers"`

	byLength []string // Categories sorted longest-first, uppercased
}

// DefaultTables returns the built-in rule set, tuned against DA Daily Price
// Index bulletins.
func DefaultTables() *Tables {
	t := &Tables{
		Categories: []string{
			"IMPORTED COMMERCIAL RICE",
			"LOCAL COMMERCIAL RICE",
			"COMMERCIAL RICE",
			"CORN PRODUCTS",
			"FISH PRODUCTS",
			"BEEF MEAT PRODUCTS",
			"PORK MEAT PRODUCTS",
			"OTHER LIVESTOCK MEAT PRODUCTS",
			"POULTRY PRODUCTS",
			"LOWLAND VEGETABLES",
			"HIGHLAND VEGETABLES",
			"SPICES",
			"FRUITS",
			"OTHER BASIC COMMODITIES",
		},
		Brands: []string{
			"Magnolia",
			"Bounty Fresh",
			"Minola",
			"Spring",
			"Jolly",
			"Unbranded",
		},
		NoiseWords: []string{
			"PREVAILING", "RETAIL", "PRICE", "PER", "UNIT",
			"COMMODITY", "SPECIFICATION", "PAGE", "DEPARTMENT",
			"COVERED", "MARKETS", "P/UNIT",
		},
		UnitSynonyms: map[string]string{
			"KG": "kg", "KILO": "kg", "KILOGRAM": "kg",
			"G": "g", "GM": "g", "GRAM": "g", "GRAMS": "g",
			"PC": "pc", "PCS": "pc", "PIECE": "pc", "PIECES": "pc",
			"L": "L", "LITER": "L", "LITRE": "L",
			"ML": "ml",
			"BUNDLE": "bundle", "BDL": "bundle",
			"HEAD": "head", "HD": "head",
			"SACK": "sack",
			"TRAY": "tray",
		},
		CategoryUnits: map[string]string{
			// All current DPI categories price by the kilo except where a
			// row-level rule (eggs, cooking oil) overrides.
			"OTHER BASIC COMMODITIES": "kg",
			"POULTRY PRODUCTS":        "kg",
		},
		HeaderKeywords: []string{
			"PREVAILING", "COMMODITY", "SPECIFICATION",
			"RETAIL PRICE PER", "PRICE PER UNIT",
		},
		LetterheadMarkers: []string{
			"Source:", "Note:", "Department", "Prepared by",
		},
	}
	t.compile()
	return t
}

// LoadTables reads a YAML rule file and overlays any non-empty section onto
// the defaults. Sections left out of the file keep their built-in values.
func LoadTables(path string) (*Tables, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading tables file: %w", err)
	}

	var overlay Tables
	if err := yaml.Unmarshal(data, &overlay); err != nil {
		return nil, fmt.Errorf("parsing tables file %s: %w", path, err)
	}

	t := DefaultTables()
	if len(overlay.Categories) > 0 {
		t.Categories = overlay.Categories
	}
	if len(overlay.Brands) > 0 {
		t.Brands = overlay.Brands
	}
	if len(overlay.NoiseWords) > 0 {
		t.NoiseWords = overlay.NoiseWords
	}
	if len(overlay.UnitSynonyms) > 0 {
		t.UnitSynonyms = overlay.UnitSynonyms
	}
	if len(overlay.CategoryUnits) > 0 {
		t.CategoryUnits = overlay.CategoryUnits
	}
	if len(overlay.HeaderKeywords) > 0 {
		t.HeaderKeywords = overlay.HeaderKeywords
	}
	if len(overlay.LetterheadMarkers) > 0 {
		t.LetterheadMarkers = overlay.LetterheadMarkers
	}
	t.compile()
	return t, nil
}

// compile prepares derived lookup structures after table changes.
func (t *Tables) compile() {
	t.byLength = make([]string, len(t.Categories))
	for i, c := range t.Categories {
		t.byLength[i] = strings.ToUpper(strings.TrimSpace(c))
	}
	sort.Slice(t.byLength, func(i, j int) bool {
		return len(t.byLength[i]) > len(t.byLength[j])
	})
}

// MatchCategory returns the known category contained in the line, or "".
// Longest categories are tried first so prefixed variants win.
func (t *Tables) MatchCategory(upper string) string {
	for _, cat := range t.byLength {
		if strings.Contains(upper, cat) {
			return cat
		}
	}
	return ""
}

// CleanCategory strips the LOCAL/IMPORTED provenance prefix from a header;
// provenance is carried on the record's origin field instead.
func CleanCategory(cat string) string {
	c := strings.TrimPrefix(cat, "IMPORTED ")
	c = strings.TrimPrefix(c, "LOCAL ")
	return strings.TrimSpace(c)
}

// headerKeywordCount counts how many header keywords appear in the line.
func (t *Tables) headerKeywordCount(upper string) int {
	n := 0
	for _, kw := range t.HeaderKeywords {
		if strings.Contains(upper, kw) {
			n++
		}
	}
	return n
}

// isLetterhead reports whether the line is letterhead/footer boilerplate.
func (t *Tables) isLetterhead(line string) bool {
	for _, m := range t.LetterheadMarkers {
		if strings.Contains(line, m) {
			return true
		}
	}
	return false
}

// canonicalUnit folds a raw token to its canonical unit, if it is one.
func (t *Tables) canonicalUnit(token string) (string, bool) {
	u, ok := t.UnitSynonyms[strings.ToUpper(strings.Trim(token, ".,()"))]
	return u, ok
}

// defaultUnit returns the documented fallback unit for a category.
func (t *Tables) defaultUnit(category string) string {
	if u, ok := t.CategoryUnits[strings.ToUpper(category)]; ok {
		return u
	}
	return "kg"
}
