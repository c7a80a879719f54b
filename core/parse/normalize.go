// Package parse — field normalizer.
// Given the accumulated name text and specification text of a resolved
// entry, derives the cleaned commodity name, canonical unit, origin, and
// brand. The rewrite rules are ordered data tables keyed by category, ported
// from the DA bulletin conventions: first matching rule wins within a
// category, and rule order encodes specificity (e.g. "SHORT RIB" before
// "RIB").
package parse

import (
	"regexp"
	"strings"

	"github.com/budgetwise/pricepipe/core"
)

// Normalized holds the output of the field normalizer for one entry.
type Normalized struct {
	Name   string
	Spec   string
	Unit   string
	Brand  string
	Origin core.Origin
}

// nameRule rewrites a raw commodity text to its canonical name when the
// token conditions hold. Matching is against the uppercased text.
type nameRule struct {
	all  []string // every token must be present
	any  []string // at least one must be present (if non-empty)
	none []string // no token may be present
	name string
	spec string
}

func (r nameRule) matches(upper string) bool {
	for _, tok := range r.all {
		if !strings.Contains(upper, tok) {
			return false
		}
	}
	if len(r.any) > 0 {
		hit := false
		for _, tok := range r.any {
			if strings.Contains(upper, tok) {
				hit = true
				break
			}
		}
		if !hit {
			return false
		}
	}
	for _, tok := range r.none {
		if strings.Contains(upper, tok) {
			return false
		}
	}
	return true
}

// categoryNameRules maps a category keyword to its ordered rewrite table.
// categoryKeys fixes the lookup order.
var categoryKeys = []string{
	"RICE", "CORN", "FISH", "BEEF", "PORK", "POULTRY",
	"VEGETABLE", "SPICE", "FRUIT", "BASIC",
}

var categoryNameRules = map[string][]nameRule{
	"RICE": {
		{all: []string{"BASMATI"}, name: "Basmati Rice"},
		{all: []string{"GLUTINOUS"}, name: "Glutinous Rice"},
		{any: []string{"JASPONICA", "JAPONICA"}, name: "Jasponica Rice"},
		{all: []string{"SPECIAL", "WHITE"}, name: "Special White Rice"},
		{all: []string{"PREMIUM"}, name: "Premium Rice", spec: "5% broken"},
		{all: []string{"WELL MILLED"}, name: "Well Milled Rice", spec: "1-19% bran streak"},
		{all: []string{"REGULAR MILLED"}, name: "Regular Milled Rice", spec: "20-40% bran streak"},
	},
	"CORN": {
		{all: []string{"WHITE", "COB"}, name: "Corn White", spec: "Cob, Glutinous"},
		{all: []string{"YELLOW", "COB"}, name: "Corn Yellow", spec: "Cob, Sweet"},
		{all: []string{"GRITS", "WHITE", "FOOD"}, name: "Corn Grits White", spec: "Food Grade"},
		{all: []string{"GRITS", "YELLOW", "FOOD"}, name: "Corn Grits Yellow", spec: "Food Grade"},
		{all: []string{"CRACKED"}, name: "Corn Cracked", spec: "Feed Grade"},
		{all: []string{"GRITS", "FEED"}, name: "Corn Grits", spec: "Feed Grade"},
	},
	"FISH": {
		{any: []string{"ALUMAHAN"}, name: "Alumahan (Indian Mackerel)"},
		{all: []string{"MACKEREL", "INDIAN"}, name: "Alumahan (Indian Mackerel)"},
		{all: []string{"BANGUS", "LARGE"}, name: "Bangus Large"},
		{all: []string{"BANGUS", "MEDIUM"}, name: "Bangus Medium"},
		{all: []string{"BONITO"}, name: "Bonito (Frigate Tuna)"},
		{all: []string{"GALUNGGONG"}, name: "Galunggong", spec: "Medium (12-14 pcs/kg)"},
		{all: []string{"MACKEREL"}, none: []string{"INDIAN"}, name: "Mackerel"},
		{all: []string{"PAMPANO"}, name: "Pampano"},
		{all: []string{"SALMON BELLY"}, name: "Salmon Belly"},
		{all: []string{"SALMON HEAD"}, name: "Salmon Head"},
		{any: []string{"SARDINES", "TAMBAN"}, name: "Sardines (Tamban)"},
		{any: []string{"SQUID", "PUSIT"}, name: "Squid"},
		{any: []string{"TAMBAKOL", "YELLOW-FIN"}, name: "Tambakol (Yellow-Fin Tuna)", spec: "Medium"},
		{all: []string{"TILAPIA"}, name: "Tilapia", spec: "Medium (5-6 pcs/kg)"},
	},
	"BEEF": {
		{all: []string{"TENDERLOIN"}, name: "Beef Tenderloin"},
		{all: []string{"STRIP", "LOIN"}, name: "Beef Striploin"},
		{all: []string{"SIRLOIN"}, name: "Beef Sirloin"},
		{all: []string{"SHORT RIB"}, name: "Beef Short Ribs"},
		{all: []string{"RIB EYE"}, name: "Beef Rib Eye"},
		{all: []string{"RIB SET"}, name: "Beef Rib Set"},
		{all: []string{"RIB"}, name: "Beef Ribs"},
		{all: []string{"RUMP"}, name: "Beef Rump"},
		{all: []string{"ROUND"}, name: "Beef Round"},
		{all: []string{"LOIN"}, name: "Beef Loin"},
		{all: []string{"PLATE"}, name: "Beef Plate"},
		{all: []string{"CHUCK"}, name: "Beef Chuck"},
		{all: []string{"BRISKET"}, name: "Beef Brisket"},
		{all: []string{"SHANK"}, name: "Beef Shank"},
	},
	"PORK": {
		{all: []string{"BELLY"}, name: "Pork Belly (Liempo)"},
		{all: []string{"PICNIC SHOULDER"}, name: "Pork Picnic Shoulder (Kasim)"},
	},
	"POULTRY": {
		{all: []string{"EGG"}, name: "Chicken Egg", spec: "Medium (56-60 grams/pc)"},
	},
	"VEGETABLE": {
		{all: []string{"BELL PEPPER", "GREEN"}, name: "Bell Pepper (Green)"},
		{all: []string{"BELL PEPPER", "RED"}, name: "Bell Pepper (Red)"},
		{all: []string{"BELL PEPPER"}, name: "Bell Pepper"},
		{all: []string{"CABBAGE", "RARE BALL"}, name: "Cabbage (Rare Ball)"},
		{all: []string{"CABBAGE", "SCORPIO"}, name: "Cabbage (Scorpio)"},
		{all: []string{"CABBAGE", "WONDER BALL"}, name: "Cabbage (Wonder Ball)"},
		{all: []string{"CABBAGE"}, name: "Cabbage"},
		{all: []string{"LETTUCE", "GREEN ICE"}, name: "Lettuce (Green Ice)"},
		{all: []string{"LETTUCE", "ICEBERG"}, name: "Lettuce (Iceberg)"},
		{all: []string{"LETTUCE", "ROMAINE"}, name: "Lettuce (Romaine)"},
		{all: []string{"LETTUCE"}, name: "Lettuce"},
		{all: []string{"BROCCOLI"}, name: "Broccoli"},
		{all: []string{"POTATO"}, name: "White Potato"},
		{all: []string{"CAULIFLOWER"}, name: "Cauliflower"},
		{all: []string{"CARROT"}, name: "Carrots"},
		{all: []string{"CELERY"}, name: "Celery"},
		{all: []string{"CHAYOTE"}, name: "Chayote"},
		{any: []string{"HABICHUELAS", "BAGUIO BEANS"}, name: "Baguio Beans"},
		{all: []string{"PECHAY", "BAGUIO"}, name: "Pechay Baguio"},
	},
	"SPICE": {
		{any: []string{"CHILLI", "CHILI"}, all: []string{"RED"}, name: "Chilli Red", spec: "Tingala"},
		{any: []string{"CHILLI", "CHILI"}, all: []string{"TINGALA"}, name: "Chilli Red", spec: "Tingala"},
		{any: []string{"CHILLI", "CHILI"}, all: []string{"GREEN"}, name: "Chilli Green", spec: "Haba/Panigang"},
		{any: []string{"CHILLI", "CHILI"}, all: []string{"TIGER"}, name: "Tiger Chillies"},
		{all: []string{"GARLIC", "NATIVE"}, name: "Garlic Native"},
		{all: []string{"GARLIC"}, name: "Garlic"},
		{all: []string{"GINGER"}, name: "Ginger", spec: "Medium (150-300 gm)"},
		{all: []string{"ONION", "RED"}, name: "Red Onion"},
		{all: []string{"ONION", "WHITE"}, name: "White Onion"},
	},
	"FRUIT": {
		{all: []string{"BANANA", "LAKATAN"}, name: "Banana (Lakatan)", spec: "8-10 pcs/kg"},
		{all: []string{"BANANA", "LATUNDAN"}, name: "Banana (Latundan)", spec: "10-12 pcs/kg"},
		{all: []string{"BANANA", "SABA"}, name: "Banana (Saba)"},
		{all: []string{"MANGO", "CARABAO"}, name: "Mango (Carabao)", spec: "Ripe, 3-4 pcs/kg"},
		{all: []string{"PAPAYA"}, name: "Papaya", spec: "Solo, Ripe, 2-3 pcs/kg"},
	},
	"BASIC": {
		{all: []string{"COOKING OIL", "COCONUT"}, name: "Cooking Oil (Coconut)"},
		{all: []string{"COOKING OIL", "MINOLA"}, name: "Cooking Oil (Minola)"},
		{all: []string{"COOKING OIL", "SPRING"}, name: "Cooking Oil (Spring)"},
		{all: []string{"COOKING OIL"}, any: []string{"JOLLY", "PALM OLEIN"}, name: "Cooking Oil (Palm Olein (Jolly))"},
		{all: []string{"COOKING OIL"}, name: "Cooking Oil (Palm)"},
		{all: []string{"SUGAR", "REFINED"}, name: "Sugar (Refined)"},
		{all: []string{"SUGAR", "WASHED"}, name: "Sugar (Washed)"},
		{all: []string{"SUGAR", "BROWN"}, name: "Sugar (Brown)"},
		{all: []string{"SALT", "IODIZED"}, name: "Salt (Iodized)"},
		{all: []string{"SALT", "ROCK"}, name: "Salt (Rock)"},
	},
}

// sizeSpecRes extract a size/grade specification from the raw text for
// categories where the bulletin prints one inline.
var sizeSpecRes = map[string]*regexp.Regexp{
	"FISH":      regexp.MustCompile(`(?i)\b(Large|Medium|Small)\b(?:.*?\d+-?\d*\s*pcs?/?kg)?`),
	"BEEF":      regexp.MustCompile(`(?i)\b(Large|Medium|Small|Lean|Boneless|with Bones)\b`),
	"VEGETABLE": regexp.MustCompile(`(?i)(?:Medium|Large|Small)?\s*\(?\d+-?\d*\s*(?:cm|gm?|g|pcs)(?:\s*[-/]\s*\d+\s*(?:kg|cm|g|gm))?\s*(?:diameter|bunch hd|head|pcs/kg)?\)?`),
	"FRUIT":     regexp.MustCompile(`(?i)\b(Ripe|Green|Solo|\d+-\d+\s*pcs/kg)\b`),
}

var (
	controlRe     = regexp.MustCompile(`[\x00-\x1F\x7F-\x9F]`)
	originTokenRe = regexp.MustCompile(`(?i),?\s*\b(Local|Imported)\b`)
	packagingRe   = regexp.MustCompile(`(?i)\b(Fresh|Frozen|Chilled|Whole Round|Native|Fully Dressed|Suprema Variety)\b`)
	measurementRe = regexp.MustCompile(`(?i)\d+-?\d*\s*(?:pcs?/?kg|grams?|gm|cm|ml|L)\b`)
	emptyParenRe  = regexp.MustCompile(`\(\s*\)`)
	multiSpaceRe  = regexp.MustCompile(`\s+`)
)

// normalizer applies the field rules for one parser configuration.
type normalizer struct {
	tables *Tables
	cfg    Config
}

// normalize derives the final fields from accumulated name text,
// specification text, and the active (raw, uncleaned) category.
func (n *normalizer) normalize(nameText, specText, rawCategory string) Normalized {
	text := collapse(controlRe.ReplaceAllString(nameText, ""))
	upperCat := strings.ToUpper(rawCategory)

	// Origin comes from explicit tokens anywhere in the entry, then the
	// category convention, then Unspecified.
	origin := originOf(text+" "+specText, upperCat)

	// Noise stripping and brand detection operate on bare text only;
	// parenthetical qualifiers are preserved untouched.
	text = applyOutsideParens(text, n.stripNoiseWords)
	brand, text := n.extractBrand(text)

	name, ruleSpec := n.rewriteName(text, upperCat)
	spec := joinSpec(specText, ruleSpec)

	unit := n.unitFor(spec, name, upperCat)

	if n.cfg.FoldBrand && brand != "" {
		name = collapse(name + " (" + brand + ")")
	}

	return Normalized{
		Name:   name,
		Spec:   spec,
		Unit:   unit,
		Brand:  brand,
		Origin: origin,
	}
}

// rewriteName runs the category rewrite table, falling back to generic
// cleanup when no rule matches.
func (n *normalizer) rewriteName(text, upperCat string) (string, string) {
	upper := strings.ToUpper(text)

	for _, key := range categoryKeys {
		if !strings.Contains(upperCat, key) {
			continue
		}
		for _, r := range categoryNameRules[key] {
			if r.matches(upper) {
				return r.name, r.spec
			}
		}
		// Category matched but no canonical rewrite: keep the raw name,
		// cleaned, plus any inline size specification.
		sizeSpec := ""
		if re, ok := sizeSpecRes[key]; ok {
			if m := re.FindString(text); m != "" {
				sizeSpec = strings.TrimSpace(m)
			}
			text = re.ReplaceAllString(text, "")
		}
		return n.genericCleanup(text), sizeSpec
	}

	return n.genericCleanup(text), ""
}

// genericCleanup strips origin tokens, packaging words, and measurement
// remnants from a name that no rewrite rule claimed.
func (n *normalizer) genericCleanup(text string) string {
	text = applyOutsideParens(text, func(s string) string {
		s = originTokenRe.ReplaceAllString(s, "")
		s = packagingRe.ReplaceAllString(s, "")
		return measurementRe.ReplaceAllString(s, "")
	})
	text = emptyParenRe.ReplaceAllString(text, "")
	return strings.Trim(collapse(text), ", ")
}

// stripNoiseWords removes table-header remnants that survived extraction.
// Runs after fragment concatenation so noise spanning a fragment boundary
// is still caught.
func (n *normalizer) stripNoiseWords(s string) string {
	fields := strings.Fields(s)
	kept := fields[:0]
	for _, f := range fields {
		if !n.isNoiseWord(f) {
			kept = append(kept, f)
		}
	}
	out := strings.Join(kept, " ")
	// Edge whitespace marks a segment boundary when this runs on the text
	// outside parentheses; losing it would glue the name to a qualifier.
	if strings.HasPrefix(s, " ") && !strings.HasPrefix(out, " ") {
		out = " " + out
	}
	if strings.HasSuffix(s, " ") && !strings.HasSuffix(out, " ") {
		out += " "
	}
	return out
}

func (n *normalizer) isNoiseWord(tok string) bool {
	up := strings.ToUpper(strings.Trim(tok, ".,:;"))
	for _, w := range n.tables.NoiseWords {
		if up == w {
			return true
		}
	}
	return false
}

// extractBrand finds the first known brand in the bare text and strips it.
func (n *normalizer) extractBrand(text string) (string, string) {
	upper := strings.ToUpper(text)
	for _, b := range n.tables.Brands {
		ub := strings.ToUpper(b)
		idx := strings.Index(upper, ub)
		if idx < 0 {
			continue
		}
		if insideParens(text, idx) {
			continue
		}
		stripped := applyOutsideParens(text, func(s string) string {
			re := regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(b) + `\b`)
			return re.ReplaceAllString(s, "")
		})
		return b, strings.Trim(collapse(stripped), ", ")
	}
	return "", text
}

// unitFor derives the canonical unit from specification text, with
// row-level conventions checked first and the per-category default last.
func (n *normalizer) unitFor(spec, name, upperCat string) string {
	upSpec := strings.ToUpper(spec)
	upName := strings.ToUpper(name)

	// Chicken eggs are always priced per piece.
	if strings.Contains(upName, "EGG") && strings.Contains(upName, "CHICKEN") {
		return "pc"
	}

	// Cooking oil prices carry their container volume.
	if strings.Contains(upName, "COOKING OIL") {
		switch {
		case strings.Contains(upSpec, "350") && strings.Contains(upSpec, "ML"):
			return "350 ml"
		case strings.Contains(upSpec, "500") && strings.Contains(upSpec, "ML"):
			return "500 ml"
		case strings.Contains(upSpec, "1") && (strings.Contains(upSpec, "LITER") || strings.Contains(upSpec, "L")):
			return "1 L"
		}
		return "L"
	}

	for _, tok := range strings.Fields(spec) {
		if u, ok := n.tables.canonicalUnit(tok); ok {
			return u
		}
	}

	return n.tables.defaultUnit(upperCat)
}

// originOf resolves provenance: explicit token first, category convention
// second, Unspecified otherwise.
func originOf(text, upperCat string) core.Origin {
	upper := strings.ToUpper(text)
	switch {
	case strings.Contains(upper, "IMPORTED"):
		return core.OriginImported
	case strings.Contains(upper, "LOCAL"):
		return core.OriginLocal
	case strings.Contains(upperCat, "IMPORTED"):
		return core.OriginImported
	case strings.Contains(upperCat, "LOCAL"):
		return core.OriginLocal
	default:
		return core.OriginUnspecified
	}
}

// joinSpec merges buffered specification text with a rule-supplied one.
func joinSpec(buffered, fromRule string) string {
	switch {
	case buffered == "":
		return fromRule
	case fromRule == "":
		return buffered
	default:
		return collapse(buffered + " " + fromRule)
	}
}

// applyOutsideParens applies fn to the text outside parentheses, leaving
// parenthetical qualifiers untouched so they can't match bare-token rules.
func applyOutsideParens(text string, fn func(string) string) string {
	var out strings.Builder
	depth := 0
	segStart := 0
	for i, r := range text {
		switch r {
		case '(':
			if depth == 0 {
				out.WriteString(fn(text[segStart:i]))
				segStart = i
			}
			depth++
		case ')':
			if depth > 0 {
				depth--
				if depth == 0 {
					out.WriteString(text[segStart : i+1])
					segStart = i + 1
				}
			}
		}
	}
	if segStart < len(text) {
		rest := text[segStart:]
		if depth > 0 {
			out.WriteString(rest) // unbalanced paren: leave as-is
		} else {
			out.WriteString(fn(rest))
		}
	}
	return out.String()
}

// insideParens reports whether byte offset idx falls inside parentheses.
func insideParens(text string, idx int) bool {
	depth := 0
	for i, r := range text {
		if i >= idx {
			break
		}
		switch r {
		case '(':
			depth++
		case ')':
			if depth > 0 {
				depth--
			}
		}
	}
	return depth > 0
}

// collapse squeezes runs of whitespace into single spaces and trims.
func collapse(s string) string {
	return strings.TrimSpace(multiSpaceRe.ReplaceAllString(s, " "))
}
