// Package parse — lookahead buffer.
// A commodity name can span several extracted lines before its price
// appears. The buffer accumulates fragments until a price-bearing line
// resolves them, a category header invalidates them, or they go stale.
package parse

import (
	"regexp"
	"strings"
)

// parenSpecRe matches parenthetical measurements like "(1-19% bran streak)"
// or "(56-60 grams/pc)". Parentheticals without digits are descriptive
// qualifiers and stay part of the name.
var parenSpecRe = regexp.MustCompile(`^\(.*\d.*\)$`)

// pendingEntry accumulates one multi-line commodity entry. Owned exclusively
// by the parse context; never shared between invocations.
type pendingEntry struct {
	fragments []string // name fragments, concatenated left-to-right
	spec      []string // specification/unit text seen so far
	age       int      // lines seen while pending, bounds buffering
}

// absorb routes one line into the entry. Lines shaped like specification
// values (unit tokens, measurements, measurement parentheticals) extend the
// specification text; everything else extends the name.
func (e *pendingEntry) absorb(line string, tables *Tables) {
	if isSpecFragment(line, tables) {
		e.spec = append(e.spec, line)
		return
	}
	e.fragments = append(e.fragments, line)
}

// name returns the accumulated commodity name.
func (e *pendingEntry) name() string {
	return strings.Join(e.fragments, " ")
}

// specText returns the accumulated specification text.
func (e *pendingEntry) specText() string {
	return strings.Join(e.spec, " ")
}

// stale reports whether the entry has outlived the configured bound.
// Unbounded accumulation only happens on misclassified blocks; well-formed
// input resolves long before the limit.
func (e *pendingEntry) stale(max int) bool {
	return e.age > max
}

// isSpecFragment reports whether a line is specification text rather than a
// name fragment.
func isSpecFragment(line string, tables *Tables) bool {
	if specShapeRe.MatchString(line) {
		return true
	}
	if _, ok := tables.canonicalUnit(line); ok {
		return true
	}
	return parenSpecRe.MatchString(strings.TrimSpace(line))
}
