// Package parse — covered-markets extraction.
// The bulletin's cover region lists the markets surveyed. Collection starts
// at a recognizable marker, splits lines on common separators, and ends at
// the first category header or a run of blank lines.
package parse

import (
	"regexp"
	"strings"
)

// marketSeparatorRe splits a market-list line into candidate names:
// numbered items ("1. Balintawak Market"), commas, and semicolons.
var marketSeparatorRe = regexp.MustCompile(`\s*(?:\d+\.\s*|[,;])\s*`)

// minMarketNameLen filters split artifacts; real market names are longer.
const minMarketNameLen = 4

// orderedSet deduplicates strings by exact match while preserving the order
// of first appearance.
type orderedSet struct {
	items []string
	seen  map[string]bool
}

func newOrderedSet() *orderedSet {
	return &orderedSet{seen: make(map[string]bool)}
}

// Add records the value if it hasn't been seen before.
func (s *orderedSet) Add(v string) {
	if s.seen[v] {
		return
	}
	s.seen[v] = true
	s.items = append(s.items, v)
}

// All returns the values in first-appearance order.
func (s *orderedSet) All() []string {
	return s.items
}

// collectMarkets splits one market-list line and adds the candidate names
// to the set. The marker prefix itself ("Covered markets:") is discarded.
func collectMarkets(line string, set *orderedSet) {
	if loc := marketMarkerRe.FindStringIndex(line); loc != nil {
		line = line[loc[1]:]
		line = strings.TrimLeft(line, ":) \t")
	}
	for _, part := range marketSeparatorRe.Split(line, -1) {
		name := strings.Trim(strings.TrimSpace(part), ".")
		if len(name) >= minMarketNameLen {
			set.Add(name)
		}
	}
}
