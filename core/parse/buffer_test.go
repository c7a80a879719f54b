package parse

import "testing"

func TestPendingEntryAbsorb(t *testing.T) {
	tables := DefaultTables()

	e := &pendingEntry{}
	e.absorb("Well Milled", tables)
	e.absorb("(1-19% bran streak)", tables)
	e.absorb("Rice", tables)
	e.absorb("kg", tables)

	if got := e.name(); got != "Well Milled Rice" {
		t.Errorf("name() = %q, want %q", got, "Well Milled Rice")
	}
	if got := e.specText(); got != "(1-19% bran streak) kg" {
		t.Errorf("specText() = %q, want %q", got, "(1-19% bran streak) kg")
	}
}

func TestIsSpecFragment(t *testing.T) {
	tables := DefaultTables()

	tests := []struct {
		line string
		want bool
	}{
		{"kg", true},
		{"pcs", true},
		{"350 ml", true},
		{"12-15 cm", true},
		{"8-10 pcs/kg", true},
		{"(56-60 grams/pc)", true},
		{"(1-19% bran streak)", true},
		{"Well Milled", false},
		{"(Lakatan)", false}, // descriptive qualifier, no digits
		{"Rice", false},
	}
	for _, tt := range tests {
		if got := isSpecFragment(tt.line, tables); got != tt.want {
			t.Errorf("isSpecFragment(%q) = %v, want %v", tt.line, got, tt.want)
		}
	}
}

func TestPendingEntryStale(t *testing.T) {
	e := &pendingEntry{}
	if e.stale(3) {
		t.Error("fresh entry reported stale")
	}
	e.age = 4
	if !e.stale(3) {
		t.Error("aged entry not reported stale")
	}
}
