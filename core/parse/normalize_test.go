package parse

import (
	"testing"

	"github.com/budgetwise/pricepipe/core"
)

func newTestNormalizer() *normalizer {
	return &normalizer{tables: DefaultTables(), cfg: DefaultConfig()}
}

func TestNormalizeCanonicalNames(t *testing.T) {
	n := newTestNormalizer()

	tests := []struct {
		name     string
		text     string
		spec     string
		category string
		want     Normalized
	}{
		{
			name:     "rice rule with spec",
			text:     "Well Milled",
			spec:     "kg",
			category: "COMMERCIAL RICE",
			want:     Normalized{Name: "Well Milled Rice", Spec: "kg 1-19% bran streak", Unit: "kg", Origin: core.OriginUnspecified},
		},
		{
			name:     "fish rule",
			text:     "Galunggong (Local)",
			spec:     "",
			category: "FISH PRODUCTS",
			want:     Normalized{Name: "Galunggong", Spec: "Medium (12-14 pcs/kg)", Unit: "kg", Origin: core.OriginLocal},
		},
		{
			name:     "beef specificity order",
			text:     "Short Rib",
			spec:     "",
			category: "BEEF MEAT PRODUCTS",
			want:     Normalized{Name: "Beef Short Ribs", Unit: "kg", Origin: core.OriginUnspecified},
		},
		{
			name:     "chilli word order independent",
			text:     "Red Chili",
			spec:     "",
			category: "SPICES",
			want:     Normalized{Name: "Chilli Red", Spec: "Tingala", Unit: "kg", Origin: core.OriginUnspecified},
		},
		{
			name:     "egg priced per piece",
			text:     "Chicken Egg",
			spec:     "",
			category: "POULTRY PRODUCTS",
			want:     Normalized{Name: "Chicken Egg", Spec: "Medium (56-60 grams/pc)", Unit: "pc", Origin: core.OriginUnspecified},
		},
		{
			name:     "imported category origin",
			text:     "Premium",
			spec:     "",
			category: "IMPORTED COMMERCIAL RICE",
			want:     Normalized{Name: "Premium Rice", Spec: "5% broken", Unit: "kg", Origin: core.OriginImported},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := n.normalize(tt.text, tt.spec, tt.category)
			if got != tt.want {
				t.Errorf("normalize(%q, %q, %q)\n got %+v\nwant %+v", tt.text, tt.spec, tt.category, got, tt.want)
			}
		})
	}
}

func TestNormalizeGenericCleanup(t *testing.T) {
	n := newTestNormalizer()

	// No rewrite rule claims the name: packaging words go, parenthetical
	// qualifiers stay.
	got := n.normalize("Tulingan (Frozen Import) Fresh", "", "FISH PRODUCTS")
	if got.Name != "Tulingan (Frozen Import)" {
		t.Errorf("Name = %q, want %q", got.Name, "Tulingan (Frozen Import)")
	}
	if got.Origin != core.OriginUnspecified {
		t.Errorf("Origin = %q, want Unspecified", got.Origin)
	}
}

func TestNormalizeStripsNoiseWords(t *testing.T) {
	n := newTestNormalizer()

	got := n.normalize("COMMODITY Well Milled", "", "COMMERCIAL RICE")
	if got.Name != "Well Milled Rice" {
		t.Errorf("Name = %q, want %q", got.Name, "Well Milled Rice")
	}
}

func TestNormalizeBrand(t *testing.T) {
	n := newTestNormalizer()

	got := n.normalize("Magnolia Whole Chicken", "", "POULTRY PRODUCTS")
	if got.Brand != "Magnolia" {
		t.Errorf("Brand = %q, want Magnolia", got.Brand)
	}
	if got.Name != "Whole Chicken" {
		t.Errorf("Name = %q, want %q", got.Name, "Whole Chicken")
	}

	// FoldBrand carries the brand into the name.
	folded := &normalizer{tables: DefaultTables(), cfg: Config{FoldBrand: true}}
	got = folded.normalize("Magnolia Whole Chicken", "", "POULTRY PRODUCTS")
	if got.Name != "Whole Chicken (Magnolia)" {
		t.Errorf("folded Name = %q, want %q", got.Name, "Whole Chicken (Magnolia)")
	}

	// A brand word inside parentheses is a qualifier, not a brand.
	got = n.normalize("Cooking Oil (Minola)", "", "OTHER BASIC COMMODITIES")
	if got.Brand != "" {
		t.Errorf("Brand = %q, want empty", got.Brand)
	}
	if got.Name != "Cooking Oil (Minola)" {
		t.Errorf("Name = %q, want %q", got.Name, "Cooking Oil (Minola)")
	}
}

func TestNormalizeCookingOilUnits(t *testing.T) {
	n := newTestNormalizer()

	tests := []struct {
		spec string
		want string
	}{
		{"350 ml", "350 ml"},
		{"500 ml", "500 ml"},
		{"1 Liter", "1 L"},
	}
	for _, tt := range tests {
		got := n.normalize("Cooking Oil", tt.spec, "OTHER BASIC COMMODITIES")
		if got.Unit != tt.want {
			t.Errorf("unit for spec %q = %q, want %q", tt.spec, got.Unit, tt.want)
		}
	}
}

func TestOriginOf(t *testing.T) {
	tests := []struct {
		text string
		cat  string
		want core.Origin
	}{
		{"Garlic Imported", "SPICES", core.OriginImported},
		{"Garlic Local", "SPICES", core.OriginLocal},
		{"Garlic", "SPICES", core.OriginUnspecified},
		{"Premium", "LOCAL COMMERCIAL RICE", core.OriginLocal},
		// Explicit token beats category convention.
		{"Premium Imported", "LOCAL COMMERCIAL RICE", core.OriginImported},
	}
	for _, tt := range tests {
		if got := originOf(tt.text, tt.cat); got != tt.want {
			t.Errorf("originOf(%q, %q) = %q, want %q", tt.text, tt.cat, got, tt.want)
		}
	}
}

func TestApplyOutsideParens(t *testing.T) {
	drop := func(string) string { return "" }
	got := applyOutsideParens("abc (keep) def", drop)
	if got != "(keep)" {
		t.Errorf("got %q, want %q", got, "(keep)")
	}

	// Unbalanced input passes through untouched past the open paren.
	got = applyOutsideParens("abc (keep", drop)
	if got != "(keep" {
		t.Errorf("unbalanced: got %q, want %q", got, "(keep")
	}
}

func TestCollapse(t *testing.T) {
	if got := collapse("  a \t b\n c  "); got != "a b c" {
		t.Errorf("collapse = %q", got)
	}
}
