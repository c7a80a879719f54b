package render

import (
	"strings"
	"testing"
)

func TestMarkdownRenderer(t *testing.T) {
	data, err := NewMarkdownRenderer().Render(sampleResult())
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	out := string(data)

	for _, want := range []string{
		"# Daily Price Index",
		"Date: 2025-12-10",
		"## Covered Markets",
		"- Balintawak Market",
		"| COMMERCIAL RICE | Well Milled Rice | Unspecified | kg | 52.50 |",
		"1 malformed row(s) dropped.",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestPDFRendererProducesDocument(t *testing.T) {
	data, err := NewPDFRenderer().Render(sampleResult())
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.HasPrefix(string(data), "%PDF-") {
		t.Errorf("output does not start with a PDF header")
	}
}
