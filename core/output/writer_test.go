package output

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/budgetwise/pricepipe/core"
)

func TestFilename(t *testing.T) {
	tests := []struct {
		name string
		res  *core.ParseResult
		want string
	}{
		{
			name: "dated result",
			res:  &core.ParseResult{Date: "2025-12-10"},
			want: "dpi_2025-12-10",
		},
		{
			name: "source fallback",
			res:  &core.ParseResult{Source: "https://example.org/dpi/latest.pdf"},
			want: "https_example_org_dpi_latest_pdf",
		},
		{
			name: "bare fallback",
			res:  &core.ParseResult{},
			want: "dpi",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Filename(tt.res); got != tt.want {
				t.Errorf("Filename = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestWrite(t *testing.T) {
	dir := t.TempDir()
	w, err := New(dir)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	res := &core.ParseResult{Date: "2025-12-10"}
	path, err := w.Write(res, []byte(`{"date":"2025-12-10"}`), ".json")
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	if filepath.Base(path) != "dpi_2025-12-10.json" {
		t.Errorf("path = %q", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading back: %v", err)
	}
	if string(data) != `{"date":"2025-12-10"}` {
		t.Errorf("content = %q", data)
	}
}

func TestNewCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "out")
	if _, err := New(dir); err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := os.Stat(dir); err != nil {
		t.Errorf("output directory was not created: %v", err)
	}
}
