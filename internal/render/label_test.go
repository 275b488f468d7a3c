package render

import (
	"testing"

	"github.com/mattn/go-runewidth"
)

// cellMeasure pretends every display cell is 6 px wide.
func cellMeasure(s string) float64 {
	return float64(runewidth.StringWidth(s)) * 6
}

func TestFitLabel(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		width float64
		want  string
	}{
		{"fits", "Move", 60, "Move"},
		{"trimmed", "  Move ", 60, "Move"},
		{"empty", "", 60, ""},
		{"truncated", "Boolean Intersection", 60, "Boolean I…"},
		{"wide runes", "缩放工具箱", 40, "缩放…"},
		{"too narrow", "Move", 5, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FitLabel(tt.in, tt.width, cellMeasure)
			if got != tt.want {
				t.Errorf("FitLabel(%q, %v) = %q, want %q", tt.in, tt.width, got, tt.want)
			}
			if cellMeasure(got) > tt.width {
				t.Errorf("result %q is wider than %v", got, tt.width)
			}
		})
	}
}
