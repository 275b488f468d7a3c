package render

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// ellipsis marks a truncated label.
const ellipsis = "…"

// FitLabel shortens s until measure reports it fits in maxWidth pixels.
// Truncation counts display cells, so wide CJK runes are dropped whole.
// It returns "" when not even a single cell plus the ellipsis fits.
func FitLabel(s string, maxWidth float64, measure func(string) float64) string {
	s = strings.TrimSpace(s)
	if s == "" || measure(s) <= maxWidth {
		return s
	}
	for cells := runewidth.StringWidth(s) - 1; cells > 0; cells-- {
		t := runewidth.Truncate(s, cells, ellipsis)
		if measure(t) <= maxWidth {
			return t
		}
	}
	return ""
}

// hubLabel is the two-line text drawn in the hub when no logo is set.
var hubLabel = [2]string{"Radial", "Menu"}
