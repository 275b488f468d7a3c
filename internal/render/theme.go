package render

import (
	"image/color"

	"github.com/opd-ai/go-radial/internal/config"
)

// Pen is a stroke color and width.
type Pen struct {
	Color color.RGBA
	Width float64
}

// Theme holds every color the compositor paints with. It is derived from the
// three configurable colors in config.ThemeSettings.
type Theme struct {
	// EntryFill and EntryHover fill layer sectors.
	EntryFill  color.RGBA
	EntryHover color.RGBA
	// CategoryFill and CategoryHover fill the category ring.
	CategoryFill  color.RGBA
	CategoryHover color.RGBA

	EntryPen         Pen
	EntryHoverPen    Pen
	CategoryPen      Pen
	CategoryHoverPen Pen
	// HubPen outlines the hub in the accent color.
	HubPen Pen

	EntryText      color.RGBA
	EntryHoverText color.RGBA
	CategoryText   color.RGBA

	HubFill color.RGBA
	// HubText colors the fallback label drawn when no logo is set.
	HubText color.RGBA

	// FontSize is the entry label size. Category and hub labels are drawn
	// slightly larger.
	FontSize float64
}

// NewTheme derives a Theme from the user's colors. The category ring is the
// background shifted lighter and more opaque when hovered, darker and more
// transparent otherwise.
func NewTheme(ts config.ThemeSettings) Theme {
	bg := ts.Background
	accent := ts.Hover
	size := ts.FontSize
	if size <= 0 {
		size = config.DefaultFontSize
	}

	return Theme{
		EntryFill:     bg,
		EntryHover:    accent,
		CategoryFill:  ShiftAlpha(Shift(bg, -5), -20),
		CategoryHover: ShiftAlpha(Shift(bg, 15), 30),

		EntryPen:         Pen{Color: color.RGBA{255, 255, 255, 60}, Width: 1},
		EntryHoverPen:    Pen{Color: color.RGBA{120, 180, 255, 255}, Width: 2},
		CategoryPen:      Pen{Color: color.RGBA{255, 255, 255, 50}, Width: 1},
		CategoryHoverPen: Pen{Color: color.RGBA{255, 255, 255, 160}, Width: 2},
		HubPen:           Pen{Color: WithAlpha(accent, 200), Width: 2},

		EntryText:      color.RGBA{255, 255, 255, 220},
		EntryHoverText: color.RGBA{255, 255, 255, 255},
		CategoryText:   color.RGBA{255, 255, 255, 240},

		HubFill: ts.Center,
		HubText: WithAlpha(accent, 255),

		FontSize: size,
	}
}

// DefaultTheme is the theme of the built-in settings.
func DefaultTheme() Theme {
	return NewTheme(config.DefaultThemeSettings())
}
