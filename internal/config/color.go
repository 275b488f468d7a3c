package config

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// namedColors are the color names accepted in settings files.
var namedColors = map[string]color.RGBA{
	"black":       {R: 0, G: 0, B: 0, A: 255},
	"white":       {R: 255, G: 255, B: 255, A: 255},
	"red":         {R: 255, G: 0, B: 0, A: 255},
	"green":       {R: 0, G: 128, B: 0, A: 255},
	"blue":        {R: 0, G: 0, B: 255, A: 255},
	"gray":        {R: 128, G: 128, B: 128, A: 255},
	"grey":        {R: 128, G: 128, B: 128, A: 255},
	"orange":      {R: 255, G: 165, B: 0, A: 255},
	"purple":      {R: 128, G: 0, B: 128, A: 255},
	"teal":        {R: 0, G: 128, B: 128, A: 255},
	"navy":        {R: 0, G: 0, B: 128, A: 255},
	"steelblue":   {R: 70, G: 130, B: 180, A: 255},
	"transparent": {R: 0, G: 0, B: 0, A: 0},
}

// ParseColor parses a color in one of these forms:
//   - a name such as "white" or "steelblue"
//   - #RGB, #RGBA, #RRGGBB or #RRGGBBAA
//   - rgb(r, g, b) or rgba(r, g, b, a) where a is 0-255 or 0.0-1.0
func ParseColor(s string) (color.RGBA, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return color.RGBA{}, fmt.Errorf("empty color string")
	}
	lower := strings.ToLower(s)
	if c, ok := namedColors[lower]; ok {
		return c, nil
	}
	switch {
	case strings.HasPrefix(s, "#"):
		return parseHexColor(s[1:])
	case strings.HasPrefix(lower, "rgba(") && strings.HasSuffix(s, ")"):
		return parseColorFunc(s[5:len(s)-1], 4)
	case strings.HasPrefix(lower, "rgb(") && strings.HasSuffix(s, ")"):
		return parseColorFunc(s[4:len(s)-1], 3)
	}
	return color.RGBA{}, fmt.Errorf("unrecognized color format: %q", s)
}

func parseHexColor(hex string) (color.RGBA, error) {
	var digits int
	switch len(hex) {
	case 3, 4:
		digits = 1
	case 6, 8:
		digits = 2
	default:
		return color.RGBA{}, fmt.Errorf("invalid hex color length: %d", len(hex))
	}

	ch := [4]uint8{0, 0, 0, 255}
	for i := 0; i*digits < len(hex); i++ {
		part := hex[i*digits : (i+1)*digits]
		if digits == 1 {
			part += part
		}
		v, err := strconv.ParseUint(part, 16, 8)
		if err != nil {
			return color.RGBA{}, fmt.Errorf("invalid hex component %q: %w", part, err)
		}
		ch[i] = uint8(v)
	}
	return color.RGBA{R: ch[0], G: ch[1], B: ch[2], A: ch[3]}, nil
}

func parseColorFunc(args string, want int) (color.RGBA, error) {
	parts := strings.Split(args, ",")
	if len(parts) != want {
		return color.RGBA{}, fmt.Errorf("expected %d color values, got %d", want, len(parts))
	}
	ch := [4]uint8{0, 0, 0, 255}
	for i, p := range parts {
		p = strings.TrimSpace(p)
		if i == 3 && strings.Contains(p, ".") {
			f, err := strconv.ParseFloat(p, 64)
			if err != nil {
				return color.RGBA{}, fmt.Errorf("invalid alpha value %q: %w", p, err)
			}
			f = min(max(f, 0), 1)
			ch[i] = uint8(f*255 + 0.5)
			continue
		}
		v, err := strconv.ParseUint(p, 10, 8)
		if err != nil {
			return color.RGBA{}, fmt.Errorf("invalid color value %q: %w", p, err)
		}
		ch[i] = uint8(v)
	}
	return color.RGBA{R: ch[0], G: ch[1], B: ch[2], A: ch[3]}, nil
}

// FormatColor writes c as #rrggbbaa, the form used when saving.
func FormatColor(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
}
