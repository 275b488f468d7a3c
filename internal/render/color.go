package render

import (
	"image/color"
)

// Colors in this package carry straight (non-premultiplied) alpha, matching
// the values users write in the settings file.

// WithAlpha returns c with its alpha replaced.
func WithAlpha(c color.RGBA, alpha uint8) color.RGBA {
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: alpha}
}

// Shift adds delta to each color channel, clamping to [0, 255]. Alpha is kept.
func Shift(c color.RGBA, delta int) color.RGBA {
	return color.RGBA{
		R: clampChannel(int(c.R) + delta),
		G: clampChannel(int(c.G) + delta),
		B: clampChannel(int(c.B) + delta),
		A: c.A,
	}
}

// ShiftAlpha adds delta to the alpha channel, clamping to [0, 255].
func ShiftAlpha(c color.RGBA, delta int) color.RGBA {
	c.A = clampChannel(int(c.A) + delta)
	return c
}

// Blend mixes c1 and c2. A ratio of 0 returns c1, 1 returns c2.
func Blend(c1, c2 color.RGBA, ratio float64) color.RGBA {
	if ratio < 0 {
		ratio = 0
	}
	if ratio > 1 {
		ratio = 1
	}

	return color.RGBA{
		R: blendChannel(c1.R, c2.R, ratio),
		G: blendChannel(c1.G, c2.G, ratio),
		B: blendChannel(c1.B, c2.B, ratio),
		A: blendChannel(c1.A, c2.A, ratio),
	}
}

func blendChannel(a, b uint8, ratio float64) uint8 {
	return uint8(float64(a)*(1-ratio) + float64(b)*ratio + 0.5)
}

func clampChannel(v int) uint8 {
	switch {
	case v < 0:
		return 0
	case v > 255:
		return 255
	default:
		return uint8(v)
	}
}

// channels returns c as four floats in [0, 1].
func channels(c color.RGBA) (r, g, b, a float64) {
	return float64(c.R) / 255, float64(c.G) / 255, float64(c.B) / 255, float64(c.A) / 255
}
