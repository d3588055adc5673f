package render

import (
	"image/color"
	"math"
)

// Color is an alias for color.RGBA for convenience.
type Color = color.RGBA

// Colors for convenience
var (
	ColorBlack = color.RGBA{0, 0, 0, 255}
	ColorWhite = color.RGBA{255, 255, 255, 255}
	ColorRed   = color.RGBA{255, 0, 0, 255}
	ColorGreen = color.RGBA{0, 255, 0, 255}
	ColorBlue  = color.RGBA{0, 0, 255, 255}
	ColorGray  = color.RGBA{128, 128, 128, 255}
)

// RGB creates an opaque color from RGB values.
func RGB(r, g, b uint8) color.RGBA {
	return color.RGBA{r, g, b, 255}
}

// MulColor scales the RGB channels by m, clamping each to [0, 255] and
// rounding. The result is opaque.
func MulColor(c Color, m float64) Color {
	return Color{
		R: scaleChannel(c.R, m),
		G: scaleChannel(c.G, m),
		B: scaleChannel(c.B, m),
		A: 255,
	}
}

func scaleChannel(v uint8, m float64) uint8 {
	f := float64(v) * m
	if math.IsNaN(f) {
		return 0
	}
	return uint8(math.Round(min(max(f, 0), 255)))
}
