package imaging

import (
	"fmt"
	"image"

	"github.com/lucasb-eyer/go-colorful"
)

// HSLColor represents a color in HSL (Hue, Saturation, Lightness) space.
type HSLColor struct {
	H int `json:"h"` // Hue: 0-360 degrees (0=red, 120=green, 240=blue)
	S int `json:"s"` // Saturation: 0-100 percent (0=gray, 100=vivid)
	L int `json:"l"` // Lightness: 0-100 percent (0=black, 100=white)
}

// ColorResult contains a sampled color in the representations downstream
// consumers ask for: a hex string for reports, raw 8-bit components, and an
// HSL view for perceptual comparisons.
type ColorResult struct {
	Hex string   `json:"hex"` // "#rrggbb"
	R   uint8    `json:"r"`
	G   uint8    `json:"g"`
	B   uint8    `json:"b"`
	HSL HSLColor `json:"hsl"`
}

// SampleColor extracts the color value at a specific pixel coordinate.
// Coordinates are 0-based with origin at top-left. Returns an error when
// (x, y) lies outside the image bounds.
func SampleColor(img image.Image, x, y int) (*ColorResult, error) {
	bounds := img.Bounds()
	if x < bounds.Min.X || x >= bounds.Max.X || y < bounds.Min.Y || y >= bounds.Max.Y {
		return nil, fmt.Errorf("coordinates (%d,%d) outside image bounds", x, y)
	}

	c, ok := colorful.MakeColor(img.At(x, y))
	if !ok {
		// Fully transparent pixel; report it as black.
		c = colorful.Color{}
	}

	r8 := uint8(c.R*255 + 0.5)
	g8 := uint8(c.G*255 + 0.5)
	b8 := uint8(c.B*255 + 0.5)
	h, s, l := c.Hsl()

	return &ColorResult{
		Hex: c.Hex(),
		R:   r8,
		G:   g8,
		B:   b8,
		HSL: HSLColor{
			H: int(h + 0.5),
			S: int(s*100 + 0.5),
			L: int(l*100 + 0.5),
		},
	}, nil
}

// SampleColorClamped is SampleColor with border replication: out-of-range
// coordinates are clamped to the nearest valid pixel instead of erroring.
// Used when sampling along detected geometry, which may brush the borders.
func SampleColorClamped(img image.Image, x, y int) *ColorResult {
	bounds := img.Bounds()
	if x < bounds.Min.X {
		x = bounds.Min.X
	}
	if x >= bounds.Max.X {
		x = bounds.Max.X - 1
	}
	if y < bounds.Min.Y {
		y = bounds.Min.Y
	}
	if y >= bounds.Max.Y {
		y = bounds.Max.Y - 1
	}
	result, _ := SampleColor(img, x, y)
	return result
}
