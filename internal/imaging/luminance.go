package imaging

import (
	"fmt"
	"image"
	"math"

	"github.com/anthonynsimon/bild/blur"
)

// GradientDirection is a coarse compass classification of the local luminance
// gradient at a pixel. The name describes the direction in which pixels get
// brighter.
type GradientDirection uint8

const (
	// GradientWestToEast means luminance increases from left to right.
	GradientWestToEast GradientDirection = iota
	// GradientEastToWest means luminance increases from right to left.
	GradientEastToWest
	// GradientSouthToNorth means luminance increases from bottom to top.
	GradientSouthToNorth
	// GradientNorthToSouth means luminance increases from top to bottom.
	GradientNorthToSouth
	// GradientSWToNE means luminance increases toward the upper right.
	GradientSWToNE
	// GradientNWToSE means luminance increases toward the lower right.
	GradientNWToSE
	// GradientSEToNW means luminance increases toward the upper left.
	GradientSEToNW
	// GradientNEToSW means luminance increases toward the lower left.
	GradientNEToSW
)

// String returns the compass name of the direction, e.g. "W->E".
func (d GradientDirection) String() string {
	switch d {
	case GradientWestToEast:
		return "W->E"
	case GradientEastToWest:
		return "E->W"
	case GradientSouthToNorth:
		return "S->N"
	case GradientNorthToSouth:
		return "N->S"
	case GradientSWToNE:
		return "SW->NE"
	case GradientNWToSE:
		return "NW->SE"
	case GradientSEToNW:
		return "SE->NW"
	case GradientNEToSW:
		return "NE->SW"
	}
	return "unknown"
}

// maxGradientForStraightLine is the dead band applied to each gradient axis
// when classifying a direction: a component whose absolute value is at or
// below this is treated as "no change" along that axis.
const maxGradientForStraightLine = 10

// DefaultEdgeThreshold is the Sobel magnitude at or above which a pixel is
// classified as an edge.
const DefaultEdgeThreshold = 25

// LuminanceEntry holds the per-pixel values computed once up front so that
// later passes (line detection, region extraction) never have to touch the
// source image again.
type LuminanceEntry struct {
	Gray        uint8
	IsEdge      bool
	GradientMag int32
	GradientDir GradientDirection
}

// LuminanceOptions configures how a LuminanceMap is built.
type LuminanceOptions struct {
	// EdgeThreshold is the minimum clipped Sobel magnitude for a pixel to
	// count as an edge. Zero selects DefaultEdgeThreshold.
	EdgeThreshold int

	// Smooth applies a Gaussian blur to the source image before the
	// luminance pass. Useful for photographs; line art is better left
	// unsmoothed.
	Smooth bool

	// SmoothRadius is the blur radius when Smooth is set. Zero selects 1.4,
	// a common choice for pre-edge-detection smoothing.
	SmoothRadius float64
}

// LuminanceMap is the per-pixel luminance and gradient table shared by the
// line detector and the region extractor. It is built once from a source
// image and is read-only afterwards.
//
// All queries clamp out-of-range coordinates to the nearest valid pixel
// (border replication), so callers may probe one pixel beyond every border
// without checking bounds.
//
// # Construction
//
// The build runs two passes:
//
//  1. Grayscale conversion with the weights 0.30*R + 0.59*G + 0.11*B,
//     rounded and clipped to [0,255].
//
//  2. Sobel gradients over the grayscale values:
//
//     Gx = (2*right + aboveRight + belowRight) - (2*left + aboveLeft + belowLeft)
//     Gy = (2*above + aboveLeft + aboveRight) - (2*below + belowLeft + belowRight)
//     |G| = round(sqrt(Gx^2 + Gy^2))
//
//     A pixel is an edge when |G| (clipped to [0,255]) reaches the edge
//     threshold. The raw, unclipped magnitude is retained for diagnostics.
//
// Each edge pixel also gets one of eight compass direction codes from the
// signs of Gx and Gy, with a dead band of 10 on either axis so that nearly
// axis-aligned gradients classify as straight horizontal or vertical.
type LuminanceMap struct {
	width   int
	height  int
	entries []LuminanceEntry
}

// BuildLuminanceMap computes the luminance and gradient table for img.
// It returns ErrInvalidImage if the image has no pixels.
func BuildLuminanceMap(img image.Image, opts LuminanceOptions) (*LuminanceMap, error) {
	if img == nil {
		return nil, fmt.Errorf("%w: nil image", ErrInvalidImage)
	}
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d image", ErrInvalidImage, width, height)
	}

	threshold := opts.EdgeThreshold
	if threshold == 0 {
		threshold = DefaultEdgeThreshold
	}

	if opts.Smooth {
		radius := opts.SmoothRadius
		if radius == 0 {
			radius = 1.4
		}
		img = blur.Gaussian(img, radius)
		bounds = img.Bounds()
	}

	m := &LuminanceMap{
		width:   width,
		height:  height,
		entries: make([]LuminanceEntry, width*height),
	}

	// First pass: grayscale, so each pixel's luminance is computed once.
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			r, g, b, _ := img.At(x+bounds.Min.X, y+bounds.Min.Y).RGBA()
			m.entries[y*width+x].Gray = grayLuminance(uint8(r>>8), uint8(g>>8), uint8(b>>8))
		}
	}

	// Second pass: Sobel gradients over the grayscale values.
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			above := int32(m.Luminance(x, y-1))
			below := int32(m.Luminance(x, y+1))
			left := int32(m.Luminance(x-1, y))
			right := int32(m.Luminance(x+1, y))
			aboveLeft := int32(m.Luminance(x-1, y-1))
			aboveRight := int32(m.Luminance(x+1, y-1))
			belowLeft := int32(m.Luminance(x-1, y+1))
			belowRight := int32(m.Luminance(x+1, y+1))

			gx := (2*right + aboveRight + belowRight) - (2*left + aboveLeft + belowLeft)
			gy := (2*above + aboveLeft + aboveRight) - (2*below + belowLeft + belowRight)

			raw := int32(math.Round(math.Sqrt(float64(gx*gx) + float64(gy*gy))))
			clipped := raw
			if clipped > 255 {
				clipped = 255
			}

			entry := &m.entries[y*width+x]
			entry.GradientMag = raw
			if clipped >= int32(threshold) {
				entry.IsEdge = true
				entry.GradientDir = classifyGradient(gx, gy)
			}
		}
	}

	return m, nil
}

// BinaryEdgeMap builds a LuminanceMap directly from an already-binarized
// edges image: every pixel at or below blackThreshold is an edge. Gradients
// are still computed from the image so the line detector's angular sweep has
// something to center on. This is the path used when a caller has produced
// its own edge image and only wants line detection.
func BinaryEdgeMap(img image.Image, blackThreshold uint8) (*LuminanceMap, error) {
	m, err := BuildLuminanceMap(img, LuminanceOptions{})
	if err != nil {
		return nil, err
	}
	for i := range m.entries {
		m.entries[i].IsEdge = m.entries[i].Gray <= blackThreshold
	}
	return m, nil
}

// Width returns the width of the mapped image in pixels.
func (m *LuminanceMap) Width() int { return m.width }

// Height returns the height of the mapped image in pixels.
func (m *LuminanceMap) Height() int { return m.height }

// Luminance returns the grayscale value at (x, y), clamping coordinates to
// the image borders.
func (m *LuminanceMap) Luminance(x, y int) uint8 {
	return m.entries[m.clampedIndex(x, y)].Gray
}

// IsEdge reports whether the pixel at (x, y) is an edge pixel, clamping
// coordinates to the image borders.
func (m *LuminanceMap) IsEdge(x, y int) bool {
	return m.entries[m.clampedIndex(x, y)].IsEdge
}

// GradientMag returns the raw, unclipped Sobel magnitude at (x, y).
func (m *LuminanceMap) GradientMag(x, y int) int32 {
	return m.entries[m.clampedIndex(x, y)].GradientMag
}

// GradientDir returns the compass direction code at (x, y). The value is
// only meaningful for edge pixels.
func (m *LuminanceMap) GradientDir(x, y int) GradientDirection {
	return m.entries[m.clampedIndex(x, y)].GradientDir
}

// EdgeImage renders the edge map as a grayscale image with edges black on a
// white background, the form consumed by downstream tooling and useful for
// visual inspection.
func (m *LuminanceMap) EdgeImage() *image.Gray {
	out := image.NewGray(image.Rect(0, 0, m.width, m.height))
	for y := 0; y < m.height; y++ {
		for x := 0; x < m.width; x++ {
			if !m.entries[y*m.width+x].IsEdge {
				out.Pix[out.PixOffset(x, y)] = 255
			}
		}
	}
	return out
}

// EdgeCount returns the number of edge pixels in the map.
func (m *LuminanceMap) EdgeCount() int {
	n := 0
	for i := range m.entries {
		if m.entries[i].IsEdge {
			n++
		}
	}
	return n
}

func (m *LuminanceMap) clampedIndex(x, y int) int {
	if x < 0 {
		x = 0
	}
	if x >= m.width {
		x = m.width - 1
	}
	if y < 0 {
		y = 0
	}
	if y >= m.height {
		y = m.height - 1
	}
	return y*m.width + x
}

// grayLuminance converts 8-bit RGB components to a grayscale value using the
// weighted sum 0.30*R + 0.59*G + 0.11*B.
func grayLuminance(r, g, b uint8) uint8 {
	v := math.Round(0.30*float64(r) + 0.59*float64(g) + 0.11*float64(b))
	if v > 255 {
		v = 255
	}
	if v < 0 {
		v = 0
	}
	return uint8(v)
}

// classifyGradient maps signed Sobel components to one of the eight compass
// direction codes. Components within the dead band count as "no change"
// along that axis.
func classifyGradient(gx, gy int32) GradientDirection {
	absX := gx
	if absX < 0 {
		absX = -absX
	}
	absY := gy
	if absY < 0 {
		absY = -absY
	}

	switch {
	case absY <= maxGradientForStraightLine:
		if gx >= 0 {
			return GradientWestToEast
		}
		return GradientEastToWest
	case absX <= maxGradientForStraightLine:
		if gy >= 0 {
			return GradientSouthToNorth
		}
		return GradientNorthToSouth
	case gx >= 0:
		if gy >= 0 {
			return GradientSWToNE
		}
		return GradientNWToSE
	default:
		if gy >= 0 {
			return GradientSEToNW
		}
		return GradientNEToSW
	}
}
