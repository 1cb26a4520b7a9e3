package detection

import (
	"fmt"
	"image"
	"sort"

	"github.com/ironsheep/line-tools-mcp/internal/imaging"
)

// Bounds represents a rectangular bounding box in pixel coordinates.
// (X1, Y1) is the top-left corner and (X2, Y2) the bottom-right, both
// inclusive.
type Bounds struct {
	X1 int `json:"x1"`
	Y1 int `json:"y1"`
	X2 int `json:"x2"`
	Y2 int `json:"y2"`
}

// defaultMinRegionPixels is the smallest connected component worth
// reporting; anything below it is noise.
const defaultMinRegionPixels = 10

// Region is a connected group of edge pixels: the outline of one shape in
// the image.
type Region struct {
	// Bounds is the bounding box enclosing the region.
	Bounds Bounds `json:"bounds"`

	// Center is the midpoint of the bounding box.
	Center Point `json:"center"`

	// PixelCount is the number of edge pixels in the region.
	PixelCount int `json:"pixel_count"`

	// Area is the bounding box area in square pixels.
	Area int `json:"area"`

	// FillColor is the hex color sampled at the region center in the
	// source image, when one was available.
	FillColor string `json:"fill_color,omitempty"`
}

// RegionsResult contains the regions extracted from an edge map, sorted by
// area (largest first).
type RegionsResult struct {
	Regions []Region `json:"regions"`
	Count   int      `json:"count"`
}

// ExtractRegions groups connected edge pixels of the shared luminance map
// into shape regions. Connectivity is 8-way; components smaller than
// minPixels are discarded (pass 0 for the default).
//
// This is the shape-extraction half of the pipeline, and it consumes the
// SAME edge map the line detector votes from, so the two subsystems always
// agree on what counts as an edge. img is optional and used only for
// sampling fill colors.
func ExtractRegions(img image.Image, lum *imaging.LuminanceMap, minPixels int) (*RegionsResult, error) {
	if lum == nil {
		return nil, fmt.Errorf("%w: nil luminance map", ErrInvalidInput)
	}
	if minPixels <= 0 {
		minPixels = defaultMinRegionPixels
	}

	width := lum.Width()
	height := lum.Height()
	visited := make([]bool, width*height)

	regions := make([]Region, 0)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if visited[y*width+x] || !lum.IsEdge(x, y) {
				continue
			}
			component := floodFill(lum, visited, x, y)
			if len(component) < minPixels {
				continue
			}
			regions = append(regions, buildRegion(img, component))
		}
	}

	sort.Slice(regions, func(i, j int) bool {
		return regions[i].Area > regions[j].Area
	})

	return &RegionsResult{Regions: regions, Count: len(regions)}, nil
}

// floodFill collects the 8-connected component of edge pixels containing
// (startX, startY). Iterative with an explicit stack so deep components
// cannot overflow the goroutine stack.
func floodFill(lum *imaging.LuminanceMap, visited []bool, startX, startY int) []Point {
	width := lum.Width()
	height := lum.Height()

	component := make([]Point, 0)
	stack := []Point{{X: startX, Y: startY}}

	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if p.X < 0 || p.X >= width || p.Y < 0 || p.Y >= height {
			continue
		}
		idx := p.Y*width + p.X
		if visited[idx] || !lum.IsEdge(p.X, p.Y) {
			continue
		}

		visited[idx] = true
		component = append(component, p)

		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				if dx == 0 && dy == 0 {
					continue
				}
				stack = append(stack, Point{X: p.X + dx, Y: p.Y + dy})
			}
		}
	}

	return component
}

// buildRegion derives the reported region record from a connected component.
func buildRegion(img image.Image, component []Point) Region {
	minX, minY := component[0].X, component[0].Y
	maxX, maxY := minX, minY
	for _, p := range component {
		if p.X < minX {
			minX = p.X
		}
		if p.X > maxX {
			maxX = p.X
		}
		if p.Y < minY {
			minY = p.Y
		}
		if p.Y > maxY {
			maxY = p.Y
		}
	}

	center := Point{X: (minX + maxX) / 2, Y: (minY + maxY) / 2}

	region := Region{
		Bounds:     Bounds{X1: minX, Y1: minY, X2: maxX, Y2: maxY},
		Center:     center,
		PixelCount: len(component),
		Area:       (maxX - minX + 1) * (maxY - minY + 1),
	}

	if img != nil {
		bounds := img.Bounds()
		if c := imaging.SampleColorClamped(img, center.X+bounds.Min.X, center.Y+bounds.Min.Y); c != nil {
			region.FillColor = c.Hex
		}
	}

	return region
}
