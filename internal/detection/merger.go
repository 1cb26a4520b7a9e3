package detection

import (
	"github.com/ironsheep/line-tools-mcp/internal/imaging"
)

// merger maintains the accepted-segment list for one detection pass. Each
// harvested candidate is either folded into an existing collinear segment
// or admitted as a new one.
//
// The check against every accepted segment makes each offer O(accepted),
// quadratic in the output size. That is fine in practice: the harvester's
// vote threshold keeps the accepted list small regardless of image size.
type merger struct {
	cfg      Config
	lum      *imaging.LuminanceMap
	segments []*Segment
	metrics  *Metrics
}

func newMerger(cfg Config, lum *imaging.LuminanceMap, metrics *Metrics) *merger {
	return &merger{cfg: cfg, lum: lum, metrics: metrics}
}

// offer decides a candidate's fate: merge into an existing segment, admit
// as a new segment, or drop for insufficient pixel density.
func (m *merger) offer(c *Candidate) {
	seg := newSegment(c.EndpointA, c.EndpointB)

	if m.absorb(seg) {
		m.metrics.NumDuplicateLines++
		return
	}

	m.densify(seg)

	// A candidate whose theoretical path crosses mostly empty space is an
	// accident of voting, not a line.
	if seg.Len() > 0 && float64(seg.PixelCount)/seg.Len() < m.cfg.MinPixelDensity {
		return
	}

	m.segments = append(m.segments, seg)
}

// absorb looks for an accepted segment that the candidate overlaps and, if
// found, extends that segment to cover the candidate. The merge is
// destructive: the existing segment keeps its identity and the candidate
// is discarded, vote count and all.
//
// Overlap requires similar slope AND similar y-intercept, plus any one of:
//   - either endpoint of the existing segment falls inside the candidate's
//     x range, or the candidate lies inside the existing segment's x range,
//   - the x gap between the two is small enough that they read as dashes
//     of one broken line,
//   - the two A endpoints nearly coincide.
func (m *merger) absorb(c *Segment) bool {
	for _, existing := range m.segments {
		if !valuesClose(c.Slope, existing.Slope, m.cfg.AngleResolution) {
			continue
		}
		if !valuesClose(c.YIntercept, existing.YIntercept, m.cfg.MinPointResolution) {
			continue
		}

		overlapping := false
		if existing.A.X >= c.A.X && existing.A.X <= c.B.X {
			overlapping = true
		} else if existing.B.X >= c.A.X && existing.B.X <= c.B.X {
			overlapping = true
		} else if c.A.X >= existing.A.X && c.A.X <= existing.B.X {
			overlapping = true
		}
		if !overlapping {
			gapAB := existing.A.X - c.B.X
			if gapAB < 0 {
				gapAB = -gapAB
			}
			gapBA := existing.B.X - c.A.X
			if gapBA < 0 {
				gapBA = -gapBA
			}
			if gapAB <= m.cfg.MaxGapBetweenDashes || gapBA <= m.cfg.MaxGapBetweenDashes {
				overlapping = true
			}
		}
		if !overlapping {
			if pointDistance(existing.A, c.A) <= m.cfg.MinPointResolution {
				overlapping = true
			}
		}
		if !overlapping {
			continue
		}

		// Extend the existing segment to span both, then rederive the line
		// form from the new endpoints and rebuild the member pixel list so
		// the pixel count stays in step with the geometry.
		if c.A.X < existing.A.X {
			existing.A = c.A
		}
		if c.B.X > existing.B.X {
			existing.B = c.B
		}
		existing.deriveLineForm()
		m.densify(existing)
		return true
	}
	return false
}

// densify walks the segment's theoretical path and collects the edge pixels
// that actually support it. The walk iterates the dominant axis: for each
// integer step the predicted crossing on the other axis is truncated and
// the three pixels around it are probed, which tolerates the one-pixel
// wobble of a rasterized line. Walking x alone would visit only a handful
// of columns on a near-vertical segment and starve its pixel count.
func (m *merger) densify(s *Segment) {
	s.pixels = s.pixels[:0]

	deltaX := s.B.X - s.A.X
	deltaY := s.B.Y - s.A.Y
	if deltaY < 0 {
		deltaY = -deltaY
	}
	if deltaY > deltaX {
		m.densifyByY(s)
	} else {
		m.densifyByX(s)
	}
	s.PixelCount = len(s.pixels)
}

func (m *merger) densifyByX(s *Segment) {
	width := m.lum.Width()
	height := m.lum.Height()

	for x := s.A.X; x <= s.B.X; x++ {
		if x < 0 || x >= width {
			continue
		}
		theoreticalY := float64(x)*s.Slope + s.YIntercept
		base := int(theoreticalY)
		for _, y := range [3]int{base, base + 1, base - 1} {
			if y < 0 || y >= height {
				continue
			}
			if m.lum.IsEdge(x, y) {
				s.pixels = append(s.pixels, Point{X: x, Y: y})
			}
		}
	}
}

func (m *merger) densifyByY(s *Segment) {
	width := m.lum.Width()
	height := m.lum.Height()

	minY, maxY := s.A.Y, s.B.Y
	if minY > maxY {
		minY, maxY = maxY, minY
	}
	for y := minY; y <= maxY; y++ {
		if y < 0 || y >= height {
			continue
		}
		// x = (y - b) / m; the slope is never zero here because the walk
		// only runs when |deltaY| > |deltaX|.
		theoreticalX := (float64(y) - s.YIntercept) / s.Slope
		base := int(theoreticalX)
		for _, x := range [3]int{base, base + 1, base - 1} {
			if x < 0 || x >= width {
				continue
			}
			if m.lum.IsEdge(x, y) {
				s.pixels = append(s.pixels, Point{X: x, Y: y})
			}
		}
	}
}
