package detection

import "math"

// Point represents a 2D coordinate in pixel space.
type Point struct {
	X int `json:"x"` // Horizontal position (0 = leftmost)
	Y int `json:"y"` // Vertical position (0 = topmost)
}

// lexLess orders points by X, breaking ties by Y. This is the order the
// accumulator uses to track the extreme endpoints of a candidate line.
func lexLess(a, b Point) bool {
	if a.X != b.X {
		return a.X < b.X
	}
	return a.Y < b.Y
}

// pointDistance returns the Euclidean distance between two points.
func pointDistance(a, b Point) float64 {
	dx := float64(a.X - b.X)
	dy := float64(a.Y - b.Y)
	return math.Sqrt(dx*dx + dy*dy)
}

// Segment is an accepted line segment.
//
// A segment is described both by its endpoints and by slope/intercept form;
// the endpoints are authoritative and the derived values are recomputed
// whenever the endpoints move. Endpoints are kept ordered so that
// A.X <= B.X, with ties broken by Y.
//
// Near-vertical segments get a finite sentinel slope: when the endpoints
// share an X coordinate the slope is computed as if deltaX were 1, which
// keeps the slope/intercept arithmetic total without a special case at
// every use site.
type Segment struct {
	A Point `json:"a"`
	B Point `json:"b"`

	Slope               float64 `json:"slope"`
	YIntercept          float64 `json:"y_intercept"`
	AngleWithHorizontal float64 `json:"angle_with_horizontal"` // radians

	// PixelCount is the number of edge pixels found along the segment's
	// theoretical path (see merger densification).
	PixelCount int `json:"pixel_count"`

	// Length is the Euclidean distance between the endpoints, cached by
	// Len(). Zero until first measured.
	Length float64 `json:"length"`

	// Color is the hex color sampled at the segment midpoint in the source
	// image, when a source image was available.
	Color string `json:"color,omitempty"`

	pixels []Point
}

// newSegment builds a segment from two endpoints, ordering them and deriving
// slope, intercept, and angle.
func newSegment(a, b Point) *Segment {
	s := &Segment{A: a, B: b}
	s.orderEndpoints()
	s.deriveLineForm()
	return s
}

// orderEndpoints swaps A and B if needed so A.X <= B.X (ties by Y).
func (s *Segment) orderEndpoints() {
	if lexLess(s.B, s.A) {
		s.A, s.B = s.B, s.A
	}
}

// deriveLineForm recomputes slope, intercept, and angle from the endpoints.
// Callers must invoke this after moving either endpoint.
func (s *Segment) deriveLineForm() {
	deltaX := s.B.X - s.A.X
	deltaY := s.B.Y - s.A.Y
	// Treat vertical segments as almost vertical so the slope stays finite.
	if deltaX == 0 {
		deltaX = 1
	}
	s.Slope = float64(deltaY) / float64(deltaX)
	// y = mx + b, so b = y - mx
	s.YIntercept = float64(s.A.Y) - s.Slope*float64(s.A.X)
	s.AngleWithHorizontal = math.Atan2(1.0, s.Slope)
	s.Length = 0 // stale once endpoints move
}

// Len returns the Euclidean distance between the endpoints, computing and
// caching it on first use.
func (s *Segment) Len() float64 {
	if s.Length == 0 {
		s.Length = pointDistance(s.A, s.B)
	}
	return s.Length
}

// Pixels returns the member edge pixels recorded during densification.
// The slice is owned by the segment; callers must not modify it.
func (s *Segment) Pixels() []Point {
	return s.pixels
}

// Midpoint returns the integer midpoint of the segment.
func (s *Segment) Midpoint() Point {
	return Point{X: (s.A.X + s.B.X) / 2, Y: (s.A.Y + s.B.Y) / 2}
}

// valuesClose reports whether two values differ by at most tolerance.
func valuesClose(a, b, tolerance float64) bool {
	return math.Abs(a-b) <= tolerance
}
