package detection

import (
	"image/color"
	"math"
	"testing"

	"github.com/ironsheep/line-tools-mcp/internal/imaging"
)

func newTestMerger(t *testing.T, lum *imaging.LuminanceMap) (*merger, *Metrics) {
	t.Helper()
	metrics := &Metrics{}
	return newMerger(StrictConfig(), lum, metrics), metrics
}

func binaryMapWithRow(t *testing.T, width, height, y, x1, x2 int) *imaging.LuminanceMap {
	t.Helper()
	img := createHorizontalLineImage(width, height, y, x1, x2)
	lum, err := imaging.BinaryEdgeMap(img, 128)
	if err != nil {
		t.Fatalf("BinaryEdgeMap failed: %v", err)
	}
	return lum
}

func TestMerger_AdmitsNewSegment(t *testing.T) {
	lum := binaryMapWithRow(t, 100, 100, 50, 10, 80)
	m, metrics := newTestMerger(t, lum)

	m.offer(&Candidate{Votes: 100, EndpointA: Point{10, 50}, EndpointB: Point{80, 50}})

	if len(m.segments) != 1 {
		t.Fatalf("Expected 1 segment, got %d", len(m.segments))
	}
	seg := m.segments[0]
	if seg.A != (Point{10, 50}) || seg.B != (Point{80, 50}) {
		t.Errorf("Unexpected endpoints A=%v B=%v", seg.A, seg.B)
	}
	if seg.PixelCount == 0 {
		t.Error("Expected densification to find the ink pixels")
	}
	if metrics.NumDuplicateLines != 0 {
		t.Error("Nothing should have merged")
	}
}

func TestMerger_MergesOverlapping(t *testing.T) {
	lum := binaryMapWithRow(t, 100, 100, 50, 10, 90)
	m, metrics := newTestMerger(t, lum)

	m.offer(&Candidate{Votes: 100, EndpointA: Point{10, 50}, EndpointB: Point{60, 50}})
	m.offer(&Candidate{Votes: 100, EndpointA: Point{40, 50}, EndpointB: Point{90, 50}})

	if len(m.segments) != 1 {
		t.Fatalf("Expected overlap to merge, got %d segments", len(m.segments))
	}
	seg := m.segments[0]
	if seg.A.X != 10 || seg.B.X != 90 {
		t.Errorf("Expected merged span [10,90], got [%d,%d]", seg.A.X, seg.B.X)
	}
	if metrics.NumDuplicateLines != 1 {
		t.Errorf("Expected 1 duplicate, got %d", metrics.NumDuplicateLines)
	}
}

func TestMerger_MergesDashes(t *testing.T) {
	// Disjoint but collinear, with an x gap inside MaxGapBetweenDashes.
	img := createTestImage(100, 100, color.White)
	for x := 10; x <= 40; x++ {
		img.Set(x, 50, color.Black)
	}
	for x := 50; x <= 80; x++ {
		img.Set(x, 50, color.Black)
	}
	lum, err := imaging.BinaryEdgeMap(img, 128)
	if err != nil {
		t.Fatalf("BinaryEdgeMap failed: %v", err)
	}
	m, metrics := newTestMerger(t, lum)

	m.offer(&Candidate{Votes: 100, EndpointA: Point{10, 50}, EndpointB: Point{40, 50}})
	m.offer(&Candidate{Votes: 100, EndpointA: Point{50, 50}, EndpointB: Point{80, 50}})

	if len(m.segments) != 1 {
		t.Fatalf("Expected dashes to merge, got %d segments", len(m.segments))
	}
	if m.segments[0].A.X != 10 || m.segments[0].B.X != 80 {
		t.Errorf("Expected merged span [10,80], got [%d,%d]", m.segments[0].A.X, m.segments[0].B.X)
	}
	if metrics.NumDuplicateLines != 1 {
		t.Errorf("Expected 1 duplicate, got %d", metrics.NumDuplicateLines)
	}
}

func TestMerger_GapTooWideStaysSeparate(t *testing.T) {
	img := createTestImage(200, 100, color.White)
	for x := 10; x <= 40; x++ {
		img.Set(x, 50, color.Black)
	}
	for x := 60; x <= 90; x++ {
		img.Set(x, 50, color.Black)
	}
	lum, err := imaging.BinaryEdgeMap(img, 128)
	if err != nil {
		t.Fatalf("BinaryEdgeMap failed: %v", err)
	}
	m, _ := newTestMerger(t, lum)

	m.offer(&Candidate{Votes: 100, EndpointA: Point{10, 50}, EndpointB: Point{40, 50}})
	// Gap of 20 exceeds MaxGapBetweenDashes=10.
	m.offer(&Candidate{Votes: 100, EndpointA: Point{60, 50}, EndpointB: Point{90, 50}})

	if len(m.segments) != 2 {
		t.Fatalf("Expected separate segments across a wide gap, got %d", len(m.segments))
	}
}

func TestMerger_DifferentInterceptStaysSeparate(t *testing.T) {
	img := createTestImage(100, 100, color.White)
	for x := 10; x <= 80; x++ {
		img.Set(x, 30, color.Black)
		img.Set(x, 70, color.Black)
	}
	lum, err := imaging.BinaryEdgeMap(img, 128)
	if err != nil {
		t.Fatalf("BinaryEdgeMap failed: %v", err)
	}
	m, _ := newTestMerger(t, lum)

	m.offer(&Candidate{Votes: 100, EndpointA: Point{10, 30}, EndpointB: Point{80, 30}})
	m.offer(&Candidate{Votes: 100, EndpointA: Point{10, 70}, EndpointB: Point{80, 70}})

	if len(m.segments) != 2 {
		t.Fatalf("Expected intercepts 40 apart to stay separate, got %d segments", len(m.segments))
	}
}

func TestMerger_MergeRecomputesLineForm(t *testing.T) {
	img := createTestImage(100, 100, color.White)
	for x := 10; x <= 90; x++ {
		img.Set(x, 50, color.Black)
		img.Set(x, 52, color.Black)
	}
	lum, err := imaging.BinaryEdgeMap(img, 128)
	if err != nil {
		t.Fatalf("BinaryEdgeMap failed: %v", err)
	}
	m, _ := newTestMerger(t, lum)

	m.offer(&Candidate{Votes: 100, EndpointA: Point{10, 50}, EndpointB: Point{60, 50}})
	m.offer(&Candidate{Votes: 100, EndpointA: Point{40, 52}, EndpointB: Point{90, 52}})

	if len(m.segments) != 1 {
		t.Fatalf("Expected merge, got %d segments", len(m.segments))
	}
	seg := m.segments[0]
	// Slope and intercept must derive from the NEW endpoints, not the
	// candidate's stale values.
	wantSlope := float64(seg.B.Y-seg.A.Y) / float64(seg.B.X-seg.A.X)
	if math.Abs(seg.Slope-wantSlope) > 1e-9 {
		t.Errorf("Slope %f not recomputed from endpoints (want %f)", seg.Slope, wantSlope)
	}
	wantIntercept := float64(seg.A.Y) - seg.Slope*float64(seg.A.X)
	if math.Abs(seg.YIntercept-wantIntercept) > 1e-9 {
		t.Errorf("Intercept %f not recomputed from endpoints (want %f)", seg.YIntercept, wantIntercept)
	}
}

func TestMerger_DensityRollback(t *testing.T) {
	// Only a few scattered ink pixels along a long claimed span: the
	// admission must be rolled back.
	img := createTestImage(200, 100, color.White)
	img.Set(10, 50, color.Black)
	img.Set(100, 50, color.Black)
	img.Set(190, 50, color.Black)
	lum, err := imaging.BinaryEdgeMap(img, 128)
	if err != nil {
		t.Fatalf("BinaryEdgeMap failed: %v", err)
	}
	m, _ := newTestMerger(t, lum)

	m.offer(&Candidate{Votes: 100, EndpointA: Point{10, 50}, EndpointB: Point{190, 50}})

	if len(m.segments) != 0 {
		t.Fatalf("Expected density rollback, got %d segments", len(m.segments))
	}
}

func TestMerger_DensifySteepSegment(t *testing.T) {
	// A vertical segment must be densified along Y, not X.
	img := createTestImage(100, 200, color.White)
	for y := 10; y <= 180; y++ {
		img.Set(50, y, color.Black)
	}
	lum, err := imaging.BinaryEdgeMap(img, 128)
	if err != nil {
		t.Fatalf("BinaryEdgeMap failed: %v", err)
	}
	m, _ := newTestMerger(t, lum)

	m.offer(&Candidate{Votes: 100, EndpointA: Point{50, 10}, EndpointB: Point{50, 180}})

	if len(m.segments) != 1 {
		t.Fatalf("Expected vertical segment to survive density check, got %d segments", len(m.segments))
	}
	if m.segments[0].PixelCount < 160 {
		t.Errorf("Expected ~171 member pixels, got %d", m.segments[0].PixelCount)
	}
}

func TestMerger_ZeroLengthCandidate(t *testing.T) {
	img := createTestImage(100, 100, color.White)
	img.Set(50, 50, color.Black)
	lum, err := imaging.BinaryEdgeMap(img, 128)
	if err != nil {
		t.Fatalf("BinaryEdgeMap failed: %v", err)
	}
	m, _ := newTestMerger(t, lum)

	// A single-pixel candidate has coincident endpoints; it must not
	// divide by zero. The final length filter disposes of it.
	m.offer(&Candidate{Votes: 100, EndpointA: Point{50, 50}, EndpointB: Point{50, 50}})

	if len(m.segments) != 1 {
		t.Fatalf("Expected zero-length candidate to pass through, got %d", len(m.segments))
	}
	filtered := filterSegments(m.segments, StrictConfig(), false)
	if len(filtered) != 0 {
		t.Error("Expected the length filter to drop a zero-length segment")
	}
}
