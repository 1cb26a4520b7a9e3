package detection

import (
	"fmt"
	"math"
)

// Candidate is one accumulator cell: the evidence gathered for a single
// quantized (rho, theta) line.
//
// Invariants: whenever Votes > 0, EndpointA <= EndpointB under (x, then y)
// lexicographic order, and both endpoints are pixels that actually voted
// for this cell. Recorded only ever transitions false -> true.
type Candidate struct {
	Votes     int
	EndpointA Point
	EndpointB Point
	Recorded  bool
}

// maxAccumulatorCells bounds the accumulator allocation. The grid for a
// 4000x4000 image at the default angle increment is about 3.6 million
// cells, so this limit is far above any legitimate input and exists to
// turn a corrupt width/height into a clean error instead of an attempted
// multi-gigabyte allocation.
const maxAccumulatorCells = 1 << 28

// accumulator is the dense 2D vote grid, indexed by quantized (rho, theta).
//
// theta spans [-pi/2, pi/2) in steps of the configured angle increment;
// rho spans [-rhoMax, rhoMax] in steps of 1.0 where rhoMax is the image
// diagonal rounded up. The grid is rho-major: cell = rhoIdx*nTheta +
// thetaIdx. It lives only for the duration of one detection pass and is
// by far the pass's dominant allocation, so the caller drops it as soon
// as harvesting completes.
type accumulator struct {
	thetaMin  float64
	thetaMax  float64
	thetaStep float64
	nTheta    int

	rhoMax float64
	nRho   int

	cells []Candidate
}

// newAccumulator allocates the zeroed vote grid for an image of the given
// dimensions. Returns ErrOutOfMemory if the derived grid would exceed the
// allocation bound.
func newAccumulator(width, height int, angleIncrement float64) (*accumulator, error) {
	rhoMax := math.Ceil(math.Hypot(float64(width), float64(height)))
	nRho := int(2*rhoMax) + 1
	nTheta := int(math.Pi / angleIncrement)

	total := nRho * nTheta
	if total <= 0 || total > maxAccumulatorCells {
		return nil, fmt.Errorf("%w: accumulator would need %d cells", ErrOutOfMemory, total)
	}

	return &accumulator{
		thetaMin:  -math.Pi / 2,
		thetaMax:  math.Pi / 2,
		thetaStep: angleIncrement,
		nTheta:    nTheta,
		rhoMax:    rhoMax,
		nRho:      nRho,
		cells:     make([]Candidate, total),
	}, nil
}

// cellAt returns the cell for the quantized (rho, theta). Out-of-range
// values clamp to the ends of each axis rather than failing, which keeps
// votes from edge pixels near the image corners.
func (a *accumulator) cellAt(rho, theta float64) *Candidate {
	thetaIdx := int(math.Round((theta - a.thetaMin) / a.thetaStep))
	if thetaIdx < 0 {
		thetaIdx = 0
	}
	if thetaIdx >= a.nTheta {
		thetaIdx = a.nTheta - 1
	}

	rhoIdx := int(math.Round(rho + a.rhoMax))
	if rhoIdx < 0 {
		rhoIdx = 0
	}
	if rhoIdx >= a.nRho {
		rhoIdx = a.nRho - 1
	}

	return &a.cells[rhoIdx*a.nTheta+thetaIdx]
}

// vote records that pixel (x, y) supports the line (rho, theta), updating
// the cell's extreme endpoints.
func (a *accumulator) vote(rho, theta float64, x, y int) {
	cell := a.cellAt(rho, theta)
	p := Point{X: x, Y: y}

	if cell.Votes == 0 {
		cell.EndpointA = p
		cell.EndpointB = p
	} else {
		if lexLess(p, cell.EndpointA) {
			cell.EndpointA = p
		}
		if lexLess(cell.EndpointB, p) {
			cell.EndpointB = p
		}
	}
	cell.Votes++
}
