package detection

import (
	"errors"
	"math"
	"testing"
)

func TestNewAccumulator_Dimensions(t *testing.T) {
	acc, err := newAccumulator(100, 100, 0.01)
	if err != nil {
		t.Fatalf("newAccumulator failed: %v", err)
	}

	wantRhoMax := math.Ceil(math.Hypot(100, 100))
	if acc.rhoMax != wantRhoMax {
		t.Errorf("Expected rhoMax %f, got %f", wantRhoMax, acc.rhoMax)
	}
	if acc.nRho != int(2*wantRhoMax)+1 {
		t.Errorf("Expected nRho %d, got %d", int(2*wantRhoMax)+1, acc.nRho)
	}
	thetaStep := 0.01
	wantNTheta := int(math.Pi / thetaStep)
	if acc.nTheta != wantNTheta {
		t.Errorf("Expected nTheta %d, got %d", wantNTheta, acc.nTheta)
	}
	if len(acc.cells) != acc.nRho*acc.nTheta {
		t.Errorf("Cell count %d disagrees with %d x %d", len(acc.cells), acc.nRho, acc.nTheta)
	}
}

func TestNewAccumulator_TooLarge(t *testing.T) {
	_, err := newAccumulator(1<<20, 1<<20, 0.001)
	if !errors.Is(err, ErrOutOfMemory) {
		t.Errorf("Expected ErrOutOfMemory, got %v", err)
	}
}

func TestAccumulator_CellAtClamps(t *testing.T) {
	acc, err := newAccumulator(50, 50, 0.01)
	if err != nil {
		t.Fatalf("newAccumulator failed: %v", err)
	}

	// Extreme values clamp to the axis ends instead of panicking.
	corners := []struct{ rho, theta float64 }{
		{-1e9, -math.Pi},
		{1e9, math.Pi},
		{-acc.rhoMax, -math.Pi / 2},
		{acc.rhoMax, math.Pi / 2},
		{0, 0},
	}
	for _, c := range corners {
		if cell := acc.cellAt(c.rho, c.theta); cell == nil {
			t.Errorf("cellAt(%f, %f) returned nil", c.rho, c.theta)
		}
	}

	if acc.cellAt(-1e9, 0) != acc.cellAt(-acc.rhoMax-10, 0) {
		t.Error("Expected below-range rho values to clamp to the same cell")
	}
}

func TestAccumulator_VoteEndpointInvariant(t *testing.T) {
	acc, err := newAccumulator(50, 50, 0.01)
	if err != nil {
		t.Fatalf("newAccumulator failed: %v", err)
	}

	// Vote in arbitrary pixel order; the cell must keep the lexicographic
	// extremes regardless.
	pixels := []Point{{30, 5}, {10, 40}, {10, 2}, {45, 45}, {10, 2}}
	for _, p := range pixels {
		acc.vote(5, 0.25, p.X, p.Y)
	}

	cell := acc.cellAt(5, 0.25)
	if cell.Votes != len(pixels) {
		t.Errorf("Expected %d votes, got %d", len(pixels), cell.Votes)
	}
	if cell.EndpointA != (Point{10, 2}) {
		t.Errorf("Expected EndpointA (10,2), got %v", cell.EndpointA)
	}
	if cell.EndpointB != (Point{45, 45}) {
		t.Errorf("Expected EndpointB (45,45), got %v", cell.EndpointB)
	}
	if lexLess(cell.EndpointB, cell.EndpointA) {
		t.Error("EndpointA must not exceed EndpointB")
	}
}

func TestAccumulator_FirstVoteSetsBothEndpoints(t *testing.T) {
	acc, err := newAccumulator(50, 50, 0.01)
	if err != nil {
		t.Fatalf("newAccumulator failed: %v", err)
	}

	acc.vote(-3, -1.2, 7, 9)
	cell := acc.cellAt(-3, -1.2)
	if cell.EndpointA != (Point{7, 9}) || cell.EndpointB != (Point{7, 9}) {
		t.Errorf("Expected both endpoints (7,9), got A=%v B=%v", cell.EndpointA, cell.EndpointB)
	}
}
