package detection

import "gonum.org/v1/gonum/stat"

// Metrics are the diagnostic counters for one detection pass.
type Metrics struct {
	// NumPossibleLines is the number of accumulator cells scanned.
	NumPossibleLines int `json:"num_possible_lines"`

	// NumLinesWithMinVotes is the number of candidates that cleared the
	// vote threshold and were handed to the merger.
	NumLinesWithMinVotes int `json:"num_lines_with_min_votes"`

	// NumDuplicateLines is the number of candidates the merger folded into
	// an existing segment instead of admitting.
	NumDuplicateLines int `json:"num_duplicate_lines"`

	// NumLines is the number of segments in the final, filtered output.
	NumLines int `json:"num_lines"`

	// VoteMean and VoteStdDev describe the distribution of vote counts
	// over the cells that received any votes. Useful when tuning the vote
	// threshold for a new class of imagery.
	VoteMean   float64 `json:"vote_mean"`
	VoteStdDev float64 `json:"vote_std_dev"`
}

// harvest scans every accumulator cell in theta-outer, rho-inner order and
// offers each candidate above the vote threshold to the merger.
//
// The scan order is load-bearing: it fixes the order candidates reach the
// merger, which decides which segment's identity survives a merge. Do not
// swap the loops.
//
// Adjacent theta quantizations can round to the same cell, so a cell is
// marked Recorded before it is offered; a second visit to the same cell
// emits nothing.
func harvest(acc *accumulator, cfg Config, m *merger, metrics *Metrics) {
	var votes []float64

	for thetaIdx := 0; thetaIdx < acc.nTheta; thetaIdx++ {
		for rhoIdx := 0; rhoIdx < acc.nRho; rhoIdx++ {
			metrics.NumPossibleLines++
			cell := &acc.cells[rhoIdx*acc.nTheta+thetaIdx]
			if cell.Votes == 0 {
				continue
			}
			votes = append(votes, float64(cell.Votes))

			if cell.Votes >= cfg.MinVotesForRealLine && !cell.Recorded {
				cell.Recorded = true
				metrics.NumLinesWithMinVotes++
				m.offer(cell)
			}
		}
	}

	if len(votes) > 0 {
		metrics.VoteMean = stat.Mean(votes, nil)
		metrics.VoteStdDev = stat.StdDev(votes, nil)
	}
}
