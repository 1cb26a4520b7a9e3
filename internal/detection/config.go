package detection

import "math"

// Config holds the tuning knobs that decide whether a run of accumulator
// votes is a real, unique, interesting line. Two presets are provided;
// their values were tuned against real imagery and interact with each
// other, so adjust with care. In particular the angle increment and the
// rho step of 1.0 are deliberately lossy quantizations: tightening them
// grows the accumulator quadratically and the per-cell vote counts roughly
// linearly, which silently invalidates the vote thresholds.
type Config struct {
	// MinVotesForRealLine is the minimum accumulator cell vote count for a
	// candidate to be harvested at all.
	MinVotesForRealLine int

	// MinPixelDensity is the minimum ratio of actual edge pixels to segment
	// length for an admission to stand.
	MinPixelDensity float64

	// MinPointResolution is the tolerance, in pixels, used both for
	// y-intercept similarity and for endpoint proximity when merging.
	MinPointResolution float64

	// AngleResolution is the slope similarity tolerance used when merging.
	AngleResolution float64

	// MaxGapBetweenDashes is the largest x gap, in pixels, across which two
	// collinear segments are treated as dashes of one line.
	MaxGapBetweenDashes int

	// MinUsefulLineLength is the minimum segment length that survives the
	// final filter.
	MinUsefulLineLength float64

	// AngleIncrement is the theta quantization step in radians.
	AngleIncrement float64

	// AngleRangeAroundGradient is the half-width of the angular band swept
	// around each pixel's gradient direction. Wider bands find more true
	// lines but cost votes linearly; pi/8 is the knee of that curve.
	AngleRangeAroundGradient float64
}

// StrictConfig returns the default threshold regime, tuned for technical
// line art.
func StrictConfig() Config {
	return Config{
		MinVotesForRealLine:      90,
		MinPixelDensity:          1.0 / 5.0,
		MinPointResolution:       10,
		AngleResolution:          0.4,
		MaxGapBetweenDashes:      10,
		MinUsefulLineLength:      50,
		AngleIncrement:           0.01,
		AngleRangeAroundGradient: math.Pi / 8,
	}
}

// SquishyConfig returns the tolerant threshold regime, for organic or
// blobby imagery where lines are short and broken.
func SquishyConfig() Config {
	cfg := StrictConfig()
	cfg.MinVotesForRealLine = 10
	cfg.MinUsefulLineLength = 5
	return cfg
}
