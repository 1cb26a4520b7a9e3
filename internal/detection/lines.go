package detection

import (
	"errors"
	"fmt"
	"image"
	"log"

	"github.com/ironsheep/line-tools-mcp/internal/imaging"
)

// Error kinds surfaced at the detector boundary.
var (
	// ErrInvalidInput reports a nil or empty luminance map, a degenerate
	// bounding box, or a bounding box that lies outside the image. A nil
	// source image is not an error. Fatal: no segments are returned.
	ErrInvalidInput = errors.New("invalid detector input")

	// ErrOutOfMemory reports that the accumulator could not be allocated.
	// Fatal and immediate, never lazy.
	ErrOutOfMemory = errors.New("accumulator allocation failed")

	// ErrSinkFailure reports that an optional output sink failed. Non-fatal:
	// DetectLines still returns the segment list alongside this error.
	ErrSinkFailure = errors.New("output sink failed")
)

// Options selects the detection regime and the behavior of the optional
// rebuilt-image output. Options consumed only by the region extractor are
// ignored here.
type Options struct {
	// SquishyBlobs switches to the tolerant threshold regime, for organic
	// imagery where lines are short and broken.
	SquishyBlobs bool

	// DrawInteriorAsGray fills detected region interiors with light gray in
	// the rebuilt image. Only affects the optional redraw sink.
	DrawInteriorAsGray bool

	// RedrawWithJustShapeOutlines erases the background before redrawing,
	// so the rebuilt image shows only the detected geometry.
	RedrawWithJustShapeOutlines bool

	// EnableDensityFilter turns on the final pixel-density filter.
	EnableDensityFilter bool

	// Debug emits a one-line counter summary after the pass. Nothing is
	// logged otherwise.
	Debug bool
}

// ImageSink receives the optional rebuilt image.
type ImageSink interface {
	WriteImage(img image.Image) error
}

// LinesResult contains the detected segments and the pass diagnostics.
type LinesResult struct {
	Segments []*Segment `json:"segments"`
	Count    int        `json:"count"`
	Metrics  Metrics    `json:"metrics"`
}

// DetectLines finds straight line segments in an image using a modified
// Hough transform. It is a pure function of its inputs: no state persists
// between calls.
//
// Parameters:
//   - opts: Detection regime and redraw behavior.
//   - img: Source image, used only for color sampling and as the redraw
//     base. May be nil when neither is wanted.
//   - lum: The luminance/gradient map for the image being searched. The
//     edge flags in this map decide which pixels vote.
//   - bbox: Region to search. The zero rectangle means the full image;
//     anything else must be non-degenerate.
//   - rebuilt: Optional sink for the rebuilt line image. May be nil.
//
// Returns the accepted segments in admission order. A sink failure is
// reported as an error wrapping ErrSinkFailure but still yields the full
// result; ErrInvalidInput and ErrOutOfMemory yield no result.
//
// # Pipeline
//
// The pass runs four phases to completion, in order, single-threaded:
//
//  1. Voting: every edge pixel in bbox votes for the quantized lines in a
//     narrow angular band around its local gradient direction.
//  2. Harvesting: accumulator cells above the vote threshold become
//     candidate segments, in theta-outer, rho-inner scan order.
//  3. Merging: each candidate either extends an overlapping collinear
//     segment or is admitted, subject to a pixel-density check.
//  4. Filtering: segments shorter than the regime's minimum are dropped.
//
// The accumulator is the dominant allocation and is released as soon as
// harvesting completes, before any post-processing.
func DetectLines(opts Options, img image.Image, lum *imaging.LuminanceMap, bbox image.Rectangle, rebuilt ImageSink) (*LinesResult, error) {
	if lum == nil {
		return nil, fmt.Errorf("%w: nil luminance map", ErrInvalidInput)
	}
	if lum.Width() <= 0 || lum.Height() <= 0 {
		return nil, fmt.Errorf("%w: empty luminance map", ErrInvalidInput)
	}

	full := image.Rect(0, 0, lum.Width(), lum.Height())
	if bbox == (image.Rectangle{}) {
		bbox = full
	} else {
		if bbox.Max.X <= bbox.Min.X || bbox.Max.Y <= bbox.Min.Y {
			return nil, fmt.Errorf("%w: degenerate bounding box %v", ErrInvalidInput, bbox)
		}
		bbox = bbox.Intersect(full)
		if bbox.Empty() {
			return nil, fmt.Errorf("%w: bounding box outside image", ErrInvalidInput)
		}
	}

	cfg := StrictConfig()
	if opts.SquishyBlobs {
		cfg = SquishyConfig()
	}

	acc, err := newAccumulator(bbox.Max.X, bbox.Max.Y, cfg.AngleIncrement)
	if err != nil {
		return nil, err
	}

	metrics := Metrics{}
	sweep(lum, acc, bbox, cfg)

	m := newMerger(cfg, lum, &metrics)
	harvest(acc, cfg, m, &metrics)

	// The vote grid is huge; let it go before post-processing.
	acc = nil

	segments := filterSegments(m.segments, cfg, opts.EnableDensityFilter)
	metrics.NumLines = len(segments)

	if img != nil {
		sampleSegmentColors(img, segments)
	}

	if opts.Debug {
		log.Printf("line detection: possible=%d minVotes=%d duplicates=%d final=%d",
			metrics.NumPossibleLines, metrics.NumLinesWithMinVotes,
			metrics.NumDuplicateLines, metrics.NumLines)
	}

	result := &LinesResult{
		Segments: segments,
		Count:    len(segments),
		Metrics:  metrics,
	}

	if rebuilt != nil {
		canvas, renderErr := renderRebuiltImage(opts, img, lum, segments)
		if renderErr == nil {
			renderErr = rebuilt.WriteImage(canvas)
		}
		if renderErr != nil {
			return result, fmt.Errorf("%w: %v", ErrSinkFailure, renderErr)
		}
	}

	return result, nil
}

// sampleSegmentColors records the source-image color at each segment's
// midpoint, for reporting.
func sampleSegmentColors(img image.Image, segments []*Segment) {
	bounds := img.Bounds()
	for _, s := range segments {
		mid := s.Midpoint()
		c := imaging.SampleColorClamped(img, mid.X+bounds.Min.X, mid.Y+bounds.Min.Y)
		if c != nil {
			s.Color = c.Hex
		}
	}
}
