// Package export writes detection results to tabular formats for analysis
// in spreadsheets and downstream tooling.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/ironsheep/line-tools-mcp/internal/detection"
)

// segmentHeader is the column layout of the segment table, one row per
// accepted segment.
var segmentHeader = []string{
	"ax", "ay", "bx", "by",
	"slope", "y_intercept", "angle_rad",
	"length", "pixel_count", "color",
}

// WriteSegments writes the segment table as CSV to w.
func WriteSegments(w io.Writer, segments []*detection.Segment) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(segmentHeader); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for _, s := range segments {
		row := []string{
			strconv.Itoa(s.A.X),
			strconv.Itoa(s.A.Y),
			strconv.Itoa(s.B.X),
			strconv.Itoa(s.B.Y),
			strconv.FormatFloat(s.Slope, 'f', 6, 64),
			strconv.FormatFloat(s.YIntercept, 'f', 6, 64),
			strconv.FormatFloat(s.AngleWithHorizontal, 'f', 6, 64),
			strconv.FormatFloat(s.Len(), 'f', 2, 64),
			strconv.Itoa(s.PixelCount),
			s.Color,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write segment row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteSegmentsFile writes the segment table to a new file at path,
// overwriting any existing file.
func WriteSegmentsFile(path string, segments []*detection.Segment) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create csv file: %w", err)
	}
	if err := WriteSegments(f, segments); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
