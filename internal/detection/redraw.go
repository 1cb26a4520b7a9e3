package detection

import (
	"image"
	"image/color"
	"image/draw"

	imgproc "github.com/disintegration/imaging"

	"github.com/ironsheep/line-tools-mcp/internal/imaging"
)

var (
	redrawLineColor     = color.NRGBA{R: 0, G: 0, B: 0, A: 255}
	redrawInteriorColor = color.NRGBA{R: 0xDD, G: 0xDD, B: 0xDD, A: 255}
)

// renderRebuiltImage draws the accepted segments back onto an image for the
// optional redraw sink. Mainly a debugging aid: comparing the rebuilt image
// against the source shows at a glance what the detector found and missed.
//
// With RedrawWithJustShapeOutlines the background is erased first and only
// the detected geometry is drawn; otherwise the source image (or a white
// canvas when no source is available) is the base. With DrawInteriorAsGray
// the interiors of detected edge regions are filled light gray before the
// segment pixels go down.
func renderRebuiltImage(opts Options, src image.Image, lum *imaging.LuminanceMap, segments []*Segment) (*image.NRGBA, error) {
	var canvas *image.NRGBA
	if opts.RedrawWithJustShapeOutlines || src == nil {
		canvas = image.NewNRGBA(image.Rect(0, 0, lum.Width(), lum.Height()))
		draw.Draw(canvas, canvas.Bounds(), image.White, image.Point{}, draw.Src)
	} else {
		canvas = imgproc.Clone(src)
	}

	if opts.DrawInteriorAsGray {
		regions, err := ExtractRegions(nil, lum, defaultMinRegionPixels)
		if err != nil {
			return nil, err
		}
		for _, r := range regions.Regions {
			fillRegionInterior(canvas, r)
		}
	}

	for _, s := range segments {
		for _, p := range s.Pixels() {
			if image.Pt(p.X, p.Y).In(canvas.Bounds()) {
				canvas.SetNRGBA(p.X, p.Y, redrawLineColor)
			}
		}
	}

	return canvas, nil
}

// fillRegionInterior paints the inside of a region's bounding box, leaving
// a one-pixel border so the outline stays readable.
func fillRegionInterior(canvas *image.NRGBA, r Region) {
	for y := r.Bounds.Y1 + 1; y < r.Bounds.Y2; y++ {
		for x := r.Bounds.X1 + 1; x < r.Bounds.X2; x++ {
			if image.Pt(x, y).In(canvas.Bounds()) {
				canvas.SetNRGBA(x, y, redrawInteriorColor)
			}
		}
	}
}
