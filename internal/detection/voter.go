package detection

import (
	"image"
	"math"

	"github.com/ironsheep/line-tools-mcp/internal/imaging"
)

// sweep converts the binary edge map into accumulator votes.
//
// For each edge pixel the local gradient direction is estimated from the
// luminance of the eight surrounding pixels and used as the center of a
// narrow angular band; the pixel votes for every quantized line in that
// band. Voting a band rather than a single angle absorbs the gradient noise
// that pixelation and anti-aliasing introduce, while voting a band rather
// than all angles keeps false positives down: with unrestricted voting,
// any incidental alignment across unrelated lines accumulates votes too.
//
// The gradient here is the perpendicular direction of the line the pixel
// sits on: along the line luminance is constant, so the steepest luminance
// change points across it. That perpendicular is exactly the direction the
// (rho, theta) parameterization needs, so thetaCenter = atan2(rowGradient,
// colGradient) with the row difference as the y component and the column
// difference as the x component.
func sweep(lum *imaging.LuminanceMap, acc *accumulator, bbox image.Rectangle, cfg Config) {
	for x := bbox.Min.X; x < bbox.Max.X; x++ {
		for y := bbox.Min.Y; y < bbox.Max.Y; y++ {
			if !lum.IsEdge(x, y) {
				continue
			}

			// Luminance of all surrounding pixels. Signed: the grayscale
			// values are unsigned but the changes between them are not.
			above := int32(lum.Luminance(x, y-1))
			below := int32(lum.Luminance(x, y+1))
			left := int32(lum.Luminance(x-1, y))
			right := int32(lum.Luminance(x+1, y))
			aboveLeft := int32(lum.Luminance(x-1, y-1))
			aboveRight := int32(lum.Luminance(x+1, y-1))
			belowLeft := int32(lum.Luminance(x-1, y+1))
			belowRight := int32(lum.Luminance(x+1, y+1))

			// The row gradient is the difference between rows, so it is the
			// change in the Y direction; the column gradient is the change
			// in the X direction.
			rowGradient := (2*below + belowLeft + belowRight) - (2*above + aboveLeft + aboveRight)
			colGradient := (2*left + aboveLeft + belowLeft) - (2*right + aboveRight + belowRight)

			thetaCenter := math.Atan2(float64(rowGradient), float64(colGradient))

			// Lines are non-directional: theta and theta+pi describe the
			// same line, so fold into [-pi/2, pi/2).
			if thetaCenter < -math.Pi/2 {
				thetaCenter += math.Pi
			}
			if thetaCenter >= math.Pi/2 {
				thetaCenter -= math.Pi
			}

			// Snap to the quantization grid so nearly collinear pixels
			// derive the same abstract line.
			thetaCenter = math.Round(thetaCenter/cfg.AngleIncrement) * cfg.AngleIncrement

			startTheta := clampTheta(thetaCenter - cfg.AngleRangeAroundGradient)
			endTheta := clampTheta(thetaCenter + cfg.AngleRangeAroundGradient)

			for theta := startTheta; theta < endTheta; theta += cfg.AngleIncrement {
				// rho = x*cos(theta) - y*sin(theta). The minus matches a
				// coordinate system where y grows downward; flipping it
				// silently inverts theta.
				rho := float64(x)*math.Cos(theta) - float64(y)*math.Sin(theta)
				if rho < -acc.rhoMax {
					rho = -acc.rhoMax
				}
				if rho > acc.rhoMax {
					rho = acc.rhoMax
				}
				acc.vote(rho, theta, x, y)
			}
		}
	}
}

// clampTheta limits a sweep bound to the accumulator's theta range.
func clampTheta(theta float64) float64 {
	if theta < -math.Pi/2 {
		return -math.Pi / 2
	}
	if theta >= math.Pi/2 {
		return math.Pi / 2
	}
	return theta
}
