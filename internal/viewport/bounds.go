package viewport

import (
	"math"

	"github.com/danielcuellar117/cgs-glassbid-mvp-sub000/pkg/geometry"
)

const (
	// elasticFactor damps offset displacement past the resting boundary
	// while a pan drag is in flight.
	elasticFactor = 0.25

	// snapFraction is the share of the remaining distance the snap-back
	// animation covers each tick.
	snapFraction = 0.15

	// snapThreshold is the distance in screen pixels at which the
	// snap-back pins to the resting offset and stops.
	snapThreshold = 0.5
)

// RestingOffset clamps offset so the scaled image cannot be dragged to
// reveal empty space. Each axis is handled independently: when the scaled
// image is larger than the view the offset stays within
// [view - scaled, 0]; when smaller, the image is centered on that axis.
func RestingOffset(offset geometry.Point2D, image, view geometry.Size, zoom float64) geometry.Point2D {
	return geometry.Point2D{
		X: restingAxis(offset.X, image.Width*zoom, view.Width),
		Y: restingAxis(offset.Y, image.Height*zoom, view.Height),
	}
}

func restingAxis(offset, scaled, view float64) float64 {
	if scaled <= view {
		return (view - scaled) / 2
	}
	if offset > 0 {
		return 0
	}
	if min := view - scaled; offset < min {
		return min
	}
	return offset
}

// ElasticOffset damps a raw in-drag offset that exceeds the resting
// boundary. Offsets inside the boundary pass through unchanged.
func ElasticOffset(raw geometry.Point2D, image, view geometry.Size, zoom float64) geometry.Point2D {
	clamped := RestingOffset(raw, image, view, zoom)
	return geometry.Point2D{
		X: clamped.X + (raw.X-clamped.X)*elasticFactor,
		Y: clamped.Y + (raw.Y-clamped.Y)*elasticFactor,
	}
}

// SnapStep advances one tick of the snap-back animation from current
// toward target. done reports that the offset has been pinned exactly to
// the target and the animation should stop.
func SnapStep(current, target geometry.Point2D) (next geometry.Point2D, done bool) {
	dx := target.X - current.X
	dy := target.Y - current.Y
	if math.Abs(dx) <= snapThreshold && math.Abs(dy) <= snapThreshold {
		return target, true
	}
	return geometry.Point2D{
		X: current.X + dx*snapFraction,
		Y: current.Y + dy*snapFraction,
	}, false
}
