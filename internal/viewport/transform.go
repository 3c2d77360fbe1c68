// Package viewport implements the pan/zoom model for the measurement canvas:
// screen/image coordinate mapping, boundary clamping with elastic overdrag,
// hit testing against calibration and measurement lines, and the controller
// that owns the interaction state for one page view.
package viewport

import (
	"github.com/danielcuellar117/cgs-glassbid-mvp-sub000/pkg/geometry"
)

// Transform maps between screen (canvas) coordinates and image coordinates.
// A screen point is the image point scaled by Zoom and translated by Offset.
type Transform struct {
	Offset geometry.Point2D
	Zoom   float64
}

// ToImage converts a screen-space point to image space.
func (t Transform) ToImage(p geometry.Point2D) geometry.Point2D {
	return geometry.Point2D{
		X: (p.X - t.Offset.X) / t.Zoom,
		Y: (p.Y - t.Offset.Y) / t.Zoom,
	}
}

// ToScreen converts an image-space point to screen space.
func (t Transform) ToScreen(p geometry.Point2D) geometry.Point2D {
	return geometry.Point2D{
		X: p.X*t.Zoom + t.Offset.X,
		Y: p.Y*t.Zoom + t.Offset.Y,
	}
}
