package viewport

import (
	"github.com/danielcuellar117/cgs-glassbid-mvp-sub000/pkg/geometry"
)

const (
	// hitRadiusPx is the endpoint grab radius in screen pixels. It is
	// divided by zoom so the clickable area stays constant on screen.
	hitRadiusPx = 12.0

	// lineHitDistPx is the segment grab distance in screen pixels.
	lineHitDistPx = 8.0
)

// DragKind identifies which interactive element a drag is editing.
type DragKind int

const (
	DragNone DragKind = iota
	DragCalibPoint
	DragMeasurePoint
	DragCalibLine
	DragMeasureLine
)

// DragTarget is the active drag's target. Exactly one is active at a
// time: set on pointer-down from a hit test, cleared on pointer-up. Point
// variants carry the endpoint index; line variants carry each endpoint's
// fixed offset from the grab point so the segment translates rigidly
// instead of snapping to the cursor.
type DragTarget struct {
	Kind    DragKind
	Index   int
	Anchors [2]geometry.Point2D
}

// IsActive reports whether a drag target is set.
func (d DragTarget) IsActive() bool {
	return d.Kind != DragNone
}

// HitTest determines what an image-space pointer location grabs, given
// the current calibration and measurement endpoints. Endpoint hits take
// priority over line hits; calibration beats measurement at equal rank.
func HitTest(p geometry.Point2D, calib, measure []geometry.Point2D, zoom float64) DragTarget {
	pointTol := hitRadiusPx / zoom
	for i, ep := range calib {
		if p.Distance(ep) <= pointTol {
			return DragTarget{Kind: DragCalibPoint, Index: i}
		}
	}
	for i, ep := range measure {
		if p.Distance(ep) <= pointTol {
			return DragTarget{Kind: DragMeasurePoint, Index: i}
		}
	}

	lineTol := lineHitDistPx / zoom
	if len(calib) == 2 && geometry.SegmentDistance(p, calib[0], calib[1]) <= lineTol {
		return DragTarget{
			Kind:    DragCalibLine,
			Anchors: [2]geometry.Point2D{calib[0].Sub(p), calib[1].Sub(p)},
		}
	}
	if len(measure) == 2 && geometry.SegmentDistance(p, measure[0], measure[1]) <= lineTol {
		return DragTarget{
			Kind:    DragMeasureLine,
			Anchors: [2]geometry.Point2D{measure[0].Sub(p), measure[1].Sub(p)},
		}
	}
	return DragTarget{}
}
