package viewport

import (
	"testing"

	"github.com/danielcuellar117/cgs-glassbid-mvp-sub000/pkg/geometry"
)

var (
	calibLine   = []geometry.Point2D{{X: 100, Y: 100}, {X: 300, Y: 100}}
	measureLine = []geometry.Point2D{{X: 100, Y: 200}, {X: 300, Y: 200}}
)

func TestHitTestEndpointBeatsLine(t *testing.T) {
	// A pointer exactly on an endpoint must report the endpoint, never
	// the segment, at any zoom: both tolerances scale with 1/zoom.
	for _, zoom := range []float64{0.1, 0.5, 1, 2, 10} {
		got := HitTest(calibLine[1], calibLine, measureLine, zoom)
		if got.Kind != DragCalibPoint || got.Index != 1 {
			t.Errorf("zoom %v: hit = %+v, want calib point 1", zoom, got)
		}
	}
}

func TestHitTestEndpointToleranceScalesWithZoom(t *testing.T) {
	// 10 image px from the endpoint: inside the 12px radius at zoom 1,
	// outside at zoom 2 (tolerance shrinks to 6 image px).
	p := geometry.NewPoint2D(110, 100)
	if got := HitTest(p, calibLine, nil, 1.0); got.Kind != DragCalibPoint {
		t.Errorf("zoom 1: hit = %+v, want calib point", got)
	}
	if got := HitTest(p, calibLine, nil, 2.0); got.Kind == DragCalibPoint {
		t.Errorf("zoom 2: endpoint hit should be out of tolerance, got %+v", got)
	}
}

func TestHitTestLineCarriesAnchors(t *testing.T) {
	// Mid-segment grab, 5px off the line at zoom 1: a line hit whose
	// anchors preserve each endpoint's offset from the grab point.
	p := geometry.NewPoint2D(200, 105)
	got := HitTest(p, calibLine, measureLine, 1.0)
	if got.Kind != DragCalibLine {
		t.Fatalf("hit = %+v, want calib line", got)
	}
	wantA := geometry.NewPoint2D(-100, -5)
	wantB := geometry.NewPoint2D(100, -5)
	if got.Anchors[0] != wantA || got.Anchors[1] != wantB {
		t.Errorf("anchors = %+v, want [%+v %+v]", got.Anchors, wantA, wantB)
	}
}

func TestHitTestMeasureLine(t *testing.T) {
	got := HitTest(geometry.NewPoint2D(180, 203), calibLine, measureLine, 1.0)
	if got.Kind != DragMeasureLine {
		t.Errorf("hit = %+v, want measure line", got)
	}
}

func TestHitTestMiss(t *testing.T) {
	got := HitTest(geometry.NewPoint2D(200, 150), calibLine, measureLine, 1.0)
	if got.IsActive() {
		t.Errorf("hit = %+v, want none", got)
	}
}

func TestHitTestSinglePointNoLine(t *testing.T) {
	// One placed point has no segment to hit.
	single := calibLine[:1]
	got := HitTest(geometry.NewPoint2D(200, 100), single, nil, 1.0)
	if got.IsActive() {
		t.Errorf("hit = %+v, want none", got)
	}
}
