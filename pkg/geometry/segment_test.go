package geometry

import (
	"testing"

	"gonum.org/v1/gonum/floats/scalar"
)

func TestSegmentDistancePerpendicular(t *testing.T) {
	a := NewPoint2D(0, 0)
	b := NewPoint2D(10, 0)

	d := SegmentDistance(NewPoint2D(5, 3), a, b)
	if !scalar.EqualWithinAbs(d, 3, 1e-9) {
		t.Errorf("perpendicular distance = %v, want 3", d)
	}
}

func TestSegmentDistanceClampsToEndpoints(t *testing.T) {
	a := NewPoint2D(0, 0)
	b := NewPoint2D(10, 0)

	// Beyond the start: distance measured to a, not the infinite line.
	d := SegmentDistance(NewPoint2D(-4, 3), a, b)
	if !scalar.EqualWithinAbs(d, 5, 1e-9) {
		t.Errorf("distance beyond start = %v, want 5", d)
	}

	// Beyond the end.
	d = SegmentDistance(NewPoint2D(13, 4), a, b)
	if !scalar.EqualWithinAbs(d, 5, 1e-9) {
		t.Errorf("distance beyond end = %v, want 5", d)
	}
}

func TestSegmentDistanceDegenerate(t *testing.T) {
	a := NewPoint2D(2, 2)
	d := SegmentDistance(NewPoint2D(5, 6), a, a)
	if !scalar.EqualWithinAbs(d, 5, 1e-9) {
		t.Errorf("degenerate segment distance = %v, want 5", d)
	}
}

func TestClosestPointOnSegment(t *testing.T) {
	a := NewPoint2D(0, 0)
	b := NewPoint2D(4, 4)

	got := ClosestPointOnSegment(NewPoint2D(4, 0), a, b)
	if !scalar.EqualWithinAbs(got.X, 2, 1e-9) || !scalar.EqualWithinAbs(got.Y, 2, 1e-9) {
		t.Errorf("closest point = %+v, want (2,2)", got)
	}
}

func TestPointDistance(t *testing.T) {
	d := NewPoint2D(0, 0).Distance(NewPoint2D(3, 4))
	if !scalar.EqualWithinAbs(d, 5, 1e-9) {
		t.Errorf("distance = %v, want 5", d)
	}
}

func TestRectIntersect(t *testing.T) {
	a := NewRect(0, 0, 10, 10)
	b := NewRect(5, 5, 10, 10)
	got := a.Intersect(b)
	want := NewRect(5, 5, 5, 5)
	if got != want {
		t.Errorf("intersect = %+v, want %+v", got, want)
	}

	if got := a.Intersect(NewRect(20, 20, 5, 5)); got != (Rect{}) {
		t.Errorf("disjoint intersect = %+v, want zero", got)
	}
}
