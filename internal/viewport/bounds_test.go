package viewport

import (
	"math"
	"testing"

	"github.com/danielcuellar117/cgs-glassbid-mvp-sub000/pkg/geometry"
)

var (
	pageSize = geometry.NewSize(2000, 1500)
	viewSize = geometry.NewSize(800, 600)
)

func TestRestingOffsetClampsLargeImage(t *testing.T) {
	// At zoom 1 the scaled image (2000x1500) exceeds the view (800x600),
	// so the offset must stay within [view - scaled, 0] on both axes.
	cases := []struct {
		in   geometry.Point2D
		want geometry.Point2D
	}{
		{geometry.NewPoint2D(50, 10), geometry.NewPoint2D(0, 0)},
		{geometry.NewPoint2D(-3000, -2000), geometry.NewPoint2D(-1200, -900)},
		{geometry.NewPoint2D(-600, -450), geometry.NewPoint2D(-600, -450)},
	}
	for _, c := range cases {
		got := RestingOffset(c.in, pageSize, viewSize, 1.0)
		if got != c.want {
			t.Errorf("RestingOffset(%+v) = %+v, want %+v", c.in, got, c.want)
		}
	}
}

func TestRestingOffsetCentersSmallImage(t *testing.T) {
	// At zoom 0.1 the scaled image (200x150) fits inside the view, so
	// the image centers regardless of the requested offset.
	got := RestingOffset(geometry.NewPoint2D(-500, 900), pageSize, viewSize, 0.1)
	want := geometry.NewPoint2D(300, 225)
	if got != want {
		t.Errorf("RestingOffset = %+v, want %+v", got, want)
	}
}

func TestRestingOffsetMixedAxes(t *testing.T) {
	// Wide flat image: x overflows the view, y fits and centers.
	img := geometry.NewSize(3000, 200)
	got := RestingOffset(geometry.NewPoint2D(10, 10), img, viewSize, 1.0)
	want := geometry.NewPoint2D(0, 200)
	if got != want {
		t.Errorf("RestingOffset = %+v, want %+v", got, want)
	}
}

func TestElasticOffsetDampsOverdrag(t *testing.T) {
	// Dragging 100px past the right boundary moves only 25px.
	got := ElasticOffset(geometry.NewPoint2D(100, 0), pageSize, viewSize, 1.0)
	want := geometry.NewPoint2D(25, 0)
	if got != want {
		t.Errorf("ElasticOffset = %+v, want %+v", got, want)
	}
}

func TestElasticOffsetPassesThroughInBounds(t *testing.T) {
	in := geometry.NewPoint2D(-400, -300)
	if got := ElasticOffset(in, pageSize, viewSize, 1.0); got != in {
		t.Errorf("ElasticOffset = %+v, want %+v", got, in)
	}
}

func TestSnapStepConverges(t *testing.T) {
	current := geometry.NewPoint2D(120, -80)
	target := geometry.NewPoint2D(0, 0)

	prevDist := current.Distance(target)
	ticks := 0
	for {
		next, done := SnapStep(current, target)
		ticks++
		if done {
			if next != target {
				t.Fatalf("snap finished at %+v, want exact target %+v", next, target)
			}
			break
		}
		dist := next.Distance(target)
		if dist >= prevDist {
			t.Fatalf("snap moved away from target at tick %d: %v >= %v", ticks, dist, prevDist)
		}
		// Must never overshoot past the boundary.
		if math.Signbit(next.X) != math.Signbit(current.X) && next.X != 0 {
			t.Fatalf("snap oscillated past target on x: %v", next.X)
		}
		current, prevDist = next, dist
		if ticks > 200 {
			t.Fatal("snap did not converge within 200 ticks")
		}
	}
}

func TestSnapStepPinsWithinThreshold(t *testing.T) {
	next, done := SnapStep(geometry.NewPoint2D(0.4, -0.3), geometry.NewPoint2D(0, 0))
	if !done || next != (geometry.Point2D{}) {
		t.Errorf("SnapStep = %+v done=%v, want pinned to target", next, done)
	}
}
