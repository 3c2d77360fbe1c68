package viewport

import (
	"testing"

	"gonum.org/v1/gonum/floats/scalar"

	"github.com/danielcuellar117/cgs-glassbid-mvp-sub000/pkg/geometry"
)

func TestTransformRoundTrip(t *testing.T) {
	transforms := []Transform{
		{Offset: geometry.NewPoint2D(0, 0), Zoom: 1},
		{Offset: geometry.NewPoint2D(-350.25, 120.5), Zoom: 0.1},
		{Offset: geometry.NewPoint2D(1024, -768), Zoom: 10},
		{Offset: geometry.NewPoint2D(13.7, -0.001), Zoom: 2.6180339},
	}
	points := []geometry.Point2D{
		geometry.NewPoint2D(0, 0),
		geometry.NewPoint2D(1920, 1080),
		geometry.NewPoint2D(-87.3, 412.9),
		geometry.NewPoint2D(0.0001, 99999),
	}

	for _, tr := range transforms {
		for _, p := range points {
			got := tr.ToImage(tr.ToScreen(p))
			if !scalar.EqualWithinAbs(got.X, p.X, 1e-6) || !scalar.EqualWithinAbs(got.Y, p.Y, 1e-6) {
				t.Errorf("round trip %+v through %+v = %+v", p, tr, got)
			}
		}
	}
}

func TestToImage(t *testing.T) {
	tr := Transform{Offset: geometry.NewPoint2D(100, 50), Zoom: 2}
	got := tr.ToImage(geometry.NewPoint2D(300, 250))
	if got.X != 100 || got.Y != 100 {
		t.Errorf("ToImage = %+v, want (100,100)", got)
	}
}

func TestToScreen(t *testing.T) {
	tr := Transform{Offset: geometry.NewPoint2D(-20, 10), Zoom: 0.5}
	got := tr.ToScreen(geometry.NewPoint2D(200, 80))
	if got.X != 80 || got.Y != 50 {
		t.Errorf("ToScreen = %+v, want (80,50)", got)
	}
}
