package minimap

import (
	"image"
	"image/color"
	"testing"

	"gonum.org/v1/gonum/floats/scalar"

	"github.com/danielcuellar117/cgs-glassbid-mvp-sub000/pkg/geometry"
)

var wideLayout = Layout{
	Image: geometry.Size{Width: 2000, Height: 1000},
	Box:   geometry.Size{Width: 200, Height: 150},
}

func TestScaleFitsWholePage(t *testing.T) {
	// Width is the limiting axis: 200/2000 = 0.1 beats 150/1000 = 0.15.
	if got := wideLayout.Scale(); got != 0.1 {
		t.Errorf("Scale = %v, want 0.1", got)
	}

	tall := Layout{
		Image: geometry.Size{Width: 500, Height: 3000},
		Box:   geometry.Size{Width: 200, Height: 150},
	}
	if got := tall.Scale(); got != 0.05 {
		t.Errorf("Scale = %v, want 0.05", got)
	}
}

func TestThumbCenteredInBox(t *testing.T) {
	// 2000x1000 at 0.1 gives a 200x100 thumb, centered vertically with
	// 25px of margin.
	o := wideLayout.origin()
	if o.X != 0 || o.Y != 25 {
		t.Errorf("origin = %v, want (0, 25)", o)
	}
}

func TestRoundTripMapping(t *testing.T) {
	pts := []geometry.Point2D{
		geometry.NewPoint2D(0, 0),
		geometry.NewPoint2D(2000, 1000),
		geometry.NewPoint2D(1234, 567),
	}
	for _, p := range pts {
		back := wideLayout.ToImage(wideLayout.ToMini(p))
		if !scalar.EqualWithinAbs(back.X, p.X, 1e-9) || !scalar.EqualWithinAbs(back.Y, p.Y, 1e-9) {
			t.Errorf("round trip %v -> %v", p, back)
		}
	}
}

func TestToImageClampsOutsideThumb(t *testing.T) {
	// A click in the margin above the thumb clamps to the page edge.
	p := wideLayout.ToImage(geometry.NewPoint2D(100, 0))
	if p.Y != 0 {
		t.Errorf("Y = %v, want clamped to 0", p.Y)
	}
	p = wideLayout.ToImage(geometry.NewPoint2D(1e6, 1e6))
	if p.X != 2000 || p.Y != 1000 {
		t.Errorf("p = %v, want clamped to (2000, 1000)", p)
	}
}

func TestViewportRect(t *testing.T) {
	// Viewing the middle of the page.
	r := wideLayout.ViewportRect(geometry.Rect{X: 500, Y: 250, Width: 1000, Height: 500})
	want := geometry.Rect{X: 50, Y: 50, Width: 100, Height: 50}
	if r != want {
		t.Errorf("ViewportRect = %+v, want %+v", r, want)
	}

	// A viewport hanging past the page edge clips to the thumbnail.
	r = wideLayout.ViewportRect(geometry.Rect{X: 1500, Y: 0, Width: 1000, Height: 1000})
	if r.X+r.Width > 200+1e-9 {
		t.Errorf("viewport rect exceeds thumb: %+v", r)
	}
}

func TestClampBoxBounds(t *testing.T) {
	cases := []struct {
		in, want geometry.Size
	}{
		{geometry.Size{Width: 240, Height: 180}, geometry.Size{Width: 240, Height: 180}},
		{geometry.Size{Width: 10, Height: 10}, geometry.Size{Width: MinBoxWidth, Height: MinBoxHeight}},
		{geometry.Size{Width: 5000, Height: 5000}, geometry.Size{Width: MaxBoxWidth, Height: MaxBoxHeight}},
		{geometry.Size{Width: 50, Height: 400}, geometry.Size{Width: MinBoxWidth, Height: MaxBoxHeight}},
	}
	for _, c := range cases {
		if got := ClampBox(c.in); got != c.want {
			t.Errorf("ClampBox(%+v) = %+v, want %+v", c.in, got, c.want)
		}
	}
}

func TestThumbnailDownscales(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 400, 200))
	for y := 0; y < 200; y++ {
		for x := 0; x < 400; x++ {
			src.Set(x, y, color.RGBA{R: uint8(x % 256), A: 255})
		}
	}

	thumb := Thumbnail(src, 100, 100)
	b := thumb.Bounds()
	if b.Dx() != 100 || b.Dy() != 50 {
		t.Errorf("thumb size = %dx%d, want 100x50", b.Dx(), b.Dy())
	}

	// Already-small images pass through untouched.
	small := image.NewRGBA(image.Rect(0, 0, 50, 50))
	if got := Thumbnail(small, 100, 100); got != image.Image(small) {
		t.Error("small image should be returned as-is")
	}
}
