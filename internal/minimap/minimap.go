// Package minimap maps between full-page coordinates and the small
// overview thumbnail, and produces the downscaled thumbnail image.
package minimap

import (
	"image"

	xdraw "golang.org/x/image/draw"

	"github.com/danielcuellar117/cgs-glassbid-mvp-sub000/pkg/geometry"
)

// Bounds for the on-screen minimap box. The widget may be resized by
// the user but never outside this range.
const (
	MinBoxWidth  = 120.0
	MinBoxHeight = 90.0
	MaxBoxWidth  = 480.0
	MaxBoxHeight = 360.0
)

// ClampBox keeps a requested minimap box size within the allowed range.
func ClampBox(s geometry.Size) geometry.Size {
	return geometry.Size{
		Width:  clamp(s.Width, MinBoxWidth, MaxBoxWidth),
		Height: clamp(s.Height, MinBoxHeight, MaxBoxHeight),
	}
}

// Layout relates a page to the box the minimap is drawn in. The whole
// page always fits: the scale is the smaller of the two axis ratios.
type Layout struct {
	Image geometry.Size // page size in pixels
	Box   geometry.Size // minimap widget size in pixels
}

// Scale returns the page-to-minimap scale factor.
func (l Layout) Scale() float64 {
	if l.Image.Width <= 0 || l.Image.Height <= 0 {
		return 0
	}
	sx := l.Box.Width / l.Image.Width
	sy := l.Box.Height / l.Image.Height
	if sx < sy {
		return sx
	}
	return sy
}

// ThumbSize returns the size of the scaled page inside the box.
func (l Layout) ThumbSize() geometry.Size {
	s := l.Scale()
	return geometry.Size{Width: l.Image.Width * s, Height: l.Image.Height * s}
}

// origin returns the top-left of the thumbnail, centered in the box.
func (l Layout) origin() geometry.Point2D {
	t := l.ThumbSize()
	return geometry.NewPoint2D((l.Box.Width-t.Width)/2, (l.Box.Height-t.Height)/2)
}

// ToMini converts a page coordinate to a minimap coordinate.
func (l Layout) ToMini(p geometry.Point2D) geometry.Point2D {
	return p.Scale(l.Scale()).Add(l.origin())
}

// ToImage converts a minimap coordinate back to a page coordinate,
// clamped to the page.
func (l Layout) ToImage(p geometry.Point2D) geometry.Point2D {
	s := l.Scale()
	if s == 0 {
		return geometry.Point2D{}
	}
	q := p.Sub(l.origin()).Scale(1 / s)
	return geometry.NewPoint2D(
		clamp(q.X, 0, l.Image.Width),
		clamp(q.Y, 0, l.Image.Height),
	)
}

// ViewportRect maps the visible page region to minimap coordinates,
// clipped to the thumbnail.
func (l Layout) ViewportRect(visible geometry.Rect) geometry.Rect {
	s := l.Scale()
	o := l.origin()
	r := geometry.Rect{
		X:      visible.X*s + o.X,
		Y:      visible.Y*s + o.Y,
		Width:  visible.Width * s,
		Height: visible.Height * s,
	}
	t := l.ThumbSize()
	return r.Intersect(geometry.Rect{X: o.X, Y: o.Y, Width: t.Width, Height: t.Height})
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Thumbnail downscales a page image to fit maxW x maxH, preserving
// aspect ratio. The source is returned unscaled when it already fits.
func Thumbnail(src image.Image, maxW, maxH int) image.Image {
	b := src.Bounds()
	if b.Dx() <= maxW && b.Dy() <= maxH {
		return src
	}
	layout := Layout{
		Image: geometry.Size{Width: float64(b.Dx()), Height: float64(b.Dy())},
		Box:   geometry.Size{Width: float64(maxW), Height: float64(maxH)},
	}
	t := layout.ThumbSize()
	w, h := int(t.Width), int(t.Height)
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, b, xdraw.Src, nil)
	return dst
}
