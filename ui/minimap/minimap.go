// Package minimap provides the overview widget: a thumbnail of the whole
// page with a rectangle marking the visible region. Clicking or dragging
// recenters the main view.
package minimap

import (
	"image"
	"image/color"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/widget"

	"github.com/danielcuellar117/cgs-glassbid-mvp-sub000/internal/minimap"
	"github.com/danielcuellar117/cgs-glassbid-mvp-sub000/internal/raster"
	"github.com/danielcuellar117/cgs-glassbid-mvp-sub000/internal/viewport"
	"github.com/danielcuellar117/cgs-glassbid-mvp-sub000/pkg/geometry"
)

const (
	defaultBoxW = 240
	defaultBoxH = 180

	// Drags starting this close to the bottom-right corner resize the
	// minimap instead of scrubbing the view.
	cornerGrip = 14
)

var (
	frameColor = color.RGBA{R: 0xFF, G: 0xD5, B: 0x00, A: 0xFF}
	backdrop   = color.RGBA{R: 0x20, G: 0x20, B: 0x20, A: 0xFF}
)

// Widget is the minimap view.
type Widget struct {
	widget.BaseWidget

	ctrl  *viewport.Controller
	thumb image.Image
	size  geometry.Size // full page size

	raster *fynecanvas.Raster

	dragging bool
	resizing bool
}

// New creates a minimap bound to the main view's controller.
func New(ctrl *viewport.Controller) *Widget {
	w := &Widget{ctrl: ctrl}
	w.raster = fynecanvas.NewRaster(w.draw)
	w.raster.SetMinSize(fyne.NewSize(defaultBoxW, defaultBoxH))
	w.ExtendBaseWidget(w)
	return w
}

// SetPage installs the page whose overview is shown. The thumbnail is
// downscaled once, at the largest box size, and reused across redraws
// and resizes.
func (w *Widget) SetPage(page *raster.Page) {
	if page == nil || page.Image == nil {
		w.thumb = nil
		w.size = geometry.Size{}
	} else {
		w.thumb = minimap.Thumbnail(page.Image, minimap.MaxBoxWidth, minimap.MaxBoxHeight)
		w.size = page.Size()
	}
	w.raster.Refresh()
}

// Refresh redraws the viewport rectangle after the main view moves.
func (w *Widget) Refresh() {
	w.raster.Refresh()
	w.BaseWidget.Refresh()
}

func (w *Widget) layout(boxW, boxH int) minimap.Layout {
	return minimap.Layout{
		Image: w.size,
		Box:   geometry.Size{Width: float64(boxW), Height: float64(boxH)},
	}
}

func (w *Widget) recenterAt(pos fyne.Position) {
	if w.thumb == nil {
		return
	}
	s := w.raster.Size()
	l := w.layout(int(s.Width), int(s.Height))
	p := l.ToImage(geometry.NewPoint2D(float64(pos.X), float64(pos.Y)))
	w.ctrl.Recenter(p)
	w.raster.Refresh()
}

func (w *Widget) inGrip(pos fyne.Position) bool {
	s := w.raster.Size()
	return pos.X >= s.Width-cornerGrip && pos.Y >= s.Height-cornerGrip
}

// Tapped recenters the main view on the clicked page location. Clicks on
// the resize grip do nothing.
func (w *Widget) Tapped(ev *fyne.PointEvent) {
	if w.inGrip(ev.Position) {
		return
	}
	w.recenterAt(ev.Position)
}

// Dragged scrubs the main view, or resizes the minimap when the drag
// started on the corner grip. The mode is resolved once, at drag start.
func (w *Widget) Dragged(ev *fyne.DragEvent) {
	if !w.dragging {
		w.dragging = true
		start := fyne.NewPos(ev.Position.X-ev.Dragged.DX, ev.Position.Y-ev.Dragged.DY)
		w.resizing = w.inGrip(start)
	}
	if w.resizing {
		w.resizeTo(ev.Position)
		return
	}
	w.recenterAt(ev.Position)
}

// resizeTo grows or shrinks the minimap box toward the pointer, clamped
// to the allowed bounds. Only the widget's on-screen size changes; the
// page thumbnail keeps its prescaled resolution.
func (w *Widget) resizeTo(pos fyne.Position) {
	box := minimap.ClampBox(geometry.Size{Width: float64(pos.X), Height: float64(pos.Y)})
	w.raster.SetMinSize(fyne.NewSize(float32(box.Width), float32(box.Height)))
	w.Refresh()
}

// DragEnd implements fyne.Draggable.
func (w *Widget) DragEnd() {
	w.dragging = false
	w.resizing = false
}

func (w *Widget) draw(boxW, boxH int) image.Image {
	output := image.NewRGBA(image.Rect(0, 0, boxW, boxH))
	for i := 0; i < len(output.Pix); i += 4 {
		output.Pix[i] = backdrop.R
		output.Pix[i+1] = backdrop.G
		output.Pix[i+2] = backdrop.B
		output.Pix[i+3] = backdrop.A
	}
	if w.thumb == nil || boxW == 0 || boxH == 0 {
		return output
	}

	l := w.layout(boxW, boxH)
	origin := l.ToMini(geometry.Point2D{})

	// Blit the prescaled thumbnail. Its size can differ by a pixel from
	// the layout's ideal, so index through the thumb's own bounds.
	tb := w.thumb.Bounds()
	scaleX := float64(tb.Dx()) / l.ThumbSize().Width
	scaleY := float64(tb.Dy()) / l.ThumbSize().Height
	for y := 0; y < boxH; y++ {
		ty := int((float64(y) - origin.Y) * scaleY)
		if ty < 0 || ty >= tb.Dy() {
			continue
		}
		for x := 0; x < boxW; x++ {
			tx := int((float64(x) - origin.X) * scaleX)
			if tx < 0 || tx >= tb.Dx() {
				continue
			}
			output.Set(x, y, w.thumb.At(tb.Min.X+tx, tb.Min.Y+ty))
		}
	}

	// Viewport rectangle.
	r := l.ViewportRect(w.ctrl.VisibleRect())
	x1, y1 := int(r.X), int(r.Y)
	x2, y2 := int(r.X+r.Width), int(r.Y+r.Height)
	for x := x1; x <= x2; x++ {
		setPx(output, x, y1, frameColor)
		setPx(output, x, y2, frameColor)
	}
	for y := y1; y <= y2; y++ {
		setPx(output, x1, y, frameColor)
		setPx(output, x2, y, frameColor)
	}

	// Resize grip: three diagonal ticks in the bottom-right corner.
	for i := 0; i < 3; i++ {
		d := 4 + 3*i
		for j := 0; j <= d; j++ {
			setPx(output, boxW-1-j, boxH-1-(d-j), frameColor)
		}
	}

	return output
}

func setPx(img *image.RGBA, x, y int, col color.RGBA) {
	b := img.Bounds()
	if x >= b.Min.X && x < b.Max.X && y >= b.Min.Y && y < b.Max.Y {
		img.Set(x, y, col)
	}
}

// CreateRenderer implements fyne.Widget.
func (w *Widget) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(w.raster)
}
