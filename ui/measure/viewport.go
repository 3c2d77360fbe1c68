package measure

import (
	"image"
	"image/color"
	"time"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"github.com/danielcuellar117/cgs-glassbid-mvp-sub000/internal/raster"
	"github.com/danielcuellar117/cgs-glassbid-mvp-sub000/internal/session"
	"github.com/danielcuellar117/cgs-glassbid-mvp-sub000/internal/viewport"
	"github.com/danielcuellar117/cgs-glassbid-mvp-sub000/pkg/geometry"
)

const (
	frameInterval = 16 * time.Millisecond
	wheelZoomStep = 1.25
	handleRadius  = 6.0
)

var (
	calibColor   = color.RGBA{R: 0x2E, G: 0xAF, B: 0x4F, A: 0xFF}
	measureColor = color.RGBA{R: 0xD3, G: 0x2F, B: 0x2F, A: 0xFF}
	labelColor   = color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}
	shadowColor  = color.RGBA{R: 0x00, G: 0x00, B: 0x00, A: 0xFF}
	background   = color.RGBA{R: 0x30, G: 0x30, B: 0x30, A: 0xFF}
)

// Viewport displays the drawing page with pan, zoom, and the calibration
// and measurement overlays. Point placement and dragging route through
// the session model; pan/zoom state lives in the viewport controller.
type Viewport struct {
	widget.BaseWidget

	model *session.Model
	ctrl  *viewport.Controller
	page  *raster.Page

	raster   *fynecanvas.Raster
	lastView geometry.Size

	dragging    bool
	hoverHandle bool

	onCalibrationPending func()
	onViewChanged        func()
	onStatus             func(msg string)
	onCursorMoved        func(imagePoint geometry.Point2D)
}

// New creates the viewport bound to a session model.
func New(model *session.Model) *Viewport {
	v := &Viewport{model: model}

	v.raster = fynecanvas.NewRaster(v.draw)
	v.raster.ScaleMode = fynecanvas.ImageScalePixels

	v.ctrl = viewport.NewController(func() {
		v.raster.Refresh()
		if v.onViewChanged != nil {
			v.onViewChanged()
		}
	})
	v.ctrl.SetFrameScheduler(func(f func()) {
		time.AfterFunc(frameInterval, f)
	})

	redraw := func(interface{}) { v.raster.Refresh() }
	model.On(session.EventCalibrationChanged, redraw)
	model.On(session.EventMeasurementChanged, redraw)
	model.On(session.EventToolChanged, redraw)

	v.ExtendBaseWidget(v)
	return v
}

// SetPage installs the page image and fits it to the view.
func (v *Viewport) SetPage(page *raster.Page) {
	v.page = page
	if page != nil {
		v.ctrl.SetImageSize(page.Size())
		v.ctrl.FitToView()
	}
	v.raster.Refresh()
}

// Page returns the displayed page, or nil.
func (v *Viewport) Page() *raster.Page { return v.page }

// Controller exposes the pan/zoom controller for the toolbar and minimap.
func (v *Viewport) Controller() *viewport.Controller { return v.ctrl }

// OnCalibrationPending registers the callback fired when the second
// calibration point lands and the known length must be collected.
func (v *Viewport) OnCalibrationPending(f func()) { v.onCalibrationPending = f }

// OnViewChanged registers a callback fired after pan/zoom updates, used
// to keep the minimap viewport rectangle current.
func (v *Viewport) OnViewChanged(f func()) { v.onViewChanged = f }

// OnStatus registers the status line callback.
func (v *Viewport) OnStatus(f func(string)) { v.onStatus = f }

// OnCursorMoved registers a callback fed the pointer position in image
// coordinates, for the position readout.
func (v *Viewport) OnCursorMoved(f func(geometry.Point2D)) { v.onCursorMoved = f }

func (v *Viewport) status(msg string) {
	if v.onStatus != nil {
		v.onStatus(msg)
	}
}

// ZoomIn steps the zoom up about the view center.
func (v *Viewport) ZoomIn() { v.ctrl.ZoomIn() }

// ZoomOut steps the zoom down about the view center.
func (v *Viewport) ZoomOut() { v.ctrl.ZoomOut() }

// FitToView fits the whole page in the view.
func (v *Viewport) FitToView() { v.ctrl.FitToView() }

// ActualSize resets the zoom to 1:1.
func (v *Viewport) ActualSize() { v.ctrl.ActualSize() }

func (v *Viewport) screenPoint(pos fyne.Position) geometry.Point2D {
	return geometry.NewPoint2D(float64(pos.X), float64(pos.Y))
}

// Tapped places calibration or measurement points depending on the tool.
// A click that lands on existing geometry is a grab, not a placement.
func (v *Viewport) Tapped(ev *fyne.PointEvent) {
	if v.page == nil {
		return
	}
	p := v.ctrl.Transform().ToImage(v.screenPoint(ev.Position))
	if v.hitTestAt(p).IsActive() {
		return
	}

	switch v.model.Tool() {
	case session.ToolCalibrate:
		if len(v.model.CalibrationPoints()) >= 2 {
			return
		}
		n := v.model.PlaceCalibrationPoint(p)
		if n == 1 {
			v.status("Click the second end of a known dimension")
		} else if n == 2 && v.onCalibrationPending != nil {
			v.onCalibrationPending()
		}
	case session.ToolMeasure:
		n, err := v.model.PlaceMeasurePoint(p)
		if err != nil {
			v.status("Calibrate the page before measuring")
			return
		}
		if n == 1 {
			v.status("Click the second end of the dimension")
		}
	}
}

// Dragged pans the page or drags a grabbed endpoint. The grab target is
// resolved once, at the start of the drag.
func (v *Viewport) Dragged(ev *fyne.DragEvent) {
	if v.page == nil {
		return
	}
	screen := v.screenPoint(ev.Position)

	if !v.dragging {
		v.dragging = true
		start := geometry.NewPoint2D(
			float64(ev.Position.X-ev.Dragged.DX),
			float64(ev.Position.Y-ev.Dragged.DY),
		)
		target := v.hitTestAt(v.ctrl.Transform().ToImage(start))
		if target.IsActive() {
			v.ctrl.SetDrag(target)
		} else {
			v.ctrl.BeginPan(start)
		}
	}

	drag := v.ctrl.Drag()
	if !drag.IsActive() {
		v.ctrl.PanTo(screen)
		return
	}

	p := v.ctrl.Transform().ToImage(screen)
	switch drag.Kind {
	case viewport.DragCalibPoint:
		v.model.MoveCalibrationPoint(drag.Index, p)
	case viewport.DragMeasurePoint:
		v.model.MoveMeasurePoint(drag.Index, p)
	case viewport.DragCalibLine:
		v.model.MoveCalibrationPoint(0, p.Add(drag.Anchors[0]))
		v.model.MoveCalibrationPoint(1, p.Add(drag.Anchors[1]))
	case viewport.DragMeasureLine:
		v.model.MoveMeasurePoint(0, p.Add(drag.Anchors[0]))
		v.model.MoveMeasurePoint(1, p.Add(drag.Anchors[1]))
	}
}

// DragEnd releases the grab or lets the pan snap back to the boundary.
func (v *Viewport) DragEnd() {
	v.dragging = false
	if v.ctrl.Drag().IsActive() {
		v.ctrl.ClearDrag()
		return
	}
	v.ctrl.EndPan()
}

// Scrolled zooms about the cursor so the point under it stays put.
func (v *Viewport) Scrolled(ev *fyne.ScrollEvent) {
	factor := wheelZoomStep
	if ev.Scrolled.DY < 0 {
		factor = 1 / wheelZoomStep
	}
	v.ctrl.ZoomAt(v.screenPoint(ev.Position), factor)
}

// MouseIn implements desktop.Hoverable.
func (v *Viewport) MouseIn(*desktop.MouseEvent) {}

// MouseMoved tracks whether the pointer is over a grabbable handle. Hit
// testing runs only in the calibrate and measure tools, and is skipped
// while a drag is in flight.
func (v *Viewport) MouseMoved(ev *desktop.MouseEvent) {
	if v.dragging || v.page == nil {
		return
	}
	p := v.ctrl.Transform().ToImage(v.screenPoint(ev.Position))
	switch v.model.Tool() {
	case session.ToolCalibrate, session.ToolMeasure:
		v.hoverHandle = v.hitTestAt(p).IsActive()
	default:
		v.hoverHandle = false
	}
	if v.onCursorMoved != nil {
		v.onCursorMoved(p)
	}
}

// MouseOut implements desktop.Hoverable.
func (v *Viewport) MouseOut() {
	v.hoverHandle = false
}

// Cursor shows a pointer over grabbable geometry.
func (v *Viewport) Cursor() desktop.Cursor {
	if v.hoverHandle {
		return desktop.PointerCursor
	}
	return desktop.DefaultCursor
}

func (v *Viewport) hitTestAt(p geometry.Point2D) viewport.DragTarget {
	return viewport.HitTest(p, v.model.CalibrationPoints(), v.model.MeasurementPoints(), v.ctrl.Zoom())
}

// draw renders the page and overlays into the raster buffer.
func (v *Viewport) draw(w, h int) image.Image {
	view := geometry.Size{Width: float64(w), Height: float64(h)}
	if view != v.lastView && w > 0 && h > 0 {
		v.lastView = view
		v.ctrl.SetViewSize(view)
	}

	output := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := range output.Pix {
		switch i % 4 {
		case 3:
			output.Pix[i] = background.A
		default:
			output.Pix[i] = background.R
		}
	}

	if v.page == nil {
		return output
	}

	t := v.ctrl.Transform()
	drawPage(output, v.page.Image, t.Offset, t.Zoom)

	v.drawSegment(output, v.model.CalibrationPoints(), calibColor, "")
	v.drawSegment(output, v.model.MeasurementPoints(), measureColor, v.model.MeasuredLabel())

	return output
}

// drawSegment draws a point pair, its connecting line, and an optional
// midpoint label, all in screen space.
func (v *Viewport) drawSegment(output *image.RGBA, points []geometry.Point2D, col color.RGBA, label string) {
	if len(points) == 0 {
		return
	}
	t := v.ctrl.Transform()

	screen := make([]geometry.Point2D, len(points))
	for i, p := range points {
		screen[i] = t.ToScreen(p)
	}

	if len(screen) == 2 {
		drawLine(output,
			int(screen[0].X), int(screen[0].Y),
			int(screen[1].X), int(screen[1].Y),
			col, 2)
	}
	for _, s := range screen {
		drawHandle(output, int(s.X), int(s.Y), handleRadius, col)
	}

	if label != "" && len(screen) == 2 {
		midX := int((screen[0].X + screen[1].X) / 2)
		midY := int((screen[0].Y+screen[1].Y)/2) - 18
		drawLabel(output, label, midX+1, midY+1, shadowColor, 2)
		drawLabel(output, label, midX, midY, labelColor, 2)
	}
}

// CreateRenderer implements fyne.Widget.
func (v *Viewport) CreateRenderer() fyne.WidgetRenderer {
	return &viewportRenderer{view: v}
}

type viewportRenderer struct {
	view *Viewport
}

func (r *viewportRenderer) Layout(size fyne.Size) {
	r.view.raster.Resize(size)
}

func (r *viewportRenderer) MinSize() fyne.Size {
	return fyne.NewSize(200, 200)
}

func (r *viewportRenderer) Refresh() {
	r.view.raster.Refresh()
}

func (r *viewportRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{r.view.raster}
}

func (r *viewportRenderer) Destroy() {}
