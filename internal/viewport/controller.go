package viewport

import (
	"github.com/danielcuellar117/cgs-glassbid-mvp-sub000/pkg/geometry"
)

const (
	minZoom  = 0.1
	maxZoom  = 10.0
	zoomStep = 1.25
)

// Controller owns the pan/zoom state for a single page view. All state is
// mutated synchronously on input events from one goroutine (the UI event
// loop); redraws are coalesced through a dirty flag and a next-frame
// scheduler rather than issued per mutation.
type Controller struct {
	offset geometry.Point2D
	zoom   float64
	image  geometry.Size
	view   geometry.Size

	panning   bool
	panStart  geometry.Point2D
	panOrigin geometry.Point2D

	drag DragTarget

	// snapGen invalidates in-flight snap-back loops: each loop captures
	// the generation it was started with and stops once it goes stale.
	snapGen int

	dirty    bool
	schedule func(func())
	onRedraw func()
}

// NewController creates a controller that reports redraws through
// onRedraw. The default frame scheduler runs callbacks immediately; the
// UI layer replaces it with a real per-frame scheduler.
func NewController(onRedraw func()) *Controller {
	if onRedraw == nil {
		onRedraw = func() {}
	}
	return &Controller{
		zoom:     1.0,
		schedule: func(f func()) { f() },
		onRedraw: onRedraw,
	}
}

// SetFrameScheduler installs the deferred callback used for redraw
// coalescing and the snap-back loop.
func (c *Controller) SetFrameScheduler(schedule func(func())) {
	if schedule != nil {
		c.schedule = schedule
	}
}

// Transform returns the current screen/image mapping.
func (c *Controller) Transform() Transform {
	return Transform{Offset: c.offset, Zoom: c.zoom}
}

// Zoom returns the current zoom factor.
func (c *Controller) Zoom() float64 { return c.zoom }

// Offset returns the current pan offset in screen pixels.
func (c *Controller) Offset() geometry.Point2D { return c.offset }

// Panning reports whether a pan drag is in flight.
func (c *Controller) Panning() bool { return c.panning }

// Drag returns the active drag target.
func (c *Controller) Drag() DragTarget { return c.drag }

// SetDrag activates a drag target, cancelling any snap-back in flight.
func (c *Controller) SetDrag(t DragTarget) {
	c.cancelSnap()
	c.drag = t
}

// ClearDrag deactivates the drag target.
func (c *Controller) ClearDrag() {
	c.drag = DragTarget{}
}

// SetImageSize sets the image dimensions and re-clamps the offset.
func (c *Controller) SetImageSize(size geometry.Size) {
	c.image = size
	c.offset = RestingOffset(c.offset, c.image, c.view, c.zoom)
	c.Invalidate()
}

// SetViewSize sets the visible viewport dimensions and re-clamps the offset.
func (c *Controller) SetViewSize(size geometry.Size) {
	c.view = size
	c.offset = RestingOffset(c.offset, c.image, c.view, c.zoom)
	c.Invalidate()
}

// ImageSize returns the image dimensions in image pixels.
func (c *Controller) ImageSize() geometry.Size { return c.image }

// ViewSize returns the viewport dimensions in screen pixels.
func (c *Controller) ViewSize() geometry.Size { return c.view }

// SetZoom sets the zoom factor, clamped to [0.1, 10], zooming about the
// viewport center.
func (c *Controller) SetZoom(zoom float64) {
	c.ZoomAt(geometry.Point2D{X: c.view.Width / 2, Y: c.view.Height / 2}, zoom/c.zoom)
}

// ZoomIn steps the zoom up about the viewport center.
func (c *Controller) ZoomIn() { c.SetZoom(c.zoom * zoomStep) }

// ZoomOut steps the zoom down about the viewport center.
func (c *Controller) ZoomOut() { c.SetZoom(c.zoom / zoomStep) }

// ZoomAt multiplies the zoom by factor while keeping the image point
// under the given screen position stationary, then re-clamps the offset.
func (c *Controller) ZoomAt(screen geometry.Point2D, factor float64) {
	c.cancelSnap()
	anchor := c.Transform().ToImage(screen)

	zoom := c.zoom * factor
	if zoom < minZoom {
		zoom = minZoom
	}
	if zoom > maxZoom {
		zoom = maxZoom
	}
	c.zoom = zoom

	c.offset = geometry.Point2D{
		X: screen.X - anchor.X*c.zoom,
		Y: screen.Y - anchor.Y*c.zoom,
	}
	c.offset = RestingOffset(c.offset, c.image, c.view, c.zoom)
	c.Invalidate()
}

// FitToView zooms so the whole image is visible, with a small margin,
// and centers it.
func (c *Controller) FitToView() {
	if c.image.Width <= 0 || c.image.Height <= 0 || c.view.Width <= 0 || c.view.Height <= 0 {
		return
	}
	c.cancelSnap()
	zx := c.view.Width / c.image.Width
	zy := c.view.Height / c.image.Height
	zoom := zx
	if zy < zx {
		zoom = zy
	}
	zoom *= 0.95
	if zoom < minZoom {
		zoom = minZoom
	}
	if zoom > maxZoom {
		zoom = maxZoom
	}
	c.zoom = zoom
	c.offset = RestingOffset(geometry.Point2D{}, c.image, c.view, c.zoom)
	c.Invalidate()
}

// ActualSize resets the zoom to 1:1 about the viewport center.
func (c *Controller) ActualSize() { c.SetZoom(1.0) }

// Recenter pans so the given image-space point sits at the viewport
// center, clamped to the resting boundary. Used by the minimap.
func (c *Controller) Recenter(imagePoint geometry.Point2D) {
	c.cancelSnap()
	c.offset = geometry.Point2D{
		X: c.view.Width/2 - imagePoint.X*c.zoom,
		Y: c.view.Height/2 - imagePoint.Y*c.zoom,
	}
	c.offset = RestingOffset(c.offset, c.image, c.view, c.zoom)
	c.Invalidate()
}

// VisibleRect returns the visible region of the image in image
// coordinates, clipped to the image bounds.
func (c *Controller) VisibleRect() geometry.Rect {
	tl := c.Transform().ToImage(geometry.Point2D{})
	br := c.Transform().ToImage(geometry.Point2D{X: c.view.Width, Y: c.view.Height})
	visible := geometry.NewRect(tl.X, tl.Y, br.X-tl.X, br.Y-tl.Y)
	return visible.Intersect(geometry.NewRect(0, 0, c.image.Width, c.image.Height))
}

// BeginPan starts a pan drag at the given screen position, cancelling
// any snap-back in flight.
func (c *Controller) BeginPan(screen geometry.Point2D) {
	c.cancelSnap()
	c.panning = true
	c.panStart = screen
	c.panOrigin = c.offset
}

// PanTo updates an in-flight pan drag. The raw offset follows the
// pointer; past the resting boundary the displacement is elastically
// damped.
func (c *Controller) PanTo(screen geometry.Point2D) {
	if !c.panning {
		return
	}
	raw := geometry.Point2D{
		X: c.panOrigin.X + (screen.X - c.panStart.X),
		Y: c.panOrigin.Y + (screen.Y - c.panStart.Y),
	}
	c.offset = ElasticOffset(raw, c.image, c.view, c.zoom)
	c.Invalidate()
}

// EndPan finishes a pan drag and starts the snap-back animation toward
// the resting offset.
func (c *Controller) EndPan() {
	if !c.panning {
		return
	}
	c.panning = false
	c.startSnap()
}

// Invalidate requests a redraw. Multiple invalidations within one frame
// coalesce into a single onRedraw call.
func (c *Controller) Invalidate() {
	if c.dirty {
		return
	}
	c.dirty = true
	c.schedule(func() {
		c.dirty = false
		c.onRedraw()
	})
}

func (c *Controller) cancelSnap() {
	c.snapGen++
}

func (c *Controller) startSnap() {
	c.snapGen++
	gen := c.snapGen
	c.schedule(func() { c.stepSnap(gen) })
}

func (c *Controller) stepSnap(gen int) {
	if gen != c.snapGen {
		return
	}
	target := RestingOffset(c.offset, c.image, c.view, c.zoom)
	next, done := SnapStep(c.offset, target)
	c.offset = next
	c.Invalidate()
	if done {
		return
	}
	c.schedule(func() { c.stepSnap(gen) })
}
