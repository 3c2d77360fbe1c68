package viewport

import (
	"testing"

	"gonum.org/v1/gonum/floats/scalar"

	"github.com/danielcuellar117/cgs-glassbid-mvp-sub000/pkg/geometry"
)

// frameQueue is a manual frame scheduler: callbacks queue up and run one
// batch per Tick, standing in for the UI's per-frame callback.
type frameQueue struct {
	pending []func()
}

func (q *frameQueue) schedule(f func()) {
	q.pending = append(q.pending, f)
}

func (q *frameQueue) tick() {
	batch := q.pending
	q.pending = nil
	for _, f := range batch {
		f()
	}
}

func (q *frameQueue) run(maxTicks int) int {
	ticks := 0
	for len(q.pending) > 0 && ticks < maxTicks {
		q.tick()
		ticks++
	}
	return ticks
}

func newTestController(q *frameQueue, redraws *int) *Controller {
	c := NewController(func() { *redraws++ })
	c.SetFrameScheduler(q.schedule)
	c.SetViewSize(geometry.NewSize(800, 600))
	c.SetImageSize(geometry.NewSize(2000, 1500))
	return c
}

func TestRedrawCoalescing(t *testing.T) {
	q := &frameQueue{}
	redraws := 0
	c := newTestController(q, &redraws)
	q.run(10)
	redraws = 0

	// Several mutations within one frame produce one redraw.
	c.BeginPan(geometry.NewPoint2D(400, 300))
	c.PanTo(geometry.NewPoint2D(390, 300))
	c.PanTo(geometry.NewPoint2D(380, 290))
	c.PanTo(geometry.NewPoint2D(370, 280))
	q.tick()
	if redraws != 1 {
		t.Errorf("redraws = %d, want 1 (coalesced)", redraws)
	}
}

func TestElasticReleaseConverges(t *testing.T) {
	q := &frameQueue{}
	redraws := 0
	c := newTestController(q, &redraws)
	q.run(10)

	// Drag well past the left/top boundary (positive offsets are out of
	// bounds for an oversized image), then release.
	c.BeginPan(geometry.NewPoint2D(0, 0))
	c.PanTo(geometry.NewPoint2D(400, 300))
	q.run(10)
	if c.Offset().X <= 0 || c.Offset().Y <= 0 {
		t.Fatalf("elastic drag should overshoot boundary, offset = %+v", c.Offset())
	}

	c.EndPan()
	ticks := q.run(200)
	if ticks >= 200 {
		t.Fatal("snap-back did not settle within 200 ticks")
	}
	if c.Offset() != (geometry.Point2D{}) {
		t.Errorf("offset after snap = %+v, want exactly (0,0)", c.Offset())
	}
}

func TestNewDragCancelsSnap(t *testing.T) {
	q := &frameQueue{}
	redraws := 0
	c := newTestController(q, &redraws)
	q.run(10)

	c.BeginPan(geometry.NewPoint2D(0, 0))
	c.PanTo(geometry.NewPoint2D(400, 300))
	q.run(10)
	c.EndPan()
	q.tick() // one snap step runs

	// Starting a new pan must invalidate the in-flight snap loop.
	c.BeginPan(geometry.NewPoint2D(100, 100))
	held := c.Offset()
	q.run(50)
	if c.Offset() != held {
		t.Errorf("cancelled snap kept mutating offset: %+v -> %+v", held, c.Offset())
	}
}

func TestZoomClamped(t *testing.T) {
	q := &frameQueue{}
	redraws := 0
	c := newTestController(q, &redraws)

	c.SetZoom(0.0001)
	if c.Zoom() != 0.1 {
		t.Errorf("zoom = %v, want clamped to 0.1", c.Zoom())
	}
	c.SetZoom(500)
	if c.Zoom() != 10 {
		t.Errorf("zoom = %v, want clamped to 10", c.Zoom())
	}
}

func TestZoomAtKeepsAnchorStationary(t *testing.T) {
	q := &frameQueue{}
	redraws := 0
	c := newTestController(q, &redraws)
	q.run(10)

	// Pan into the middle of the image so the anchor is not near a
	// clamping boundary.
	c.Recenter(geometry.NewPoint2D(1000, 750))
	cursor := geometry.NewPoint2D(500, 400)
	before := c.Transform().ToImage(cursor)

	c.ZoomAt(cursor, 1.25)
	after := c.Transform().ToImage(cursor)
	if !scalar.EqualWithinAbs(after.X, before.X, 1e-6) || !scalar.EqualWithinAbs(after.Y, before.Y, 1e-6) {
		t.Errorf("anchor moved under cursor: %+v -> %+v", before, after)
	}
}

func TestRecenter(t *testing.T) {
	q := &frameQueue{}
	redraws := 0
	c := newTestController(q, &redraws)

	c.Recenter(geometry.NewPoint2D(1000, 750))
	center := c.Transform().ToImage(geometry.NewPoint2D(400, 300))
	if !scalar.EqualWithinAbs(center.X, 1000, 1e-6) || !scalar.EqualWithinAbs(center.Y, 750, 1e-6) {
		t.Errorf("viewport center = %+v, want (1000,750)", center)
	}
}

func TestVisibleRectClipsToImage(t *testing.T) {
	q := &frameQueue{}
	redraws := 0
	c := newTestController(q, &redraws)

	c.FitToView()
	r := c.VisibleRect()
	if r.X < 0 || r.Y < 0 || r.X+r.Width > 2000 || r.Y+r.Height > 1500 {
		t.Errorf("visible rect %+v exceeds image bounds", r)
	}
}
