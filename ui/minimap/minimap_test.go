package minimap

import (
	"testing"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/test"

	"github.com/danielcuellar117/cgs-glassbid-mvp-sub000/internal/minimap"
	"github.com/danielcuellar117/cgs-glassbid-mvp-sub000/internal/viewport"
)

func testWidget(t *testing.T) *Widget {
	t.Helper()
	test.NewApp()
	w := New(viewport.NewController(func() {}))
	test.WidgetRenderer(w).Layout(fyne.NewSize(defaultBoxW, defaultBoxH))
	return w
}

func dragFrom(w *Widget, start, end fyne.Position) {
	w.Dragged(&fyne.DragEvent{
		PointEvent: fyne.PointEvent{Position: end},
		Dragged:    fyne.Delta{DX: end.X - start.X, DY: end.Y - start.Y},
	})
	w.DragEnd()
}

func TestCornerDragResizes(t *testing.T) {
	w := testWidget(t)

	// A drag starting on the corner grip grows the box to the pointer.
	dragFrom(w, fyne.NewPos(defaultBoxW-4, defaultBoxH-4), fyne.NewPos(300, 250))
	if min := w.raster.MinSize(); min.Width != 300 || min.Height != 250 {
		t.Errorf("box = %vx%v, want 300x250", min.Width, min.Height)
	}
}

func TestResizeClampsToBounds(t *testing.T) {
	w := testWidget(t)

	dragFrom(w, fyne.NewPos(defaultBoxW-2, defaultBoxH-2), fyne.NewPos(900, 900))
	if min := w.raster.MinSize(); min.Width != minimap.MaxBoxWidth || min.Height != minimap.MaxBoxHeight {
		t.Errorf("box = %vx%v, want clamped to %vx%v",
			min.Width, min.Height, minimap.MaxBoxWidth, minimap.MaxBoxHeight)
	}

	test.WidgetRenderer(w).Layout(fyne.NewSize(minimap.MaxBoxWidth, minimap.MaxBoxHeight))
	dragFrom(w, fyne.NewPos(minimap.MaxBoxWidth-2, minimap.MaxBoxHeight-2), fyne.NewPos(10, 10))
	if min := w.raster.MinSize(); min.Width != minimap.MinBoxWidth || min.Height != minimap.MinBoxHeight {
		t.Errorf("box = %vx%v, want clamped to %vx%v",
			min.Width, min.Height, minimap.MinBoxWidth, minimap.MinBoxHeight)
	}
}

func TestCenterDragDoesNotResize(t *testing.T) {
	w := testWidget(t)

	dragFrom(w, fyne.NewPos(100, 90), fyne.NewPos(200, 170))
	if min := w.raster.MinSize(); min.Width != defaultBoxW || min.Height != defaultBoxH {
		t.Errorf("scrub drag changed the box to %vx%v", min.Width, min.Height)
	}
}
