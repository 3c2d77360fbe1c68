// Package mainwindow provides the main application window.
package mainwindow

import (
	"context"
	"errors"
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/danielcuellar117/cgs-glassbid-mvp-sub000/internal/app"
	"github.com/danielcuellar117/cgs-glassbid-mvp-sub000/internal/calibration"
	"github.com/danielcuellar117/cgs-glassbid-mvp-sub000/internal/raster"
	"github.com/danielcuellar117/cgs-glassbid-mvp-sub000/internal/render"
	"github.com/danielcuellar117/cgs-glassbid-mvp-sub000/internal/session"
	"github.com/danielcuellar117/cgs-glassbid-mvp-sub000/internal/version"
	"github.com/danielcuellar117/cgs-glassbid-mvp-sub000/pkg/geometry"
	"github.com/danielcuellar117/cgs-glassbid-mvp-sub000/ui/dialogs"
	"github.com/danielcuellar117/cgs-glassbid-mvp-sub000/ui/measure"
	"github.com/danielcuellar117/cgs-glassbid-mvp-sub000/ui/minimap"
	"github.com/danielcuellar117/cgs-glassbid-mvp-sub000/ui/panels"
	"github.com/danielcuellar117/cgs-glassbid-mvp-sub000/ui/prefs"
)

const (
	prefKeyWindowW = "windowWidth"
	prefKeyWindowH = "windowHeight"
)

// MainWindow is the primary application window.
type MainWindow struct {
	fyne.Window
	app  fyne.App
	sess *app.Session
	pref *prefs.Prefs

	viewport  *measure.Viewport
	minimap   *minimap.Widget
	taskPanel *panels.TaskPanel
	statusBar *widget.Label
	posLabel  *widget.Label
	zoomLabel *widget.Label

	toolButtons map[session.Tool]*widget.Button
}

// New creates the main window for a session.
func New(fyneApp fyne.App, sess *app.Session, pref *prefs.Prefs) *MainWindow {
	win := fyneApp.NewWindow("GlassBid Measure")

	mw := &MainWindow{
		Window:      win,
		app:         fyneApp,
		sess:        sess,
		pref:        pref,
		toolButtons: make(map[session.Tool]*widget.Button),
	}

	mw.setupUI()
	mw.setupMenus()
	mw.setupKeyboard()
	mw.setupEventHandlers()
	mw.restoreWindowSize()

	return mw
}

func (mw *MainWindow) setupUI() {
	model := mw.sess.Model

	mw.viewport = measure.New(model)
	mw.minimap = minimap.New(mw.viewport.Controller())
	mw.taskPanel = panels.NewTaskPanel(model)
	mw.statusBar = widget.NewLabel("Loading page...")
	mw.posLabel = widget.NewLabel("")
	mw.zoomLabel = widget.NewLabel("100%")

	mw.viewport.OnStatus(mw.updateStatus)
	mw.viewport.OnCalibrationPending(mw.onCalibrationPending)
	mw.viewport.OnViewChanged(func() {
		mw.zoomLabel.SetText(fmt.Sprintf("%.0f%%", mw.viewport.Controller().Zoom()*100))
		mw.minimap.Refresh()
	})
	mw.viewport.OnCursorMoved(func(p geometry.Point2D) {
		if d := model.Calibration(); d != nil {
			mw.posLabel.SetText(fmt.Sprintf("%.0f, %.0f px (%s, %s)",
				p.X, p.Y,
				calibration.ToArchitecturalString(p.X/d.PixelsPerInch),
				calibration.ToArchitecturalString(p.Y/d.PixelsPerInch)))
		} else {
			mw.posLabel.SetText(fmt.Sprintf("%.0f, %.0f px", p.X, p.Y))
		}
	})

	mw.taskPanel.OnAssign(mw.onAssign)
	mw.taskPanel.OnSkip(mw.onSkipTasks)
	mw.taskPanel.OnSkipAll(mw.onSkipRemaining)

	mw.sess.OnPageLoaded(func(page *raster.Page) {
		mw.viewport.SetPage(page)
		mw.minimap.SetPage(page)
	})

	toolbar := mw.createToolbar()

	viewArea := container.NewBorder(toolbar, nil, nil, nil, mw.viewport)

	sidePanel := container.NewBorder(
		mw.minimap, // top
		nil, nil, nil,
		mw.taskPanel.Container(),
	)

	split := container.NewHSplit(viewArea, sidePanel)
	split.SetOffset(0.75)

	statusLine := container.NewBorder(
		nil, nil, nil,
		container.NewHBox(mw.posLabel, widget.NewSeparator(), mw.zoomLabel),
		mw.statusBar,
	)

	content := container.NewBorder(
		nil,
		container.NewPadded(statusLine),
		nil, nil,
		split,
	)
	mw.SetContent(content)
}

// createToolbar creates the tool selector and zoom controls.
func (mw *MainWindow) createToolbar() fyne.CanvasObject {
	model := mw.sess.Model

	makeTool := func(label string, tool session.Tool) *widget.Button {
		btn := widget.NewButton(label, func() { model.SetTool(tool) })
		mw.toolButtons[tool] = btn
		return btn
	}

	panBtn := makeTool("Pan", session.ToolPan)
	calBtn := makeTool("Calibrate", session.ToolCalibrate)
	mesBtn := makeTool("Measure", session.ToolMeasure)

	zoomOut := widget.NewButton("-", mw.viewport.ZoomOut)
	zoomIn := widget.NewButton("+", mw.viewport.ZoomIn)
	fitBtn := widget.NewButton("Fit", mw.viewport.FitToView)
	actualBtn := widget.NewButton("1:1", mw.viewport.ActualSize)

	mw.syncToolButtons(session.ToolPan)

	return container.NewHBox(
		panBtn, calBtn, mesBtn,
		widget.NewSeparator(),
		widget.NewLabel("Zoom:"),
		zoomOut, zoomIn, fitBtn, actualBtn,
	)
}

func (mw *MainWindow) syncToolButtons(active session.Tool) {
	for tool, btn := range mw.toolButtons {
		if tool == active {
			btn.Importance = widget.HighImportance
		} else {
			btn.Importance = widget.MediumImportance
		}
		btn.Refresh()
	}
}

func (mw *MainWindow) setupMenus() {
	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("Reload Tasks", mw.onReloadTasks),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Quit", func() { mw.app.Quit() }),
	)

	editMenu := fyne.NewMenu("Edit",
		fyne.NewMenuItem("Clear Measurement", mw.sess.Model.ClearMeasurement),
		fyne.NewMenuItem("Clear Calibration", mw.onClearCalibration),
	)

	viewMenu := fyne.NewMenu("View",
		fyne.NewMenuItem("Zoom In", mw.viewport.ZoomIn),
		fyne.NewMenuItem("Zoom Out", mw.viewport.ZoomOut),
		fyne.NewMenuItem("Fit to Window", mw.viewport.FitToView),
		fyne.NewMenuItem("Actual Size", mw.viewport.ActualSize),
	)

	helpMenu := fyne.NewMenu("Help",
		fyne.NewMenuItem("About", mw.onAbout),
	)

	mw.SetMainMenu(fyne.NewMainMenu(fileMenu, editMenu, viewMenu, helpMenu))
}

// setupKeyboard routes Delete/Backspace to the delete cascade and Escape
// to cancelling the in-progress placement.
func (mw *MainWindow) setupKeyboard() {
	model := mw.sess.Model
	mw.Canvas().SetOnTypedKey(func(ev *fyne.KeyEvent) {
		switch ev.Name {
		case fyne.KeyDelete, fyne.KeyBackspace:
			if len(model.MeasurementPoints()) > 0 {
				model.ClearMeasurement()
				mw.updateStatus("Measurement cleared")
			} else if model.Calibrated() || len(model.CalibrationPoints()) > 0 {
				mw.onClearCalibration()
			}
		case fyne.KeyEscape:
			model.CancelCalibration()
			if len(model.MeasurementPoints()) == 1 {
				model.ClearMeasurement()
			}
			model.SetTool(session.ToolPan)
		case fyne.Key1:
			model.SetTool(session.ToolPan)
		case fyne.Key2:
			model.SetTool(session.ToolCalibrate)
		case fyne.Key3:
			model.SetTool(session.ToolMeasure)
		}
	})
}

func (mw *MainWindow) setupEventHandlers() {
	model := mw.sess.Model

	model.On(session.EventToolChanged, func(data interface{}) {
		if tool, ok := data.(session.Tool); ok {
			mw.syncToolButtons(tool)
			switch tool {
			case session.ToolCalibrate:
				mw.updateStatus("Click both ends of a known dimension")
			case session.ToolMeasure:
				if !model.Calibrated() {
					mw.updateStatus("Calibrate the page before measuring")
				} else {
					mw.updateStatus("Click both ends of the dimension to measure")
				}
			default:
				mw.updateStatus("Drag to pan, scroll to zoom")
			}
		}
	})

	model.On(session.EventCalibrationChanged, func(interface{}) {
		if d := model.Calibration(); d != nil {
			mw.updateStatus(fmt.Sprintf("Calibrated: %.2f px/in", d.PixelsPerInch))
		}
	})
}

// Start brings up the page and task list in the background.
func (mw *MainWindow) Start() {
	go mw.loadPage()
}

func (mw *MainWindow) loadPage() {
	ctx := context.Background()
	if err := mw.sess.LoadPage(ctx); err != nil {
		mw.onPageLoadError(err)
		return
	}
	mw.updateStatus("Page ready")

	if err := mw.sess.LoadCalibration(ctx); err != nil {
		mw.updateStatus("Could not load saved calibration")
	}
	if err := mw.sess.RefreshTasks(ctx); err != nil {
		mw.updateStatus("Could not load tasks: " + err.Error())
	}
}

// onPageLoadError surfaces render failures with a retry affordance. A
// rate-limited re-render is a wait, not a failure.
func (mw *MainWindow) onPageLoadError(err error) {
	switch {
	case errors.Is(err, render.ErrRateLimited):
		mw.updateStatus("Render rate limited, retry shortly")
	case errors.Is(err, render.ErrRenderFailed), errors.Is(err, render.ErrPollTimeout):
		dialog.ShowConfirm("Render Failed",
			"The page could not be rasterized. Retry?",
			func(retry bool) {
				if retry {
					go mw.loadPage()
				}
			}, mw.Window)
	default:
		dialog.ShowError(err, mw.Window)
	}
	mw.updateStatus("Page load failed: " + err.Error())
}

// onCalibrationPending opens the known-length dialog after the second
// calibration point lands. Cancelling drops the unconfirmed line.
func (mw *MainWindow) onCalibrationPending() {
	model := mw.sess.Model
	pts := model.CalibrationPoints()
	if len(pts) != 2 {
		return
	}
	pixelLen := pts[0].Distance(pts[1])

	dialogs.ShowCalibration(mw.Window, pixelLen,
		func(realInches float64) {
			go func() {
				if err := mw.sess.ConfirmCalibration(context.Background(), realInches); err != nil {
					mw.updateStatus(err.Error())
					return
				}
				mw.updateStatus("Page calibrated, ready to measure")
				model.SetTool(session.ToolMeasure)
			}()
		},
		model.CancelCalibration,
	)
}

func (mw *MainWindow) onClearCalibration() {
	model := mw.sess.Model
	if !model.Calibrated() {
		model.ClearCalibration()
		return
	}
	dialog.ShowConfirm("Clear Calibration",
		"Clearing the calibration also clears the current measurement. Continue?",
		func(ok bool) {
			if ok {
				model.ClearCalibration()
				mw.updateStatus("Calibration cleared")
			}
		}, mw.Window)
}

func (mw *MainWindow) onAssign() {
	go func() {
		updated, err := mw.sess.CommitAssignment(context.Background())
		if err != nil {
			mw.updateStatus("Assignment failed: " + err.Error())
			return
		}
		mw.updateStatus(fmt.Sprintf("Recorded %s / %s", updated.ItemLabel, updated.DimensionKey))
	}()
}

func (mw *MainWindow) onSkipTasks(ids []string) {
	dialogs.ShowSkipReason(mw.Window, len(ids), func(reason string) {
		go func() {
			if err := mw.sess.SkipTasks(context.Background(), ids, reason); err != nil {
				mw.updateStatus("Skip failed: " + err.Error())
				return
			}
			mw.updateStatus("Task skipped")
		}()
	})
}

func (mw *MainWindow) onSkipRemaining() {
	count := len(mw.sess.Model.PendingTasks())
	if count == 0 {
		return
	}
	dialogs.ShowSkipReason(mw.Window, count, func(reason string) {
		go func() {
			if err := mw.sess.SkipRemaining(context.Background(), reason); err != nil {
				mw.updateStatus("Skip failed: " + err.Error())
				return
			}
			mw.updateStatus(fmt.Sprintf("Skipped %d tasks", count))
		}()
	})
}

func (mw *MainWindow) onReloadTasks() {
	go func() {
		if err := mw.sess.RefreshTasks(context.Background()); err != nil {
			mw.updateStatus("Could not reload tasks: " + err.Error())
			return
		}
		mw.updateStatus("Tasks reloaded")
	}()
}

func (mw *MainWindow) onAbout() {
	dialog.ShowInformation("About GlassBid Measure",
		fmt.Sprintf("GlassBid Measure v%s\n\n"+
			"Measure glass dimensions from calibrated shop drawings.\n\n"+
			"Built: %s\nCommit: %s",
			version.Version, version.BuildTime, version.GitCommit),
		mw.Window)
}

func (mw *MainWindow) updateStatus(text string) {
	mw.statusBar.SetText(text)
}

func (mw *MainWindow) restoreWindowSize() {
	w := mw.pref.FloatWithFallback(prefKeyWindowW, 1280)
	h := mw.pref.FloatWithFallback(prefKeyWindowH, 860)
	mw.Resize(fyne.NewSize(float32(w), float32(h)))
}

// SavePreferences persists window geometry.
func (mw *MainWindow) SavePreferences() {
	size := mw.Canvas().Size()
	mw.pref.SetFloat(prefKeyWindowW, float64(size.Width))
	mw.pref.SetFloat(prefKeyWindowH, float64(size.Height))
	if err := mw.pref.Save(); err != nil {
		mw.updateStatus("Could not save preferences")
	}
}
