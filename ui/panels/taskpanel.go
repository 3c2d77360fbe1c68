// Package panels provides the side panel listing measurement tasks.
package panels

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"github.com/danielcuellar117/cgs-glassbid-mvp-sub000/internal/calibration"
	"github.com/danielcuellar117/cgs-glassbid-mvp-sub000/internal/session"
	"github.com/danielcuellar117/cgs-glassbid-mvp-sub000/internal/tasks"
)

// TaskPanel lists the job's measurement tasks and carries the assign and
// skip actions.
type TaskPanel struct {
	model *session.Model

	list      *widget.List
	readout   *widget.Label
	assignBtn *widget.Button
	skipBtn   *widget.Button
	skipAll   *widget.Button

	visible []tasks.Task

	onAssign  func()
	onSkip    func(ids []string)
	onSkipAll func()

	root fyne.CanvasObject
}

// NewTaskPanel creates the panel bound to the session model.
func NewTaskPanel(model *session.Model) *TaskPanel {
	p := &TaskPanel{model: model}

	p.list = widget.NewList(
		func() int { return len(p.visible) },
		func() fyne.CanvasObject {
			return container.NewHBox(
				widget.NewIcon(nil),
				widget.NewLabel("item"),
				widget.NewLabel("status"),
			)
		},
		p.updateItem,
	)
	p.list.OnSelected = func(id widget.ListItemID) {
		if id < 0 || id >= len(p.visible) {
			return
		}
		t := p.visible[id]
		if !t.Pending() {
			p.list.UnselectAll()
			p.model.SelectTask("")
			return
		}
		p.model.SelectTask(t.ID)
	}
	p.list.OnUnselected = func(widget.ListItemID) {}

	p.readout = widget.NewLabel("")
	p.readout.TextStyle = fyne.TextStyle{Bold: true}

	p.assignBtn = widget.NewButton("Assign Measurement", func() {
		if p.onAssign != nil {
			p.onAssign()
		}
	})
	p.assignBtn.Importance = widget.HighImportance

	p.skipBtn = widget.NewButton("Skip Selected", func() {
		t := p.model.SelectedTask()
		if t != nil && p.onSkip != nil {
			p.onSkip([]string{t.ID})
		}
	})
	p.skipAll = widget.NewButton("Skip Remaining", func() {
		if p.onSkipAll != nil {
			p.onSkipAll()
		}
	})

	p.root = container.NewBorder(
		widget.NewLabel("Measurement Tasks"),
		container.NewVBox(p.readout, p.assignBtn, p.skipBtn, p.skipAll),
		nil, nil,
		p.list,
	)

	model.On(session.EventTasksChanged, func(interface{}) { p.Reload() })
	model.On(session.EventMeasurementChanged, func(interface{}) { p.syncButtons() })
	model.On(session.EventTaskSelected, func(data interface{}) {
		if id, ok := data.(string); ok && id == "" {
			p.list.UnselectAll()
		}
		p.syncButtons()
	})
	model.On(session.EventCalibrationChanged, func(interface{}) { p.syncButtons() })

	p.Reload()
	return p
}

// Container returns the panel's root object for embedding.
func (p *TaskPanel) Container() fyne.CanvasObject { return p.root }

// OnAssign registers the assign action.
func (p *TaskPanel) OnAssign(f func()) { p.onAssign = f }

// OnSkip registers the single-task skip action.
func (p *TaskPanel) OnSkip(f func(ids []string)) { p.onSkip = f }

// OnSkipAll registers the bulk skip action.
func (p *TaskPanel) OnSkipAll(f func()) { p.onSkipAll = f }

// Reload re-reads the model's task list.
func (p *TaskPanel) Reload() {
	p.visible = p.model.Tasks()
	p.list.Refresh()
	p.syncButtons()
}

func (p *TaskPanel) updateItem(id widget.ListItemID, obj fyne.CanvasObject) {
	if id < 0 || id >= len(p.visible) {
		return
	}
	t := p.visible[id]
	row := obj.(*fyne.Container)
	name := row.Objects[1].(*widget.Label)
	status := row.Objects[2].(*widget.Label)

	name.SetText(fmt.Sprintf("%s / %s", t.ItemLabel, t.DimensionKey))

	switch t.Status {
	case tasks.StatusCompleted:
		if t.MeasuredValue != nil {
			status.SetText(calibration.ToArchitecturalString(*t.MeasuredValue))
		} else {
			status.SetText("done")
		}
	case tasks.StatusSkipped:
		status.SetText("skipped")
	default:
		status.SetText("pending")
	}
}

// syncButtons enables the actions only when their guards hold: assign
// needs a calibrated page, a two-point measurement, and a pending task
// selected; skip needs a pending selection.
func (p *TaskPanel) syncButtons() {
	if label := p.model.MeasuredLabel(); label != "" {
		p.readout.SetText("Measured: " + label)
	} else {
		p.readout.SetText("")
	}

	if _, err := p.model.PendingAssignment(); err != nil {
		p.assignBtn.Disable()
	} else {
		p.assignBtn.Enable()
	}

	if t := p.model.SelectedTask(); t != nil && t.Pending() {
		p.skipBtn.Enable()
	} else {
		p.skipBtn.Disable()
	}

	if len(p.model.PendingTasks()) > 0 {
		p.skipAll.Enable()
	} else {
		p.skipAll.Disable()
	}
}
