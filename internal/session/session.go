// Package session holds the mutable state of one measurement session:
// the active tool, the calibration line, the in-progress measurement,
// and the cached task list. UI widgets subscribe to its events; network
// collaborators stay outside so the model is testable headless.
package session

import (
	"errors"
	"sync"

	"github.com/danielcuellar117/cgs-glassbid-mvp-sub000/internal/calibration"
	"github.com/danielcuellar117/cgs-glassbid-mvp-sub000/internal/tasks"
	"github.com/danielcuellar117/cgs-glassbid-mvp-sub000/pkg/geometry"
)

// Tool identifies the active pointer tool.
type Tool int

const (
	ToolPan Tool = iota
	ToolCalibrate
	ToolMeasure
)

// EventType identifies session events.
type EventType int

const (
	EventToolChanged EventType = iota
	EventCalibrationChanged
	EventMeasurementChanged
	EventTasksChanged
	EventTaskSelected
)

// EventListener is called when an event occurs.
type EventListener func(data interface{})

var (
	// ErrNotCalibrated is returned when a measurement is attempted
	// before the page has a confirmed calibration.
	ErrNotCalibrated = errors.New("page is not calibrated")

	// ErrNoMeasurement is returned when an assignment is attempted
	// without a complete two-point measurement.
	ErrNoMeasurement = errors.New("no completed measurement to assign")

	// ErrNoTaskSelected is returned when an assignment is attempted
	// without a selected pending task.
	ErrNoTaskSelected = errors.New("no pending task selected")
)

// Model is the session state machine.
type Model struct {
	mu sync.RWMutex

	tool Tool

	// Calibration line endpoints. Holds 0..2 points while the user is
	// placing them; once confirmed, mirrors calib.P1/P2.
	calibPoints []geometry.Point2D
	calib       *calibration.Data

	// Measurement endpoints for the current attempt, 0..2 points.
	measurePoints []geometry.Point2D

	tasks        []tasks.Task
	selectedTask string

	listeners map[EventType][]EventListener
}

// NewModel creates an empty session in pan mode.
func NewModel() *Model {
	return &Model{
		tool:      ToolPan,
		listeners: make(map[EventType][]EventListener),
	}
}

// On registers an event listener for the specified event type.
func (m *Model) On(event EventType, listener EventListener) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listeners[event] = append(m.listeners[event], listener)
}

// Emit triggers all listeners for the specified event type.
func (m *Model) Emit(event EventType, data interface{}) {
	m.mu.RLock()
	listeners := m.listeners[event]
	m.mu.RUnlock()

	for _, listener := range listeners {
		listener(data)
	}
}

// Tool returns the active tool.
func (m *Model) Tool() Tool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.tool
}

// SetTool switches the active tool. Leaving a tool abandons its
// in-progress point placement: unconfirmed calibration points are
// dropped (a confirmed calibration stays), and a partial measurement is
// cleared.
func (m *Model) SetTool(t Tool) {
	m.mu.Lock()
	if m.tool == t {
		m.mu.Unlock()
		return
	}
	m.tool = t
	calibDropped := false
	measureDropped := false
	if m.calib == nil && len(m.calibPoints) > 0 {
		m.calibPoints = nil
		calibDropped = true
	}
	if len(m.measurePoints) == 1 {
		m.measurePoints = nil
		measureDropped = true
	}
	m.mu.Unlock()

	m.Emit(EventToolChanged, t)
	if calibDropped {
		m.Emit(EventCalibrationChanged, nil)
	}
	if measureDropped {
		m.Emit(EventMeasurementChanged, nil)
	}
}

// Calibrated reports whether the page has a confirmed calibration.
func (m *Model) Calibrated() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.calib != nil
}

// Calibration returns the confirmed calibration, or nil.
func (m *Model) Calibration() *calibration.Data {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.calib
}

// CalibrationPoints returns the calibration endpoints placed so far.
func (m *Model) CalibrationPoints() []geometry.Point2D {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]geometry.Point2D, len(m.calibPoints))
	copy(out, m.calibPoints)
	return out
}

// PlaceCalibrationPoint adds a calibration endpoint and returns how many
// are placed. The second point leaves the line pending confirmation; the
// caller then collects the known length and calls ConfirmCalibration.
// Further clicks while both endpoints exist are ignored, so a confirmed
// scale cannot be destroyed by a stray click. Re-calibration requires
// clearing the line first.
func (m *Model) PlaceCalibrationPoint(p geometry.Point2D) int {
	m.mu.Lock()
	if len(m.calibPoints) >= 2 {
		n := len(m.calibPoints)
		m.mu.Unlock()
		return n
	}
	m.calibPoints = append(m.calibPoints, p)
	n := len(m.calibPoints)
	m.mu.Unlock()

	m.Emit(EventCalibrationChanged, nil)
	return n
}

// MoveCalibrationPoint drags one calibration endpoint. With a confirmed
// calibration the scale factor is recomputed from the new pixel length,
// keeping the known real length; an in-progress point just moves.
func (m *Model) MoveCalibrationPoint(idx int, p geometry.Point2D) error {
	m.mu.Lock()
	if idx < 0 || idx >= len(m.calibPoints) {
		m.mu.Unlock()
		return errors.New("no calibration point at index")
	}
	m.calibPoints[idx] = p
	if m.calib != nil {
		moved, err := m.calib.Rescale(m.calibPoints[0], m.calibPoints[1])
		if err != nil {
			m.mu.Unlock()
			return err
		}
		m.calib = &moved
	}
	m.mu.Unlock()

	m.Emit(EventCalibrationChanged, nil)
	return nil
}

// ConfirmCalibration fixes the pending two-point line to a known real
// length in inches, establishing the page scale.
func (m *Model) ConfirmCalibration(realInches float64) error {
	m.mu.Lock()
	if len(m.calibPoints) != 2 {
		m.mu.Unlock()
		return errors.New("calibration needs two placed points")
	}
	d, err := calibration.New(m.calibPoints[0], m.calibPoints[1], realInches)
	if err != nil {
		m.mu.Unlock()
		return err
	}
	m.calib = &d
	m.mu.Unlock()

	m.Emit(EventCalibrationChanged, d)
	return nil
}

// CancelCalibration drops an unconfirmed calibration line. A confirmed
// calibration is untouched.
func (m *Model) CancelCalibration() {
	m.mu.Lock()
	if m.calib != nil || len(m.calibPoints) == 0 {
		m.mu.Unlock()
		return
	}
	m.calibPoints = nil
	m.mu.Unlock()

	m.Emit(EventCalibrationChanged, nil)
}

// ClearCalibration removes the calibration entirely. Measurements depend
// on the scale, so the in-progress measurement is cleared with it.
func (m *Model) ClearCalibration() {
	m.mu.Lock()
	hadMeasure := len(m.measurePoints) > 0
	m.calib = nil
	m.calibPoints = nil
	m.measurePoints = nil
	m.mu.Unlock()

	m.Emit(EventCalibrationChanged, nil)
	if hadMeasure {
		m.Emit(EventMeasurementChanged, nil)
	}
}

// MeasurementPoints returns the measurement endpoints placed so far.
func (m *Model) MeasurementPoints() []geometry.Point2D {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]geometry.Point2D, len(m.measurePoints))
	copy(out, m.measurePoints)
	return out
}

// PlaceMeasurePoint adds a measurement endpoint. The page must be
// calibrated first. A third click starts a new measurement.
func (m *Model) PlaceMeasurePoint(p geometry.Point2D) (int, error) {
	m.mu.Lock()
	if m.calib == nil {
		m.mu.Unlock()
		return 0, ErrNotCalibrated
	}
	if len(m.measurePoints) >= 2 {
		m.measurePoints = nil
	}
	m.measurePoints = append(m.measurePoints, p)
	n := len(m.measurePoints)
	m.mu.Unlock()

	m.Emit(EventMeasurementChanged, nil)
	return n, nil
}

// MoveMeasurePoint drags one measurement endpoint; the readout updates
// live.
func (m *Model) MoveMeasurePoint(idx int, p geometry.Point2D) error {
	m.mu.Lock()
	if idx < 0 || idx >= len(m.measurePoints) {
		m.mu.Unlock()
		return errors.New("no measurement point at index")
	}
	m.measurePoints[idx] = p
	m.mu.Unlock()

	m.Emit(EventMeasurementChanged, nil)
	return nil
}

// ClearMeasurement discards the current measurement attempt. The
// calibration is untouched.
func (m *Model) ClearMeasurement() {
	m.mu.Lock()
	if len(m.measurePoints) == 0 {
		m.mu.Unlock()
		return
	}
	m.measurePoints = nil
	m.mu.Unlock()

	m.Emit(EventMeasurementChanged, nil)
}

// MeasuredInches returns the current measurement in inches. ok is false
// until two points are placed on a calibrated page.
func (m *Model) MeasuredInches() (float64, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.calib == nil || len(m.measurePoints) != 2 {
		return 0, false
	}
	return m.calib.MeasureInches(m.measurePoints[0], m.measurePoints[1]), true
}

// MeasuredLabel returns the live readout in architectural format, or ""
// when no measurement is complete.
func (m *Model) MeasuredLabel() string {
	inches, ok := m.MeasuredInches()
	if !ok {
		return ""
	}
	return calibration.ToArchitecturalString(inches)
}

// SetTasks replaces the cached task list, typically after a refresh from
// the server. A selected task that disappeared is deselected.
func (m *Model) SetTasks(list []tasks.Task) {
	m.mu.Lock()
	m.tasks = make([]tasks.Task, len(list))
	copy(m.tasks, list)
	if m.selectedTask != "" && m.findTask(m.selectedTask) == nil {
		m.selectedTask = ""
	}
	m.mu.Unlock()

	m.Emit(EventTasksChanged, nil)
}

// Tasks returns a copy of the cached task list.
func (m *Model) Tasks() []tasks.Task {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]tasks.Task, len(m.tasks))
	copy(out, m.tasks)
	return out
}

// PendingTasks returns the cached tasks still awaiting measurement.
func (m *Model) PendingTasks() []tasks.Task {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []tasks.Task
	for _, t := range m.tasks {
		if t.Pending() {
			out = append(out, t)
		}
	}
	return out
}

// SelectTask marks a task as the assignment target. An empty id clears
// the selection.
func (m *Model) SelectTask(id string) {
	m.mu.Lock()
	m.selectedTask = id
	m.mu.Unlock()

	m.Emit(EventTaskSelected, id)
}

// SelectedTask returns the selected task, or nil.
func (m *Model) SelectedTask() *tasks.Task {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.findTask(m.selectedTask)
}

// Assignment is a measurement ready to be written to a task.
type Assignment struct {
	TaskID      string
	Inches      float64
	Calibration *calibration.Data
}

// PendingAssignment validates the assignment guard: a calibrated page, a
// complete two-point measurement, and a selected task that is still
// pending. It returns the payload for the task service; the session is
// not mutated until ApplyCompletion reports the server accepted it.
func (m *Model) PendingAssignment() (*Assignment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.calib == nil {
		return nil, ErrNotCalibrated
	}
	if len(m.measurePoints) != 2 {
		return nil, ErrNoMeasurement
	}
	t := m.findTask(m.selectedTask)
	if t == nil || !t.Pending() {
		return nil, ErrNoTaskSelected
	}
	return &Assignment{
		TaskID:      t.ID,
		Inches:      m.calib.MeasureInches(m.measurePoints[0], m.measurePoints[1]),
		Calibration: m.calib,
	}, nil
}

// ApplyCompletion records a server-confirmed task write: the cached task
// is replaced, the measurement attempt is cleared, and the selection
// moves off the finished task.
func (m *Model) ApplyCompletion(updated *tasks.Task) {
	m.mu.Lock()
	for i := range m.tasks {
		if m.tasks[i].ID == updated.ID {
			m.tasks[i] = *updated
		}
	}
	if m.selectedTask == updated.ID {
		m.selectedTask = ""
	}
	m.measurePoints = nil
	m.mu.Unlock()

	m.Emit(EventTasksChanged, nil)
	m.Emit(EventMeasurementChanged, nil)
	m.Emit(EventTaskSelected, "")
}

// SetCalibration installs a calibration loaded from the server without
// going through point placement.
func (m *Model) SetCalibration(d *calibration.Data) {
	m.mu.Lock()
	m.calib = d
	if d != nil {
		m.calibPoints = []geometry.Point2D{d.P1, d.P2}
	} else {
		m.calibPoints = nil
	}
	m.mu.Unlock()

	m.Emit(EventCalibrationChanged, d)
}

func (m *Model) findTask(id string) *tasks.Task {
	if id == "" {
		return nil
	}
	for i := range m.tasks {
		if m.tasks[i].ID == id {
			return &m.tasks[i]
		}
	}
	return nil
}
