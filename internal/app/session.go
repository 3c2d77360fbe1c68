// Package app wires the session model to the render and task services
// and manages application lifecycle.
package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/danielcuellar117/cgs-glassbid-mvp-sub000/internal/calibration"
	"github.com/danielcuellar117/cgs-glassbid-mvp-sub000/internal/raster"
	"github.com/danielcuellar117/cgs-glassbid-mvp-sub000/internal/render"
	"github.com/danielcuellar117/cgs-glassbid-mvp-sub000/internal/session"
	"github.com/danielcuellar117/cgs-glassbid-mvp-sub000/internal/tasks"
)

// Config selects the job and page this session works on.
type Config struct {
	ServerURL  string
	Token      string
	JobID      string
	PageNum    int
	DPI        int    // requested rasterization density
	MeasuredBy string // recorded on completed tasks

	// ImagePath switches to offline mode: the page is loaded from disk
	// and task/calibration writes are disabled.
	ImagePath string
}

// Session owns the model, the page image, and the service clients.
type Session struct {
	Config Config
	Model  *session.Model

	logger *log.Logger

	renderClient *render.Client
	poller       *render.Poller
	taskClient   *tasks.Client

	page *raster.Page

	onPageLoaded []func(*raster.Page)
}

// NewSession creates a session for the given configuration.
func NewSession(cfg Config) *Session {
	s := &Session{
		Config: cfg,
		Model:  session.NewModel(),
		logger: log.New(os.Stderr, "", log.LstdFlags|log.Lshortfile),
	}
	if !s.Offline() {
		s.renderClient = render.NewClient(cfg.ServerURL, cfg.Token)
		s.poller = render.NewPoller(s.renderClient)
		s.taskClient = tasks.NewClient(cfg.ServerURL, cfg.Token)
	}
	return s
}

// Offline reports whether the session runs from a local image with no
// server behind it.
func (s *Session) Offline() bool {
	return s.Config.ImagePath != ""
}

// Page returns the loaded page, or nil.
func (s *Session) Page() *raster.Page { return s.page }

// OnPageLoaded registers a callback fired when a page image is ready.
func (s *Session) OnPageLoaded(f func(*raster.Page)) {
	s.onPageLoaded = append(s.onPageLoaded, f)
}

func (s *Session) setPage(p *raster.Page) {
	s.page = p
	for _, f := range s.onPageLoaded {
		f(p)
	}
}

// LoadPage brings up the page image: from disk in offline mode, else by
// requesting a measurement-grade render and polling it to completion.
// It blocks and must run off the UI event loop.
func (s *Session) LoadPage(ctx context.Context) error {
	if s.Offline() {
		page, err := raster.LoadFile(s.Config.ImagePath)
		if err != nil {
			return err
		}
		s.logger.Printf("loaded local page %s (%dx%d)", s.Config.ImagePath, page.Width(), page.Height())
		s.setPage(page)
		return nil
	}

	req, err := s.renderClient.Create(ctx, s.Config.JobID, s.Config.PageNum, render.KindMeasure, s.Config.DPI)
	if err != nil {
		return fmt.Errorf("failed to request page render: %w", err)
	}
	if !req.Status.Terminal() {
		s.logger.Printf("render %s pending, polling", req.ID)
		req, err = s.poller.WaitDone(ctx, req.ID)
		if err != nil {
			return err
		}
	} else if req.Status == render.StatusFailed {
		return render.ErrRenderFailed
	}

	data, _, err := s.renderClient.FetchImage(ctx, req.ID)
	if err != nil {
		return err
	}
	page, err := raster.Decode(req.ID, data, float64(req.DPI))
	if err != nil {
		return err
	}
	s.logger.Printf("render %s done (%dx%d at %d dpi)", req.ID, page.Width(), page.Height(), req.DPI)
	s.setPage(page)
	return nil
}

// RefreshTasks pulls the task list for this job into the model.
func (s *Session) RefreshTasks(ctx context.Context) error {
	if s.Offline() {
		return nil
	}
	list, err := s.taskClient.List(ctx, s.Config.JobID)
	if err != nil {
		return err
	}
	s.Model.SetTasks(list)
	return nil
}

// LoadCalibration installs a calibration previously saved for this page,
// if the server has one.
func (s *Session) LoadCalibration(ctx context.Context) error {
	if s.Offline() {
		return nil
	}
	d, err := s.taskClient.LoadCalibration(ctx, s.Config.JobID, s.Config.PageNum)
	if err != nil {
		return err
	}
	if d != nil {
		s.Model.SetCalibration(d)
		s.logger.Printf("restored calibration: %.4f px/in", d.PixelsPerInch)
	}
	return nil
}

// ConfirmCalibration fixes the pending calibration line to the known
// length and, when online, pushes it to the server so a reopened session
// starts calibrated. The local calibration stands even if the push fails.
func (s *Session) ConfirmCalibration(ctx context.Context, realInches float64) error {
	if err := s.Model.ConfirmCalibration(realInches); err != nil {
		return err
	}
	if s.Offline() {
		return nil
	}
	d := s.Model.Calibration()
	if err := s.taskClient.SaveCalibration(ctx, s.Config.JobID, s.Config.PageNum, d, s.Config.DPI); err != nil {
		s.logger.Printf("calibration save failed: %v", err)
		return fmt.Errorf("calibration is set locally but could not be saved: %w", err)
	}
	return nil
}

// CommitAssignment writes the current measurement to the selected task.
// The model is only mutated after the server accepts the write; a stale
// task (ErrNotPending) triggers a task refresh so the panel catches up.
func (s *Session) CommitAssignment(ctx context.Context) (*tasks.Task, error) {
	a, err := s.Model.PendingAssignment()
	if err != nil {
		return nil, err
	}
	if s.Offline() {
		return nil, fmt.Errorf("task assignment requires a server session")
	}

	updated, err := s.taskClient.Complete(ctx, a.TaskID, a.Inches, s.Config.MeasuredBy, a.Calibration)
	if err != nil {
		if errors.Is(err, tasks.ErrNotPending) {
			s.logger.Printf("task %s went stale, refreshing list", a.TaskID)
			if rerr := s.RefreshTasks(ctx); rerr != nil {
				s.logger.Printf("task refresh failed: %v", rerr)
			}
		}
		return nil, err
	}
	s.Model.ApplyCompletion(updated)
	s.logger.Printf("task %s completed: %s", updated.ID, calibration.ToArchitecturalString(a.Inches))
	return updated, nil
}

// SkipTasks marks tasks as not measurable and refreshes the list.
func (s *Session) SkipTasks(ctx context.Context, ids []string, reason string) error {
	if s.Offline() {
		return fmt.Errorf("task skip requires a server session")
	}
	if err := s.taskClient.Skip(ctx, ids, reason); err != nil {
		return err
	}
	return s.RefreshTasks(ctx)
}

// SkipRemaining skips every task still pending on this job.
func (s *Session) SkipRemaining(ctx context.Context, reason string) error {
	var ids []string
	for _, t := range s.Model.PendingTasks() {
		ids = append(ids, t.ID)
	}
	if len(ids) == 0 {
		return nil
	}
	return s.SkipTasks(ctx, ids, reason)
}
