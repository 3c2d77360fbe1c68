package app

import (
	"context"
	"encoding/json"
	"errors"
	"image"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/danielcuellar117/cgs-glassbid-mvp-sub000/internal/session"
	"github.com/danielcuellar117/cgs-glassbid-mvp-sub000/internal/tasks"
	"github.com/danielcuellar117/cgs-glassbid-mvp-sub000/pkg/geometry"
)

func writeTestPNG(t *testing.T, w, h int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "page.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	defer f.Close()
	if err := png.Encode(f, image.NewRGBA(image.Rect(0, 0, w, h))); err != nil {
		t.Fatalf("encode: %v", err)
	}
	return path
}

func TestOfflineSession(t *testing.T) {
	s := NewSession(Config{ImagePath: writeTestPNG(t, 320, 240)})
	if !s.Offline() {
		t.Fatal("session with an image path must be offline")
	}

	if err := s.LoadPage(context.Background()); err != nil {
		t.Fatalf("LoadPage: %v", err)
	}
	if got := s.Page().Size(); got != (geometry.Size{Width: 320, Height: 240}) {
		t.Errorf("page size = %+v", got)
	}

	// Server-backed operations are refused, not attempted.
	if _, err := s.CommitAssignment(context.Background()); err == nil {
		t.Error("offline commit must fail")
	}
	if err := s.RefreshTasks(context.Background()); err != nil {
		t.Errorf("offline task refresh should be a no-op: %v", err)
	}
}

func TestCommitAssignmentWritesTask(t *testing.T) {
	var completed struct {
		MeasuredValue float64 `json:"measuredValue"`
		MeasuredBy    string  `json:"measuredBy"`
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasSuffix(r.URL.Path, "/complete"):
			json.NewDecoder(r.Body).Decode(&completed)
			json.NewEncoder(w).Encode(tasks.Task{
				ID: "t1", Status: tasks.StatusCompleted,
				MeasuredValue: &completed.MeasuredValue,
			})
		case strings.HasSuffix(r.URL.Path, "/measurement-tasks"):
			json.NewEncoder(w).Encode([]tasks.Task{{ID: "t1", Status: tasks.StatusPending}})
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	s := NewSession(Config{ServerURL: srv.URL, JobID: "j1", PageNum: 1, MeasuredBy: "tester"})
	ctx := context.Background()

	if err := s.RefreshTasks(ctx); err != nil {
		t.Fatalf("RefreshTasks: %v", err)
	}

	// No calibration yet: the guard refuses before any network call.
	if _, err := s.CommitAssignment(ctx); !errors.Is(err, session.ErrNotCalibrated) {
		t.Fatalf("err = %v, want ErrNotCalibrated", err)
	}

	m := s.Model
	m.PlaceCalibrationPoint(geometry.NewPoint2D(0, 0))
	m.PlaceCalibrationPoint(geometry.NewPoint2D(200, 0))
	if err := m.ConfirmCalibration(36); err != nil {
		t.Fatalf("ConfirmCalibration: %v", err)
	}
	m.SelectTask("t1")
	m.PlaceMeasurePoint(geometry.NewPoint2D(0, 0))
	m.PlaceMeasurePoint(geometry.NewPoint2D(100, 0))

	updated, err := s.CommitAssignment(ctx)
	if err != nil {
		t.Fatalf("CommitAssignment: %v", err)
	}
	if updated.Status != tasks.StatusCompleted {
		t.Errorf("status = %v, want COMPLETED", updated.Status)
	}
	if completed.MeasuredValue != 18.0 || completed.MeasuredBy != "tester" {
		t.Errorf("server saw %+v, want 18.0 by tester", completed)
	}

	// The session clears the attempt only after the server accepted it.
	if got := m.MeasurementPoints(); len(got) != 0 {
		t.Errorf("measurement not cleared: %v", got)
	}
	if got := m.PendingTasks(); len(got) != 0 {
		t.Errorf("task still pending after completion: %v", got)
	}
}
