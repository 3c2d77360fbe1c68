// Package tasks is the client boundary to the measurement task service.
// Tasks are dimensions on glass items that a human measures against a
// calibrated shop-drawing page; the service owns their lifecycle and
// rejects writes to tasks that are no longer PENDING.
package tasks

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/danielcuellar117/cgs-glassbid-mvp-sub000/internal/calibration"
	"github.com/danielcuellar117/cgs-glassbid-mvp-sub000/pkg/geometry"
)

// Status is the lifecycle state of a measurement task.
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusCompleted Status = "COMPLETED"
	StatusSkipped   Status = "SKIPPED"
)

// Task is one dimension awaiting measurement.
type Task struct {
	ID            string   `json:"id"`
	JobID         string   `json:"jobId"`
	PageNum       int      `json:"pageNum"`
	ItemID        string   `json:"itemId"`
	ItemLabel     string   `json:"itemLabel"`
	DimensionKey  string   `json:"dimensionKey"`
	Status        Status   `json:"status"`
	MeasuredValue *float64 `json:"measuredValue,omitempty"`
	MeasuredBy    string   `json:"measuredBy,omitempty"`
	SkipReason    string   `json:"skipReason,omitempty"`
}

// Pending reports whether the task still accepts a measurement.
func (t *Task) Pending() bool {
	return t.Status == StatusPending
}

// ErrNotPending is returned when the service rejects a write because the
// task was completed or skipped elsewhere in the meantime. The caller
// should refresh the task list.
var ErrNotPending = errors.New("task is no longer pending")

// Client talks to the task service.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// NewClient creates a task client for the given server base URL.
func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL: baseURL,
		token:   token,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

// List fetches all measurement tasks for a job, every status included.
func (c *Client) List(ctx context.Context, jobID string) ([]Task, error) {
	url := fmt.Sprintf("%s/api/v1/jobs/%s/measurement-tasks", c.baseURL, jobID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	c.authorize(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to reach task service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("task list returned %s", resp.Status)
	}

	var out []Task
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to parse task list: %w", err)
	}
	return out, nil
}

// Complete records a measured value, in inches, against a pending task.
// The calibration snapshot travels with the write so the measurement is
// auditable. A task already completed or skipped yields ErrNotPending.
func (c *Client) Complete(ctx context.Context, taskID string, inches float64, measuredBy string, calib *calibration.Data) (*Task, error) {
	payload := map[string]any{
		"measuredValue": inches,
		"measuredBy":    measuredBy,
	}
	if calib != nil {
		payload["calibration"] = calib
	}
	return c.post(ctx, fmt.Sprintf("/api/v1/measurement-tasks/%s/complete", taskID), payload)
}

// Skip marks tasks as not measurable from this drawing. It accepts one or
// many ids so a whole page can be skipped in a single call.
func (c *Client) Skip(ctx context.Context, taskIDs []string, reason string) error {
	if len(taskIDs) == 0 {
		return errors.New("no task ids to skip")
	}
	_, err := c.post(ctx, "/api/v1/measurement-tasks/skip", map[string]any{
		"taskIds": taskIDs,
		"reason":  reason,
	})
	return err
}

// SaveCalibration pushes a confirmed page calibration to the server so a
// reopened session starts calibrated.
func (c *Client) SaveCalibration(ctx context.Context, jobID string, pageNum int, calib *calibration.Data, dpi int) error {
	if calib == nil {
		return errors.New("no calibration to save")
	}
	payload := map[string]any{
		"knownDimension": calib.RealInches,
		"pixelsPerUnit":  calib.PixelsPerInch,
		"point1":         calib.P1,
		"point2":         calib.P2,
		"dpi":            dpi,
	}
	path := fmt.Sprintf("/api/v1/jobs/%s/pages/%d/calibration", jobID, pageNum)
	_, err := c.post(ctx, path, payload)
	return err
}

// LoadCalibration fetches a previously saved page calibration. A page
// with no stored calibration returns (nil, nil).
func (c *Client) LoadCalibration(ctx context.Context, jobID string, pageNum int) (*calibration.Data, error) {
	url := fmt.Sprintf("%s/api/v1/jobs/%s/pages/%d/calibration", c.baseURL, jobID, pageNum)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	c.authorize(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to reach task service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("calibration fetch returned %s", resp.Status)
	}

	var wire struct {
		KnownDimension float64          `json:"knownDimension"`
		PixelsPerUnit  float64          `json:"pixelsPerUnit"`
		Point1         geometry.Point2D `json:"point1"`
		Point2         geometry.Point2D `json:"point2"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&wire); err != nil {
		return nil, fmt.Errorf("failed to parse calibration: %w", err)
	}
	return &calibration.Data{
		P1:            wire.Point1,
		P2:            wire.Point2,
		RealInches:    wire.KnownDimension,
		PixelsPerInch: wire.PixelsPerUnit,
	}, nil
}

func (c *Client) post(ctx context.Context, path string, payload any) (*Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	c.authorize(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to reach task service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusConflict {
		return nil, ErrNotPending
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, fmt.Errorf("task service returned %s", resp.Status)
	}

	var out Task
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to parse task response: %w", err)
	}
	return &out, nil
}

func (c *Client) authorize(req *http.Request) {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
}
