// Package render is the client boundary to the page-rasterization
// service. The service owns deduplication (one non-failed request per
// job/page/kind) and DPI clamping; this client creates requests, polls
// them to a terminal state, and fetches the resulting image bytes.
package render

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Kind selects the rasterization profile.
type Kind string

const (
	KindThumb   Kind = "THUMB"
	KindMeasure Kind = "MEASURE"
)

// Status is the lifecycle state of a render request.
type Status string

const (
	StatusPending Status = "PENDING"
	StatusDone    Status = "DONE"
	StatusFailed  Status = "FAILED"
)

// Terminal reports whether the status will no longer change.
func (s Status) Terminal() bool {
	return s == StatusDone || s == StatusFailed
}

// Request is a rasterization job as reported by the service.
type Request struct {
	ID        string `json:"id"`
	JobID     string `json:"jobId"`
	PageNum   int    `json:"pageNum"`
	Kind      Kind   `json:"kind"`
	DPI       int    `json:"dpi,omitempty"`
	Status    Status `json:"status"`
	OutputKey string `json:"outputKey,omitempty"`
}

// ErrRateLimited is returned when a re-render is requested inside the
// per-page rate-limit window. It is a wait condition, not a failure: the
// same request succeeds once the window elapses.
var ErrRateLimited = errors.New("render requests for this page are rate limited, retry shortly")

// Client talks to the rasterization service.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// NewClient creates a render client for the given server base URL. The
// token, if non-empty, is sent as a bearer credential.
func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL: baseURL,
		token:   token,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

// Create requests a rasterization of one page. The service deduplicates
// by (job, page, kind): if a matching non-failed request exists, its
// record is returned instead of a new job, and a DONE hit yields an
// image reference immediately.
func (c *Client) Create(ctx context.Context, jobID string, pageNum int, kind Kind, dpi int) (*Request, error) {
	body, err := json.Marshal(map[string]any{"kind": kind, "dpi": dpi})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal render request: %w", err)
	}

	url := fmt.Sprintf("%s/api/v1/jobs/%s/pages/%d/renders", c.baseURL, jobID, pageNum)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	c.authorize(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to reach render service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, ErrRateLimited
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, fmt.Errorf("render create returned %s", resp.Status)
	}

	var out Request
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to parse render response: %w", err)
	}
	return &out, nil
}

// Get fetches the current state of a render request.
func (c *Client) Get(ctx context.Context, id string) (*Request, error) {
	url := fmt.Sprintf("%s/api/v1/renders/%s", c.baseURL, id)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	c.authorize(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to reach render service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("render status returned %s", resp.Status)
	}

	var out Request
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to parse render status: %w", err)
	}
	return &out, nil
}

// FetchImage downloads the rasterized page bytes for a DONE request.
// The returned content type is png or jpeg.
func (c *Client) FetchImage(ctx context.Context, id string) ([]byte, string, error) {
	url := fmt.Sprintf("%s/api/v1/renders/%s/image", c.baseURL, id)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create request: %w", err)
	}
	c.authorize(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("failed to fetch page image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("image fetch returned %s", resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read page image: %w", err)
	}
	return data, resp.Header.Get("Content-Type"), nil
}

func (c *Client) authorize(req *http.Request) {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
}
