package render

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

const (
	defaultPollInterval = 3 * time.Second
	defaultMaxPollTime  = 5 * time.Minute
)

var (
	// ErrRenderFailed is returned when the service reports a FAILED
	// request. The caller should offer a retry that re-issues Create.
	ErrRenderFailed = errors.New("page rasterization failed")

	// ErrPollTimeout is returned when a request stays PENDING past the
	// maximum poll duration.
	ErrPollTimeout = errors.New("timed out waiting for rasterization")

	// ErrPollInFlight is returned when a poll for the same request id is
	// already running.
	ErrPollInFlight = errors.New("already polling this render request")
)

// Poller drives a render request to a terminal state on a fixed
// interval. At most one poll loop runs per request id.
type Poller struct {
	client   *Client
	interval time.Duration
	maxWait  time.Duration

	mu     sync.Mutex
	active map[string]struct{}
}

// NewPoller creates a poller with the reference 3s interval and 5 minute
// cap.
func NewPoller(client *Client) *Poller {
	return &Poller{
		client:   client,
		interval: defaultPollInterval,
		maxWait:  defaultMaxPollTime,
		active:   make(map[string]struct{}),
	}
}

// WaitDone polls the request until it is DONE, failed, timed out, or the
// context is cancelled. It blocks and must not be called from the UI
// event loop.
func (p *Poller) WaitDone(ctx context.Context, id string) (*Request, error) {
	p.mu.Lock()
	if _, busy := p.active[id]; busy {
		p.mu.Unlock()
		return nil, ErrPollInFlight
	}
	p.active[id] = struct{}{}
	p.mu.Unlock()

	defer func() {
		p.mu.Lock()
		delete(p.active, id)
		p.mu.Unlock()
	}()

	deadline := time.Now().Add(p.maxWait)
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		req, err := p.client.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		switch req.Status {
		case StatusDone:
			return req, nil
		case StatusFailed:
			return req, ErrRenderFailed
		}

		if time.Now().After(deadline) {
			return req, ErrPollTimeout
		}
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("rasterization wait cancelled: %w", ctx.Err())
		case <-ticker.C:
		}
	}
}
