// Package submit implements the query submission control of a notebook: it
// holds the input text and busy state, sends queries to the query service,
// and hands successful replies to a completion callback.
package submit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/leapstack-labs/nlnotebook/internal/metrics"
)

// ErrBusy is returned by Submit under GuardReject while a query is in flight.
var ErrBusy = errors.New("a query is already in flight")

// Guard controls overlapping submissions.
type Guard string

// Guards.
const (
	// GuardNone lets overlapping submissions race; each completes independently.
	GuardNone Guard = "race"
	// GuardReject refuses a submission while another is outstanding.
	GuardReject Guard = "reject"
)

// ParseGuard converts a config value to a Guard.
func ParseGuard(s string) (Guard, error) {
	switch Guard(s) {
	case GuardNone, "":
		return GuardNone, nil
	case GuardReject:
		return GuardReject, nil
	default:
		return "", fmt.Errorf("unknown concurrency guard %q (want race or reject)", s)
	}
}

// Status describes what a call to Submit did.
type Status int

// Submit statuses.
const (
	StatusSkipped Status = iota
	StatusCompleted
	StatusFailed
	StatusRejected
)

func (s Status) String() string {
	switch s {
	case StatusSkipped:
		return metrics.OutcomeSkipped
	case StatusCompleted:
		return metrics.OutcomeCompleted
	case StatusFailed:
		return metrics.OutcomeFailed
	case StatusRejected:
		return metrics.OutcomeRejected
	default:
		return "unknown"
	}
}

// Querier sends a natural-language query and returns the raw JSON reply.
type Querier interface {
	Query(ctx context.Context, nlQuery string) (json.RawMessage, error)
}

// CompletionFunc receives the original query text and the serialized reply.
type CompletionFunc func(query, raw string) error

// Control owns the input and busy state of one notebook.
type Control struct {
	querier Querier
	guard   Guard
	logger  *slog.Logger
	metrics *metrics.Collector

	inFlight atomic.Int32

	mu     sync.Mutex
	input  string
	result string
}

// Option configures a Control.
type Option func(*Control)

// WithGuard sets the overlapping-submission guard.
func WithGuard(g Guard) Option {
	return func(c *Control) {
		c.guard = g
	}
}

// WithLogger sets the diagnostic logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Control) {
		c.logger = l
	}
}

// WithMetrics records submissions on m.
func WithMetrics(m *metrics.Collector) Option {
	return func(c *Control) {
		c.metrics = m
	}
}

// New creates a Control that submits through q.
func New(q Querier, opts ...Option) *Control {
	c := &Control{
		querier: q,
		guard:   GuardNone,
		logger:  slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetInput replaces the input text.
func (c *Control) SetInput(s string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.input = s
}

// Input returns the current input text.
func (c *Control) Input() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.input
}

// Result returns the reply of the last successful submission, or "" while a
// submission is running.
func (c *Control) Result() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.result
}

// Busy reports whether any submission is in flight.
func (c *Control) Busy() bool {
	return c.inFlight.Load() > 0
}

// SubmitInput submits the current input text.
func (c *Control) SubmitInput(ctx context.Context, done CompletionFunc) (Status, error) {
	return c.Submit(ctx, c.Input(), done)
}

// Submit sends text to the query service.
//
// Blank text is a no-op. Transport failures, non-2xx replies and invalid JSON
// are logged and reported as StatusFailed with a nil error. On success done is
// called with the original text and the reply, and the input is cleared; an
// error from done is returned as is. The busy flag is cleared before Submit
// returns on every path.
func (c *Control) Submit(ctx context.Context, text string, done CompletionFunc) (Status, error) {
	if strings.TrimSpace(text) == "" {
		c.metrics.Submission(metrics.OutcomeSkipped)
		return StatusSkipped, nil
	}

	if c.guard == GuardReject {
		if !c.inFlight.CompareAndSwap(0, 1) {
			c.metrics.Submission(metrics.OutcomeRejected)
			return StatusRejected, ErrBusy
		}
	} else {
		c.inFlight.Add(1)
	}
	defer c.inFlight.Add(-1)

	c.mu.Lock()
	c.result = ""
	c.mu.Unlock()

	finish := c.metrics.StartCall()
	raw, err := c.querier.Query(ctx, text)
	if err != nil {
		finish(metrics.OutcomeFailed)
		c.logger.Error("error sending query", "query", text, "error", err)
		return StatusFailed, nil
	}
	finish(metrics.OutcomeCompleted)
	c.logger.Debug("query completed", "query", text, "bytes", len(raw))

	c.mu.Lock()
	c.result = string(raw)
	c.mu.Unlock()

	if done != nil {
		if err := done(text, string(raw)); err != nil {
			return StatusCompleted, err
		}
	}

	c.SetInput("")
	return StatusCompleted, nil
}
