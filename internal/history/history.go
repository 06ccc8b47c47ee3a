// Package history holds the ordered list of resolved query/reply pairs of a
// notebook session. Entries are prepended and never modified.
package history

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/leapstack-labs/nlnotebook/internal/metrics"
	"github.com/leapstack-labs/nlnotebook/internal/reply"
)

// MalformedPolicy decides what Record does with a reply that fails to parse.
type MalformedPolicy string

// Malformed reply policies.
const (
	// PolicyPropagate returns the parse error to the caller.
	PolicyPropagate MalformedPolicy = "propagate"
	// PolicyDrop logs the parse error and discards the reply.
	PolicyDrop MalformedPolicy = "drop"
)

// ParsePolicy converts a config value to a MalformedPolicy.
func ParsePolicy(s string) (MalformedPolicy, error) {
	switch MalformedPolicy(s) {
	case PolicyPropagate, "":
		return PolicyPropagate, nil
	case PolicyDrop:
		return PolicyDrop, nil
	default:
		return "", fmt.Errorf("unknown malformed reply policy %q (want propagate or drop)", s)
	}
}

// Entry pairs one query with its parsed reply.
type Entry struct {
	ID         uuid.UUID
	Query      string
	Reply      reply.Reply
	RecordedAt time.Time
}

// Store is an append-only, newest-first sequence of entries.
type Store struct {
	mu       sync.RWMutex
	entries  []Entry
	capacity int
	policy   MalformedPolicy
	logger   *slog.Logger
	metrics  *metrics.Collector
	now      func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithCapacity bounds the store; the oldest entry is discarded when full.
// Zero or negative means unbounded.
func WithCapacity(n int) Option {
	return func(s *Store) {
		s.capacity = n
	}
}

// WithPolicy sets the malformed reply policy.
func WithPolicy(p MalformedPolicy) Option {
	return func(s *Store) {
		s.policy = p
	}
}

// WithLogger sets the logger used for dropped replies.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) {
		s.logger = l
	}
}

// WithMetrics records entries and malformed replies on c.
func WithMetrics(c *metrics.Collector) Option {
	return func(s *Store) {
		s.metrics = c
	}
}

// New creates an empty store. The default policy is PolicyPropagate.
func New(opts ...Option) *Store {
	s := &Store{
		policy: PolicyPropagate,
		logger: slog.New(slog.DiscardHandler),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Record parses raw and prepends the resulting entry.
// Parse failures are returned or dropped according to the store's policy.
func (s *Store) Record(query, raw string) error {
	r, err := reply.Parse([]byte(raw))
	if err != nil {
		s.metrics.Malformed(string(s.policy))
		if s.policy == PolicyDrop {
			s.logger.Warn("dropping malformed reply", "query", query, "error", err)
			return nil
		}
		return fmt.Errorf("failed to record reply for %q: %w", query, err)
	}

	s.Add(query, r)
	return nil
}

// Add prepends an already parsed reply and returns the new entry.
func (s *Store) Add(query string, r reply.Reply) Entry {
	entry := Entry{
		ID:         uuid.New(),
		Query:      query,
		Reply:      r,
		RecordedAt: s.now(),
	}

	s.mu.Lock()
	entries := make([]Entry, 0, len(s.entries)+1)
	entries = append(entries, entry)
	entries = append(entries, s.entries...)
	if s.capacity > 0 && len(entries) > s.capacity {
		entries = entries[:s.capacity]
	}
	s.entries = entries
	s.mu.Unlock()

	s.metrics.Recorded()
	return entry
}

// Entries returns a newest-first copy of the recorded entries.
func (s *Store) Entries() []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

// Len returns the number of entries.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Policy returns the malformed reply policy.
func (s *Store) Policy() MalformedPolicy {
	return s.policy
}

// IsMalformed reports whether err came from an unparseable reply.
func IsMalformed(err error) bool {
	return errors.Is(err, reply.ErrMalformedReply)
}
