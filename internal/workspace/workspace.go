// Package workspace keeps the per-session state of notebook pages: one
// history store and one submission control per notebook a session has opened.
// Workspaces expire after a period of inactivity.
package workspace

import (
	"log/slog"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/leapstack-labs/nlnotebook/internal/history"
	"github.com/leapstack-labs/nlnotebook/internal/metrics"
	"github.com/leapstack-labs/nlnotebook/internal/submit"
)

// Default lifetimes.
const (
	DefaultTTL             = 24 * time.Hour
	DefaultCleanupInterval = 10 * time.Minute
)

// Config configures the pages created by a Registry.
type Config struct {
	Querier         submit.Querier
	Guard           submit.Guard
	Policy          history.MalformedPolicy
	Capacity        int
	TTL             time.Duration
	CleanupInterval time.Duration
	Logger          *slog.Logger
	Metrics         *metrics.Collector
}

// Page is the live state behind one notebook page of one session.
type Page struct {
	NotebookID string
	History    *history.Store
	Control    *submit.Control
}

// Workspace groups the pages of one session.
type Workspace struct {
	ID string

	mu    sync.Mutex
	pages map[string]*Page
	cfg   Config
}

// Page returns the page for notebookID, creating it on first use.
func (w *Workspace) Page(notebookID string) *Page {
	w.mu.Lock()
	defer w.mu.Unlock()

	if p, ok := w.pages[notebookID]; ok {
		return p
	}

	logger := w.cfg.Logger.With("workspace", w.ID, "notebook", notebookID)
	p := &Page{
		NotebookID: notebookID,
		History: history.New(
			history.WithPolicy(w.cfg.Policy),
			history.WithCapacity(w.cfg.Capacity),
			history.WithLogger(logger),
			history.WithMetrics(w.cfg.Metrics),
		),
		Control: submit.New(w.cfg.Querier,
			submit.WithGuard(w.cfg.Guard),
			submit.WithLogger(logger),
			submit.WithMetrics(w.cfg.Metrics),
		),
	}
	w.pages[notebookID] = p
	return p
}

// Registry maps session IDs to workspaces.
type Registry struct {
	mu    sync.Mutex
	cache *cache.Cache
	cfg   Config
}

// NewRegistry creates a registry. Zero TTL or cleanup values take the defaults.
func NewRegistry(cfg Config) *Registry {
	if cfg.TTL == 0 {
		cfg.TTL = DefaultTTL
	}
	if cfg.CleanupInterval == 0 {
		cfg.CleanupInterval = DefaultCleanupInterval
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.DiscardHandler)
	}
	if cfg.Policy == "" {
		cfg.Policy = history.PolicyPropagate
	}
	if cfg.Guard == "" {
		cfg.Guard = submit.GuardNone
	}

	return &Registry{
		cache: cache.New(cfg.TTL, cfg.CleanupInterval),
		cfg:   cfg,
	}
}

// Get returns the workspace for id, creating it if needed, and extends its lifetime.
func (r *Registry) Get(id string) *Workspace {
	r.mu.Lock()
	defer r.mu.Unlock()

	if v, ok := r.cache.Get(id); ok {
		ws := v.(*Workspace)
		r.cache.SetDefault(id, ws)
		return ws
	}

	ws := &Workspace{
		ID:    id,
		pages: make(map[string]*Page),
		cfg:   r.cfg,
	}
	r.cache.SetDefault(id, ws)
	r.cfg.Logger.Debug("workspace created", "workspace", id)
	return ws
}

// Lookup returns the workspace for id without creating one.
func (r *Registry) Lookup(id string) (*Workspace, bool) {
	v, ok := r.cache.Get(id)
	if !ok {
		return nil, false
	}
	return v.(*Workspace), true
}

// Drop forgets the workspace for id.
func (r *Registry) Drop(id string) {
	r.cache.Delete(id)
}

// Count returns the number of live workspaces.
func (r *Registry) Count() int {
	return r.cache.ItemCount()
}
