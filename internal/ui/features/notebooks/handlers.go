package notebooks

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/sessions"
	"github.com/starfederation/datastar-go/datastar"

	"github.com/leapstack-labs/nlnotebook/internal/history"
	"github.com/leapstack-labs/nlnotebook/internal/notebook"
	"github.com/leapstack-labs/nlnotebook/internal/submit"
	"github.com/leapstack-labs/nlnotebook/internal/ui/features/common"
	"github.com/leapstack-labs/nlnotebook/internal/ui/features/notebooks/components"
	"github.com/leapstack-labs/nlnotebook/internal/ui/features/notebooks/pages"
	"github.com/leapstack-labs/nlnotebook/internal/workspace"
)

// errQueryFailed is reported to the browser console when the query service
// could not be reached or answered badly. Details are in the server log.
var errQueryFailed = errors.New("error sending query")

// QuerySignals represents the signals sent from the query bar.
type QuerySignals struct {
	Query string `json:"query"`
}

// Handlers provides HTTP handlers for the notebooks feature.
type Handlers struct {
	catalog      *notebook.Catalog
	registry     *workspace.Registry
	sessionStore sessions.Store
	logger       *slog.Logger
	isDev        bool
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(catalog *notebook.Catalog, registry *workspace.Registry, sessionStore sessions.Store, logger *slog.Logger, isDev bool) *Handlers {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Handlers{
		catalog:      catalog,
		registry:     registry,
		sessionStore: sessionStore,
		logger:       logger,
		isDev:        isDev,
	}
}

// page resolves the notebook in the URL and the session's page state for it.
// It writes a 404 or 500 response and returns ok=false when it cannot.
func (h *Handlers) page(w http.ResponseWriter, r *http.Request) (notebook.Notebook, *workspace.Page, bool) {
	nb, err := h.catalog.Get(chi.URLParam(r, "notebookID"))
	if err != nil {
		http.NotFound(w, r)
		return notebook.Notebook{}, nil, false
	}

	wsID, err := common.WorkspaceID(h.sessionStore, w, r)
	if err != nil {
		h.logger.Error("failed to save session", "error", err)
		http.Error(w, "failed to save session", http.StatusInternalServerError)
		return notebook.Notebook{}, nil, false
	}

	return nb, h.registry.Get(wsID).Page(nb.ID), true
}

// NotebookPage renders the notebook page with the session's history.
func (h *Handlers) NotebookPage(w http.ResponseWriter, r *http.Request) {
	nb, p, ok := h.page(w, r)
	if !ok {
		return
	}

	sidebar := common.SidebarData{
		CurrentPath: common.NotebookPath(nb.ID),
		Notebooks:   h.catalog.List(),
		User:        common.CurrentUser(h.sessionStore, r),
	}
	page := common.PageData{Title: nb.Name, IsDev: h.isDev}

	if err := pages.NotebookPage(page, sidebar, nb, p.History.Entries()).Render(r.Context(), w); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// QuerySSE submits the query bar's text and patches the feed with the result.
func (h *Handlers) QuerySSE(w http.ResponseWriter, r *http.Request) {
	// Read signals BEFORE creating SSE (SSE consumes the request body)
	var signals QuerySignals
	if err := datastar.ReadSignals(r, &signals); err != nil {
		sse := datastar.NewSSE(w, r)
		_ = sse.ConsoleError(err)
		return
	}

	nb, p, ok := h.page(w, r)
	if !ok {
		return
	}

	sse := datastar.NewSSE(w, r)
	logger := h.logger.With("notebook", nb.ID)

	_ = sse.MarshalAndPatchSignals(map[string]any{"busy": true})

	status, err := p.Control.Submit(r.Context(), signals.Query, p.History.Record)
	switch {
	case history.IsMalformed(err):
		logger.Error("malformed query reply", "query", signals.Query, "error", err)
		_ = sse.ConsoleError(err)
	case errors.Is(err, submit.ErrBusy):
		logger.Debug("query rejected while another is in flight", "query", signals.Query)
		_ = sse.ConsoleError(err)
	case err != nil:
		logger.Error("failed to record query", "query", signals.Query, "error", err)
		_ = sse.ConsoleError(err)
	case status == submit.StatusFailed:
		_ = sse.ConsoleError(errQueryFailed)
	case status == submit.StatusCompleted:
		if err := sse.PatchElementTempl(components.Feed(p.History.Entries())); err != nil {
			_ = sse.ConsoleError(err)
		}
		_ = sse.MarshalAndPatchSignals(map[string]any{"query": ""})
		logger.Info("query completed", "entries", p.History.Len())
	}

	_ = sse.MarshalAndPatchSignals(map[string]any{"busy": false})
}

// FeedSSE re-renders the feed from the session's history.
func (h *Handlers) FeedSSE(w http.ResponseWriter, r *http.Request) {
	_, p, ok := h.page(w, r)
	if !ok {
		return
	}

	sse := datastar.NewSSE(w, r)
	if err := sse.PatchElementTempl(components.Feed(p.History.Entries())); err != nil {
		_ = sse.ConsoleError(err)
	}
}
