package dashboard

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/sessions"
	"github.com/starfederation/datastar-go/datastar"

	"github.com/leapstack-labs/nlnotebook/internal/notebook"
	"github.com/leapstack-labs/nlnotebook/internal/ui/features/common"
	ui "github.com/leapstack-labs/nlnotebook/internal/ui/features/common/components"
	"github.com/leapstack-labs/nlnotebook/internal/ui/features/dashboard/components"
	"github.com/leapstack-labs/nlnotebook/internal/ui/features/dashboard/pages"
	"github.com/leapstack-labs/nlnotebook/internal/ui/notifier"
)

// CreateSignals represents the signals sent from the create form.
type CreateSignals struct {
	Name        string `json:"notebookName"`
	Description string `json:"notebookDescription"`
}

// Handlers provides HTTP handlers for the dashboard feature.
type Handlers struct {
	catalog      *notebook.Catalog
	sessionStore sessions.Store
	notifier     *notifier.Notifier
	logger       *slog.Logger
	isDev        bool
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(catalog *notebook.Catalog, sessionStore sessions.Store, notify *notifier.Notifier, logger *slog.Logger, isDev bool) *Handlers {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Handlers{
		catalog:      catalog,
		sessionStore: sessionStore,
		notifier:     notify,
		logger:       logger,
		isDev:        isDev,
	}
}

// DashboardPage renders the dashboard with every notebook in the catalog.
func (h *Handlers) DashboardPage(w http.ResponseWriter, r *http.Request) {
	sidebar := common.SidebarData{
		CurrentPath: common.DashboardPath,
		Notebooks:   h.catalog.List(),
		User:        common.CurrentUser(h.sessionStore, r),
	}
	page := common.PageData{Title: "Dashboard", IsDev: h.isDev}

	if err := pages.DashboardPage(page, sidebar).Render(r.Context(), w); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// CreateSSE adds a notebook, re-renders the grid and sidebar, and tells other
// open dashboards about it.
func (h *Handlers) CreateSSE(w http.ResponseWriter, r *http.Request) {
	var signals CreateSignals
	if err := datastar.ReadSignals(r, &signals); err != nil {
		sse := datastar.NewSSE(w, r)
		_ = sse.ConsoleError(err)
		return
	}

	nb := h.catalog.Create(signals.Name, signals.Description)
	h.logger.Info("notebook created", "notebook", nb.ID, "name", nb.Name)

	sse := datastar.NewSSE(w, r)
	if err := h.sendCatalog(sse, common.DashboardPath); err != nil {
		_ = sse.ConsoleError(err)
	}
	_ = sse.MarshalAndPatchSignals(map[string]any{"notebookName": "", "notebookDescription": ""})

	if h.notifier != nil {
		h.notifier.Broadcast(notifier.EventCatalog)
	}
}

// UpdatesSSE is the long-lived stream that pushes catalog changes to an open
// dashboard. Nothing is sent until the catalog changes.
func (h *Handlers) UpdatesSSE(w http.ResponseWriter, r *http.Request) {
	sse := datastar.NewSSE(w, r)
	if h.notifier == nil {
		return
	}

	updates := h.notifier.Subscribe()
	defer h.notifier.Unsubscribe(updates)

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-updates:
			if ev != notifier.EventCatalog {
				continue
			}
			if err := h.sendCatalog(sse, common.DashboardPath); err != nil {
				_ = sse.ConsoleError(err)
			}
		}
	}
}

func (h *Handlers) sendCatalog(sse *datastar.ServerSentEventGenerator, currentPath string) error {
	notebooks := h.catalog.List()
	if err := sse.PatchElementTempl(components.NotebookGrid(notebooks)); err != nil {
		return err
	}
	return sse.PatchElementTempl(ui.NotebookNav(common.SidebarData{CurrentPath: currentPath, Notebooks: notebooks}))
}
