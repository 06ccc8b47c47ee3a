package home

import (
	"net/http"

	"github.com/gorilla/sessions"

	"github.com/leapstack-labs/nlnotebook/internal/ui/features/common"
	"github.com/leapstack-labs/nlnotebook/internal/ui/features/home/pages"
)

// Handlers provides HTTP handlers for the home feature.
type Handlers struct {
	sessionStore sessions.Store
	isDev        bool
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(sessionStore sessions.Store, isDev bool) *Handlers {
	return &Handlers{sessionStore: sessionStore, isDev: isDev}
}

// LandingPage renders the landing page.
func (h *Handlers) LandingPage(w http.ResponseWriter, r *http.Request) {
	page := common.PageData{Title: "Welcome", IsDev: h.isDev}
	user := common.CurrentUser(h.sessionStore, r)

	if err := pages.LandingPage(page, user).Render(r.Context(), w); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
