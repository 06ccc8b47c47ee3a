// Package notebooks provides the notebook page feature: the history feed and
// query submission for one notebook.
package notebooks

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/sessions"

	"github.com/leapstack-labs/nlnotebook/internal/notebook"
	"github.com/leapstack-labs/nlnotebook/internal/workspace"
)

// SetupRoutes configures routes for the notebooks feature.
func SetupRoutes(
	router chi.Router,
	catalog *notebook.Catalog,
	registry *workspace.Registry,
	sessionStore sessions.Store,
	logger *slog.Logger,
	isDev bool,
) error {
	handlers := NewHandlers(catalog, registry, sessionStore, logger, isDev)

	router.Get("/dashboard/notebooks/{notebookID}", handlers.NotebookPage)

	router.Route("/api/notebooks/{notebookID}", func(r chi.Router) {
		r.Post("/query", handlers.QuerySSE)
		r.Get("/feed", handlers.FeedSSE)
	})

	return nil
}
