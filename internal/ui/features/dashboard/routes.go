// Package dashboard provides the notebook grid and notebook creation.
package dashboard

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/sessions"

	"github.com/leapstack-labs/nlnotebook/internal/notebook"
	"github.com/leapstack-labs/nlnotebook/internal/ui/notifier"
)

// SetupRoutes configures routes for the dashboard feature.
func SetupRoutes(
	router chi.Router,
	catalog *notebook.Catalog,
	sessionStore sessions.Store,
	notify *notifier.Notifier,
	logger *slog.Logger,
	isDev bool,
) error {
	handlers := NewHandlers(catalog, sessionStore, notify, logger, isDev)

	router.Get("/dashboard", handlers.DashboardPage)
	router.Post("/api/notebooks", handlers.CreateSSE)
	router.Get("/api/dashboard/updates", handlers.UpdatesSSE)

	return nil
}
