// Package home provides the public landing page.
package home

import (
	"github.com/go-chi/chi/v5"
	"github.com/gorilla/sessions"
)

// SetupRoutes configures routes for the home feature.
func SetupRoutes(router chi.Router, sessionStore sessions.Store, isDev bool) error {
	handlers := NewHandlers(sessionStore, isDev)

	router.Get("/", handlers.LandingPage)

	return nil
}
