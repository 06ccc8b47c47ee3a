// Package auth provides sign-in, sign-up and sign-out against the external
// auth provider. The signed-in user is kept in the session cookie.
package auth

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/sessions"

	"github.com/leapstack-labs/nlnotebook/internal/authclient"
)

// SetupRoutes configures routes for the auth feature.
func SetupRoutes(
	router chi.Router,
	client *authclient.Client,
	callbackURL string,
	sessionStore sessions.Store,
	logger *slog.Logger,
) error {
	handlers := NewHandlers(client, callbackURL, sessionStore, logger)

	router.Route("/api/auth", func(r chi.Router) {
		r.Post("/sign-in", handlers.SignInSSE)
		r.Post("/sign-up", handlers.SignUpSSE)
		r.Post("/sign-out", handlers.SignOutSSE)
	})

	return nil
}
