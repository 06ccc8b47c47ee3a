// Package router sets up HTTP routes for the UI server.
package router

import (
	"log/slog"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/sessions"
	"github.com/starfederation/datastar-go/datastar"

	"github.com/leapstack-labs/nlnotebook/internal/authclient"
	"github.com/leapstack-labs/nlnotebook/internal/metrics"
	"github.com/leapstack-labs/nlnotebook/internal/notebook"
	authFeature "github.com/leapstack-labs/nlnotebook/internal/ui/features/auth"
	dashboardFeature "github.com/leapstack-labs/nlnotebook/internal/ui/features/dashboard"
	homeFeature "github.com/leapstack-labs/nlnotebook/internal/ui/features/home"
	notebooksFeature "github.com/leapstack-labs/nlnotebook/internal/ui/features/notebooks"
	"github.com/leapstack-labs/nlnotebook/internal/ui/notifier"
	"github.com/leapstack-labs/nlnotebook/internal/ui/resources"
	"github.com/leapstack-labs/nlnotebook/internal/workspace"
)

// Dependencies are shared by the feature handlers.
type Dependencies struct {
	Catalog      *notebook.Catalog
	Registry     *workspace.Registry
	Auth         *authclient.Client
	CallbackURL  string
	SessionStore sessions.Store
	Notifier     *notifier.Notifier
	Metrics      *metrics.Collector
	Logger       *slog.Logger
	IsDev        bool
}

// SetupRoutes configures all routes for the UI server.
func SetupRoutes(router chi.Router, deps Dependencies) error {
	logger := deps.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	// Hot reload endpoint for dev mode
	if deps.IsDev {
		setupReload(router, deps.Notifier)
	}

	router.Handle("/static/*", resources.Handler())
	if deps.Metrics != nil {
		router.Handle("/metrics", deps.Metrics.Handler())
	}

	if err := homeFeature.SetupRoutes(router, deps.SessionStore, deps.IsDev); err != nil {
		return err
	}

	if err := authFeature.SetupRoutes(router, deps.Auth, deps.CallbackURL, deps.SessionStore, logger.With("feature", "auth")); err != nil {
		return err
	}

	if err := dashboardFeature.SetupRoutes(router, deps.Catalog, deps.SessionStore, deps.Notifier, logger.With("feature", "dashboard"), deps.IsDev); err != nil {
		return err
	}

	if err := notebooksFeature.SetupRoutes(router, deps.Catalog, deps.Registry, deps.SessionStore, logger.With("feature", "notebooks"), deps.IsDev); err != nil {
		return err
	}

	return nil
}

// setupReload serves the dev-mode reload stream. The first page to connect
// after a restart is reloaded once so it picks up the new binary.
func setupReload(router chi.Router, notify *notifier.Notifier) {
	var hotReloadOnce sync.Once

	router.Get("/reload", func(w http.ResponseWriter, r *http.Request) {
		sse := datastar.NewSSE(w, r)
		reload := func() { _ = sse.ExecuteScript("window.location.reload()") }
		hotReloadOnce.Do(reload)

		events := notify.Subscribe()
		defer notify.Unsubscribe(events)

		for {
			select {
			case ev := <-events:
				if ev == notifier.EventReload {
					reload()
					return
				}
			case <-r.Context().Done():
				return
			}
		}
	})

	router.Get("/hotreload", func(w http.ResponseWriter, _ *http.Request) {
		notify.Broadcast(notifier.EventReload)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
}
