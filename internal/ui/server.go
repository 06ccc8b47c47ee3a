// Package ui provides the notebook dashboard web server.
package ui

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net"
	"net/http"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/sessions"
	"golang.org/x/sync/errgroup"

	"github.com/leapstack-labs/nlnotebook/internal/authclient"
	"github.com/leapstack-labs/nlnotebook/internal/metrics"
	"github.com/leapstack-labs/nlnotebook/internal/notebook"
	"github.com/leapstack-labs/nlnotebook/internal/ui/notifier"
	"github.com/leapstack-labs/nlnotebook/internal/ui/resources"
	"github.com/leapstack-labs/nlnotebook/internal/ui/router"
	"github.com/leapstack-labs/nlnotebook/internal/workspace"
)

// watchedExtensions are the static asset types that trigger a browser reload.
var watchedExtensions = map[string]bool{".css": true, ".js": true, ".html": true}

// Server is the main UI server.
type Server struct {
	catalog      *notebook.Catalog
	registry     *workspace.Registry
	auth         *authclient.Client
	callbackURL  string
	sessionStore *sessions.CookieStore
	metrics      *metrics.Collector
	port         int
	watch        bool
	staticDir    string
	logger       *slog.Logger
	notifier     *notifier.Notifier
}

// Config holds configuration for the UI server.
type Config struct {
	Catalog       *notebook.Catalog
	Registry      *workspace.Registry
	Auth          *authclient.Client
	CallbackURL   string
	Metrics       *metrics.Collector
	Port          int
	Watch         bool
	StaticDir     string
	SessionSecret string
	Logger        *slog.Logger
}

// NewServer creates a new UI server instance.
func NewServer(cfg Config) *Server {
	sessionStore := sessions.NewCookieStore([]byte(cfg.SessionSecret))
	sessionStore.MaxAge(86400 * 30) // 30 days
	sessionStore.Options.Path = "/"
	sessionStore.Options.HttpOnly = true
	sessionStore.Options.SameSite = http.SameSiteLaxMode

	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	staticDir := cfg.StaticDir
	if staticDir == "" {
		staticDir = resources.StaticDirectoryPath
	}

	return &Server{
		catalog:      cfg.Catalog,
		registry:     cfg.Registry,
		auth:         cfg.Auth,
		callbackURL:  cfg.CallbackURL,
		sessionStore: sessionStore,
		metrics:      cfg.Metrics,
		port:         cfg.Port,
		watch:        cfg.Watch,
		staticDir:    staticDir,
		logger:       logger,
		notifier:     notifier.New(),
	}
}

// Handler builds the routed handler with the server's middleware.
func (s *Server) Handler() (http.Handler, error) {
	r := chi.NewMux()
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.Compress(5),
	)

	err := router.SetupRoutes(r, router.Dependencies{
		Catalog:      s.catalog,
		Registry:     s.registry,
		Auth:         s.auth,
		CallbackURL:  s.callbackURL,
		SessionStore: s.sessionStore,
		Notifier:     s.notifier,
		Metrics:      s.metrics,
		Logger:       s.logger,
		IsDev:        s.IsDev(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to setup routes: %w", err)
	}
	return r, nil
}

// Serve starts the UI server and blocks until the context is cancelled.
func (s *Server) Serve(ctx context.Context) error {
	addr := fmt.Sprintf(":%d", s.port)
	s.logger.Info("starting UI server", "addr", fmt.Sprintf("http://localhost:%d", s.port))

	eg, egctx := errgroup.WithContext(ctx)

	handler, err := s.Handler()
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:    addr,
		Handler: handler,
		BaseContext: func(_ net.Listener) context.Context {
			return egctx
		},
		ReadHeaderTimeout: 10 * time.Second,
	}

	if s.watch {
		eg.Go(func() error {
			return s.watchFiles(egctx)
		})
	}

	eg.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	// Graceful shutdown
	eg.Go(func() error {
		<-egctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Debug("shutting down UI server...")
		return srv.Shutdown(shutdownCtx)
	})

	return eg.Wait()
}

// IsDev reports whether pages subscribe to hot reload. It follows --watch.
func (s *Server) IsDev() bool {
	return s.watch
}

// Notifier returns the server's notifier for SSE updates.
func (s *Server) Notifier() *notifier.Notifier {
	return s.notifier
}

// watchFiles reloads connected pages when a static asset changes.
func (s *Server) watchFiles(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer func() { _ = watcher.Close() }()

	if err := watchDirRecursive(watcher, s.staticDir); err != nil {
		// Keep serving without reloads.
		s.logger.Error("failed to watch static directory", "dir", s.staticDir, "error", err)
	}

	var debounceTimer *time.Timer

	for {
		select {
		case <-ctx.Done():
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !isAssetChange(event) {
				continue
			}

			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			name := event.Name
			debounceTimer = time.AfterFunc(100*time.Millisecond, func() {
				s.logger.Debug("static asset changed, reloading pages", "file", name)
				s.notifier.Broadcast(notifier.EventReload)
			})

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.logger.Error("watcher error", "error", err)
		}
	}
}

func isAssetChange(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
		return false
	}
	return watchedExtensions[filepath.Ext(event.Name)]
}

// watchDirRecursive adds a directory and all subdirectories to the watcher.
func watchDirRecursive(watcher *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return watcher.Add(path)
		}
		return nil
	})
}
