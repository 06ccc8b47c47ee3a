package ui

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/nlnotebook/internal/authclient"
	"github.com/leapstack-labs/nlnotebook/internal/metrics"
	"github.com/leapstack-labs/nlnotebook/internal/notebook"
	"github.com/leapstack-labs/nlnotebook/internal/queryapi"
	"github.com/leapstack-labs/nlnotebook/internal/queryapi/queryapitest"
	"github.com/leapstack-labs/nlnotebook/internal/testutil"
	"github.com/leapstack-labs/nlnotebook/internal/ui/notifier"
	"github.com/leapstack-labs/nlnotebook/internal/workspace"
)

func newTestServer(t *testing.T, cfg Config) *Server {
	t.Helper()

	m := metrics.New()
	api := queryapitest.New(t)
	cfg.Catalog = notebook.NewCatalog(notebook.Samples())
	cfg.Registry = workspace.NewRegistry(workspace.Config{Querier: queryapi.New(api.URL), Metrics: m})
	cfg.Auth = authclient.New("http://127.0.0.1:1", nil)
	cfg.Metrics = m
	cfg.SessionSecret = "test-secret-key-32-bytes-long!!"
	cfg.Logger = testutil.NewTestLogger(t)
	return NewServer(cfg)
}

func TestServer_Handler(t *testing.T) {
	s := newTestServer(t, Config{})
	h, err := s.Handler()
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/dashboard/notebooks/1", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotEmpty(t, rec.Result().Cookies())
	cookie := rec.Result().Cookies()[0]
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, "/", cookie.Path)
	assert.Equal(t, http.SameSiteLaxMode, cookie.SameSite)
}

func TestServer_IsDevFollowsWatch(t *testing.T) {
	assert.False(t, newTestServer(t, Config{}).IsDev())
	assert.True(t, newTestServer(t, Config{Watch: true}).IsDev())

	h, err := newTestServer(t, Config{}).Handler()
	require.NoError(t, err)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/hotreload", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestServer_StaticDirDefault(t *testing.T) {
	s := newTestServer(t, Config{})
	assert.Contains(t, s.staticDir, "internal/ui/resources/static")
}

func TestIsAssetChange(t *testing.T) {
	tests := []struct {
		event fsnotify.Event
		want  bool
	}{
		{fsnotify.Event{Name: "app.css", Op: fsnotify.Write}, true},
		{fsnotify.Event{Name: "app.js", Op: fsnotify.Create}, true},
		{fsnotify.Event{Name: "app.css", Op: fsnotify.Remove}, false},
		{fsnotify.Event{Name: "notes.txt", Op: fsnotify.Write}, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, isAssetChange(tt.event), "%s %s", tt.event.Op, tt.event.Name)
	}
}

func TestServer_WatchFilesBroadcastsReload(t *testing.T) {
	dir := t.TempDir()
	s := newTestServer(t, Config{Watch: true, StaticDir: dir})
	events := s.Notifier().Subscribe()
	defer s.Notifier().Unsubscribe(events)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.watchFiles(ctx) }()

	// Give the watcher time to register the directory.
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "app.css"), []byte("body{}"), 0o600))

	select {
	case ev := <-events:
		assert.Equal(t, notifier.EventReload, ev)
	case <-time.After(3 * time.Second):
		t.Fatal("no reload event after asset change")
	}

	cancel()
	assert.NoError(t, <-done)
}
