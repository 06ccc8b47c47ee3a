// Package features provides shared test utilities for UI feature tests.
package features

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/sessions"

	"github.com/leapstack-labs/nlnotebook/internal/history"
	"github.com/leapstack-labs/nlnotebook/internal/metrics"
	"github.com/leapstack-labs/nlnotebook/internal/notebook"
	"github.com/leapstack-labs/nlnotebook/internal/queryapi"
	"github.com/leapstack-labs/nlnotebook/internal/queryapi/queryapitest"
	"github.com/leapstack-labs/nlnotebook/internal/submit"
	"github.com/leapstack-labs/nlnotebook/internal/testutil"
	"github.com/leapstack-labs/nlnotebook/internal/ui/notifier"
	"github.com/leapstack-labs/nlnotebook/internal/workspace"
)

// TestFixture holds all dependencies needed for UI handler tests.
type TestFixture struct {
	Catalog      *notebook.Catalog
	Registry     *workspace.Registry
	QueryAPI     *queryapitest.Server
	Metrics      *metrics.Collector
	Notifier     *notifier.Notifier
	SessionStore *sessions.CookieStore
}

// FixtureOption adjusts the workspace configuration of a fixture.
type FixtureOption func(*workspace.Config)

// WithPolicy sets the malformed-reply policy of fixture histories.
func WithPolicy(p history.MalformedPolicy) FixtureOption {
	return func(c *workspace.Config) { c.Policy = p }
}

// WithGuard sets the in-flight guard of fixture controls.
func WithGuard(g submit.Guard) FixtureOption {
	return func(c *workspace.Config) { c.Guard = g }
}

// SetupTestFixture creates a fixture backed by a fake query service and the
// sample notebook catalog.
func SetupTestFixture(t *testing.T, opts ...FixtureOption) *TestFixture {
	t.Helper()

	logger := testutil.NewTestLogger(t)
	srv := queryapitest.New(t)
	m := metrics.New()

	cfg := workspace.Config{
		Querier: queryapi.New(srv.URL),
		Logger:  logger,
		Metrics: m,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	return &TestFixture{
		Catalog:      notebook.NewCatalog(notebook.Samples()),
		Registry:     workspace.NewRegistry(cfg),
		QueryAPI:     srv,
		Metrics:      m,
		Notifier:     notifier.New(),
		SessionStore: NewTestSessionStore(),
	}
}

// RequestWithPathParam wraps a request with chi URL params.
func RequestWithPathParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// RequestWithTimeout wraps a request with a context timeout.
func RequestWithTimeout(r *http.Request, timeout time.Duration) *http.Request {
	ctx, cancel := context.WithTimeout(r.Context(), timeout)
	_ = cancel // the timeout cancels the context
	return r.WithContext(ctx)
}

// DatastarPost builds a datastar action request carrying signals as a JSON body.
func DatastarPost(target, signals string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(signals))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Datastar-Request", "true")
	return req
}

// DatastarGet builds a datastar GET action request without signals.
func DatastarGet(target string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	req.Header.Set("Datastar-Request", "true")
	return req
}

// WithCookies copies the cookies set by a previous response onto req, so a
// test can act as the same browser session.
func WithCookies(req *http.Request, prev *httptest.ResponseRecorder) *http.Request {
	for _, c := range prev.Result().Cookies() {
		req.AddCookie(c)
	}
	return req
}

// NewTestNotifier creates a notifier for testing.
func NewTestNotifier() *notifier.Notifier {
	return notifier.New()
}

// NewTestSessionStore creates a session store for testing.
func NewTestSessionStore() *sessions.CookieStore {
	return sessions.NewCookieStore([]byte("test-secret-key-32-bytes-long!!"))
}
