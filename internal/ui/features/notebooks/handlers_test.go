package notebooks

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/nlnotebook/internal/history"
	"github.com/leapstack-labs/nlnotebook/internal/testutil"
	"github.com/leapstack-labs/nlnotebook/internal/ui/features"
	"github.com/leapstack-labs/nlnotebook/internal/ui/features/common"
)

func setupTestHandlers(t *testing.T, opts ...features.FixtureOption) (*Handlers, *features.TestFixture) {
	t.Helper()

	fixture := features.SetupTestFixture(t, opts...)
	handlers := NewHandlers(
		fixture.Catalog,
		fixture.Registry,
		fixture.SessionStore,
		testutil.NewTestLogger(t),
		false,
	)
	return handlers, fixture
}

func getPage(h *Handlers, id string, prev *httptest.ResponseRecorder) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/dashboard/notebooks/"+id, nil)
	if prev != nil {
		req = features.WithCookies(req, prev)
	}
	rec := httptest.NewRecorder()
	h.NotebookPage(rec, features.RequestWithPathParam(req, "notebookID", id))
	return rec
}

func postQuery(h *Handlers, id, signals string, session *httptest.ResponseRecorder) *httptest.ResponseRecorder {
	req := features.DatastarPost("/api/notebooks/"+id+"/query", signals)
	if session != nil {
		req = features.WithCookies(req, session)
	}
	rec := httptest.NewRecorder()
	h.QuerySSE(rec, features.RequestWithPathParam(req, "notebookID", id))
	return rec
}

// =============================================================================
// NotebookPage
// =============================================================================

func TestNotebookPage(t *testing.T) {
	h, _ := setupTestHandlers(t)

	rec := getPage(h, "2", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	for _, want := range []string{
		"<!doctype html>",
		"<title>Data Analysis Notebook - NL Notebook</title>",
		`<a href="/dashboard">Dashboard</a>`,
		`<li class="breadcrumb__page" aria-current="page">Notebook 2</li>`,
		`<h1 class="page-title">Notebook 2</h1>`,
		`id="feed"`,
		"No queries yet",
		"Enter your query here",
		"/api/notebooks/2/query",
	} {
		assert.Contains(t, body, want)
	}
	assert.NotContains(t, body, "/reload", "hot reload is dev only")
	assert.NotEmpty(t, rec.Result().Cookies(), "first visit starts a session")
}

func TestNotebookPage_UnknownNotebook(t *testing.T) {
	h, _ := setupTestHandlers(t)

	rec := getPage(h, "404", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = postQuery(h, "404", `{"query":"x"}`, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// =============================================================================
// QuerySSE
// =============================================================================

func TestQuerySSE_ShowActiveUsers(t *testing.T) {
	h, fx := setupTestHandlers(t)
	session := getPage(h, "1", nil)

	rec := postQuery(h, "1", `{"query":"Show active users"}`, session)

	body := rec.Body.String()
	assert.Contains(t, body, "datastar-patch-signals")
	assert.Contains(t, body, `"busy":true`)
	assert.Contains(t, body, "datastar-patch-elements")
	assert.Contains(t, body, "Query Succeeded")
	assert.Contains(t, body, "SELECT * FROM users WHERE active=1")
	assert.Contains(t, body, "<td>Alice</td>")
	assert.Contains(t, body, `"query":""`, "input is cleared")
	assert.True(t, strings.LastIndex(body, `"busy":false`) > strings.Index(body, "Query Succeeded"), "busy cleared last")

	assert.Equal(t, []string{`{"nl_query":"Show active users"}`}, fx.QueryAPI.Requests())

	page := getPage(h, "1", session)
	assert.Contains(t, page.Body.String(), "Show active users", "history survives reload")
	assert.NotContains(t, page.Body.String(), "No queries yet")
}

func TestQuerySSE_NewestFirst(t *testing.T) {
	h, fx := setupTestHandlers(t)
	session := getPage(h, "1", nil)

	postQuery(h, "1", `{"query":"first question"}`, session)
	fx.QueryAPI.Respond(http.StatusOK, `{"success":false,"explanation":"nope","sql":"","attempts":2}`)
	rec := postQuery(h, "1", `{"query":"second question"}`, session)

	body := rec.Body.String()
	require.Contains(t, body, "first question")
	require.Contains(t, body, "second question")
	assert.Less(t, strings.Index(body, "second question"), strings.Index(body, "first question"))
	assert.Contains(t, body, "Query Failed")
}

func TestQuerySSE_BlankQuery(t *testing.T) {
	h, fx := setupTestHandlers(t)
	session := getPage(h, "1", nil)

	rec := postQuery(h, "1", `{"query":"   "}`, session)

	assert.Empty(t, fx.QueryAPI.Requests())
	assert.NotContains(t, rec.Body.String(), `id="feed"`)
	assert.Contains(t, rec.Body.String(), `"busy":false`)
}

func TestQuerySSE_ServiceFailure(t *testing.T) {
	h, fx := setupTestHandlers(t)
	fx.QueryAPI.Respond(http.StatusInternalServerError, "boom")
	session := getPage(h, "1", nil)

	rec := postQuery(h, "1", `{"query":"Show active users"}`, session)

	body := rec.Body.String()
	assert.Contains(t, body, "error sending query")
	assert.NotContains(t, body, `id="feed"`, "feed untouched")
	assert.NotContains(t, body, `"query":""`, "input kept for retry")
	assert.Contains(t, body, `"busy":false`)

	ws, ok := fx.Registry.Lookup(sessionWorkspace(t, h, session))
	require.True(t, ok)
	assert.Equal(t, 0, ws.Page("1").History.Len())
}

func TestQuerySSE_MalformedReply(t *testing.T) {
	tests := []struct {
		name     string
		policy   history.MalformedPolicy
		wantLogs bool
	}{
		{"propagate reports to console", history.PolicyPropagate, true},
		{"drop is silent", history.PolicyDrop, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, fx := setupTestHandlers(t, features.WithPolicy(tt.policy))
			fx.QueryAPI.Respond(http.StatusOK, `{"success":true,"rows":[["a","b"],[1]]}`)
			session := getPage(h, "1", nil)

			rec := postQuery(h, "1", `{"query":"q"}`, session)

			body := rec.Body.String()
			assert.Equal(t, tt.wantLogs, strings.Contains(body, "malformed"))
			assert.Contains(t, body, `"busy":false`)

			page := getPage(h, "1", session)
			assert.Contains(t, page.Body.String(), "No queries yet", "no entry either way")
		})
	}
}

func TestQuerySSE_SessionsAreIsolated(t *testing.T) {
	h, _ := setupTestHandlers(t)
	alice := getPage(h, "1", nil)
	bob := getPage(h, "1", nil)

	postQuery(h, "1", `{"query":"alice asks"}`, alice)

	assert.Contains(t, getPage(h, "1", alice).Body.String(), "alice asks")
	assert.NotContains(t, getPage(h, "1", bob).Body.String(), "alice asks")
	assert.NotContains(t, getPage(h, "2", alice).Body.String(), "alice asks", "notebooks keep separate histories")
}

func TestQuerySSE_InvalidSignals(t *testing.T) {
	h, fx := setupTestHandlers(t)

	rec := postQuery(h, "1", `{not json`, nil)

	assert.Empty(t, fx.QueryAPI.Requests())
	assert.Contains(t, rec.Body.String(), "console.error")
}

// =============================================================================
// FeedSSE
// =============================================================================

func TestFeedSSE(t *testing.T) {
	h, _ := setupTestHandlers(t)
	session := getPage(h, "1", nil)
	postQuery(h, "1", `{"query":"Show active users"}`, session)

	req := features.WithCookies(features.DatastarGet("/api/notebooks/1/feed"), session)
	rec := httptest.NewRecorder()
	h.FeedSSE(rec, features.RequestWithPathParam(req, "notebookID", "1"))

	body := rec.Body.String()
	assert.Contains(t, body, "datastar-patch-elements")
	assert.Contains(t, body, `id="feed"`)
	assert.Contains(t, body, "Show active users")
}

// sessionWorkspace replays the session cookie to recover its workspace ID.
func sessionWorkspace(t *testing.T, h *Handlers, session *httptest.ResponseRecorder) string {
	t.Helper()
	req := features.WithCookies(httptest.NewRequest(http.MethodGet, "/", nil), session)
	id, err := common.WorkspaceID(h.sessionStore, httptest.NewRecorder(), req)
	require.NoError(t, err)
	return id
}
