package auth

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/nlnotebook/internal/authclient"
	"github.com/leapstack-labs/nlnotebook/internal/testutil"
	"github.com/leapstack-labs/nlnotebook/internal/ui/features"
	"github.com/leapstack-labs/nlnotebook/internal/ui/features/common"
)

// fakeProvider accepts the password "secret" and rejects anything else.
func fakeProvider(t *testing.T) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		var body map[string]any
		_ = json.Unmarshal(raw, &body)

		w.Header().Set("Content-Type", "application/json")
		if body["password"] != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = io.WriteString(w, `{"code":"INVALID_EMAIL_OR_PASSWORD","message":"Invalid email or password"}`)
			return
		}
		name, _ := body["name"].(string)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"token": "tok",
			"user":  map[string]string{"id": "u1", "email": body["email"].(string), "name": name},
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func setupTestHandlers(t *testing.T, baseURL string) *Handlers {
	t.Helper()
	return NewHandlers(
		authclient.New(baseURL, nil),
		"",
		features.NewTestSessionStore(),
		testutil.NewTestLogger(t),
	)
}

func post(h http.HandlerFunc, target, signals string, prev *httptest.ResponseRecorder) *httptest.ResponseRecorder {
	req := features.DatastarPost(target, signals)
	if prev != nil {
		req = features.WithCookies(req, prev)
	}
	rec := httptest.NewRecorder()
	h(rec, req)
	return rec
}

func currentUser(h *Handlers, rec *httptest.ResponseRecorder) *common.SessionUser {
	req := features.WithCookies(httptest.NewRequest(http.MethodGet, "/", nil), rec)
	return common.CurrentUser(h.sessionStore, req)
}

func TestSignInSSE(t *testing.T) {
	tests := []struct {
		name      string
		signals   string
		wantBody  []string
		wantUser  bool
		wantError bool
	}{
		{
			name:     "valid credentials redirect to dashboard",
			signals:  `{"signinEmail":"ada@example.com","signinPassword":"secret"}`,
			wantBody: []string{"window.location", "/dashboard"},
			wantUser: true,
		},
		{
			name:      "provider rejection is shown under the form",
			signals:   `{"signinEmail":"ada@example.com","signinPassword":"wrong"}`,
			wantBody:  []string{`id="signin-error"`, "Invalid email or password"},
			wantError: true,
		},
		{
			name:      "missing password never reaches the provider",
			signals:   `{"signinEmail":"ada@example.com","signinPassword":""}`,
			wantBody:  []string{`id="signin-error"`, "Email and password are required."},
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := setupTestHandlers(t, fakeProvider(t).URL)

			rec := post(h.SignInSSE, "/api/auth/sign-in", tt.signals, nil)

			body := rec.Body.String()
			for _, want := range tt.wantBody {
				assert.Contains(t, body, want)
			}
			if tt.wantError {
				assert.NotContains(t, body, "window.location")
			}

			user := currentUser(h, rec)
			if tt.wantUser {
				require.NotNil(t, user)
				assert.Equal(t, "u1", user.ID)
				assert.Equal(t, "ada@example.com", user.Email)
			} else {
				assert.Nil(t, user)
			}
		})
	}
}

func TestSignInSSE_ProviderUnreachable(t *testing.T) {
	srv := fakeProvider(t)
	url := srv.URL
	srv.Close()
	h := setupTestHandlers(t, url)

	rec := post(h.SignInSSE, "/api/auth/sign-in", `{"signinEmail":"a@b.c","signinPassword":"secret"}`, nil)

	assert.Contains(t, rec.Body.String(), "The sign-in service is unavailable.")
}

func TestSignUpSSE(t *testing.T) {
	h := setupTestHandlers(t, fakeProvider(t).URL)

	rec := post(h.SignUpSSE, "/api/auth/sign-up",
		`{"signupName":"Ada","signupEmail":"ada@example.com","signupPassword":"secret"}`, nil)

	assert.Contains(t, rec.Body.String(), "/dashboard")
	user := currentUser(h, rec)
	require.NotNil(t, user)
	assert.Equal(t, "Ada", user.Name)
}

func TestSignUpSSE_Rejected(t *testing.T) {
	h := setupTestHandlers(t, fakeProvider(t).URL)

	rec := post(h.SignUpSSE, "/api/auth/sign-up",
		`{"signupName":"Ada","signupEmail":"ada@example.com","signupPassword":"short"}`, nil)

	assert.Contains(t, rec.Body.String(), `id="signup-error"`)
	assert.Nil(t, currentUser(h, rec))
}

func TestSignOutSSE_KeepsWorkspace(t *testing.T) {
	h := setupTestHandlers(t, fakeProvider(t).URL)

	// Start a session with a workspace, then sign in on top of it.
	first := httptest.NewRecorder()
	wsID, err := common.WorkspaceID(h.sessionStore, first, httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	signedIn := post(h.SignInSSE, "/api/auth/sign-in", `{"signinEmail":"a@b.c","signinPassword":"secret"}`, first)
	require.NotNil(t, currentUser(h, signedIn))

	signedOut := post(h.SignOutSSE, "/api/auth/sign-out", `{}`, signedIn)

	assert.Contains(t, signedOut.Body.String(), "window.location")
	assert.Nil(t, currentUser(h, signedOut))

	req := features.WithCookies(httptest.NewRequest(http.MethodGet, "/", nil), signedOut)
	got, err := common.WorkspaceID(h.sessionStore, httptest.NewRecorder(), req)
	require.NoError(t, err)
	assert.Equal(t, wsID, got)
}

func TestInvalidSignals(t *testing.T) {
	h := setupTestHandlers(t, fakeProvider(t).URL)

	rec := post(h.SignInSSE, "/api/auth/sign-in", `{oops`, nil)

	assert.Contains(t, rec.Body.String(), "console.error")
}
