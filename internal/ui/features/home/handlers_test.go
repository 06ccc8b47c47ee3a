package home

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/nlnotebook/internal/ui/features"
	"github.com/leapstack-labs/nlnotebook/internal/ui/features/common"
)

func TestLandingPage(t *testing.T) {
	tests := []struct {
		name        string
		signedIn    bool
		isDev       bool
		wantBody    []string
		notWantBody []string
	}{
		{
			name: "signed out visitor sees both dialogs",
			wantBody: []string{
				"<!doctype html>",
				"<title>Welcome - NL Notebook</title>",
				`id="signin-dialog"`,
				`id="signup-dialog"`,
				"signinEmail",
				"Plain English queries",
			},
			notWantBody: []string{"Go to dashboard", "/reload"},
		},
		{
			name:        "signed in user gets a dashboard link",
			signedIn:    true,
			wantBody:    []string{"Go to dashboard", `href="/dashboard"`},
			notWantBody: []string{`id="signin-dialog"`},
		},
		{
			name:     "dev mode subscribes to reloads",
			isDev:    true,
			wantBody: []string{`id="hot-reload"`, "/reload"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := features.NewTestSessionStore()
			h := NewHandlers(store, tt.isDev)

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.signedIn {
				prev := httptest.NewRecorder()
				require.NoError(t, common.SetUser(store, prev, req, common.SessionUser{ID: "u1", Email: "a@b.c"}))
				req = features.WithCookies(httptest.NewRequest(http.MethodGet, "/", nil), prev)
			}
			rec := httptest.NewRecorder()
			h.LandingPage(rec, req)

			assert.Equal(t, http.StatusOK, rec.Code)
			body := rec.Body.String()
			for _, want := range tt.wantBody {
				assert.Contains(t, body, want)
			}
			for _, notWant := range tt.notWantBody {
				assert.NotContains(t, body, notWant)
			}
		})
	}
}
