package auth

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gorilla/sessions"
	"github.com/starfederation/datastar-go/datastar"

	"github.com/leapstack-labs/nlnotebook/internal/authclient"
	"github.com/leapstack-labs/nlnotebook/internal/ui/features/auth/components"
	"github.com/leapstack-labs/nlnotebook/internal/ui/features/common"
)

const (
	msgMissingCredentials = "Email and password are required."
	msgUnreachable        = "The sign-in service is unavailable. Try again later."
	msgSignInFailed       = "Sign in failed."
	msgSignUpFailed       = "Sign up failed."
)

// SignInSignals represents the signals sent from the sign-in form.
type SignInSignals struct {
	Email    string `json:"signinEmail"`
	Password string `json:"signinPassword"`
}

// SignUpSignals represents the signals sent from the sign-up form.
type SignUpSignals struct {
	Name     string `json:"signupName"`
	Email    string `json:"signupEmail"`
	Password string `json:"signupPassword"`
}

// Handlers provides HTTP handlers for the auth feature.
type Handlers struct {
	client       *authclient.Client
	callbackURL  string
	sessionStore sessions.Store
	logger       *slog.Logger
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(client *authclient.Client, callbackURL string, sessionStore sessions.Store, logger *slog.Logger) *Handlers {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if callbackURL == "" {
		callbackURL = authclient.DefaultCallbackURL
	}
	return &Handlers{
		client:       client,
		callbackURL:  callbackURL,
		sessionStore: sessionStore,
		logger:       logger,
	}
}

// SignInSSE signs the user in and redirects to the callback URL. Failures are
// shown under the form.
func (h *Handlers) SignInSSE(w http.ResponseWriter, r *http.Request) {
	var signals SignInSignals
	if err := datastar.ReadSignals(r, &signals); err != nil {
		sse := datastar.NewSSE(w, r)
		_ = sse.ConsoleError(err)
		return
	}

	email := strings.TrimSpace(signals.Email)
	if email == "" || signals.Password == "" {
		h.fail(w, r, components.SignInErrorID, msgMissingCredentials)
		return
	}

	res, err := h.client.SignInEmail(r.Context(), authclient.SignInRequest{
		Email:       email,
		Password:    signals.Password,
		CallbackURL: h.callbackURL,
		RememberMe:  true,
	}, h.hooks("sign-in", email))
	if err != nil {
		h.fail(w, r, components.SignInErrorID, userMessage(err, msgSignInFailed))
		return
	}

	h.complete(w, r, res, email)
}

// SignUpSSE creates an account, signs the new user in and redirects to the
// callback URL.
func (h *Handlers) SignUpSSE(w http.ResponseWriter, r *http.Request) {
	var signals SignUpSignals
	if err := datastar.ReadSignals(r, &signals); err != nil {
		sse := datastar.NewSSE(w, r)
		_ = sse.ConsoleError(err)
		return
	}

	email := strings.TrimSpace(signals.Email)
	if email == "" || signals.Password == "" {
		h.fail(w, r, components.SignUpErrorID, msgMissingCredentials)
		return
	}

	res, err := h.client.SignUpEmail(r.Context(), authclient.SignUpRequest{
		Email:       email,
		Password:    signals.Password,
		Name:        strings.TrimSpace(signals.Name),
		CallbackURL: h.callbackURL,
	}, h.hooks("sign-up", email))
	if err != nil {
		h.fail(w, r, components.SignUpErrorID, userMessage(err, msgSignUpFailed))
		return
	}

	h.complete(w, r, res, email)
}

// SignOutSSE clears the signed-in user and returns to the landing page. The
// session's notebooks history is kept.
func (h *Handlers) SignOutSSE(w http.ResponseWriter, r *http.Request) {
	if err := common.ClearUser(h.sessionStore, w, r); err != nil {
		h.logger.Error("failed to clear session user", "error", err)
	}
	sse := datastar.NewSSE(w, r)
	_ = sse.Redirect("/")
}

func (h *Handlers) hooks(action, email string) authclient.Hooks {
	logger := h.logger.With("action", action, "email", email)
	return authclient.Hooks{
		OnRequest: func() { logger.Debug("auth request started") },
		OnSuccess: func(res authclient.Result) { logger.Info("auth request succeeded", "user", res.User.ID) },
		OnError:   func(err error) { logger.Warn("auth request failed", "error", err) },
	}
}

// complete stores the user and redirects. The session must be saved before
// the SSE stream starts. Provider redirects are followed only within this site.
func (h *Handlers) complete(w http.ResponseWriter, r *http.Request, res authclient.Result, email string) {
	user := common.SessionUser{ID: res.User.ID, Email: res.User.Email, Name: res.User.Name}
	if user.Email == "" {
		user.Email = email
	}
	if user.ID == "" {
		user.ID = user.Email
	}
	if err := common.SetUser(h.sessionStore, w, r, user); err != nil {
		h.logger.Error("failed to save session user", "error", err)
		http.Error(w, "failed to save session", http.StatusInternalServerError)
		return
	}

	target := h.callbackURL
	if res.Redirect && strings.HasPrefix(res.URL, "/") && !strings.HasPrefix(res.URL, "//") {
		target = res.URL
	}

	sse := datastar.NewSSE(w, r)
	_ = sse.Redirect(target)
}

func (h *Handlers) fail(w http.ResponseWriter, r *http.Request, id, message string) {
	sse := datastar.NewSSE(w, r)
	if err := sse.PatchElementTempl(components.AuthError(id, message)); err != nil {
		_ = sse.ConsoleError(err)
	}
}

// userMessage picks the text shown under the form for err.
func userMessage(err error, fallback string) string {
	var perr *authclient.Error
	if errors.As(err, &perr) {
		if perr.Message != "" {
			return perr.Message
		}
		return fallback
	}
	return msgUnreachable
}
