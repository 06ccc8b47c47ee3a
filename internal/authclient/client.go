// Package authclient talks to the external email/password auth provider used
// by the sign-in and sign-up modals.
package authclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// DefaultCallbackURL is where a successful sign-in or sign-up lands.
const DefaultCallbackURL = "/dashboard"

const maxBodyBytes = 1 << 20

// Error is a failed provider call. Message is the provider's own text when it
// sent one.
type Error struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("auth provider returned HTTP %d", e.StatusCode)
	}
	return e.Message
}

// User is the account returned by the provider.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// Result is the body of a successful sign-in or sign-up.
type Result struct {
	Token    string `json:"token,omitempty"`
	Redirect bool   `json:"redirect,omitempty"`
	URL      string `json:"url,omitempty"`
	User     User   `json:"user"`
}

// SignInRequest is posted to /sign-in/email.
type SignInRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	CallbackURL string `json:"callbackURL,omitempty"`
	RememberMe  bool   `json:"rememberMe"`
}

// SignUpRequest is posted to /sign-up/email.
type SignUpRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	Name        string `json:"name"`
	CallbackURL string `json:"callbackURL,omitempty"`
}

// Hooks are optional lifecycle callbacks for a single call.
type Hooks struct {
	OnRequest func()
	OnSuccess func(Result)
	OnError   func(error)
}

// Client calls the provider's email endpoints under a base URL.
type Client struct {
	baseURL string
	client  *http.Client
}

// New creates a client. baseURL is the provider's API root, for example
// http://localhost:3000/api/auth.
func New(baseURL string, hc *http.Client) *Client {
	if hc == nil {
		hc = &http.Client{}
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  hc,
	}
}

// SignInEmail signs a user in with email and password.
func (c *Client) SignInEmail(ctx context.Context, req SignInRequest, hooks Hooks) (Result, error) {
	if req.CallbackURL == "" {
		req.CallbackURL = DefaultCallbackURL
	}
	return c.call(ctx, "/sign-in/email", req, hooks)
}

// SignUpEmail creates an account.
func (c *Client) SignUpEmail(ctx context.Context, req SignUpRequest, hooks Hooks) (Result, error) {
	if req.CallbackURL == "" {
		req.CallbackURL = DefaultCallbackURL
	}
	return c.call(ctx, "/sign-up/email", req, hooks)
}

func (c *Client) call(ctx context.Context, path string, payload any, hooks Hooks) (Result, error) {
	if hooks.OnRequest != nil {
		hooks.OnRequest()
	}

	res, err := c.post(ctx, path, payload)
	if err != nil {
		if hooks.OnError != nil {
			hooks.OnError(err)
		}
		return Result{}, err
	}

	if hooks.OnSuccess != nil {
		hooks.OnSuccess(res)
	}
	return res, nil
}

func (c *Client) post(ctx context.Context, path string, payload any) (Result, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return Result{}, fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return Result{}, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("auth provider unreachable: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return Result{}, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &Error{StatusCode: resp.StatusCode}
		var wire struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		}
		if json.Unmarshal(data, &wire) == nil {
			apiErr.Code = wire.Code
			apiErr.Message = wire.Message
		}
		return Result{}, apiErr
	}

	var res Result
	if err := json.Unmarshal(data, &res); err != nil {
		return Result{}, fmt.Errorf("failed to decode response: %w", err)
	}
	return res, nil
}
