// Package queryapi implements a client for the remote natural-language-to-SQL
// query service.
package queryapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// DefaultURL is the endpoint of a locally running query service.
const DefaultURL = "http://localhost:5000/query"

const (
	maxReplyBytes   = 32 << 20
	maxErrorExcerpt = 512
)

// ErrInvalidJSON is returned when the service answers 2xx with a body that is not JSON.
var ErrInvalidJSON = errors.New("query service returned invalid JSON")

// StatusError reports a non-2xx response from the query service.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("query service returned HTTP %d", e.StatusCode)
	}
	return fmt.Sprintf("query service returned HTTP %d: %s", e.StatusCode, e.Body)
}

// Request is the body posted to the service.
type Request struct {
	NLQuery string `json:"nl_query"`
}

// Client posts natural-language queries to the service.
type Client struct {
	url    string
	client *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.client = hc
	}
}

// WithTimeout bounds each request. Zero means no client-side timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.client.Timeout = d
	}
}

// New creates a client for the given endpoint URL.
func New(url string, opts ...Option) *Client {
	if url == "" {
		url = DefaultURL
	}
	c := &Client{
		url:    url,
		client: &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// URL returns the endpoint the client posts to.
func (c *Client) URL() string {
	return c.url
}

// Query sends one POST with {"nl_query": nlQuery} and returns the reply body
// as compact JSON. The body is checked for JSON syntax only.
func (c *Client) Query(ctx context.Context, nlQuery string) (json.RawMessage, error) {
	body, err := json.Marshal(Request{NLQuery: nlQuery})
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		excerpt, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorExcerpt))
		return nil, &StatusError{
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(excerpt)),
		}
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxReplyBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read reply: %w", err)
	}

	var compact bytes.Buffer
	if err := json.Compact(&compact, data); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}

	return json.RawMessage(compact.Bytes()), nil
}
