// Package queryapitest provides a fake query service for tests.
package queryapitest

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

// ActiveUsersReply is a canned successful reply with one data row.
const ActiveUsersReply = `{"success":true,"explanation":"Selects every active user.","sql":"SELECT * FROM users WHERE active=1","attempts":1,"rows":[["id","name"],[1,"Alice"]]}`

// Server is an httptest server that records every request body it receives.
type Server struct {
	*httptest.Server

	mu       sync.Mutex
	requests []string
	status   int
	body     string
	gate     chan struct{}
}

// New starts a fake service answering 200 with ActiveUsersReply.
// The server is closed when the test ends.
func New(t testing.TB) *Server {
	t.Helper()

	s := &Server{status: http.StatusOK, body: ActiveUsersReply}
	s.Server = httptest.NewServer(http.HandlerFunc(s.handle))
	t.Cleanup(s.Close)
	return s
}

// Respond sets the status and body returned for subsequent requests.
func (s *Server) Respond(status int, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = status
	s.body = body
}

// Hold makes requests block until Release is called.
func (s *Server) Hold() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gate = make(chan struct{})
}

// Release unblocks requests waiting on Hold.
func (s *Server) Release() {
	s.mu.Lock()
	gate := s.gate
	s.gate = nil
	s.mu.Unlock()
	if gate != nil {
		close(gate)
	}
}

// Requests returns the raw request bodies received so far.
func (s *Server) Requests() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.requests))
	copy(out, s.requests)
	return out
}

// Queries returns the nl_query field of every request received so far.
func (s *Server) Queries() []string {
	var out []string
	for _, raw := range s.Requests() {
		var req struct {
			NLQuery string `json:"nl_query"`
		}
		if err := json.Unmarshal([]byte(raw), &req); err == nil {
			out = append(out, req.NLQuery)
		}
	}
	return out
}

func (s *Server) handle(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)

	s.mu.Lock()
	s.requests = append(s.requests, string(body))
	status, reply, gate := s.status, s.body, s.gate
	s.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-r.Context().Done():
			return
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, reply)
}
