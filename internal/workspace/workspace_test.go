package workspace

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/nlnotebook/internal/history"
	"github.com/leapstack-labs/nlnotebook/internal/queryapi"
	"github.com/leapstack-labs/nlnotebook/internal/queryapi/queryapitest"
	"github.com/leapstack-labs/nlnotebook/internal/submit"
	"github.com/leapstack-labs/nlnotebook/internal/testutil"
)

func newRegistry(t *testing.T, cfg Config) (*Registry, *queryapitest.Server) {
	t.Helper()
	srv := queryapitest.New(t)
	cfg.Querier = queryapi.New(srv.URL)
	cfg.Logger = testutil.NewTestLogger(t)
	return NewRegistry(cfg), srv
}

func TestRegistry_GetReturnsSameWorkspace(t *testing.T) {
	r, _ := newRegistry(t, Config{})

	a := r.Get("session-1")
	b := r.Get("session-1")
	c := r.Get("session-2")

	assert.Same(t, a, b)
	assert.NotSame(t, a, c)
	assert.Equal(t, 2, r.Count())
}

func TestWorkspace_PagesAreIsolated(t *testing.T) {
	r, _ := newRegistry(t, Config{})
	ws := r.Get("s")

	p1 := ws.Page("1")
	p2 := ws.Page("2")
	assert.Same(t, p1, ws.Page("1"))

	_, err := p1.Control.Submit(context.Background(), "Show active users", p1.History.Record)
	require.NoError(t, err)

	assert.Equal(t, 1, p1.History.Len())
	assert.Equal(t, 0, p2.History.Len())
	assert.Equal(t, 0, r.Get("other").Page("1").History.Len(), "sessions do not share histories")
}

func TestWorkspace_PageUsesConfiguredPolicy(t *testing.T) {
	r, srv := newRegistry(t, Config{Policy: history.PolicyDrop, Guard: submit.GuardReject, Capacity: 1})
	srv.Respond(200, `{"success":true,"rows":[["a"],[1,2]]}`)

	p := r.Get("s").Page("1")
	assert.Equal(t, history.PolicyDrop, p.History.Policy())

	_, err := p.Control.Submit(context.Background(), "q", p.History.Record)
	require.NoError(t, err, "drop policy swallows malformed replies")
	assert.Equal(t, 0, p.History.Len())
}

func TestRegistry_Expiry(t *testing.T) {
	r, _ := newRegistry(t, Config{TTL: 30 * time.Millisecond, CleanupInterval: 10 * time.Millisecond})

	r.Get("s")
	_, ok := r.Lookup("s")
	require.True(t, ok)

	assert.Eventually(t, func() bool {
		_, ok := r.Lookup("s")
		return !ok
	}, time.Second, 10*time.Millisecond)
}

func TestRegistry_Drop(t *testing.T) {
	r, _ := newRegistry(t, Config{})
	r.Get("s")
	r.Drop("s")

	_, ok := r.Lookup("s")
	assert.False(t, ok)
}
