package history

import (
	"fmt"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/nlnotebook/internal/metrics"
	"github.com/leapstack-labs/nlnotebook/internal/reply"
	intutil "github.com/leapstack-labs/nlnotebook/internal/testutil"
)

const okReply = `{"success":true,"explanation":"e","sql":"SELECT 1","attempts":1,"rows":[["id"],[1]]}`

func TestStore_Record_PrependsNewest(t *testing.T) {
	s := New()

	for i := 0; i < 3; i++ {
		before := s.Len()
		require.NoError(t, s.Record(fmt.Sprintf("query %d", i), okReply))
		assert.Equal(t, before+1, s.Len())
		assert.Equal(t, fmt.Sprintf("query %d", i), s.Entries()[0].Query)
	}

	entries := s.Entries()
	assert.Equal(t, []string{"query 2", "query 1", "query 0"}, []string{
		entries[0].Query, entries[1].Query, entries[2].Query,
	})
	assert.NotEqual(t, entries[0].ID, entries[1].ID)
}

func TestStore_Record_ParsesReply(t *testing.T) {
	s := New()
	require.NoError(t, s.Record("Show active users", okReply))

	e := s.Entries()[0]
	assert.Equal(t, reply.StatusSucceeded, e.Reply.Status)
	assert.Equal(t, "SELECT 1", e.Reply.SQL)
	assert.False(t, e.RecordedAt.IsZero())
}

func TestStore_Record_MalformedPolicies(t *testing.T) {
	tests := []struct {
		name     string
		policy   MalformedPolicy
		wantErr  bool
		wantLogs string
	}{
		{name: "propagate returns the error", policy: PolicyPropagate, wantErr: true},
		{name: "drop logs and swallows", policy: PolicyDrop, wantLogs: "dropping malformed reply"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, logs := intutil.NewCaptureLogger()
			m := metrics.New()
			s := New(WithPolicy(tt.policy), WithLogger(logger), WithMetrics(m))

			err := s.Record("q", `{"success": true, "rows": [["a","b"],[1]]}`)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, IsMalformed(err))
			} else {
				require.NoError(t, err)
			}

			assert.Equal(t, 0, s.Len(), "no entry is created for a malformed reply")
			assert.Contains(t, logs.String(), tt.wantLogs)
			count, err := testutil.GatherAndCount(m.Registry(), "nlnotebook_malformed_replies_total")
			require.NoError(t, err)
			assert.Equal(t, 1, count)
		})
	}
}

func TestStore_Capacity(t *testing.T) {
	s := New(WithCapacity(2))

	require.NoError(t, s.Record("a", okReply))
	require.NoError(t, s.Record("b", okReply))
	require.NoError(t, s.Record("c", okReply))

	entries := s.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, "c", entries[0].Query)
	assert.Equal(t, "b", entries[1].Query)
}

func TestStore_Entries_ReturnsCopy(t *testing.T) {
	s := New()
	require.NoError(t, s.Record("a", okReply))

	entries := s.Entries()
	entries[0].Query = "mutated"

	assert.Equal(t, "a", s.Entries()[0].Query)
}

func TestStore_ConcurrentRecord(t *testing.T) {
	s := New()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = s.Record(fmt.Sprintf("q%d", i), okReply)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 50, s.Len())
}

func TestParsePolicy(t *testing.T) {
	p, err := ParsePolicy("")
	require.NoError(t, err)
	assert.Equal(t, PolicyPropagate, p)

	p, err = ParsePolicy("drop")
	require.NoError(t, err)
	assert.Equal(t, PolicyDrop, p)

	_, err = ParsePolicy("ignore")
	assert.Error(t, err)
}
