package notifier

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotifier_SubscribeUnsubscribe(t *testing.T) {
	n := New()

	ch := n.Subscribe()
	require.NotNil(t, ch)
	assert.Equal(t, 1, n.Len())

	n.Unsubscribe(ch)
	assert.Equal(t, 0, n.Len())

	_, open := <-ch
	assert.False(t, open, "channel is closed")

	assert.NotPanics(t, func() { n.Unsubscribe(ch) })
}

func TestNotifier_BroadcastCarriesEvent(t *testing.T) {
	n := New()
	a, b := n.Subscribe(), n.Subscribe()
	defer n.Unsubscribe(a)
	defer n.Unsubscribe(b)

	n.Broadcast(EventCatalog)

	for _, ch := range []chan Event{a, b} {
		select {
		case ev := <-ch:
			assert.Equal(t, EventCatalog, ev)
		case <-time.After(time.Second):
			t.Fatal("listener did not receive the event")
		}
	}
}

func TestNotifier_BroadcastDoesNotBlock(t *testing.T) {
	n := New()
	ch := n.Subscribe()
	defer n.Unsubscribe(ch)

	done := make(chan struct{})
	go func() {
		for range bufferSize + 3 {
			n.Broadcast(EventReload)
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Broadcast blocked on a full listener")
	}
	assert.Len(t, ch, bufferSize)
}

func TestNotifier_Concurrent(t *testing.T) {
	n := New()

	var wg sync.WaitGroup
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ch := n.Subscribe()
			n.Broadcast(EventCatalog)
			n.Unsubscribe(ch)
		}()
	}
	wg.Wait()

	assert.Equal(t, 0, n.Len())
}
