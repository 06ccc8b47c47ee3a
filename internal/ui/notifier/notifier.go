// Package notifier fans out UI events to long-lived SSE connections.
package notifier

import "sync"

// Event names what changed.
type Event string

// Events.
const (
	// EventReload asks dev-mode pages to reload after a static asset changed.
	EventReload Event = "reload"
	// EventCatalog reports that a notebook was created.
	EventCatalog Event = "catalog"
)

// bufferSize bounds the events a slow listener can fall behind by before
// further events are dropped for it.
const bufferSize = 4

// Notifier broadcasts events to every subscribed listener.
type Notifier struct {
	mu        sync.RWMutex
	listeners map[chan Event]struct{}
}

// New creates a new Notifier instance.
func New() *Notifier {
	return &Notifier{
		listeners: make(map[chan Event]struct{}),
	}
}

// Subscribe returns a channel that receives broadcast events.
// The caller must call Unsubscribe when done.
func (n *Notifier) Subscribe() chan Event {
	ch := make(chan Event, bufferSize)
	n.mu.Lock()
	n.listeners[ch] = struct{}{}
	n.mu.Unlock()
	return ch
}

// Unsubscribe removes a listener channel and closes it. Unsubscribing twice is
// a no-op.
func (n *Notifier) Unsubscribe(ch chan Event) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if _, ok := n.listeners[ch]; !ok {
		return
	}
	delete(n.listeners, ch)
	close(ch)
}

// Broadcast sends ev to all listeners without blocking. Listeners whose
// buffer is full miss the event.
func (n *Notifier) Broadcast(ev Event) {
	n.mu.RLock()
	defer n.mu.RUnlock()

	for ch := range n.listeners {
		select {
		case ch <- ev:
		default:
		}
	}
}

// Len returns the number of subscribed listeners.
func (n *Notifier) Len() int {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return len(n.listeners)
}
