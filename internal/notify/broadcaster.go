// Package notify carries database lifecycle notifications to the rest of
// the process and, through the websocket hub, to other processes.
package notify

import (
	"sync"

	"github.com/os2357/fuels-wallet/pkg/types"
)

// Broadcaster fans DB events out to in-process subscribers. Publishing is
// fire-and-forget: a subscriber that is not draining its channel misses the
// event rather than blocking the publisher.
type Broadcaster struct {
	mu   sync.RWMutex
	subs map[chan types.DBEvent]struct{}
}

// NewBroadcaster creates an empty broadcaster.
func NewBroadcaster() *Broadcaster {
	return &Broadcaster{subs: make(map[chan types.DBEvent]struct{})}
}

// Subscribe registers a new listener and returns its event channel.
func (b *Broadcaster) Subscribe() chan types.DBEvent {
	ch := make(chan types.DBEvent, 4)
	b.mu.Lock()
	b.subs[ch] = struct{}{}
	b.mu.Unlock()
	return ch
}

// Unsubscribe removes the listener and closes its channel.
func (b *Broadcaster) Unsubscribe(ch chan types.DBEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.subs[ch]; ok {
		delete(b.subs, ch)
		close(ch)
	}
}

// Publish delivers the event to every subscriber without blocking.
func (b *Broadcaster) Publish(ev types.DBEvent) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for ch := range b.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}
