// Package notify implements the fan-out sink the ledger reports status lines
// to. Delivery is fire-and-forget and at-most-once: a slow subscriber loses
// messages instead of applying backpressure to the ledger.
package notify

import (
	"log"
	"sync"
)

// DefaultBuffer is the per-subscriber channel capacity.
const DefaultBuffer = 16

// Broadcaster fans published lines out to every current subscriber.
type Broadcaster struct {
	mu     sync.RWMutex
	subs   map[int]chan string
	next   int
	buffer int
	closed bool
}

// NewBroadcaster creates a broadcaster; buffer <= 0 uses DefaultBuffer.
func NewBroadcaster(buffer int) *Broadcaster {
	if buffer <= 0 {
		buffer = DefaultBuffer
	}
	return &Broadcaster{subs: make(map[int]chan string), buffer: buffer}
}

// Publish delivers msg to every subscriber without blocking. Messages to a
// full subscriber buffer are dropped. The line is also mirrored to the
// process log, matching the original console output.
func (b *Broadcaster) Publish(msg string) {
	log.Println(msg)

	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, ch := range b.subs {
		select {
		case ch <- msg:
		default:
		}
	}
}

// Subscribe registers a listener. The returned cancel function must be called
// exactly once; it unregisters the listener and closes its channel.
func (b *Broadcaster) Subscribe() (<-chan string, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan string, b.buffer)
	if b.closed {
		close(ch)
		return ch, func() {}
	}
	id := b.next
	b.next++
	b.subs[id] = ch

	cancel := func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if sub, ok := b.subs[id]; ok {
			delete(b.subs, id)
			close(sub)
		}
	}
	return ch, cancel
}

// Close drops all subscribers and closes their channels. Publish becomes a
// log-only no-op afterwards.
func (b *Broadcaster) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for id, ch := range b.subs {
		delete(b.subs, id)
		close(ch)
	}
}

// Subscribers returns the current listener count.
func (b *Broadcaster) Subscribers() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}
