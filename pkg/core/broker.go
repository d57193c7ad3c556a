package core

import (
	"context"
	"log/slog"
	"sync"
)

const defaultEventBuffer = 100

// broker fans events out to subscribers without ever blocking the publisher.
// A subscriber whose buffer is full misses the event.
type broker struct {
	mu     sync.Mutex
	subs   map[int]chan Event
	next   int
	size   int
	logger *slog.Logger
	done   chan struct{}
	closed bool
}

func newBroker(size int, logger *slog.Logger) *broker {
	if size <= 0 {
		size = defaultEventBuffer
	}
	return &broker{
		subs:   make(map[int]chan Event),
		size:   size,
		logger: logger,
		done:   make(chan struct{}),
	}
}

func (b *broker) subscribe(ctx context.Context) <-chan Event {
	ch := make(chan Event, b.size)

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		close(ch)
		return ch
	}
	id := b.next
	b.next++
	b.subs[id] = ch
	b.mu.Unlock()

	go func() {
		select {
		case <-ctx.Done():
		case <-b.done:
		}
		b.mu.Lock()
		defer b.mu.Unlock()
		if c, ok := b.subs[id]; ok {
			delete(b.subs, id)
			close(c)
		}
	}()

	return ch
}

func (b *broker) publish(e Event) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for id, ch := range b.subs {
		select {
		case ch <- e:
		default:
			b.logger.Warn("subscriber buffer full, event dropped", "subscriber", id, "event", e.String())
		}
	}
}

func (b *broker) count() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}

func (b *broker) close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	close(b.done)
	for id, ch := range b.subs {
		delete(b.subs, id)
		close(ch)
	}
}
