package storage

import (
	"context"
	"sync"

	"sergei-eats/backend"
)

// MemoryBus fans order events out to in-process subscribers. It stands in for
// Kafka in mock mode. Slow subscribers lose events rather than block
// publishers; a later snapshot of the same order supersedes a dropped one.
type MemoryBus struct {
	mu     sync.Mutex
	subs   map[int]chan backend.OrderEvent
	nextID int
	buffer int
}

func NewMemoryBus(buffer int) *MemoryBus {
	if buffer <= 0 {
		buffer = 64
	}
	return &MemoryBus{subs: make(map[int]chan backend.OrderEvent), buffer: buffer}
}

func (b *MemoryBus) Publish(ctx context.Context, event backend.OrderEvent) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, ch := range b.subs {
		select {
		case ch <- event:
		default:
		}
	}
	return nil
}

// Subscribe delivers events to handler until ctx is done.
func (b *MemoryBus) Subscribe(ctx context.Context, handler func(backend.OrderEvent)) error {
	ch := make(chan backend.OrderEvent, b.buffer)

	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.subs[id] = ch
	b.mu.Unlock()

	defer func() {
		b.mu.Lock()
		delete(b.subs, id)
		b.mu.Unlock()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event := <-ch:
			handler(event)
		}
	}
}

func (b *MemoryBus) Subscribers() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}
