// Package bus implements the in-process update bus used to announce store changes.
package bus

import (
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/mmcdole/kinofav/internal/domain"
)

type subscriber struct {
	id      string
	handler domain.EventHandler
}

// Bus fans out event names to every registered handler.
// Handlers run synchronously on the publisher's goroutine, in subscription order.
type Bus struct {
	mu     sync.RWMutex
	subs   []subscriber
	logger *slog.Logger
}

// New creates an empty bus.
func New(logger *slog.Logger) *Bus {
	if logger == nil {
		logger = slog.Default()
	}
	return &Bus{logger: logger}
}

// Subscribe registers handler and returns a func that removes it.
// The returned func is safe to call more than once.
func (b *Bus) Subscribe(handler domain.EventHandler) func() {
	sub := subscriber{id: uuid.NewString(), handler: handler}

	b.mu.Lock()
	b.subs = append(b.subs, sub)
	total := len(b.subs)
	b.mu.Unlock()

	b.logger.Debug("bus subscriber added", "subscriber_id", sub.id, "total", total)

	var once sync.Once
	return func() {
		once.Do(func() { b.remove(sub.id) })
	}
}

func (b *Bus) remove(id string) {
	b.mu.Lock()
	for i, s := range b.subs {
		if s.id == id {
			b.subs = append(b.subs[:i:i], b.subs[i+1:]...)
			break
		}
	}
	total := len(b.subs)
	b.mu.Unlock()

	b.logger.Debug("bus subscriber removed", "subscriber_id", id, "total", total)
}

// Publish delivers event to a snapshot of the current subscribers.
// A handler removed during delivery may still see this event but no later ones.
func (b *Bus) Publish(event string) {
	b.mu.RLock()
	snapshot := make([]subscriber, len(b.subs))
	copy(snapshot, b.subs)
	b.mu.RUnlock()

	for _, s := range snapshot {
		s.handler(event)
	}

	b.logger.Debug("event published", "event", event, "delivered", len(snapshot))
}

// Len returns the number of active subscribers. Zero once every panel has closed.
func (b *Bus) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}
