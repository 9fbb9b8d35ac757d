package favorites

import (
	"sync"

	"github.com/mmcdole/kinofav/internal/domain"
)

// Watcher holds one update bus subscription and exposes it as a channel.
// The subscription is held from Watch until Close.
type Watcher struct {
	events      chan string
	done        chan struct{}
	unsubscribe func()
	once        sync.Once
}

// Watch subscribes to bus. Delivery blocks the publisher until the event is
// read from Events or the watcher is closed.
func Watch(bus domain.UpdateBus) *Watcher {
	w := &Watcher{
		events: make(chan string),
		done:   make(chan struct{}),
	}
	w.unsubscribe = bus.Subscribe(func(event string) {
		select {
		case w.events <- event:
		case <-w.done:
		}
	})
	return w
}

// Events returns the channel events are delivered on.
func (w *Watcher) Events() <-chan string {
	return w.events
}

// Done is closed once the watcher has been closed.
func (w *Watcher) Done() <-chan struct{} {
	return w.done
}

// Close releases the subscription. It is safe to call more than once.
func (w *Watcher) Close() {
	if w == nil {
		return
	}
	w.once.Do(func() {
		close(w.done)
		w.unsubscribe()
	})
}
