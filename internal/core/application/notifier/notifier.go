// Package notifier delivers status change events to in-process listeners.
package notifier

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"fleet/internal/core/domain/model/history"
)

// Listener reacts to a recorded status change.
type Listener interface {
	OnStatusChanged(ctx context.Context, event history.StatusChanged) error
}

// ListenerFunc adapts a plain function to Listener.
type ListenerFunc func(ctx context.Context, event history.StatusChanged) error

func (f ListenerFunc) OnStatusChanged(ctx context.Context, event history.StatusChanged) error {
	return f(ctx, event)
}

type subscription struct {
	id       uint64
	name     string
	listener Listener
}

// Notifier fans events out to subscribed listeners.
//
// Listeners run synchronously on the publishing goroutine in the order they
// subscribed. A listener that returns an error or panics is logged and
// skipped; Publish never fails.
type Notifier struct {
	logger *slog.Logger

	mu     sync.RWMutex
	nextID uint64
	subs   []subscription
}

// New creates a Notifier with no listeners.
func New(logger *slog.Logger) *Notifier {
	return &Notifier{
		logger: logger.With("component", "status-notifier"),
	}
}

// Subscribe registers a listener under a name used in logs. The returned
// function removes it; calling it more than once is harmless.
func (n *Notifier) Subscribe(name string, l Listener) (unsubscribe func()) {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.nextID++
	id := n.nextID
	n.subs = append(n.subs, subscription{id: id, name: name, listener: l})

	var once sync.Once
	return func() {
		once.Do(func() { n.remove(id) })
	}
}

// Len reports the number of subscribed listeners.
func (n *Notifier) Len() int {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return len(n.subs)
}

// Publish delivers event to every listener subscribed at the time of the call.
func (n *Notifier) Publish(ctx context.Context, event history.StatusChanged) {
	n.mu.RLock()
	subs := make([]subscription, len(n.subs))
	copy(subs, n.subs)
	n.mu.RUnlock()

	for _, s := range subs {
		if err := n.deliver(ctx, s, event); err != nil {
			n.logger.WarnContext(ctx, "status listener failed",
				"listener", s.name,
				"entityType", event.EntityType,
				"entityId", event.EntityID,
				"newStatus", event.NewStatus,
				"error", err)
		}
	}
}

func (n *Notifier) deliver(ctx context.Context, s subscription, event history.StatusChanged) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("listener panicked: %v", r)
		}
	}()
	return s.listener.OnStatusChanged(ctx, event)
}

func (n *Notifier) remove(id uint64) {
	n.mu.Lock()
	defer n.mu.Unlock()

	for i, s := range n.subs {
		if s.id == id {
			n.subs = append(n.subs[:i:i], n.subs[i+1:]...)
			return
		}
	}
}
