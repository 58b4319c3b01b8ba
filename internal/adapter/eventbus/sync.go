// Package eventbus provides the in-process event bus that connects the host
// player controls with the visualizer driver.
package eventbus

import (
	"errors"
	"log/slog"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/tejashwikalptaru/govis/internal/domain"
	"github.com/tejashwikalptaru/govis/internal/ports"
)

// ErrClosed is returned by Close when the bus was already closed.
var ErrClosed = errors.New("event bus closed")

// SyncEventBus delivers events synchronously, on the publisher's goroutine,
// in subscription order. Type subscribers run before wildcard subscribers.
//
// It is safe for concurrent use. Handlers may publish or subscribe from
// inside a handler, since delivery works on a snapshot of the subscriber list.
type SyncEventBus struct {
	logger *slog.Logger

	mu       sync.RWMutex
	byType   map[domain.EventType][]subscription
	wildcard []subscription
	closed   bool
}

type subscription struct {
	id      domain.SubscriptionID
	handler domain.EventHandler
}

// NewSyncEventBus creates an event bus. A nil logger discards log output.
func NewSyncEventBus(logger *slog.Logger) *SyncEventBus {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &SyncEventBus{
		logger: logger,
		byType: make(map[domain.EventType][]subscription),
	}
}

// Publish delivers event to every matching handler. A panicking handler is
// logged and does not prevent delivery to the others. Publishing on a closed
// bus, or publishing nil, does nothing.
func (bus *SyncEventBus) Publish(event domain.Event) {
	if event == nil {
		return
	}

	bus.mu.RLock()
	if bus.closed {
		bus.mu.RUnlock()
		return
	}
	targets := slices.Concat(bus.byType[event.Type()], bus.wildcard)
	bus.mu.RUnlock()

	for _, sub := range targets {
		bus.deliver(sub, event)
	}
}

func (bus *SyncEventBus) deliver(sub subscription, event domain.Event) {
	defer func() {
		if r := recover(); r != nil {
			bus.logger.Error("event handler panicked",
				slog.Any("panic", r),
				slog.String("event_type", string(event.Type())),
				slog.String("subscription", string(sub.id)))
		}
	}()
	sub.handler(event)
}

// Subscribe registers handler for events of eventType.
// On a closed bus nothing is registered and an empty ID is returned.
func (bus *SyncEventBus) Subscribe(eventType domain.EventType, handler domain.EventHandler) domain.SubscriptionID {
	if handler == nil {
		panic("event handler cannot be nil")
	}

	bus.mu.Lock()
	defer bus.mu.Unlock()

	if bus.closed {
		bus.logger.Warn("subscribe on closed event bus", slog.String("event_type", string(eventType)))
		return ""
	}

	sub := subscription{id: newSubscriptionID(), handler: handler}
	bus.byType[eventType] = append(bus.byType[eventType], sub)
	return sub.id
}

// SubscribeAll registers handler for every event.
func (bus *SyncEventBus) SubscribeAll(handler domain.EventHandler) domain.SubscriptionID {
	if handler == nil {
		panic("event handler cannot be nil")
	}

	bus.mu.Lock()
	defer bus.mu.Unlock()

	if bus.closed {
		bus.logger.Warn("subscribe on closed event bus")
		return ""
	}

	sub := subscription{id: newSubscriptionID(), handler: handler}
	bus.wildcard = append(bus.wildcard, sub)
	return sub.id
}

// Unsubscribe removes a subscription. Unknown IDs are ignored.
// The relative order of the remaining handlers is preserved.
func (bus *SyncEventBus) Unsubscribe(id domain.SubscriptionID) {
	bus.mu.Lock()
	defer bus.mu.Unlock()

	match := func(s subscription) bool { return s.id == id }

	for eventType, subs := range bus.byType {
		if i := slices.IndexFunc(subs, match); i >= 0 {
			bus.byType[eventType] = slices.Delete(slices.Clone(subs), i, i+1)
			return
		}
	}
	if i := slices.IndexFunc(bus.wildcard, match); i >= 0 {
		bus.wildcard = slices.Delete(slices.Clone(bus.wildcard), i, i+1)
	}
}

// HasSubscribers reports whether publishing eventType would reach any handler.
func (bus *SyncEventBus) HasSubscribers(eventType domain.EventType) bool {
	bus.mu.RLock()
	defer bus.mu.RUnlock()
	return len(bus.byType[eventType]) > 0 || len(bus.wildcard) > 0
}

// SubscriberCount returns the number of active subscriptions.
func (bus *SyncEventBus) SubscriberCount() int {
	bus.mu.RLock()
	defer bus.mu.RUnlock()

	count := len(bus.wildcard)
	for _, subs := range bus.byType {
		count += len(subs)
	}
	return count
}

// Close drops every subscription. Later publishes are ignored.
func (bus *SyncEventBus) Close() error {
	bus.mu.Lock()
	defer bus.mu.Unlock()

	if bus.closed {
		return ErrClosed
	}
	bus.closed = true
	bus.byType = make(map[domain.EventType][]subscription)
	bus.wildcard = nil
	return nil
}

func newSubscriptionID() domain.SubscriptionID {
	return domain.SubscriptionID(uuid.NewString())
}

// Verify that SyncEventBus implements the EventBus interface
var _ ports.EventBus = (*SyncEventBus)(nil)
