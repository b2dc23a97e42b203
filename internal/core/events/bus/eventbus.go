package bus

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

type simpleEvent struct {
	typeStr string
	source  string
	ts      time.Time
	data    any
}

func (e simpleEvent) Type() string         { return e.typeStr }
func (e simpleEvent) Source() string       { return e.source }
func (e simpleEvent) Timestamp() time.Time { return e.ts }
func (e simpleEvent) Data() any            { return e.data }

// NewEvent creates a simple Event implementation.
func NewEvent(typ, src string, data any) Event {
	return simpleEvent{typeStr: typ, source: src, ts: time.Now(), data: data}
}

type subscription struct {
	id        string
	eventType string
	handler   EventHandler
	cancel    func()
	bus       *inMemoryBus

	// active is guarded by bus.mu.
	active bool
}

func (s *subscription) ID() string        { return s.id }
func (s *subscription) EventType() string { return s.eventType }
func (s *subscription) IsActive() bool {
	s.bus.mu.RLock()
	defer s.bus.mu.RUnlock()
	return s.active
}
func (s *subscription) Cancel() error {
	if s.cancel != nil {
		s.cancel()
	}
	return nil
}

type inMemoryBus struct {
	mu sync.RWMutex
	// handlers: eventType -> subscriptions in subscribe order
	handlers map[string][]*subscription
	metrics  Metrics
}

// New creates a new EventBus instance.
func New() EventBus {
	return &inMemoryBus{handlers: make(map[string][]*subscription)}
}

func (b *inMemoryBus) Subscribe(eventType string, handler EventHandler) (Subscription, error) {
	if handler == nil {
		return nil, errors.New("bus: nil handler")
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	s := &subscription{id: uuid.NewString(), eventType: eventType, handler: handler, active: true, bus: b}
	s.cancel = func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if !s.active {
			return
		}
		s.active = false
		subs := b.handlers[eventType]
		for i, o := range subs {
			if o == s {
				b.handlers[eventType] = append(subs[:i:i], subs[i+1:]...)
				break
			}
		}
		b.metrics.SubscribersActive--
	}
	b.handlers[eventType] = append(b.handlers[eventType], s)
	b.metrics.SubscribersActive++
	return s, nil
}

func (b *inMemoryBus) Unsubscribe(sub Subscription) error {
	if sub == nil {
		return nil
	}
	return sub.Cancel()
}

func (b *inMemoryBus) Metrics() Metrics {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.metrics
}

func (b *inMemoryBus) Publish(event Event) error {
	etype := event.Type()
	b.mu.RLock()
	handlers := make([]EventHandler, 0, len(b.handlers[etype])+len(b.handlers[Wildcard]))
	handlers = appendActive(handlers, b.handlers[etype])
	if etype != Wildcard {
		handlers = appendActive(handlers, b.handlers[Wildcard])
	}
	b.mu.RUnlock()

	var all error
	delivered := 0
	for _, h := range handlers {
		delivered++
		if err := h(event); err != nil {
			all = errors.Join(all, err)
		}
	}

	b.mu.Lock()
	b.metrics.Published++
	b.metrics.DeliveredHandlers += uint64(delivered)
	if all != nil {
		b.metrics.Errors++
	}
	b.mu.Unlock()
	return all
}

// appendActive appends the handlers of active subscriptions. Callers hold b.mu.
func appendActive(dst []EventHandler, subs []*subscription) []EventHandler {
	for _, s := range subs {
		if s.active {
			dst = append(dst, s.handler)
		}
	}
	return dst
}
