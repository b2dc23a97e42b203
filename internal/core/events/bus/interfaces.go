package bus

import "time"

// EventBus is an in-process, synchronous pub/sub bus.
//
// Key characteristics:
// - Type-based fan-out: handlers subscribe by Event.Type(); the Wildcard type receives everything.
// - Ordered delivery: handlers run in subscription order, in the publisher's goroutine.
// - Error aggregation: handler errors are joined and returned from Publish.
// - All methods are safe for concurrent use.
type EventBus interface {
	// Publish delivers the event to every active subscriber of event.Type() and
	// of Wildcard. Handler errors are joined.
	Publish(event Event) error
	// Subscribe registers a handler for an event type.
	Subscribe(eventType string, handler EventHandler) (Subscription, error)
	// Unsubscribe cancels the given Subscription. It is safe to call with nil.
	Unsubscribe(Subscription) error
	// Metrics returns a snapshot of the delivery counters.
	Metrics() Metrics
}

// Wildcard subscribes a handler to every event type.
const Wildcard = "*"

// Event is an immutable message transported by the EventBus.
type Event interface {
	Type() string
	Source() string
	Timestamp() time.Time
	Data() any
}

// EventHandler is invoked once per delivered event.
type EventHandler func(event Event) error

// Subscription is a registered handler bound to an event type.
type Subscription interface {
	ID() string
	EventType() string
	IsActive() bool
	// Cancel de-registers the handler. Multiple calls are safe.
	Cancel() error
}

// Metrics counts deliveries since the bus was created.
type Metrics struct {
	Published         uint64
	DeliveredHandlers uint64
	Errors            uint64
	SubscribersActive uint64
}
