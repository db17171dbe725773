// Package outbox declares the event ports the catalog domain publishes
// through. The in-memory bus in internal/infrastructure/outbox implements
// both sides; delivery is best-effort and never blocks order creation.
package outbox

import "context"

// Event is a catalog domain event, identified by its name
// (e.g. "order.created").
type Event interface {
	EventName() string
}

// Handler reacts to one delivered event. Returning an error is logged by
// the bus but not retried.
type Handler func(ctx context.Context, e Event) error

// Publisher is the side the creation pipeline sees.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

// Subscriber is the side workers see.
type Subscriber interface {
	Subscribe(eventName string, h Handler)
}
