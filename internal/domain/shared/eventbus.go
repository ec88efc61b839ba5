package shared

import "context"

// Envelope is a serialized domain event addressed to a named bus.
type Envelope struct {
	// Type is the event type name (e.g. "PersonCreated")
	Type string
	// Source identifies the producing service (e.g. "person.service")
	Source string
	// Bus is the destination bus or stream name
	Bus string
	// Detail is the JSON payload of the event
	Detail []byte
}

// EventPublisher publishes events to an external bus.
// A nil error means the bus accepted the event for delivery; delivery and
// ordering guarantees beyond that are owned by the bus.
type EventPublisher interface {
	Publish(ctx context.Context, envelope Envelope) error
}

// EventHandler handles events delivered by an in-process bus
type EventHandler interface {
	// Handle processes an event envelope
	Handle(ctx context.Context, envelope Envelope) error
	// EventTypes returns the event types this handler is interested in
	// An empty slice means the handler receives all events
	EventTypes() []string
}

// EventSubscriber subscribes to events
type EventSubscriber interface {
	// Subscribe registers a handler for specific event types
	// If no event types are provided, the handler receives all events
	Subscribe(handler EventHandler, eventTypes ...string)
	// Unsubscribe removes a handler from the subscription list
	Unsubscribe(handler EventHandler)
}

// EventBus combines publisher and subscriber capabilities
type EventBus interface {
	EventPublisher
	EventSubscriber
	// Start starts the event bus
	Start(ctx context.Context) error
	// Stop gracefully stops the event bus
	Stop(ctx context.Context) error
}
