package shared

import "time"

// DomainEvent represents an event that occurred in the domain
type DomainEvent interface {
	EventType() string
	OccurredAt() time.Time
	AggregateID() string
}

// BaseDomainEvent provides the metadata shared by all domain events.
// Fields are excluded from JSON so that an event's wire payload is defined
// solely by the embedding type.
type BaseDomainEvent struct {
	Type      string    `json:"-"`
	Timestamp time.Time `json:"-"`
	AggID     string    `json:"-"`
}

// EventType returns the type of the event
func (e BaseDomainEvent) EventType() string {
	return e.Type
}

// OccurredAt returns when the event occurred
func (e BaseDomainEvent) OccurredAt() time.Time {
	return e.Timestamp
}

// AggregateID returns the ID of the aggregate that produced this event
func (e BaseDomainEvent) AggregateID() string {
	return e.AggID
}

// NewBaseDomainEvent creates a new base domain event stamped with the current time
func NewBaseDomainEvent(eventType, aggID string) BaseDomainEvent {
	return BaseDomainEvent{
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		AggID:     aggID,
	}
}
