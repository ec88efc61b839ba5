package person

import (
	"encoding/json"
	"fmt"

	"github.com/person-service/backend/internal/domain/shared"
)

const (
	// EventTypeCreated is the detail type of the creation event
	EventTypeCreated = "PersonCreated"
	// EventSource identifies this service as the event producer
	EventSource = "person.service"
)

// CreatedEvent is published after a person record has been written.
// Its JSON form is the record itself: {"id": ..., "firstName": ..., ...}.
type CreatedEvent struct {
	shared.BaseDomainEvent
	Record
}

// NewCreatedEvent creates the creation event for rec
func NewCreatedEvent(rec Record) *CreatedEvent {
	return &CreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCreated, rec.ID),
		Record:          rec,
	}
}

// Envelope serializes the event for delivery to bus
func (e *CreatedEvent) Envelope(source, bus string) (shared.Envelope, error) {
	detail, err := json.Marshal(e.Record)
	if err != nil {
		return shared.Envelope{}, fmt.Errorf("failed to marshal %s event: %w", e.EventType(), err)
	}
	return shared.Envelope{
		Type:   e.EventType(),
		Source: source,
		Bus:    bus,
		Detail: detail,
	}, nil
}

var _ shared.DomainEvent = (*CreatedEvent)(nil)
