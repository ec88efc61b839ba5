package event

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge/types"
	"github.com/person-service/backend/internal/domain/shared"
)

// ErrEntryRejected is returned when PutEvents succeeds at the API level but
// reports a failed entry
var ErrEntryRejected = errors.New("event entry rejected by EventBridge")

// EventBridgeAPI is the subset of the EventBridge client used by EventBridgePublisher
type EventBridgeAPI interface {
	PutEvents(ctx context.Context, params *eventbridge.PutEventsInput, optFns ...func(*eventbridge.Options)) (*eventbridge.PutEventsOutput, error)
}

// EventBridgePublisher publishes one envelope per PutEvents call
type EventBridgePublisher struct {
	client EventBridgeAPI
}

// NewEventBridgePublisher creates a new EventBridgePublisher
func NewEventBridgePublisher(client EventBridgeAPI) *EventBridgePublisher {
	return &EventBridgePublisher{client: client}
}

// Publish sends the envelope as a single entry. Envelope.Type becomes the
// DetailType and Envelope.Bus the EventBusName.
func (p *EventBridgePublisher) Publish(ctx context.Context, envelope shared.Envelope) error {
	out, err := p.client.PutEvents(ctx, &eventbridge.PutEventsInput{
		Entries: []types.PutEventsRequestEntry{
			{
				Source:       aws.String(envelope.Source),
				DetailType:   aws.String(envelope.Type),
				Detail:       aws.String(string(envelope.Detail)),
				EventBusName: aws.String(envelope.Bus),
			},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to put %s event on %s: %w", envelope.Type, envelope.Bus, err)
	}

	if out.FailedEntryCount > 0 {
		for _, entry := range out.Entries {
			if entry.ErrorCode != nil {
				return fmt.Errorf("%w: %s: %s", ErrEntryRejected, aws.ToString(entry.ErrorCode), aws.ToString(entry.ErrorMessage))
			}
		}
		return ErrEntryRejected
	}
	return nil
}

var _ shared.EventPublisher = (*EventBridgePublisher)(nil)
