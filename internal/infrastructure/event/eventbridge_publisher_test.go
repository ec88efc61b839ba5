package event

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockEventBridge struct {
	mock.Mock
}

func (m *MockEventBridge) PutEvents(ctx context.Context, in *eventbridge.PutEventsInput, _ ...func(*eventbridge.Options)) (*eventbridge.PutEventsOutput, error) {
	args := m.Called(ctx, in)
	return args.Get(0).(*eventbridge.PutEventsOutput), args.Error(1)
}

func TestEventBridgePublisher_Publish(t *testing.T) {
	ctx := context.Background()

	t.Run("maps envelope to a single entry", func(t *testing.T) {
		client := new(MockEventBridge)
		publisher := NewEventBridgePublisher(client)

		client.On("PutEvents", ctx, mock.MatchedBy(func(in *eventbridge.PutEventsInput) bool {
			if len(in.Entries) != 1 {
				return false
			}
			e := in.Entries[0]
			return aws.ToString(e.Source) == "person.service" &&
				aws.ToString(e.DetailType) == "PersonCreated" &&
				aws.ToString(e.EventBusName) == "PersonEvents" &&
				aws.ToString(e.Detail) == `{"id":"abc"}`
		})).Return(&eventbridge.PutEventsOutput{
			Entries: []types.PutEventsResultEntry{{EventId: aws.String("evt-1")}},
		}, nil)

		require.NoError(t, publisher.Publish(ctx, testEnvelope()))
		client.AssertExpectations(t)
	})

	t.Run("api error", func(t *testing.T) {
		client := new(MockEventBridge)
		publisher := NewEventBridgePublisher(client)
		client.On("PutEvents", ctx, mock.Anything).
			Return((*eventbridge.PutEventsOutput)(nil), errors.New("AccessDenied"))

		err := publisher.Publish(ctx, testEnvelope())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "AccessDenied")
		assert.NotErrorIs(t, err, ErrEntryRejected)
	})

	t.Run("failed entry count is a failure", func(t *testing.T) {
		client := new(MockEventBridge)
		publisher := NewEventBridgePublisher(client)
		client.On("PutEvents", ctx, mock.Anything).Return(&eventbridge.PutEventsOutput{
			FailedEntryCount: 1,
			Entries: []types.PutEventsResultEntry{{
				ErrorCode:    aws.String("InternalFailure"),
				ErrorMessage: aws.String("try again"),
			}},
		}, nil)

		err := publisher.Publish(ctx, testEnvelope())
		assert.ErrorIs(t, err, ErrEntryRejected)
		assert.Contains(t, err.Error(), "InternalFailure")
	})

	t.Run("failed entry count without entry details", func(t *testing.T) {
		client := new(MockEventBridge)
		publisher := NewEventBridgePublisher(client)
		client.On("PutEvents", ctx, mock.Anything).
			Return(&eventbridge.PutEventsOutput{FailedEntryCount: 1}, nil)

		assert.ErrorIs(t, publisher.Publish(ctx, testEnvelope()), ErrEntryRejected)
	})
}
