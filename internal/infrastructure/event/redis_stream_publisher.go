package event

import (
	"context"
	"fmt"

	"github.com/person-service/backend/internal/domain/shared"
	"github.com/redis/go-redis/v9"
)

// RedisStreamAPI is the subset of go-redis used by RedisStreamPublisher
type RedisStreamAPI interface {
	XAdd(ctx context.Context, a *redis.XAddArgs) *redis.StringCmd
}

// RedisStreamPublisher appends envelopes to a Redis stream named after the bus
type RedisStreamPublisher struct {
	client RedisStreamAPI
	maxLen int64
}

// NewRedisStreamPublisher creates a publisher trimming streams to roughly maxLen
// entries; zero disables trimming
func NewRedisStreamPublisher(client RedisStreamAPI, maxLen int64) *RedisStreamPublisher {
	return &RedisStreamPublisher{client: client, maxLen: maxLen}
}

// Publish adds one stream entry with type, source and detail fields
func (p *RedisStreamPublisher) Publish(ctx context.Context, envelope shared.Envelope) error {
	args := &redis.XAddArgs{
		Stream: envelope.Bus,
		Values: map[string]interface{}{
			"type":   envelope.Type,
			"source": envelope.Source,
			"detail": string(envelope.Detail),
		},
	}
	if p.maxLen > 0 {
		args.MaxLen = p.maxLen
		args.Approx = true
	}

	if err := p.client.XAdd(ctx, args).Err(); err != nil {
		return fmt.Errorf("failed to add %s event to stream %s: %w", envelope.Type, envelope.Bus, err)
	}
	return nil
}

var _ shared.EventPublisher = (*RedisStreamPublisher)(nil)
