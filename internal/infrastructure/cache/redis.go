// Package cache provides the shared Redis client used by the Redis record
// store and the Redis Streams publisher.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/person-service/backend/internal/infrastructure/config"
	"github.com/redis/go-redis/v9"
)

// DefaultPingTimeout bounds the connectivity check in NewRedisClient.
const DefaultPingTimeout = 5 * time.Second

// NewRedisClient creates a Redis client and verifies the connection.
func NewRedisClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, DefaultPingTimeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return client, nil
}
