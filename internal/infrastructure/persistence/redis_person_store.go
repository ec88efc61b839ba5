package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/person-service/backend/internal/domain/person"
	"github.com/redis/go-redis/v9"
)

// DefaultRedisKeyPrefix namespaces person keys
const DefaultRedisKeyPrefix = "person:"

// RedisAPI is the subset of go-redis commands used by RedisPersonStore.
// *redis.Client satisfies it.
type RedisAPI interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Get(ctx context.Context, key string) *redis.StringCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
	Ping(ctx context.Context) *redis.StatusCmd
}

// RedisPersonStore implements person.RecordStore with one JSON string per key
type RedisPersonStore struct {
	client    RedisAPI
	keyPrefix string
}

// NewRedisPersonStore creates a store using keyPrefix (DefaultRedisKeyPrefix when empty)
func NewRedisPersonStore(client RedisAPI, keyPrefix string) *RedisPersonStore {
	if keyPrefix == "" {
		keyPrefix = DefaultRedisKeyPrefix
	}
	return &RedisPersonStore{client: client, keyPrefix: keyPrefix}
}

// Put stores the record without expiry
func (s *RedisPersonStore) Put(ctx context.Context, rec person.Record) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal person %s: %w", rec.ID, err)
	}
	if err := s.client.Set(ctx, s.keyPrefix+rec.ID, data, 0).Err(); err != nil {
		return fmt.Errorf("failed to put person %s: %w", rec.ID, err)
	}
	return nil
}

// DeleteIfExists relies on DEL's removed-key count: zero means nothing existed
func (s *RedisPersonStore) DeleteIfExists(ctx context.Context, id string) error {
	n, err := s.client.Del(ctx, s.keyPrefix+id).Result()
	if err != nil {
		return fmt.Errorf("failed to delete person %s: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("delete person %s: %w", id, person.ErrRecordNotFound)
	}
	return nil
}

// FindByID loads and decodes the record
func (s *RedisPersonStore) FindByID(ctx context.Context, id string) (*person.Record, error) {
	data, err := s.client.Get(ctx, s.keyPrefix+id).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, person.ErrRecordNotFound
		}
		return nil, fmt.Errorf("failed to get person %s: %w", id, err)
	}

	var rec person.Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("failed to decode person %s: %w", id, err)
	}
	return &rec, nil
}

// Ping checks the Redis connection
func (s *RedisPersonStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

var _ person.RecordStore = (*RedisPersonStore)(nil)
