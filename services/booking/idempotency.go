package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"hausly/utils"

	"github.com/go-redis/redis/v8"
)

const idemPending = "pending"

// IdempotencyStore records which booking an Idempotency-Key produced.
type IdempotencyStore interface {
	// Claim reserves key. When the key already exists, claimed is false and
	// bookingID holds the recorded booking id, or "" while the first request is still running.
	Claim(ctx context.Context, key string) (bookingID string, claimed bool, err error)
	// Complete binds a claimed key to the booking it created.
	Complete(ctx context.Context, key, bookingID string) error
	// Release frees a claimed key after a failed request so it can be retried.
	Release(ctx context.Context, key string) error
}

// RedisIdempotencyStore keeps keys in Redis with a fixed TTL.
type RedisIdempotencyStore struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewRedisIdempotencyStore(client *redis.Client, ttl time.Duration) *RedisIdempotencyStore {
	return &RedisIdempotencyStore{Client: client, TTL: ttl}
}

func (s *RedisIdempotencyStore) key(k string) string {
	return utils.IdempotencyPrefix + k
}

func (s *RedisIdempotencyStore) Claim(ctx context.Context, key string) (string, bool, error) {
	ok, err := s.Client.SetNX(ctx, s.key(key), idemPending, s.TTL).Result()
	if err != nil {
		return "", false, fmt.Errorf("idempotency claim failed: %w", err)
	}
	if ok {
		return "", true, nil
	}

	val, err := s.Client.Get(ctx, s.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		// Expired between SETNX and GET; treat as in flight.
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("idempotency lookup failed: %w", err)
	}
	if val == idemPending {
		return "", false, nil
	}
	return val, false, nil
}

func (s *RedisIdempotencyStore) Complete(ctx context.Context, key, bookingID string) error {
	if err := s.Client.Set(ctx, s.key(key), bookingID, s.TTL).Err(); err != nil {
		return fmt.Errorf("idempotency complete failed: %w", err)
	}
	return nil
}

func (s *RedisIdempotencyStore) Release(ctx context.Context, key string) error {
	return s.Client.Del(ctx, s.key(key)).Err()
}
