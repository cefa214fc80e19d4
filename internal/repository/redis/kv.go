package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	apperrors "github.com/utafrali/LotusGo/pkg/errors"
)

// KV implements repository.KV using Redis. Values persist with the
// configured TTL; a zero TTL means no expiry.
type KV struct {
	client *redis.Client
	ttl    time.Duration
}

// NewKV creates a new Redis-backed key-value store.
func NewKV(client *redis.Client, ttl time.Duration) *KV {
	return &KV{
		client: client,
		ttl:    ttl,
	}
}

// Get retrieves the value stored under key.
func (r *KV) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, apperrors.NotFound("key", key)
		}
		return nil, fmt.Errorf("redis get %s: %w", key, err)
	}
	return data, nil
}

// Set stores value under key with the configured TTL.
func (r *KV) Set(ctx context.Context, key string, value []byte) error {
	if err := r.client.Set(ctx, key, value, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

// Delete removes key from Redis.
func (r *KV) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", key, err)
	}
	return nil
}
