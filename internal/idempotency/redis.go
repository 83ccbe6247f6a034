package idempotency

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "booking:idempotency:"

// RedisStore maps Idempotency-Key headers to the booking they created.
type RedisStore struct {
	client redis.Cmdable
	ttl    time.Duration
}

func NewRedisStore(client redis.Cmdable, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func (s *RedisStore) Get(ctx context.Context, key string) (string, bool, error) {
	id, err := s.client.Get(ctx, keyPrefix+key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("redis get: %w", err)
	}

	return id, true, nil
}

// Save keeps the first booking stored under key; later saves are ignored.
func (s *RedisStore) Save(ctx context.Context, key, bookingID string) error {
	if err := s.client.SetNX(ctx, keyPrefix+key, bookingID, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis setnx: %w", err)
	}
	return nil
}

// Connect opens a client and checks it with PING.
func Connect(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return client, nil
}

// Noop is used when no redis address is configured: nothing is remembered.
type Noop struct{}

func (Noop) Get(context.Context, string) (string, bool, error) { return "", false, nil }

func (Noop) Save(context.Context, string, string) error { return nil }
