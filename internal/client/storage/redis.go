package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps each item under "<origin>:<key>" with no expiry.
type RedisStore struct {
	rdb    redis.Cmdable
	prefix string
	close  closerFunc
}

func NewRedisStore(rdb redis.Cmdable, origin string) *RedisStore {
	return &RedisStore{rdb: rdb, prefix: origin + ":"}
}

// OpenRedis dials addr and pings it.
func OpenRedis(ctx context.Context, addr, origin string) (*RedisStore, error) {
	if origin == "" {
		return nil, ErrNoOrigin
	}

	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	s := NewRedisStore(client, origin)
	s.close = client.Close
	return s, nil
}

func (s *RedisStore) Get(ctx context.Context, key string) (string, bool, error) {
	value, err := s.rdb.Get(ctx, s.prefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to get item[%s]: %w", key, err)
	}
	return value, true, nil
}

func (s *RedisStore) Set(ctx context.Context, key, value string) error {
	if err := s.rdb.Set(ctx, s.prefix+key, value, 0).Err(); err != nil {
		return fmt.Errorf("failed to set item[%s]: %w", key, err)
	}
	return nil
}

func (s *RedisStore) Remove(ctx context.Context, key string) error {
	if err := s.rdb.Del(ctx, s.prefix+key).Err(); err != nil {
		return fmt.Errorf("failed to remove item[%s]: %w", key, err)
	}
	return nil
}

func (s *RedisStore) Close() error {
	return s.close.close()
}
