package settings

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-redis/redis/v8"
	"swing.klederson.com/internal/config"
)

// RedisStore keeps settings as fields of one redis hash.
type RedisStore struct {
	client *redis.Client
	key    string
}

// NewRedisClient creates a redis client from config.
func NewRedisClient(cfg *config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
}

// OpenRedisStore connects and pings redis.
func OpenRedisStore(ctx context.Context, cfg *config.RedisConfig) (*RedisStore, error) {
	client := NewRedisClient(cfg)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return NewRedisStore(client, cfg.Key), nil
}

// NewRedisStore wraps an existing client. key names the hash.
func NewRedisStore(client *redis.Client, key string) *RedisStore {
	return &RedisStore{client: client, key: key}
}

func (r *RedisStore) Get(ctx context.Context, field string) (string, error) {
	val, err := r.client.HGet(ctx, r.key, field).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrNotFound
		}
		return "", err
	}
	return val, nil
}

func (r *RedisStore) Set(ctx context.Context, field, value string) error {
	return r.client.HSet(ctx, r.key, field, value).Err()
}

func (r *RedisStore) Close() error {
	return r.client.Close()
}
