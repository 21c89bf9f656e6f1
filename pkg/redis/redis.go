package redis

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

var client *redis.Client

// SetClient installs the shared client (called from internal/initial).
func SetClient(c *redis.Client) {
	client = c
}

func Close() error {
	if client == nil {
		return nil
	}
	return client.Close()
}

// IsConnected reports whether a client was installed. Callers treat an
// absent client as a cache miss, never as a hard failure.
func IsConnected() bool {
	return client != nil
}

func checkClient() error {
	if client == nil {
		return errors.New("redis not connected")
	}
	return nil
}

func Get(ctx context.Context, key string) (string, error) {
	if err := checkClient(); err != nil {
		return "", err
	}
	return client.Get(ctx, key).Result()
}

func Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	if err := checkClient(); err != nil {
		return err
	}
	return client.Set(ctx, key, value, expiration).Err()
}

func Del(ctx context.Context, keys ...string) (int64, error) {
	if err := checkClient(); err != nil {
		return 0, err
	}
	return client.Del(ctx, keys...).Result()
}

func Incr(ctx context.Context, key string) (int64, error) {
	if err := checkClient(); err != nil {
		return 0, err
	}
	return client.Incr(ctx, key).Result()
}

func IncrBy(ctx context.Context, key string, value int64) (int64, error) {
	if err := checkClient(); err != nil {
		return 0, err
	}
	return client.IncrBy(ctx, key, value).Result()
}
