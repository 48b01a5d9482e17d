package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/aaravmahajanofficial/storefront/internal/config"
	"github.com/redis/go-redis/v9"
)

// redisCache stores JSON-encoded values. It owns the client and closes it.
type redisCache struct {
	client     *redis.Client
	defaultTTL time.Duration
}

func NewRedisCache(client *redis.Client, cfg *config.CacheConfig) Cache {
	ttl := 5 * time.Minute
	if cfg != nil && cfg.DefaultTTL > 0 {
		ttl = cfg.DefaultTTL
	}

	return &redisCache{client: client, defaultTTL: ttl}
}

// Get decodes the cached value into dest and reports a miss as false, nil.
func (c *redisCache) Get(ctx context.Context, key string, dest any) (bool, error) {

	data, err := c.client.Get(ctx, key).Bytes()
	switch {
	case errors.Is(err, redis.Nil):
		return false, nil
	case err != nil:
		return false, fmt.Errorf("cache get %s: %w", key, err)
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("cache decode %s: %w", key, err)
	}

	return true, nil
}

// Set stores value under key. A non-positive ttl means the default TTL.
func (c *redisCache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {

	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache encode %s: %w", key, err)
	}

	if ttl <= 0 {
		ttl = c.defaultTTL
	}

	if err := c.client.Set(ctx, key, data, ttl).Err(); err != nil {
		return fmt.Errorf("cache set %s: %w", key, err)
	}

	return nil
}

func (c *redisCache) Delete(ctx context.Context, keys ...string) error {

	if len(keys) == 0 {
		return nil
	}

	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("cache delete %v: %w", keys, err)
	}

	return nil
}

func (c *redisCache) Close() error {
	return c.client.Close()
}
