// Package cache is the optional Redis response cache of the read API.
// A nil *Cache is valid and behaves as a cache that never hits.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

const (
	keyPrefix   = "sampler:"
	pingTimeout = 5 * time.Second
)

// ErrCacheDisabled is returned by writes to a nil Cache.
var ErrCacheDisabled = errors.New("cache is disabled")

// Cache stores serialized responses for a fixed TTL.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// New connects to the Redis server at url. An empty url disables caching
// and returns a nil Cache.
func New(ctx context.Context, url string, ttl time.Duration) (*Cache, error) {
	if url == "" {
		return nil, nil
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("cache ttl must be positive, got %s", ttl)
	}

	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opt)

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	return &Cache{client: client, ttl: ttl}, nil
}

// Get returns the cached value of key. A miss returns ok == false and no error.
func (c *Cache) Get(ctx context.Context, key string) (value []byte, ok bool, err error) {
	if c == nil {
		return nil, false, nil
	}
	value, err = c.client.Get(ctx, keyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("cache get %s: %w", key, err)
	}
	return value, true, nil
}

// Set stores value under key for the configured TTL.
func (c *Cache) Set(ctx context.Context, key string, value []byte) error {
	if c == nil {
		return ErrCacheDisabled
	}
	if err := c.client.Set(ctx, keyPrefix+key, value, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache set %s: %w", key, err)
	}
	return nil
}

// Close releases the connection pool.
func (c *Cache) Close() error {
	if c == nil {
		return nil
	}
	return c.client.Close()
}
