// Package cache stores rendered public careers pages so repeat visits skip the
// database and the template engine.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// PageCache caches rendered careers pages by company slug.
type PageCache interface {
	// Get returns the cached page and whether it was present.
	Get(ctx context.Context, slug string) ([]byte, bool, error)
	Set(ctx context.Context, slug string, page []byte) error
	// Invalidate drops the cached page so the next visit re-renders it.
	Invalidate(ctx context.Context, slug string) error
}

// KeyPrefix namespaces careers page keys in Redis.
const KeyPrefix = "careerpage:careers:"

// RedisConfig holds Redis connection settings.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

// RedisPageCache is a PageCache backed by Redis.
type RedisPageCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedis connects to Redis and verifies the connection.
func NewRedis(ctx context.Context, cfg RedisConfig) (*RedisPageCache, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 2,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return NewRedisPageCache(rdb, cfg.TTL), nil
}

// NewRedisPageCache wraps an existing client. A zero ttl keeps entries until
// they are invalidated.
func NewRedisPageCache(client *redis.Client, ttl time.Duration) *RedisPageCache {
	return &RedisPageCache{client: client, ttl: ttl}
}

func key(slug string) string {
	return KeyPrefix + slug
}

// Get implements PageCache.
func (c *RedisPageCache) Get(ctx context.Context, slug string) ([]byte, bool, error) {
	page, err := c.client.Get(ctx, key(slug)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to get cached page %s: %w", slug, err)
	}
	return page, true, nil
}

// Set implements PageCache.
func (c *RedisPageCache) Set(ctx context.Context, slug string, page []byte) error {
	if err := c.client.Set(ctx, key(slug), page, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache page %s: %w", slug, err)
	}
	return nil
}

// Invalidate implements PageCache.
func (c *RedisPageCache) Invalidate(ctx context.Context, slug string) error {
	if err := c.client.Del(ctx, key(slug)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate cached page %s: %w", slug, err)
	}
	return nil
}

// Ping checks the Redis connection.
func (c *RedisPageCache) Ping(ctx context.Context) error {
	if err := c.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

// Close closes the Redis connection.
func (c *RedisPageCache) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

// Nop is a PageCache that never stores anything. It is used when Redis is not
// configured.
type Nop struct{}

func (Nop) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }
func (Nop) Set(context.Context, string, []byte) error         { return nil }
func (Nop) Invalidate(context.Context, string) error          { return nil }

var (
	_ PageCache = (*RedisPageCache)(nil)
	_ PageCache = Nop{}
)
