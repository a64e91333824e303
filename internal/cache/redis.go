// Package cache provides an optional Redis-backed page cache so a rerun
// of the pipeline does not re-fetch standings and roster pages that were
// already scraped this season.
package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisCache stores fetched HTML keyed by page URL.
type RedisCache struct {
	client *redis.Client
}

// NewRedisCache creates a new Redis cache connection.
func NewRedisCache(redisURL string) (*RedisCache, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opt)

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &RedisCache{
		client: client,
	}, nil
}

// Close closes the Redis connection.
func (rc *RedisCache) Close() error {
	return rc.client.Close()
}

// HealthCheck pings Redis to verify connection.
func (rc *RedisCache) HealthCheck(ctx context.Context) error {
	return rc.client.Ping(ctx).Err()
}

// Set stores a fetched page with a TTL.
func (rc *RedisCache) Set(ctx context.Context, key, html string, ttl time.Duration) error {
	return rc.client.Set(ctx, key, html, ttl).Err()
}

// Get retrieves a cached page; a miss surfaces as redis.Nil.
func (rc *RedisCache) Get(ctx context.Context, key string) (string, error) {
	return rc.client.Get(ctx, key).Result()
}

// Delete removes cached pages, e.g. to force a fresh scrape of a team.
func (rc *RedisCache) Delete(ctx context.Context, keys ...string) error {
	return rc.client.Del(ctx, keys...).Err()
}
