package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// cache wraps an optional Redis client. A nil client disables caching;
// every helper degrades to a miss or a no-op (the server keeps working
// without Redis).
type cache struct {
	rdb *redis.Client
}

func (c *cache) get(key string) (string, error) {
	if c.rdb == nil {
		return "", fmt.Errorf("redis not available")
	}
	return c.rdb.Get(context.Background(), key).Result()
}

// set stores a value; ttl zero means no expiry.
func (c *cache) set(key, value string, ttl time.Duration) {
	if c.rdb == nil {
		return
	}
	if err := c.rdb.Set(context.Background(), key, value, ttl).Err(); err != nil {
		slog.Error("failed to set cache", "key", key, "error", err)
	}
}

// invalidate deletes every key matching the given patterns.
func (c *cache) invalidate(patterns ...string) {
	if c.rdb == nil {
		return
	}
	ctx := context.Background()
	for _, pattern := range patterns {
		iter := c.rdb.Scan(ctx, 0, pattern, 0).Iterator()
		for iter.Next(ctx) {
			c.rdb.Del(ctx, iter.Val())
		}
	}
}
