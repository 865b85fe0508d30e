package cache

import (
	"context"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

type RedisStatsCache struct {
	client *redis.Client
}

// NewRedisStatsCache connects to addr and verifies the connection. Returns
// nil when Redis is unreachable so the caller can fall back to the noop
// cache instead of failing boot.
func NewRedisStatsCache(addr, password string) *RedisStatsCache {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Printf("Warning: Redis not reachable at %s, dashboard cache disabled: %v", addr, err)
		return nil
	}

	log.Println("Redis cache connected")
	return &RedisStatsCache{client: client}
}

func (c *RedisStatsCache) Get(ctx context.Context, key string) ([]byte, bool) {
	val, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}
	return val, true
}

func (c *RedisStatsCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) {
	c.client.Set(ctx, key, value, ttl)
}

func (c *RedisStatsCache) Invalidate(ctx context.Context, key string) {
	c.client.Del(ctx, key)
}
