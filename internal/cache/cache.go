package cache

import (
	"context"
	"time"
)

// StatsCache holds pre-rendered dashboard payloads so hot dashboard
// polling does not hammer the aggregate queries.
type StatsCache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration)
	Invalidate(ctx context.Context, key string)
}

// NoopStatsCache is used when no Redis is configured; every lookup misses.
type NoopStatsCache struct{}

func (NoopStatsCache) Get(ctx context.Context, key string) ([]byte, bool) { return nil, false }

func (NoopStatsCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) {}

func (NoopStatsCache) Invalidate(ctx context.Context, key string) {}
