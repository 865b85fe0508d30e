package service

import (
	"context"
	"testing"
	"time"

	"go-warehouse-api/internal/model"
	"go-warehouse-api/internal/repository"
)

// memStatsCache is an in-process StatsCache for tests. TTL is ignored.
type memStatsCache struct {
	entries map[string][]byte
	sets    int
	hits    int
}

func newMemStatsCache() *memStatsCache {
	return &memStatsCache{entries: make(map[string][]byte)}
}

func (c *memStatsCache) Get(ctx context.Context, key string) ([]byte, bool) {
	v, ok := c.entries[key]
	if ok {
		c.hits++
	}
	return v, ok
}

func (c *memStatsCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) {
	c.entries[key] = value
	c.sets++
}

func (c *memStatsCache) Invalidate(ctx context.Context, key string) {
	delete(c.entries, key)
}

func TestDashboardStatsCacheAside(t *testing.T) {
	db := newTestDB(t)
	movementRepo := repository.NewMovementRepo(db)
	statsCache := newMemStatsCache()
	svc := NewDashboardService(movementRepo, statsCache)

	seedProduct(t, db, "SKU-1", 3, 100)
	seedProduct(t, db, "SKU-2", 0, 50) // stock 0 < min 1, counts as low stock

	ctx := context.Background()
	stats, err := svc.GetDashboardStats(ctx)
	if err != nil {
		t.Fatalf("GetDashboardStats: %v", err)
	}
	if stats.TotalProducts != 2 {
		t.Errorf("total products = %d, want 2", stats.TotalProducts)
	}
	if stats.LowStockCount != 1 {
		t.Errorf("low stock count = %d, want 1", stats.LowStockCount)
	}
	if stats.TotalValuation != 300 {
		t.Errorf("total valuation = %v, want 300", stats.TotalValuation)
	}
	if statsCache.sets != 1 {
		t.Errorf("cache sets = %d, want 1", statsCache.sets)
	}

	// Second call is served from the cache even after the data changes
	seedProduct(t, db, "SKU-3", 10, 10)
	again, err := svc.GetDashboardStats(ctx)
	if err != nil {
		t.Fatalf("GetDashboardStats (cached): %v", err)
	}
	if statsCache.hits != 1 {
		t.Errorf("cache hits = %d, want 1", statsCache.hits)
	}
	if again.TotalProducts != 2 {
		t.Errorf("cached total products = %d, want the stale 2", again.TotalProducts)
	}
}

func TestDashboardStatsCorruptCacheRecomputes(t *testing.T) {
	db := newTestDB(t)
	movementRepo := repository.NewMovementRepo(db)
	statsCache := newMemStatsCache()
	statsCache.entries[statsCacheKey] = []byte("{not json")
	svc := NewDashboardService(movementRepo, statsCache)

	seedProduct(t, db, "SKU-1", 5, 10)

	stats, err := svc.GetDashboardStats(context.Background())
	if err != nil {
		t.Fatalf("GetDashboardStats: %v", err)
	}
	if stats.TotalProducts != 1 {
		t.Errorf("total products = %d, want 1", stats.TotalProducts)
	}
	// The corrupt entry was replaced with a fresh one
	if _, ok := statsCache.entries[statsCacheKey]; !ok {
		t.Error("expected cache entry to be rewritten after corruption")
	}
}

func TestGetStockMovementAggregatesPerDay(t *testing.T) {
	env := newTestEnv(t)
	p := seedProduct(t, env.db, "SKU-1", 100, 10)

	ref := MovementRef{RefType: model.RefManual}
	if _, err := env.ledger.ApplyDelta(p.ID, 30, ref, "tester"); err != nil {
		t.Fatalf("ApplyDelta in: %v", err)
	}
	if _, err := env.ledger.ApplyDelta(p.ID, -12, ref, "tester"); err != nil {
		t.Fatalf("ApplyDelta out: %v", err)
	}

	svc := NewDashboardService(env.movements, newMemStatsCache())
	data, err := svc.GetStockMovement(7)
	if err != nil {
		t.Fatalf("GetStockMovement: %v", err)
	}
	if len(data) != 1 {
		t.Fatalf("aggregated days = %d, want 1", len(data))
	}
	if data[0].Inbound != 30 || data[0].Outbound != 12 {
		t.Errorf("day aggregate = (in %d, out %d), want (30, 12)", data[0].Inbound, data[0].Outbound)
	}
}
