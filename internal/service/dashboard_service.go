package service

import (
	"context"
	"encoding/json"
	"time"

	"go-warehouse-api/internal/cache"
	"go-warehouse-api/internal/repository"
)

const statsCacheKey = "dashboard:stats"
const statsCacheTTL = 30 * time.Second

type DashboardService interface {
	GetStockMovement(days int) ([]repository.StockMovementData, error)
	GetDashboardStats(ctx context.Context) (*repository.DashboardStats, error)
}

type dashboardService struct {
	movementRepo repository.MovementRepository
	stats        cache.StatsCache
}

func NewDashboardService(movementRepo repository.MovementRepository, stats cache.StatsCache) DashboardService {
	return &dashboardService{movementRepo: movementRepo, stats: stats}
}

func (s *dashboardService) GetStockMovement(days int) ([]repository.StockMovementData, error) {
	endDate := time.Now()
	startDate := endDate.AddDate(0, 0, -days)

	return s.movementRepo.GetStockMovement(startDate, endDate)
}

func (s *dashboardService) GetDashboardStats(ctx context.Context) (*repository.DashboardStats, error) {
	if cached, ok := s.stats.Get(ctx, statsCacheKey); ok {
		var stats repository.DashboardStats
		if err := json.Unmarshal(cached, &stats); err == nil {
			return &stats, nil
		}
		// Corrupt entry, drop it and recompute
		s.stats.Invalidate(ctx, statsCacheKey)
	}

	stats, err := s.movementRepo.GetDashboardStats()
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(stats); err == nil {
		s.stats.Set(ctx, statsCacheKey, payload, statsCacheTTL)
	}
	return stats, nil
}
