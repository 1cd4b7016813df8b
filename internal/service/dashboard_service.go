package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/college-erp-api/internal/models"
)

type dashboardRepository interface {
	AdminCounts(ctx context.Context) (*models.AdminDashboard, error)
}

// DashboardServiceConfig tunes dashboard behaviour.
type DashboardServiceConfig struct {
	CacheTTL time.Duration
}

// DashboardService aggregates institution-wide counters for the admin home page.
type DashboardService struct {
	repo   dashboardRepository
	cache  *CacheService
	logger *zap.Logger
	cfg    DashboardServiceConfig
	now    func() time.Time
}

// NewDashboardService builds a DashboardService.
func NewDashboardService(repo dashboardRepository, cache *CacheService, logger *zap.Logger, cfg DashboardServiceConfig) *DashboardService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 5 * time.Minute
	}
	return &DashboardService{repo: repo, cache: cache, logger: logger, cfg: cfg, now: time.Now}
}

// Admin returns the admin counters and indicates cache utilisation.
func (s *DashboardService) Admin(ctx context.Context) (*models.AdminDashboard, bool, error) {
	var cached models.AdminDashboard
	if s.cache.Get(ctx, cacheKeyAdminDashboard, &cached) {
		return &cached, true, nil
	}

	summary, err := s.repo.AdminCounts(ctx)
	if err != nil {
		return nil, false, internalError(err, "failed to load dashboard")
	}
	summary.GeneratedAt = s.now().UTC()

	s.cache.Set(ctx, cacheKeyAdminDashboard, summary, s.cfg.CacheTTL)
	return summary, false, nil
}
