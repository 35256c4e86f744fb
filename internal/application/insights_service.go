package application

import (
	"context"
	"time"

	"shoplytics/internal/domain"
	"shoplytics/internal/ports"

	"github.com/rs/zerolog"
)

const (
	defaultTopCustomersLimit       = 10
	defaultTopProductsLimit        = 5
	defaultProductPerformanceLimit = 10
	defaultRevenueTrendDays        = 90
)

// InsightsService serves tenant-scoped analytics reads
type InsightsService struct {
	analytics ports.AnalyticsRepository
	logger    zerolog.Logger
}

// NewInsightsService creates a new insights service
func NewInsightsService(analytics ports.AnalyticsRepository, logger zerolog.Logger) *InsightsService {
	return &InsightsService{analytics: analytics, logger: logger}
}

// Overview returns the tenant's headline business metrics
func (s *InsightsService) Overview(ctx context.Context, tenantID int64) (*domain.BusinessOverview, error) {
	return s.analytics.BusinessOverview(ctx, tenantID)
}

// TopCustomers returns the tenant's customers ranked by total spend. A
// non-positive limit falls back to the default.
func (s *InsightsService) TopCustomers(ctx context.Context, tenantID int64, limit int) ([]domain.TopCustomer, error) {
	if limit <= 0 {
		limit = defaultTopCustomersLimit
	}
	return s.analytics.TopCustomers(ctx, tenantID, limit)
}

// TopProducts returns the tenant's products ranked by units sold. A
// non-positive limit falls back to the default.
func (s *InsightsService) TopProducts(ctx context.Context, tenantID int64, limit int) ([]domain.TopProduct, error) {
	if limit <= 0 {
		limit = defaultTopProductsLimit
	}
	return s.analytics.TopProducts(ctx, tenantID, limit)
}

// ProductPerformance returns per-product revenue and buyer aggregates. A
// non-positive limit falls back to the default.
func (s *InsightsService) ProductPerformance(ctx context.Context, tenantID int64, limit int) ([]domain.ProductPerformance, error) {
	if limit <= 0 {
		limit = defaultProductPerformanceLimit
	}
	return s.analytics.ProductPerformance(ctx, tenantID, limit)
}

// RevenueTrend returns daily revenue points for the trailing window. A
// non-positive day count falls back to the default.
func (s *InsightsService) RevenueTrend(ctx context.Context, tenantID int64, days int) ([]domain.RevenuePoint, error) {
	if days <= 0 {
		days = defaultRevenueTrendDays
	}
	since := time.Now().AddDate(0, 0, -days)
	return s.analytics.RevenueTrend(ctx, tenantID, since)
}

// CustomerSegments returns the tenant's customers grouped into behavioral
// segments
func (s *InsightsService) CustomerSegments(ctx context.Context, tenantID int64) ([]domain.CustomerSegment, error) {
	return s.analytics.CustomerSegments(ctx, tenantID)
}
