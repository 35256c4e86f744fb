package ports

import (
	"context"
	"time"

	"shoplytics/internal/domain"
)

// TenantRepository defines the interface for tenant persistence
type TenantRepository interface {
	FindByID(ctx context.Context, id int64) (*domain.Tenant, error)
	FindByShopName(ctx context.Context, shopName string) (*domain.Tenant, error)
	Create(ctx context.Context, tenant *domain.Tenant) error
	Update(ctx context.Context, tenant *domain.Tenant) error
}

// AnalyticsRepository defines the interface for tenant-scoped aggregate reads
type AnalyticsRepository interface {
	BusinessOverview(ctx context.Context, tenantID int64) (*domain.BusinessOverview, error)
	TopCustomers(ctx context.Context, tenantID int64, limit int) ([]domain.TopCustomer, error)
	TopProducts(ctx context.Context, tenantID int64, limit int) ([]domain.TopProduct, error)
	ProductPerformance(ctx context.Context, tenantID int64, limit int) ([]domain.ProductPerformance, error)
	RevenueTrend(ctx context.Context, tenantID int64, since time.Time) ([]domain.RevenuePoint, error)
	CustomerSegments(ctx context.Context, tenantID int64) ([]domain.CustomerSegment, error)
}
