package ports

import (
	"context"

	"shoplytics/internal/domain"
)

// SourceClient defines the interface for fetching resources from the Shopify
// Admin REST API on behalf of a tenant. Implementations handle pagination,
// retry and rate limiting; a failure surfaces as *domain.UpstreamError.
type SourceClient interface {
	FetchCustomers(ctx context.Context, shopName string, accessToken string) ([]domain.CustomerRecord, error)
	FetchProducts(ctx context.Context, shopName string, accessToken string) ([]domain.ProductRecord, error)
	FetchOrders(ctx context.Context, shopName string, accessToken string) ([]domain.OrderRecord, error)
}
