package ports

import (
	"context"

	"shoplytics/internal/domain"
)

// EntityStore defines the interface for transactional persistence of ingested
// entities. All reconciliation writes for one ingestion call happen inside a
// single transaction so a failed batch leaves no partial rows behind.
type EntityStore interface {
	// InTransaction runs fn inside one transaction. The transaction commits
	// when fn returns nil and rolls back otherwise; the returned error is
	// fn's error or the commit failure (domain.ErrConflict on a uniqueness
	// violation).
	InTransaction(ctx context.Context, fn func(tx EntityTx) error) error
}

// EntityTx exposes lookups and writes scoped to one open transaction.
// Lookup methods return (nil, nil) when no row matches. Create methods fill
// the entity's generated ID so callers can link child rows immediately.
type EntityTx interface {
	// Customer operations
	CustomerByShopifyID(ctx context.Context, tenantID int64, shopifyCustomerID int64) (*domain.Customer, error)
	CreateCustomer(ctx context.Context, customer *domain.Customer) error
	UpdateCustomer(ctx context.Context, customer *domain.Customer) error

	// Product operations
	ProductByShopifyID(ctx context.Context, tenantID int64, shopifyProductID int64) (*domain.Product, error)
	CreateProduct(ctx context.Context, product *domain.Product) error
	UpdateProduct(ctx context.Context, product *domain.Product) error

	// Variant operations. The ForTenant variant restricts the lookup to
	// variants whose product belongs to the tenant.
	VariantByShopifyID(ctx context.Context, shopifyVariantID int64) (*domain.ProductVariant, error)
	VariantByShopifyIDForTenant(ctx context.Context, tenantID int64, shopifyVariantID int64) (*domain.ProductVariant, error)
	CreateVariant(ctx context.Context, variant *domain.ProductVariant) error
	UpdateVariant(ctx context.Context, variant *domain.ProductVariant) error

	// Order operations
	OrderByShopifyID(ctx context.Context, tenantID int64, shopifyOrderID int64) (*domain.Order, error)
	CreateOrder(ctx context.Context, order *domain.Order) error
	UpdateOrder(ctx context.Context, order *domain.Order) error

	// Line item operations
	LineItemByOrderAndVariant(ctx context.Context, orderID int64, variantID int64) (*domain.OrderLineItem, error)
	CreateLineItem(ctx context.Context, item *domain.OrderLineItem) error
	UpdateLineItem(ctx context.Context, item *domain.OrderLineItem) error
}
