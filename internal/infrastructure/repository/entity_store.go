package repository

import (
	"context"
	"errors"
	"fmt"

	"shoplytics/internal/domain"
	"shoplytics/internal/infrastructure/repository/entity"
	"shoplytics/internal/ports"

	"gorm.io/gorm"
)

// PostgresEntityStore implements EntityStore using gorm transactions
type PostgresEntityStore struct {
	db *gorm.DB
}

// NewPostgresEntityStore creates a new Postgres entity store
func NewPostgresEntityStore(db *gorm.DB) ports.EntityStore {
	return &PostgresEntityStore{db: db}
}

// InTransaction runs fn inside one transaction. A unique-violation anywhere
// in fn rolls the whole transaction back and surfaces domain.ErrConflict.
func (s *PostgresEntityStore) InTransaction(ctx context.Context, fn func(tx ports.EntityTx) error) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&entityTx{db: tx})
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.ErrConflict
		}
		return err
	}
	return nil
}

// entityTx implements EntityTx over one open gorm transaction
type entityTx struct {
	db *gorm.DB
}

// CustomerByShopifyID retrieves a customer by its upstream id within a tenant
func (t *entityTx) CustomerByShopifyID(ctx context.Context, tenantID, shopifyCustomerID int64) (*domain.Customer, error) {
	var row entity.CustomerRow
	err := t.db.WithContext(ctx).
		Where("shopify_customer_id = ? AND tenant_id = ?", shopifyCustomerID, tenantID).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find customer: %w", err)
	}
	return row.ToDomain(), nil
}

// CreateCustomer inserts a customer and fills its generated id
func (t *entityTx) CreateCustomer(ctx context.Context, customer *domain.Customer) error {
	row := entity.CustomerRowFromDomain(customer)
	if err := t.db.WithContext(ctx).Create(row).Error; err != nil {
		return fmt.Errorf("failed to create customer: %w", err)
	}
	customer.ID = row.ID
	return nil
}

// UpdateCustomer overwrites a customer row by primary key
func (t *entityTx) UpdateCustomer(ctx context.Context, customer *domain.Customer) error {
	row := entity.CustomerRowFromDomain(customer)
	if err := t.db.WithContext(ctx).Save(row).Error; err != nil {
		return fmt.Errorf("failed to update customer: %w", err)
	}
	return nil
}

// ProductByShopifyID retrieves a product by its upstream id within a tenant
func (t *entityTx) ProductByShopifyID(ctx context.Context, tenantID, shopifyProductID int64) (*domain.Product, error) {
	var row entity.ProductRow
	err := t.db.WithContext(ctx).
		Where("shopify_product_id = ? AND tenant_id = ?", shopifyProductID, tenantID).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find product: %w", err)
	}
	return row.ToDomain(), nil
}

// CreateProduct inserts a product and fills its generated id so nested
// variants can link to it immediately
func (t *entityTx) CreateProduct(ctx context.Context, product *domain.Product) error {
	row := entity.ProductRowFromDomain(product)
	if err := t.db.WithContext(ctx).Create(row).Error; err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	product.ID = row.ID
	return nil
}

// UpdateProduct overwrites a product row by primary key
func (t *entityTx) UpdateProduct(ctx context.Context, product *domain.Product) error {
	row := entity.ProductRowFromDomain(product)
	if err := t.db.WithContext(ctx).Save(row).Error; err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}
	return nil
}

// VariantByShopifyID retrieves a variant by its upstream id across all tenants
func (t *entityTx) VariantByShopifyID(ctx context.Context, shopifyVariantID int64) (*domain.ProductVariant, error) {
	var row entity.ProductVariantRow
	err := t.db.WithContext(ctx).
		Where("shopify_variant_id = ?", shopifyVariantID).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find variant: %w", err)
	}
	return row.ToDomain(), nil
}

// VariantByShopifyIDForTenant retrieves a variant by its upstream id, limited
// to variants whose product belongs to the tenant
func (t *entityTx) VariantByShopifyIDForTenant(ctx context.Context, tenantID, shopifyVariantID int64) (*domain.ProductVariant, error) {
	var row entity.ProductVariantRow
	err := t.db.WithContext(ctx).
		Joins("JOIN products ON products.id = product_variants.product_id").
		Where("product_variants.shopify_variant_id = ? AND products.tenant_id = ?", shopifyVariantID, tenantID).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find variant: %w", err)
	}
	return row.ToDomain(), nil
}

// CreateVariant inserts a variant and fills its generated id
func (t *entityTx) CreateVariant(ctx context.Context, variant *domain.ProductVariant) error {
	row := entity.ProductVariantRowFromDomain(variant)
	if err := t.db.WithContext(ctx).Create(row).Error; err != nil {
		return fmt.Errorf("failed to create variant: %w", err)
	}
	variant.ID = row.ID
	return nil
}

// UpdateVariant overwrites a variant row by primary key
func (t *entityTx) UpdateVariant(ctx context.Context, variant *domain.ProductVariant) error {
	row := entity.ProductVariantRowFromDomain(variant)
	if err := t.db.WithContext(ctx).Save(row).Error; err != nil {
		return fmt.Errorf("failed to update variant: %w", err)
	}
	return nil
}

// OrderByShopifyID retrieves an order by its upstream id within a tenant
func (t *entityTx) OrderByShopifyID(ctx context.Context, tenantID, shopifyOrderID int64) (*domain.Order, error) {
	var row entity.OrderRow
	err := t.db.WithContext(ctx).
		Where("shopify_order_id = ? AND tenant_id = ?", shopifyOrderID, tenantID).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find order: %w", err)
	}
	return row.ToDomain(), nil
}

// CreateOrder inserts an order and fills its generated id so line items can
// link to it immediately
func (t *entityTx) CreateOrder(ctx context.Context, order *domain.Order) error {
	row := entity.OrderRowFromDomain(order)
	if err := t.db.WithContext(ctx).Create(row).Error; err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}
	order.ID = row.ID
	return nil
}

// UpdateOrder overwrites an order row by primary key, including clearing the
// customer link when it is nil
func (t *entityTx) UpdateOrder(ctx context.Context, order *domain.Order) error {
	row := entity.OrderRowFromDomain(order)
	if err := t.db.WithContext(ctx).Save(row).Error; err != nil {
		return fmt.Errorf("failed to update order: %w", err)
	}
	return nil
}

// LineItemByOrderAndVariant retrieves a line item by its owning order and
// variant pair
func (t *entityTx) LineItemByOrderAndVariant(ctx context.Context, orderID, variantID int64) (*domain.OrderLineItem, error) {
	var row entity.OrderLineItemRow
	err := t.db.WithContext(ctx).
		Where("order_id = ? AND variant_id = ?", orderID, variantID).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find line item: %w", err)
	}
	return row.ToDomain(), nil
}

// CreateLineItem inserts a line item and fills its generated id
func (t *entityTx) CreateLineItem(ctx context.Context, item *domain.OrderLineItem) error {
	row := entity.OrderLineItemRowFromDomain(item)
	if err := t.db.WithContext(ctx).Create(row).Error; err != nil {
		return fmt.Errorf("failed to create line item: %w", err)
	}
	item.ID = row.ID
	return nil
}

// UpdateLineItem overwrites a line item row by primary key
func (t *entityTx) UpdateLineItem(ctx context.Context, item *domain.OrderLineItem) error {
	row := entity.OrderLineItemRowFromDomain(item)
	if err := t.db.WithContext(ctx).Save(row).Error; err != nil {
		return fmt.Errorf("failed to update line item: %w", err)
	}
	return nil
}
