package entity

import (
	"time"

	"shoplytics/internal/domain"

	"github.com/shopspring/decimal"
)

// CustomerRow represents an ingested customer in Postgres. The upstream
// customer id is unique across tenants.
type CustomerRow struct {
	ID                int64 `gorm:"primaryKey"`
	TenantID          int64 `gorm:"index;not null"`
	ShopifyCustomerID int64 `gorm:"uniqueIndex;not null"`
	FirstName         string
	LastName          string
	Email             string
	Phone             string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

func (CustomerRow) TableName() string {
	return "customers"
}

func (r *CustomerRow) ToDomain() *domain.Customer {
	return &domain.Customer{
		ID:                r.ID,
		TenantID:          r.TenantID,
		ShopifyCustomerID: r.ShopifyCustomerID,
		FirstName:         r.FirstName,
		LastName:          r.LastName,
		Email:             r.Email,
		Phone:             r.Phone,
		CreatedAt:         r.CreatedAt,
		UpdatedAt:         r.UpdatedAt,
	}
}

func CustomerRowFromDomain(customer *domain.Customer) *CustomerRow {
	return &CustomerRow{
		ID:                customer.ID,
		TenantID:          customer.TenantID,
		ShopifyCustomerID: customer.ShopifyCustomerID,
		FirstName:         customer.FirstName,
		LastName:          customer.LastName,
		Email:             customer.Email,
		Phone:             customer.Phone,
		CreatedAt:         customer.CreatedAt,
		UpdatedAt:         customer.UpdatedAt,
	}
}

// ProductRow represents an ingested product in Postgres.
type ProductRow struct {
	ID               int64 `gorm:"primaryKey"`
	TenantID         int64 `gorm:"index;not null"`
	ShopifyProductID int64 `gorm:"uniqueIndex;not null"`
	Title            string
	Vendor           string
	ProductType      string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (ProductRow) TableName() string {
	return "products"
}

func (r *ProductRow) ToDomain() *domain.Product {
	return &domain.Product{
		ID:               r.ID,
		TenantID:         r.TenantID,
		ShopifyProductID: r.ShopifyProductID,
		Title:            r.Title,
		Vendor:           r.Vendor,
		ProductType:      r.ProductType,
		CreatedAt:        r.CreatedAt,
		UpdatedAt:        r.UpdatedAt,
	}
}

func ProductRowFromDomain(product *domain.Product) *ProductRow {
	return &ProductRow{
		ID:               product.ID,
		TenantID:         product.TenantID,
		ShopifyProductID: product.ShopifyProductID,
		Title:            product.Title,
		Vendor:           product.Vendor,
		ProductType:      product.ProductType,
		CreatedAt:        product.CreatedAt,
		UpdatedAt:        product.UpdatedAt,
	}
}

// ProductVariantRow represents an ingested product variant in Postgres. The
// upstream variant id is unique across the whole table.
type ProductVariantRow struct {
	ID               int64 `gorm:"primaryKey"`
	ProductID        int64 `gorm:"index;not null"`
	ShopifyVariantID int64 `gorm:"uniqueIndex;not null"`
	Title            string
	Price            decimal.Decimal `gorm:"type:decimal(10,2)"`
	SKU              string
	Weight           decimal.Decimal `gorm:"type:decimal(10,2)"`
	WeightUnit       string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (ProductVariantRow) TableName() string {
	return "product_variants"
}

func (r *ProductVariantRow) ToDomain() *domain.ProductVariant {
	return &domain.ProductVariant{
		ID:               r.ID,
		ProductID:        r.ProductID,
		ShopifyVariantID: r.ShopifyVariantID,
		Title:            r.Title,
		Price:            r.Price,
		SKU:              r.SKU,
		Weight:           r.Weight,
		WeightUnit:       r.WeightUnit,
		CreatedAt:        r.CreatedAt,
		UpdatedAt:        r.UpdatedAt,
	}
}

func ProductVariantRowFromDomain(variant *domain.ProductVariant) *ProductVariantRow {
	return &ProductVariantRow{
		ID:               variant.ID,
		ProductID:        variant.ProductID,
		ShopifyVariantID: variant.ShopifyVariantID,
		Title:            variant.Title,
		Price:            variant.Price,
		SKU:              variant.SKU,
		Weight:           variant.Weight,
		WeightUnit:       variant.WeightUnit,
		CreatedAt:        variant.CreatedAt,
		UpdatedAt:        variant.UpdatedAt,
	}
}

// OrderRow represents an ingested order in Postgres. The upstream order id is
// unique per tenant, and the customer link is nullable.
type OrderRow struct {
	ID             int64           `gorm:"primaryKey"`
	TenantID       int64           `gorm:"index;uniqueIndex:idx_orders_tenant_shopify_order;not null"`
	CustomerID     *int64          `gorm:"index"`
	ShopifyOrderID int64           `gorm:"uniqueIndex:idx_orders_tenant_shopify_order;not null"`
	TotalPrice     decimal.Decimal `gorm:"type:decimal(10,2)"`
	Currency       string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (OrderRow) TableName() string {
	return "orders"
}

func (r *OrderRow) ToDomain() *domain.Order {
	return &domain.Order{
		ID:             r.ID,
		TenantID:       r.TenantID,
		CustomerID:     r.CustomerID,
		ShopifyOrderID: r.ShopifyOrderID,
		TotalPrice:     r.TotalPrice,
		Currency:       r.Currency,
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	}
}

func OrderRowFromDomain(order *domain.Order) *OrderRow {
	return &OrderRow{
		ID:             order.ID,
		TenantID:       order.TenantID,
		CustomerID:     order.CustomerID,
		ShopifyOrderID: order.ShopifyOrderID,
		TotalPrice:     order.TotalPrice,
		Currency:       order.Currency,
		CreatedAt:      order.CreatedAt,
		UpdatedAt:      order.UpdatedAt,
	}
}

// OrderLineItemRow represents one order line item in Postgres. A variant
// appears at most once per order.
type OrderLineItemRow struct {
	ID        int64 `gorm:"primaryKey"`
	OrderID   int64 `gorm:"index;uniqueIndex:idx_line_items_order_variant;not null"`
	VariantID int64 `gorm:"uniqueIndex:idx_line_items_order_variant;not null"`
	Quantity  int
	Price     decimal.Decimal `gorm:"type:decimal(10,2)"`
	CreatedAt time.Time
}

func (OrderLineItemRow) TableName() string {
	return "order_line_items"
}

func (r *OrderLineItemRow) ToDomain() *domain.OrderLineItem {
	return &domain.OrderLineItem{
		ID:        r.ID,
		OrderID:   r.OrderID,
		VariantID: r.VariantID,
		Quantity:  r.Quantity,
		Price:     r.Price,
		CreatedAt: r.CreatedAt,
	}
}

func OrderLineItemRowFromDomain(item *domain.OrderLineItem) *OrderLineItemRow {
	return &OrderLineItemRow{
		ID:        item.ID,
		OrderID:   item.OrderID,
		VariantID: item.VariantID,
		Quantity:  item.Quantity,
		Price:     item.Price,
		CreatedAt: item.CreatedAt,
	}
}
