package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Customer belongs to exactly one tenant. The Shopify customer id is unique
// across all tenants (store-level constraint).
type Customer struct {
	ID                int64     `json:"id"`
	TenantID          int64     `json:"tenant_id"`
	ShopifyCustomerID int64     `json:"shopify_customer_id"`
	FirstName         string    `json:"first_name"`
	LastName          string    `json:"last_name"`
	Email             string    `json:"email"`
	Phone             string    `json:"phone"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// Product belongs to exactly one tenant and owns an ordered collection of
// variants. The Shopify product id is unique across all tenants.
type Product struct {
	ID               int64     `json:"id"`
	TenantID         int64     `json:"tenant_id"`
	ShopifyProductID int64     `json:"shopify_product_id"`
	Title            string    `json:"title"`
	Vendor           string    `json:"vendor"`
	ProductType      string    `json:"product_type"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// ProductVariant belongs to exactly one product (and transitively one tenant).
// Price and weight are fixed-point decimals; float would drift across repeated
// upserts.
type ProductVariant struct {
	ID               int64           `json:"id"`
	ProductID        int64           `json:"product_id"`
	ShopifyVariantID int64           `json:"shopify_variant_id"`
	Title            string          `json:"title"`
	Price            decimal.Decimal `json:"price"`
	SKU              string          `json:"sku"`
	Weight           decimal.Decimal `json:"weight"`
	WeightUnit       string          `json:"weight_unit"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// Order belongs to exactly one tenant and optionally references one customer.
// CustomerID stays nil when the order arrived without a resolvable customer.
// The Shopify order id is unique per tenant, not globally.
type Order struct {
	ID             int64           `json:"id"`
	TenantID       int64           `json:"tenant_id"`
	CustomerID     *int64          `json:"customer_id"`
	ShopifyOrderID int64           `json:"shopify_order_id"`
	TotalPrice     decimal.Decimal `json:"total_price"`
	Currency       string          `json:"currency"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// OrderLineItem links an order to a product variant. At most one line item
// exists per (order, variant) pair; repeated ingestion updates quantity and
// price in place.
type OrderLineItem struct {
	ID        int64           `json:"id"`
	OrderID   int64           `json:"order_id"`
	VariantID int64           `json:"variant_id"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	CreatedAt time.Time       `json:"created_at"`
}
