package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// ResourceKind identifies one ingestable Shopify resource.
type ResourceKind string

const (
	ResourceCustomers ResourceKind = "customers"
	ResourceProducts  ResourceKind = "products"
	ResourceOrders    ResourceKind = "orders"
)

// CustomerRecord is the typed shape of one customer in an upstream payload.
type CustomerRecord struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
}

// Validate reports the first missing or malformed field.
func (r CustomerRecord) Validate() error {
	if r.ID == 0 {
		return fmt.Errorf("missing required field %q", "id")
	}
	return nil
}

// VariantRecord is the typed shape of one variant nested in a product payload.
type VariantRecord struct {
	ID         int64           `json:"id"`
	Title      string          `json:"title"`
	Price      decimal.Decimal `json:"price"`
	SKU        string          `json:"sku"`
	Weight     decimal.Decimal `json:"weight"`
	WeightUnit string          `json:"weight_unit"`
}

// Validate reports the first missing or malformed field.
func (r VariantRecord) Validate() error {
	if r.ID == 0 {
		return fmt.Errorf("missing required field %q", "id")
	}
	return nil
}

// ProductRecord is the typed shape of one product in an upstream payload,
// embedding its variants.
type ProductRecord struct {
	ID          int64           `json:"id"`
	Title       string          `json:"title"`
	Vendor      string          `json:"vendor"`
	ProductType string          `json:"product_type"`
	Variants    []VariantRecord `json:"variants"`
}

// Validate reports the first missing or malformed field, including the index
// of an invalid nested variant.
func (r ProductRecord) Validate() error {
	if r.ID == 0 {
		return fmt.Errorf("missing required field %q", "id")
	}
	for i, v := range r.Variants {
		if err := v.Validate(); err != nil {
			return fmt.Errorf("variants[%d]: %w", i, err)
		}
	}
	return nil
}

// LineItemRecord is the typed shape of one line item nested in an order
// payload. It references its variant by the upstream variant id.
type LineItemRecord struct {
	VariantID int64           `json:"variant_id"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}

// Validate reports the first missing or malformed field.
func (r LineItemRecord) Validate() error {
	if r.VariantID == 0 {
		return fmt.Errorf("missing required field %q", "variant_id")
	}
	if r.Quantity < 0 {
		return fmt.Errorf("field %q must not be negative", "quantity")
	}
	return nil
}

// OrderRecord is the typed shape of one order in an upstream payload,
// optionally embedding a customer sub-record and its line items.
type OrderRecord struct {
	ID         int64            `json:"id"`
	TotalPrice decimal.Decimal  `json:"total_price"`
	Currency   string           `json:"currency"`
	Customer   *CustomerRecord  `json:"customer"`
	LineItems  []LineItemRecord `json:"line_items"`
}

// Validate reports the first missing or malformed field, including the path
// to an invalid embedded customer or line item.
func (r OrderRecord) Validate() error {
	if r.ID == 0 {
		return fmt.Errorf("missing required field %q", "id")
	}
	if r.Customer != nil {
		if err := r.Customer.Validate(); err != nil {
			return fmt.Errorf("customer: %w", err)
		}
	}
	for i, li := range r.LineItems {
		if err := li.Validate(); err != nil {
			return fmt.Errorf("line_items[%d]: %w", i, err)
		}
	}
	return nil
}
