package application

import (
	"context"
	"testing"

	"shoplytics/internal/domain"
	"shoplytics/internal/ports"

	"github.com/rs/zerolog"
)

// memStore is an in-memory ports.EntityStore for tests. InTransaction stages
// all writes on a copy and only swaps it in when fn succeeds, mirroring the
// commit and rollback behavior of the real store.
type memStore struct {
	data memData
}

type memData struct {
	lastID    int64
	customers []domain.Customer
	products  []domain.Product
	variants  []domain.ProductVariant
	orders    []domain.Order
	lineItems []domain.OrderLineItem
}

func newMemStore() *memStore {
	return &memStore{}
}

func (s *memStore) InTransaction(ctx context.Context, fn func(tx ports.EntityTx) error) error {
	staged := s.data.clone()
	if err := fn(&memTx{data: &staged}); err != nil {
		return err
	}
	s.data = staged
	return nil
}

func (d memData) clone() memData {
	out := d
	out.customers = append([]domain.Customer(nil), d.customers...)
	out.products = append([]domain.Product(nil), d.products...)
	out.variants = append([]domain.ProductVariant(nil), d.variants...)
	out.orders = append([]domain.Order(nil), d.orders...)
	out.lineItems = append([]domain.OrderLineItem(nil), d.lineItems...)
	return out
}

// memTx enforces the same uniqueness rules as the database schema and hands
// out copies so callers never mutate stored rows in place.
type memTx struct {
	data *memData
}

func (t *memTx) allocID() int64 {
	t.data.lastID++
	return t.data.lastID
}

func (t *memTx) CustomerByShopifyID(ctx context.Context, tenantID int64, shopifyCustomerID int64) (*domain.Customer, error) {
	for _, c := range t.data.customers {
		if c.TenantID == tenantID && c.ShopifyCustomerID == shopifyCustomerID {
			found := c
			return &found, nil
		}
	}
	return nil, nil
}

func (t *memTx) CreateCustomer(ctx context.Context, customer *domain.Customer) error {
	for _, c := range t.data.customers {
		if c.ShopifyCustomerID == customer.ShopifyCustomerID {
			return domain.ErrConflict
		}
	}
	customer.ID = t.allocID()
	t.data.customers = append(t.data.customers, *customer)
	return nil
}

func (t *memTx) UpdateCustomer(ctx context.Context, customer *domain.Customer) error {
	for i, c := range t.data.customers {
		if c.ID == customer.ID {
			t.data.customers[i] = *customer
			return nil
		}
	}
	return nil
}

func (t *memTx) ProductByShopifyID(ctx context.Context, tenantID int64, shopifyProductID int64) (*domain.Product, error) {
	for _, p := range t.data.products {
		if p.TenantID == tenantID && p.ShopifyProductID == shopifyProductID {
			found := p
			return &found, nil
		}
	}
	return nil, nil
}

func (t *memTx) CreateProduct(ctx context.Context, product *domain.Product) error {
	for _, p := range t.data.products {
		if p.ShopifyProductID == product.ShopifyProductID {
			return domain.ErrConflict
		}
	}
	product.ID = t.allocID()
	t.data.products = append(t.data.products, *product)
	return nil
}

func (t *memTx) UpdateProduct(ctx context.Context, product *domain.Product) error {
	for i, p := range t.data.products {
		if p.ID == product.ID {
			t.data.products[i] = *product
			return nil
		}
	}
	return nil
}

func (t *memTx) VariantByShopifyID(ctx context.Context, shopifyVariantID int64) (*domain.ProductVariant, error) {
	for _, v := range t.data.variants {
		if v.ShopifyVariantID == shopifyVariantID {
			found := v
			return &found, nil
		}
	}
	return nil, nil
}

func (t *memTx) VariantByShopifyIDForTenant(ctx context.Context, tenantID int64, shopifyVariantID int64) (*domain.ProductVariant, error) {
	for _, v := range t.data.variants {
		if v.ShopifyVariantID != shopifyVariantID {
			continue
		}
		for _, p := range t.data.products {
			if p.ID == v.ProductID && p.TenantID == tenantID {
				found := v
				return &found, nil
			}
		}
	}
	return nil, nil
}

func (t *memTx) CreateVariant(ctx context.Context, variant *domain.ProductVariant) error {
	for _, v := range t.data.variants {
		if v.ShopifyVariantID == variant.ShopifyVariantID {
			return domain.ErrConflict
		}
	}
	variant.ID = t.allocID()
	t.data.variants = append(t.data.variants, *variant)
	return nil
}

func (t *memTx) UpdateVariant(ctx context.Context, variant *domain.ProductVariant) error {
	for i, v := range t.data.variants {
		if v.ID == variant.ID {
			t.data.variants[i] = *variant
			return nil
		}
	}
	return nil
}

func (t *memTx) OrderByShopifyID(ctx context.Context, tenantID int64, shopifyOrderID int64) (*domain.Order, error) {
	for _, o := range t.data.orders {
		if o.TenantID == tenantID && o.ShopifyOrderID == shopifyOrderID {
			found := o
			return &found, nil
		}
	}
	return nil, nil
}

func (t *memTx) CreateOrder(ctx context.Context, order *domain.Order) error {
	for _, o := range t.data.orders {
		if o.TenantID == order.TenantID && o.ShopifyOrderID == order.ShopifyOrderID {
			return domain.ErrConflict
		}
	}
	order.ID = t.allocID()
	t.data.orders = append(t.data.orders, *order)
	return nil
}

func (t *memTx) UpdateOrder(ctx context.Context, order *domain.Order) error {
	for i, o := range t.data.orders {
		if o.ID == order.ID {
			t.data.orders[i] = *order
			return nil
		}
	}
	return nil
}

func (t *memTx) LineItemByOrderAndVariant(ctx context.Context, orderID int64, variantID int64) (*domain.OrderLineItem, error) {
	for _, li := range t.data.lineItems {
		if li.OrderID == orderID && li.VariantID == variantID {
			found := li
			return &found, nil
		}
	}
	return nil, nil
}

func (t *memTx) CreateLineItem(ctx context.Context, item *domain.OrderLineItem) error {
	for _, li := range t.data.lineItems {
		if li.OrderID == item.OrderID && li.VariantID == item.VariantID {
			return domain.ErrConflict
		}
	}
	item.ID = t.allocID()
	t.data.lineItems = append(t.data.lineItems, *item)
	return nil
}

func (t *memTx) UpdateLineItem(ctx context.Context, item *domain.OrderLineItem) error {
	for i, li := range t.data.lineItems {
		if li.ID == item.ID {
			t.data.lineItems[i] = *item
			return nil
		}
	}
	return nil
}

func mustReconcileCustomers(t *testing.T, store *memStore, tenantID int64, records []domain.CustomerRecord) int {
	t.Helper()
	r := NewCustomerReconciler(zerolog.Nop())
	var processed int
	err := store.InTransaction(context.Background(), func(tx ports.EntityTx) error {
		var err error
		processed, err = r.Reconcile(context.Background(), tx, tenantID, records)
		return err
	})
	if err != nil {
		t.Fatalf("reconcile customers: %v", err)
	}
	return processed
}

func mustReconcileProducts(t *testing.T, store *memStore, tenantID int64, records []domain.ProductRecord) int {
	t.Helper()
	r := NewProductReconciler(zerolog.Nop())
	var processed int
	err := store.InTransaction(context.Background(), func(tx ports.EntityTx) error {
		var err error
		processed, err = r.Reconcile(context.Background(), tx, tenantID, records)
		return err
	})
	if err != nil {
		t.Fatalf("reconcile products: %v", err)
	}
	return processed
}

func mustReconcileOrders(t *testing.T, store *memStore, tenantID int64, records []domain.OrderRecord) (int, int) {
	t.Helper()
	r := NewOrderReconciler(zerolog.Nop())
	var processed, skipped int
	err := store.InTransaction(context.Background(), func(tx ports.EntityTx) error {
		var err error
		processed, skipped, err = r.Reconcile(context.Background(), tx, tenantID, records)
		return err
	})
	if err != nil {
		t.Fatalf("reconcile orders: %v", err)
	}
	return processed, skipped
}
