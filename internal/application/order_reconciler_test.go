package application

import (
	"testing"

	"shoplytics/internal/domain"

	"github.com/shopspring/decimal"
)

func seedCatalog(t *testing.T, store *memStore, tenantID int64) {
	t.Helper()
	mustReconcileCustomers(t, store, tenantID, []domain.CustomerRecord{
		{ID: 101, FirstName: "Ada", Email: "ada@example.com"},
	})
	mustReconcileProducts(t, store, tenantID, []domain.ProductRecord{
		{
			ID:    500,
			Title: "Canvas Tote",
			Variants: []domain.VariantRecord{
				{ID: 900, Title: "Small", Price: decimal.RequireFromString("19.99")},
				{ID: 901, Title: "Large", Price: decimal.RequireFromString("24.99")},
			},
		},
	})
}

func TestOrderReconciler_CreatesOrderWithLineItems(t *testing.T) {
	store := newMemStore()
	seedCatalog(t, store, 1)

	processed, skipped := mustReconcileOrders(t, store, 1, []domain.OrderRecord{
		{
			ID:         7001,
			TotalPrice: decimal.RequireFromString("44.98"),
			Currency:   "USD",
			Customer:   &domain.CustomerRecord{ID: 101},
			LineItems: []domain.LineItemRecord{
				{VariantID: 900, Quantity: 1, Price: decimal.RequireFromString("19.99")},
				{VariantID: 901, Quantity: 1, Price: decimal.RequireFromString("24.99")},
			},
		},
	})

	if processed != 1 || skipped != 0 {
		t.Fatalf("expected 1 processed and 0 skipped, got %d and %d", processed, skipped)
	}
	if len(store.data.orders) != 1 || len(store.data.lineItems) != 2 {
		t.Fatalf("expected 1 order and 2 line items, got %d and %d",
			len(store.data.orders), len(store.data.lineItems))
	}

	order := store.data.orders[0]
	if order.CustomerID == nil {
		t.Fatal("expected order linked to ingested customer")
	}
	if !order.TotalPrice.Equal(decimal.RequireFromString("44.98")) {
		t.Fatalf("expected total 44.98, got %s", order.TotalPrice)
	}
	for _, li := range store.data.lineItems {
		if li.OrderID != order.ID {
			t.Fatalf("expected line item linked to order %d, got %d", order.ID, li.OrderID)
		}
	}
}

func TestOrderReconciler_UnknownCustomerLeavesLinkNil(t *testing.T) {
	store := newMemStore()
	seedCatalog(t, store, 1)

	mustReconcileOrders(t, store, 1, []domain.OrderRecord{
		{ID: 7001, TotalPrice: decimal.RequireFromString("10.00"), Currency: "USD", Customer: &domain.CustomerRecord{ID: 999}},
		{ID: 7002, TotalPrice: decimal.RequireFromString("12.00"), Currency: "USD"},
	})

	if len(store.data.orders) != 2 {
		t.Fatalf("expected 2 orders, got %d", len(store.data.orders))
	}
	for _, o := range store.data.orders {
		if o.CustomerID != nil {
			t.Fatalf("expected nil customer link on order %d, got %v", o.ShopifyOrderID, *o.CustomerID)
		}
	}
}

func TestOrderReconciler_UpdateOverwritesCustomerLink(t *testing.T) {
	store := newMemStore()
	seedCatalog(t, store, 1)

	mustReconcileOrders(t, store, 1, []domain.OrderRecord{
		{ID: 7001, TotalPrice: decimal.RequireFromString("10.00"), Currency: "USD", Customer: &domain.CustomerRecord{ID: 101}},
	})
	if store.data.orders[0].CustomerID == nil {
		t.Fatal("expected initial ingestion to link the customer")
	}

	// The upstream order no longer carries a resolvable customer.
	mustReconcileOrders(t, store, 1, []domain.OrderRecord{
		{ID: 7001, TotalPrice: decimal.RequireFromString("10.00"), Currency: "USD"},
	})

	if len(store.data.orders) != 1 {
		t.Fatalf("expected 1 order, got %d", len(store.data.orders))
	}
	if store.data.orders[0].CustomerID != nil {
		t.Fatal("expected re-ingestion to clear the customer link")
	}
}

func TestOrderReconciler_SkipsLineItemsForUnknownVariants(t *testing.T) {
	store := newMemStore()
	seedCatalog(t, store, 1)

	processed, skipped := mustReconcileOrders(t, store, 1, []domain.OrderRecord{
		{
			ID:         7001,
			TotalPrice: decimal.RequireFromString("30.00"),
			Currency:   "USD",
			LineItems: []domain.LineItemRecord{
				{VariantID: 900, Quantity: 1, Price: decimal.RequireFromString("19.99")},
				{VariantID: 777, Quantity: 2, Price: decimal.RequireFromString("5.00")},
			},
		},
	})

	if processed != 1 {
		t.Fatalf("expected 1 processed, got %d", processed)
	}
	if skipped != 1 {
		t.Fatalf("expected 1 skipped line item, got %d", skipped)
	}
	if len(store.data.lineItems) != 1 {
		t.Fatalf("expected only the resolvable line item stored, got %d", len(store.data.lineItems))
	}
	if len(store.data.orders) != 1 {
		t.Fatalf("expected the order itself stored, got %d orders", len(store.data.orders))
	}
}

func TestOrderReconciler_SkippedItemsResolveAfterCatalogIngest(t *testing.T) {
	store := newMemStore()

	orders := []domain.OrderRecord{
		{
			ID:         7001,
			TotalPrice: decimal.RequireFromString("19.99"),
			Currency:   "USD",
			LineItems:  []domain.LineItemRecord{{VariantID: 900, Quantity: 1, Price: decimal.RequireFromString("19.99")}},
		},
	}

	_, skipped := mustReconcileOrders(t, store, 1, orders)
	if skipped != 1 {
		t.Fatalf("expected line item skipped before catalog ingestion, got %d", skipped)
	}

	mustReconcileProducts(t, store, 1, []domain.ProductRecord{
		{ID: 500, Title: "Canvas Tote", Variants: []domain.VariantRecord{{ID: 900, Title: "Small"}}},
	})

	_, skipped = mustReconcileOrders(t, store, 1, orders)
	if skipped != 0 {
		t.Fatalf("expected no skips after catalog ingestion, got %d", skipped)
	}
	if len(store.data.lineItems) != 1 {
		t.Fatalf("expected the skipped line item backfilled, got %d", len(store.data.lineItems))
	}
	if len(store.data.orders) != 1 {
		t.Fatalf("expected the order upserted in place, got %d", len(store.data.orders))
	}
}

func TestOrderReconciler_UpdatesLineItemInPlace(t *testing.T) {
	store := newMemStore()
	seedCatalog(t, store, 1)

	mustReconcileOrders(t, store, 1, []domain.OrderRecord{
		{
			ID:         7001,
			TotalPrice: decimal.RequireFromString("19.99"),
			Currency:   "USD",
			LineItems:  []domain.LineItemRecord{{VariantID: 900, Quantity: 1, Price: decimal.RequireFromString("19.99")}},
		},
	})
	itemID := store.data.lineItems[0].ID

	mustReconcileOrders(t, store, 1, []domain.OrderRecord{
		{
			ID:         7001,
			TotalPrice: decimal.RequireFromString("59.97"),
			Currency:   "USD",
			LineItems:  []domain.LineItemRecord{{VariantID: 900, Quantity: 3, Price: decimal.RequireFromString("19.99")}},
		},
	})

	if len(store.data.lineItems) != 1 {
		t.Fatalf("expected 1 line item after re-ingestion, got %d", len(store.data.lineItems))
	}
	item := store.data.lineItems[0]
	if item.ID != itemID {
		t.Fatalf("expected line item id %d to be stable, got %d", itemID, item.ID)
	}
	if item.Quantity != 3 {
		t.Fatalf("expected quantity updated to 3, got %d", item.Quantity)
	}
	if !store.data.orders[0].TotalPrice.Equal(decimal.RequireFromString("59.97")) {
		t.Fatalf("expected order total updated, got %s", store.data.orders[0].TotalPrice)
	}
}

func TestOrderReconciler_SameOrderIDAcrossTenants(t *testing.T) {
	store := newMemStore()

	mustReconcileOrders(t, store, 1, []domain.OrderRecord{
		{ID: 7001, TotalPrice: decimal.RequireFromString("10.00"), Currency: "USD"},
	})
	mustReconcileOrders(t, store, 2, []domain.OrderRecord{
		{ID: 7001, TotalPrice: decimal.RequireFromString("20.00"), Currency: "EUR"},
	})

	if len(store.data.orders) != 2 {
		t.Fatalf("expected one order per tenant, got %d", len(store.data.orders))
	}
}
