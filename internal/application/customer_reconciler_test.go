package application

import (
	"context"
	"errors"
	"testing"

	"shoplytics/internal/domain"
	"shoplytics/internal/ports"

	"github.com/rs/zerolog"
)

func TestCustomerReconciler_CreatesNewCustomers(t *testing.T) {
	store := newMemStore()

	processed := mustReconcileCustomers(t, store, 1, []domain.CustomerRecord{
		{ID: 101, FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com", Phone: "+1-555-0100"},
		{ID: 102, FirstName: "Alan", LastName: "Turing", Email: "alan@example.com"},
	})

	if processed != 2 {
		t.Fatalf("expected 2 processed, got %d", processed)
	}
	if len(store.data.customers) != 2 {
		t.Fatalf("expected 2 customers stored, got %d", len(store.data.customers))
	}
	first := store.data.customers[0]
	if first.TenantID != 1 || first.ShopifyCustomerID != 101 {
		t.Fatalf("unexpected first customer: %+v", first)
	}
	if first.Email != "ada@example.com" || first.Phone != "+1-555-0100" {
		t.Fatalf("unexpected first customer contact fields: %+v", first)
	}
	if first.ID == 0 {
		t.Fatal("expected generated customer id")
	}
}

func TestCustomerReconciler_UpdatesExistingInPlace(t *testing.T) {
	store := newMemStore()

	mustReconcileCustomers(t, store, 1, []domain.CustomerRecord{
		{ID: 101, FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com"},
	})
	originalID := store.data.customers[0].ID

	processed := mustReconcileCustomers(t, store, 1, []domain.CustomerRecord{
		{ID: 101, FirstName: "Ada", LastName: "King", Email: "ada.king@example.com"},
	})

	if processed != 1 {
		t.Fatalf("expected 1 processed, got %d", processed)
	}
	if len(store.data.customers) != 1 {
		t.Fatalf("expected 1 customer after re-ingestion, got %d", len(store.data.customers))
	}
	updated := store.data.customers[0]
	if updated.ID != originalID {
		t.Fatalf("expected customer id %d to be stable, got %d", originalID, updated.ID)
	}
	if updated.LastName != "King" || updated.Email != "ada.king@example.com" {
		t.Fatalf("expected contact fields overwritten, got %+v", updated)
	}
}

func TestCustomerReconciler_MixedNewAndExisting(t *testing.T) {
	store := newMemStore()

	mustReconcileCustomers(t, store, 1, []domain.CustomerRecord{
		{ID: 101, FirstName: "Ada", Email: "ada@example.com"},
	})

	processed := mustReconcileCustomers(t, store, 1, []domain.CustomerRecord{
		{ID: 101, FirstName: "Ada", Email: "ada@new.example.com"},
		{ID: 102, FirstName: "Grace", Email: "grace@example.com"},
	})

	if processed != 2 {
		t.Fatalf("expected 2 processed, got %d", processed)
	}
	if len(store.data.customers) != 2 {
		t.Fatalf("expected 2 customers, got %d", len(store.data.customers))
	}
	if store.data.customers[0].Email != "ada@new.example.com" {
		t.Fatalf("expected existing customer updated, got %+v", store.data.customers[0])
	}
}

func TestCustomerReconciler_SameShopifyIDAcrossTenantsConflicts(t *testing.T) {
	store := newMemStore()

	mustReconcileCustomers(t, store, 1, []domain.CustomerRecord{
		{ID: 101, FirstName: "Ada"},
	})

	r := NewCustomerReconciler(zerolog.Nop())
	err := store.InTransaction(context.Background(), func(tx ports.EntityTx) error {
		_, err := r.Reconcile(context.Background(), tx, 2, []domain.CustomerRecord{{ID: 101, FirstName: "Imposter"}})
		return err
	})
	if !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
	if len(store.data.customers) != 1 {
		t.Fatalf("expected rollback to leave 1 customer, got %d", len(store.data.customers))
	}
	if store.data.customers[0].FirstName != "Ada" {
		t.Fatalf("expected original row untouched, got %+v", store.data.customers[0])
	}
}
