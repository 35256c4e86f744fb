package application

import (
	"context"

	"shoplytics/internal/domain"
	"shoplytics/internal/ports"

	"github.com/rs/zerolog"
)

// CustomerReconciler merges upstream customer records into the store
type CustomerReconciler struct {
	logger zerolog.Logger
}

// NewCustomerReconciler creates a new customer reconciler
func NewCustomerReconciler(logger zerolog.Logger) *CustomerReconciler {
	return &CustomerReconciler{logger: logger}
}

// Reconcile upserts each record by its upstream id within the tenant,
// overwriting contact fields in place. It returns the number of records
// processed.
func (r *CustomerReconciler) Reconcile(ctx context.Context, tx ports.EntityTx, tenantID int64, records []domain.CustomerRecord) (int, error) {
	r.logger.Debug().
		Int64("tenant_id", tenantID).
		Int("records", len(records)).
		Msg("Reconciling customers")

	for _, rec := range records {
		existing, err := tx.CustomerByShopifyID(ctx, tenantID, rec.ID)
		if err != nil {
			return 0, err
		}

		if existing != nil {
			existing.FirstName = rec.FirstName
			existing.LastName = rec.LastName
			existing.Email = rec.Email
			existing.Phone = rec.Phone
			if err := tx.UpdateCustomer(ctx, existing); err != nil {
				return 0, err
			}
			continue
		}

		customer := &domain.Customer{
			TenantID:          tenantID,
			ShopifyCustomerID: rec.ID,
			FirstName:         rec.FirstName,
			LastName:          rec.LastName,
			Email:             rec.Email,
			Phone:             rec.Phone,
		}
		if err := tx.CreateCustomer(ctx, customer); err != nil {
			return 0, err
		}
	}

	return len(records), nil
}
