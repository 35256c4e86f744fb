package application

import (
	"context"

	"shoplytics/internal/domain"
	"shoplytics/internal/ports"

	"github.com/rs/zerolog"
)

// OrderReconciler merges upstream order records and their line items into
// the store
type OrderReconciler struct {
	tenantScopedVariants bool
	logger               zerolog.Logger
}

// NewOrderReconciler creates a new order reconciler
func NewOrderReconciler(logger zerolog.Logger) *OrderReconciler {
	return &OrderReconciler{logger: logger}
}

// NewOrderReconcilerWithOptions creates an order reconciler with variant
// lookups restricted to the ingesting tenant's catalog
func NewOrderReconcilerWithOptions(tenantScopedVariants bool, logger zerolog.Logger) *OrderReconciler {
	return &OrderReconciler{
		tenantScopedVariants: tenantScopedVariants,
		logger:               logger,
	}
}

// Reconcile upserts each order by its upstream id within the tenant and then
// upserts the order's line items. Line items whose variant is not in the
// catalog are skipped. It returns the number of order records processed and
// the number of line items skipped.
func (r *OrderReconciler) Reconcile(ctx context.Context, tx ports.EntityTx, tenantID int64, records []domain.OrderRecord) (int, int, error) {
	r.logger.Debug().
		Int64("tenant_id", tenantID).
		Int("records", len(records)).
		Msg("Reconciling orders")

	skipped := 0
	for _, rec := range records {
		customerID, err := r.resolveCustomer(ctx, tx, tenantID, rec)
		if err != nil {
			return 0, 0, err
		}

		orderID, err := r.reconcileOrder(ctx, tx, tenantID, customerID, rec)
		if err != nil {
			return 0, 0, err
		}

		for _, itemRec := range rec.LineItems {
			ok, err := r.reconcileLineItem(ctx, tx, tenantID, orderID, itemRec)
			if err != nil {
				return 0, 0, err
			}
			if !ok {
				skipped++
			}
		}
	}

	return len(records), skipped, nil
}

// resolveCustomer looks up the order's embedded customer within the tenant.
// It returns nil when the order carries no customer or the customer has not
// been ingested; orders never create customers.
func (r *OrderReconciler) resolveCustomer(ctx context.Context, tx ports.EntityTx, tenantID int64, rec domain.OrderRecord) (*int64, error) {
	if rec.Customer == nil {
		return nil, nil
	}

	customer, err := tx.CustomerByShopifyID(ctx, tenantID, rec.Customer.ID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, nil
	}
	return &customer.ID, nil
}

// reconcileOrder upserts one order and returns its internal id. An update
// overwrites the customer link with the freshly resolved one, clearing it
// when the upstream order no longer carries a known customer.
func (r *OrderReconciler) reconcileOrder(ctx context.Context, tx ports.EntityTx, tenantID int64, customerID *int64, rec domain.OrderRecord) (int64, error) {
	existing, err := tx.OrderByShopifyID(ctx, tenantID, rec.ID)
	if err != nil {
		return 0, err
	}

	if existing != nil {
		existing.TotalPrice = rec.TotalPrice
		existing.Currency = rec.Currency
		existing.CustomerID = customerID
		if err := tx.UpdateOrder(ctx, existing); err != nil {
			return 0, err
		}
		return existing.ID, nil
	}

	order := &domain.Order{
		TenantID:       tenantID,
		ShopifyOrderID: rec.ID,
		CustomerID:     customerID,
		TotalPrice:     rec.TotalPrice,
		Currency:       rec.Currency,
	}
	if err := tx.CreateOrder(ctx, order); err != nil {
		return 0, err
	}
	return order.ID, nil
}

// reconcileLineItem upserts one line item keyed by order and variant. It
// reports false when the variant is unknown and the item was skipped.
func (r *OrderReconciler) reconcileLineItem(ctx context.Context, tx ports.EntityTx, tenantID, orderID int64, rec domain.LineItemRecord) (bool, error) {
	variant, err := r.findVariant(ctx, tx, tenantID, rec.VariantID)
	if err != nil {
		return false, err
	}
	if variant == nil {
		r.logger.Debug().
			Int64("tenant_id", tenantID).
			Int64("shopify_variant_id", rec.VariantID).
			Msg("Skipping line item for unknown variant")
		return false, nil
	}

	existing, err := tx.LineItemByOrderAndVariant(ctx, orderID, variant.ID)
	if err != nil {
		return false, err
	}

	if existing != nil {
		existing.Quantity = rec.Quantity
		existing.Price = rec.Price
		if err := tx.UpdateLineItem(ctx, existing); err != nil {
			return false, err
		}
		return true, nil
	}

	item := &domain.OrderLineItem{
		OrderID:   orderID,
		VariantID: variant.ID,
		Quantity:  rec.Quantity,
		Price:     rec.Price,
	}
	if err := tx.CreateLineItem(ctx, item); err != nil {
		return false, err
	}
	return true, nil
}

func (r *OrderReconciler) findVariant(ctx context.Context, tx ports.EntityTx, tenantID, shopifyVariantID int64) (*domain.ProductVariant, error) {
	if r.tenantScopedVariants {
		return tx.VariantByShopifyIDForTenant(ctx, tenantID, shopifyVariantID)
	}
	return tx.VariantByShopifyID(ctx, shopifyVariantID)
}
