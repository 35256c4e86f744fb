package application

import (
	"context"

	"shoplytics/internal/domain"
	"shoplytics/internal/ports"

	"github.com/rs/zerolog"
)

// ProductReconciler merges upstream product records and their nested variants
// into the store
type ProductReconciler struct {
	tenantScopedVariants bool
	logger               zerolog.Logger
}

// NewProductReconciler creates a new product reconciler
func NewProductReconciler(logger zerolog.Logger) *ProductReconciler {
	return &ProductReconciler{logger: logger}
}

// NewProductReconcilerWithOptions creates a product reconciler with variant
// lookups restricted to the ingesting tenant's catalog
func NewProductReconcilerWithOptions(tenantScopedVariants bool, logger zerolog.Logger) *ProductReconciler {
	return &ProductReconciler{
		tenantScopedVariants: tenantScopedVariants,
		logger:               logger,
	}
}

// Reconcile upserts each product by its upstream id within the tenant, then
// upserts the product's variants linked to the resolved product id. It
// returns the number of product records processed.
func (r *ProductReconciler) Reconcile(ctx context.Context, tx ports.EntityTx, tenantID int64, records []domain.ProductRecord) (int, error) {
	r.logger.Debug().
		Int64("tenant_id", tenantID).
		Int("records", len(records)).
		Msg("Reconciling products")

	for _, rec := range records {
		productID, err := r.reconcileProduct(ctx, tx, tenantID, rec)
		if err != nil {
			return 0, err
		}

		for _, variantRec := range rec.Variants {
			if err := r.reconcileVariant(ctx, tx, tenantID, productID, variantRec); err != nil {
				return 0, err
			}
		}
	}

	return len(records), nil
}

// reconcileProduct upserts one product and returns its internal id. Creating
// fills the generated id so nested variants can link to it in the same pass.
func (r *ProductReconciler) reconcileProduct(ctx context.Context, tx ports.EntityTx, tenantID int64, rec domain.ProductRecord) (int64, error) {
	existing, err := tx.ProductByShopifyID(ctx, tenantID, rec.ID)
	if err != nil {
		return 0, err
	}

	if existing != nil {
		existing.Title = rec.Title
		existing.Vendor = rec.Vendor
		existing.ProductType = rec.ProductType
		if err := tx.UpdateProduct(ctx, existing); err != nil {
			return 0, err
		}
		return existing.ID, nil
	}

	product := &domain.Product{
		TenantID:         tenantID,
		ShopifyProductID: rec.ID,
		Title:            rec.Title,
		Vendor:           rec.Vendor,
		ProductType:      rec.ProductType,
	}
	if err := tx.CreateProduct(ctx, product); err != nil {
		return 0, err
	}
	return product.ID, nil
}

// reconcileVariant upserts one variant by its upstream id. An update keeps
// the variant's existing product link; only a create links to productID.
func (r *ProductReconciler) reconcileVariant(ctx context.Context, tx ports.EntityTx, tenantID, productID int64, rec domain.VariantRecord) error {
	existing, err := r.findVariant(ctx, tx, tenantID, rec.ID)
	if err != nil {
		return err
	}

	if existing != nil {
		existing.Title = rec.Title
		existing.Price = rec.Price
		existing.SKU = rec.SKU
		existing.Weight = rec.Weight
		existing.WeightUnit = rec.WeightUnit
		return tx.UpdateVariant(ctx, existing)
	}

	variant := &domain.ProductVariant{
		ProductID:        productID,
		ShopifyVariantID: rec.ID,
		Title:            rec.Title,
		Price:            rec.Price,
		SKU:              rec.SKU,
		Weight:           rec.Weight,
		WeightUnit:       rec.WeightUnit,
	}
	return tx.CreateVariant(ctx, variant)
}

func (r *ProductReconciler) findVariant(ctx context.Context, tx ports.EntityTx, tenantID, shopifyVariantID int64) (*domain.ProductVariant, error) {
	if r.tenantScopedVariants {
		return tx.VariantByShopifyIDForTenant(ctx, tenantID, shopifyVariantID)
	}
	return tx.VariantByShopifyID(ctx, shopifyVariantID)
}
