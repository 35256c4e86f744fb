package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"shoplytics/internal/domain"
	"shoplytics/internal/ports"

	"github.com/rs/zerolog"
)

// IngestionResult summarizes one ingestion call
type IngestionResult struct {
	Processed        int `json:"processed"`
	SkippedLineItems int `json:"skipped_line_items,omitempty"`
}

// IngestionService pulls a tenant's data from the upstream API and reconciles
// it into the store, one transaction per call
type IngestionService struct {
	tenants   ports.TenantRepository
	store     ports.EntityStore
	source    ports.SourceClient
	crypto    ports.EncryptionService
	metrics   ports.IngestionMetrics
	customers *CustomerReconciler
	products  *ProductReconciler
	orders    *OrderReconciler
	logger    zerolog.Logger
}

// NewIngestionService creates a new ingestion service
func NewIngestionService(
	tenants ports.TenantRepository,
	store ports.EntityStore,
	source ports.SourceClient,
	crypto ports.EncryptionService,
	metrics ports.IngestionMetrics,
	logger zerolog.Logger,
) *IngestionService {
	return NewIngestionServiceWithOptions(tenants, store, source, crypto, metrics, false, logger)
}

// NewIngestionServiceWithOptions creates an ingestion service with variant
// lookups restricted to the ingesting tenant's catalog
func NewIngestionServiceWithOptions(
	tenants ports.TenantRepository,
	store ports.EntityStore,
	source ports.SourceClient,
	crypto ports.EncryptionService,
	metrics ports.IngestionMetrics,
	tenantScopedVariants bool,
	logger zerolog.Logger,
) *IngestionService {
	return &IngestionService{
		tenants:   tenants,
		store:     store,
		source:    source,
		crypto:    crypto,
		metrics:   metrics,
		customers: NewCustomerReconciler(logger),
		products:  NewProductReconcilerWithOptions(tenantScopedVariants, logger),
		orders:    NewOrderReconcilerWithOptions(tenantScopedVariants, logger),
		logger:    logger,
	}
}

// IngestCustomers fetches all customers for the tenant and upserts them
func (s *IngestionService) IngestCustomers(ctx context.Context, tenantID int64) (*IngestionResult, error) {
	start := time.Now()

	tenant, accessToken, err := s.loadTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	records, err := s.source.FetchCustomers(ctx, tenant.ShopName, accessToken)
	if err != nil {
		s.metrics.IncUpstreamFailures(domain.ResourceCustomers)
		return nil, err
	}

	var processed int
	err = s.store.InTransaction(ctx, func(tx ports.EntityTx) error {
		var reconcileErr error
		processed, reconcileErr = s.customers.Reconcile(ctx, tx, tenantID, records)
		return reconcileErr
	})
	if err != nil {
		return nil, s.reportFailure(domain.ResourceCustomers, tenantID, err)
	}

	s.finish(domain.ResourceCustomers, tenantID, processed, start)
	return &IngestionResult{Processed: processed}, nil
}

// IngestProducts fetches all products for the tenant and upserts them together
// with their variants
func (s *IngestionService) IngestProducts(ctx context.Context, tenantID int64) (*IngestionResult, error) {
	start := time.Now()

	tenant, accessToken, err := s.loadTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	records, err := s.source.FetchProducts(ctx, tenant.ShopName, accessToken)
	if err != nil {
		s.metrics.IncUpstreamFailures(domain.ResourceProducts)
		return nil, err
	}

	var processed int
	err = s.store.InTransaction(ctx, func(tx ports.EntityTx) error {
		var reconcileErr error
		processed, reconcileErr = s.products.Reconcile(ctx, tx, tenantID, records)
		return reconcileErr
	})
	if err != nil {
		return nil, s.reportFailure(domain.ResourceProducts, tenantID, err)
	}

	s.finish(domain.ResourceProducts, tenantID, processed, start)
	return &IngestionResult{Processed: processed}, nil
}

// IngestOrders fetches all orders for the tenant and upserts them together
// with their line items
func (s *IngestionService) IngestOrders(ctx context.Context, tenantID int64) (*IngestionResult, error) {
	start := time.Now()

	tenant, accessToken, err := s.loadTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	records, err := s.source.FetchOrders(ctx, tenant.ShopName, accessToken)
	if err != nil {
		s.metrics.IncUpstreamFailures(domain.ResourceOrders)
		return nil, err
	}

	var processed, skipped int
	err = s.store.InTransaction(ctx, func(tx ports.EntityTx) error {
		var reconcileErr error
		processed, skipped, reconcileErr = s.orders.Reconcile(ctx, tx, tenantID, records)
		return reconcileErr
	})
	if err != nil {
		return nil, s.reportFailure(domain.ResourceOrders, tenantID, err)
	}

	if skipped > 0 {
		s.metrics.IncSkippedLineItems(skipped)
	}
	s.finish(domain.ResourceOrders, tenantID, processed, start)
	return &IngestionResult{Processed: processed, SkippedLineItems: skipped}, nil
}

// loadTenant resolves the tenant and decrypts its stored access token
func (s *IngestionService) loadTenant(ctx context.Context, tenantID int64) (*domain.Tenant, string, error) {
	tenant, err := s.tenants.FindByID(ctx, tenantID)
	if err != nil {
		return nil, "", fmt.Errorf("failed to load tenant: %w", err)
	}
	if tenant == nil {
		return nil, "", domain.ErrTenantNotFound
	}

	accessToken, err := s.crypto.Decrypt(tenant.AccessTokenCipher)
	if err != nil {
		return nil, "", fmt.Errorf("failed to decrypt access token: %w", err)
	}
	return tenant, accessToken, nil
}

func (s *IngestionService) reportFailure(resource domain.ResourceKind, tenantID int64, err error) error {
	if errors.Is(err, domain.ErrConflict) {
		s.metrics.IncConflicts(resource)
		s.logger.Warn().
			Int64("tenant_id", tenantID).
			Str("resource", string(resource)).
			Msg("Ingestion rolled back on unique constraint violation")
	}
	return err
}

func (s *IngestionService) finish(resource domain.ResourceKind, tenantID int64, processed int, start time.Time) {
	s.metrics.IncProcessed(resource, processed)
	s.metrics.ObserveIngestion(resource, time.Since(start))
	s.logger.Info().
		Int64("tenant_id", tenantID).
		Str("resource", string(resource)).
		Int("processed", processed).
		Msg("Ingestion completed")
}
