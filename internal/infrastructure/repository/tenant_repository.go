package repository

import (
	"context"
	"errors"
	"fmt"

	"shoplytics/internal/domain"
	"shoplytics/internal/infrastructure/repository/entity"
	"shoplytics/internal/ports"

	"gorm.io/gorm"
)

// PostgresTenantRepository implements TenantRepository using Postgres
type PostgresTenantRepository struct {
	db *gorm.DB
}

// NewPostgresTenantRepository creates a new Postgres tenant repository
func NewPostgresTenantRepository(db *gorm.DB) ports.TenantRepository {
	return &PostgresTenantRepository{db: db}
}

// FindByID retrieves a tenant by its internal id
func (r *PostgresTenantRepository) FindByID(ctx context.Context, id int64) (*domain.Tenant, error) {
	var row entity.TenantRow
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find tenant: %w", err)
	}
	return row.ToDomain(), nil
}

// FindByShopName retrieves a tenant by its shop name
func (r *PostgresTenantRepository) FindByShopName(ctx context.Context, shopName string) (*domain.Tenant, error) {
	var row entity.TenantRow
	err := r.db.WithContext(ctx).Where("shop_name = ?", shopName).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find tenant: %w", err)
	}
	return row.ToDomain(), nil
}

// Create inserts a tenant and fills its generated id
func (r *PostgresTenantRepository) Create(ctx context.Context, tenant *domain.Tenant) error {
	row := entity.TenantRowFromDomain(tenant)
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.ErrConflict
		}
		return fmt.Errorf("failed to create tenant: %w", err)
	}
	tenant.ID = row.ID
	tenant.CreatedAt = row.CreatedAt
	tenant.UpdatedAt = row.UpdatedAt
	return nil
}

// Update overwrites a tenant row by primary key
func (r *PostgresTenantRepository) Update(ctx context.Context, tenant *domain.Tenant) error {
	row := entity.TenantRowFromDomain(tenant)
	if err := r.db.WithContext(ctx).Save(row).Error; err != nil {
		return fmt.Errorf("failed to update tenant: %w", err)
	}
	tenant.UpdatedAt = row.UpdatedAt
	return nil
}
