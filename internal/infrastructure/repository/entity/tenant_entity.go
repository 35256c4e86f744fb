package entity

import (
	"time"

	"shoplytics/internal/domain"
)

// TenantRow represents a tenant in Postgres
type TenantRow struct {
	ID                int64  `gorm:"primaryKey"`
	ShopName          string `gorm:"uniqueIndex;not null"`
	AccessTokenCipher string `gorm:"not null"`
	AccessTokenDigest string `gorm:"not null"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

func (TenantRow) TableName() string {
	return "tenants"
}

// ToDomain converts the row to a domain entity
func (r *TenantRow) ToDomain() *domain.Tenant {
	return &domain.Tenant{
		ID:                r.ID,
		ShopName:          r.ShopName,
		AccessTokenCipher: r.AccessTokenCipher,
		AccessTokenDigest: r.AccessTokenDigest,
		CreatedAt:         r.CreatedAt,
		UpdatedAt:         r.UpdatedAt,
	}
}

// TenantRowFromDomain converts a domain entity to a row
func TenantRowFromDomain(tenant *domain.Tenant) *TenantRow {
	return &TenantRow{
		ID:                tenant.ID,
		ShopName:          tenant.ShopName,
		AccessTokenCipher: tenant.AccessTokenCipher,
		AccessTokenDigest: tenant.AccessTokenDigest,
		CreatedAt:         tenant.CreatedAt,
		UpdatedAt:         tenant.UpdatedAt,
	}
}
