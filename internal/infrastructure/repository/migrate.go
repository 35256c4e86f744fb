package repository

import (
	"fmt"

	"shoplytics/internal/infrastructure/repository/entity"

	"gorm.io/gorm"
)

// Migrate creates or updates the schema for all persisted entities.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&entity.TenantRow{},
		&entity.CustomerRow{},
		&entity.ProductRow{},
		&entity.ProductVariantRow{},
		&entity.OrderRow{},
		&entity.OrderLineItemRow{},
	)
	if err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}
