package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrTenantNotFound is returned when an operation references a tenant id
	// that does not exist.
	ErrTenantNotFound = errors.New("tenant not found")

	// ErrConflict is returned when a write collides with a uniqueness rule.
	// The whole ingestion transaction is rolled back when it occurs.
	ErrConflict = errors.New("a unique constraint was violated")

	// ErrInvalidCredentials is returned when a dashboard login presents a
	// shop name or access token that does not match an onboarded tenant.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// UpstreamError wraps a failure talking to the Shopify API for one resource.
// It carries enough context to log and surface the failing fetch without
// leaking the tenant's credentials.
type UpstreamError struct {
	Shop     string
	Resource ResourceKind
	Status   int
	Err      error
}

func (e *UpstreamError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("upstream %s fetch for %s failed with status %d: %v", e.Resource, e.Shop, e.Status, e.Err)
	}
	return fmt.Sprintf("upstream %s fetch for %s failed: %v", e.Resource, e.Shop, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}
