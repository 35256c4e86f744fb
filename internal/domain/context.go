package domain

import "context"

// contextKey is a type for context keys to avoid collisions
type contextKey string

const tenantIDKey contextKey = "tenant_id"

// WithTenantID returns a context carrying the authenticated tenant id.
func WithTenantID(ctx context.Context, tenantID int64) context.Context {
	return context.WithValue(ctx, tenantIDKey, tenantID)
}

// GetTenantIDFromContext extracts the tenant id from the context. The second
// return is false when no tenant has been attached.
func GetTenantIDFromContext(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(tenantIDKey).(int64)
	return id, ok
}
