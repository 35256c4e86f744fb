package ports

import (
	"context"

	"shoplytics/internal/domain"
)

// SessionStore defines the interface for server-side dashboard sessions.
// Get returns (nil, nil) when the token is unknown or the session has been
// evicted by its TTL.
type SessionStore interface {
	Create(ctx context.Context, session *domain.DashboardSession) error
	Get(ctx context.Context, token string) (*domain.DashboardSession, error)
	Delete(ctx context.Context, token string) error
}
