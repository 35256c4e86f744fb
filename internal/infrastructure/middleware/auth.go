package middleware

import (
	"net/http"
	"strings"
	"time"

	"shoplytics/internal/domain"
	"shoplytics/internal/ports"

	"github.com/rs/zerolog"
)

// SessionAuth validates the Bearer session token on dashboard routes and
// attaches the session's tenant id to the request context.
func SessionAuth(sessions ports.SessionStore, logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok || token == "" {
				http.Error(w, "Authorization header with Bearer token is required", http.StatusUnauthorized)
				return
			}

			session, err := sessions.Get(r.Context(), token)
			if err != nil {
				logger.Error().Err(err).Msg("Failed to load session")
				http.Error(w, "Internal server error", http.StatusInternalServerError)
				return
			}
			if session == nil || session.Expired(time.Now()) {
				http.Error(w, "Invalid or expired session", http.StatusUnauthorized)
				return
			}

			ctx := domain.WithTenantID(r.Context(), session.TenantID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
