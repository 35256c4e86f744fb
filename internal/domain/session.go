package domain

import "time"

// DashboardSession represents one authenticated dashboard login. Sessions are
// server-side: the opaque token is the only thing handed to the client.
type DashboardSession struct {
	Token     string    `json:"token"`
	TenantID  int64     `json:"tenant_id"`
	ShopName  string    `json:"shop_name"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired reports whether the session is past its expiry at the given time.
func (s DashboardSession) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}
