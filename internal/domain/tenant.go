package domain

import "time"

// Tenant represents one onboarded Shopify store. All ingested data is scoped
// to a tenant; tenants are never hard-deleted.
type Tenant struct {
	ID       int64  `json:"id"`
	ShopName string `json:"shop_name"`
	// AccessTokenCipher is the AES-GCM encrypted upstream access token. It is
	// decrypted only when calling the Shopify API on behalf of the tenant.
	AccessTokenCipher string `json:"-"`
	// AccessTokenDigest is a bcrypt digest of the access token, used to verify
	// dashboard logins without ever comparing the credential in clear form.
	AccessTokenDigest string    `json:"-"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}
