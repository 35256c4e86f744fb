package ports

import "context"

// EncryptionService defines the interface for reversible credential
// encryption. Tenant access tokens are stored encrypted and decrypted only
// when calling the upstream API.
type EncryptionService interface {
	Encrypt(plaintext string) (string, error)
	Decrypt(ciphertext string) (string, error)
}

// CredentialHasher defines the interface for one-way credential digests used
// to verify dashboard logins.
type CredentialHasher interface {
	Hash(secret string) (string, error)
	Compare(digest string, secret string) error
}

// CredentialVerifier defines the interface for optionally confirming an
// access token against the upstream API during tenant registration.
type CredentialVerifier interface {
	VerifyAccessToken(ctx context.Context, shopName string, accessToken string) error
}
