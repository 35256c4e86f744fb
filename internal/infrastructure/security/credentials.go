package security

import (
	"fmt"

	"shoplytics/internal/domain"
	"shoplytics/internal/ports"

	"golang.org/x/crypto/bcrypt"
)

// BcryptHasher implements CredentialHasher using bcrypt digests
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher creates a hasher at the default bcrypt cost
func NewBcryptHasher() ports.CredentialHasher {
	return &BcryptHasher{cost: bcrypt.DefaultCost}
}

// Hash produces a one-way digest of the secret
func (h *BcryptHasher) Hash(secret string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(secret), h.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash credential: %w", err)
	}
	return string(digest), nil
}

// Compare verifies the secret against a stored digest. A mismatch returns
// domain.ErrInvalidCredentials.
func (h *BcryptHasher) Compare(digest string, secret string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(digest), []byte(secret)); err != nil {
		return domain.ErrInvalidCredentials
	}
	return nil
}
