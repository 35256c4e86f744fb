package shopify

import (
	"context"
	"fmt"

	"shoplytics/internal/ports"

	goshopify "github.com/bold-commerce/go-shopify/v4"
	"github.com/rs/zerolog"
)

// Verifier implements CredentialVerifier with a lightweight shop lookup.
// Shopify access tokens do not expire unless revoked, so a single successful
// call is enough to confirm the credential works.
type Verifier struct {
	logger zerolog.Logger
}

// NewVerifier creates a new credential verifier
func NewVerifier(logger zerolog.Logger) ports.CredentialVerifier {
	return &Verifier{logger: logger}
}

// VerifyAccessToken confirms the token against the shop.json endpoint
func (v *Verifier) VerifyAccessToken(ctx context.Context, shopName string, accessToken string) error {
	client, err := goshopify.NewClient(goshopify.App{}, shopName, accessToken)
	if err != nil {
		return fmt.Errorf("failed to create client: %w", err)
	}

	if _, err := client.Shop.Get(ctx, nil); err != nil {
		v.logger.Warn().
			Err(err).
			Str("shop", shopName).
			Msg("Access token verification failed")
		return fmt.Errorf("failed to verify access token: %w", err)
	}

	v.logger.Debug().
		Str("shop", shopName).
		Msg("Access token verification successful")
	return nil
}
