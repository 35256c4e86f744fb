package application

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"shoplytics/internal/domain"
	"shoplytics/internal/ports"

	"github.com/rs/zerolog"
)

// TenantService registers tenants and manages dashboard sessions
type TenantService struct {
	tenants           ports.TenantRepository
	crypto            ports.EncryptionService
	hasher            ports.CredentialHasher
	sessions          ports.SessionStore
	verifier          ports.CredentialVerifier
	sessionTTL        time.Duration
	verifyCredentials bool
	logger            zerolog.Logger
}

// NewTenantService creates a new tenant service
func NewTenantService(
	tenants ports.TenantRepository,
	crypto ports.EncryptionService,
	hasher ports.CredentialHasher,
	sessions ports.SessionStore,
	sessionTTL time.Duration,
	logger zerolog.Logger,
) *TenantService {
	return NewTenantServiceWithOptions(tenants, crypto, hasher, sessions, nil, sessionTTL, false, logger)
}

// NewTenantServiceWithOptions creates a tenant service that checks submitted
// access tokens against the upstream API during registration
func NewTenantServiceWithOptions(
	tenants ports.TenantRepository,
	crypto ports.EncryptionService,
	hasher ports.CredentialHasher,
	sessions ports.SessionStore,
	verifier ports.CredentialVerifier,
	sessionTTL time.Duration,
	verifyCredentials bool,
	logger zerolog.Logger,
) *TenantService {
	return &TenantService{
		tenants:           tenants,
		crypto:            crypto,
		hasher:            hasher,
		sessions:          sessions,
		verifier:          verifier,
		sessionTTL:        sessionTTL,
		verifyCredentials: verifyCredentials,
		logger:            logger,
	}
}

// UpsertTenant registers a shop or rotates the access token of an existing
// one. It reports whether a new tenant was created.
func (s *TenantService) UpsertTenant(ctx context.Context, shopName string, accessToken string) (*domain.Tenant, bool, error) {
	if s.verifyCredentials && s.verifier != nil {
		if err := s.verifier.VerifyAccessToken(ctx, shopName, accessToken); err != nil {
			s.logger.Warn().
				Err(err).
				Str("shop_name", shopName).
				Msg("Access token verification failed, storing anyway")
		}
	}

	cipher, err := s.crypto.Encrypt(accessToken)
	if err != nil {
		return nil, false, fmt.Errorf("failed to encrypt access token: %w", err)
	}
	digest, err := s.hasher.Hash(accessToken)
	if err != nil {
		return nil, false, fmt.Errorf("failed to hash access token: %w", err)
	}

	existing, err := s.tenants.FindByShopName(ctx, shopName)
	if err != nil {
		return nil, false, fmt.Errorf("failed to look up tenant: %w", err)
	}

	if existing != nil {
		existing.AccessTokenCipher = cipher
		existing.AccessTokenDigest = digest
		if err := s.tenants.Update(ctx, existing); err != nil {
			return nil, false, fmt.Errorf("failed to update tenant: %w", err)
		}
		s.logger.Info().Str("shop_name", shopName).Int64("tenant_id", existing.ID).Msg("Tenant access token updated")
		return existing, false, nil
	}

	tenant := &domain.Tenant{
		ShopName:          shopName,
		AccessTokenCipher: cipher,
		AccessTokenDigest: digest,
	}
	if err := s.tenants.Create(ctx, tenant); err != nil {
		return nil, false, fmt.Errorf("failed to create tenant: %w", err)
	}
	s.logger.Info().Str("shop_name", shopName).Int64("tenant_id", tenant.ID).Msg("New tenant created")
	return tenant, true, nil
}

// Authenticate checks the shop's credentials and opens a dashboard session.
// It returns domain.ErrInvalidCredentials when the shop is unknown or the
// token does not match, without revealing which.
func (s *TenantService) Authenticate(ctx context.Context, shopName string, accessToken string) (*domain.DashboardSession, error) {
	tenant, err := s.tenants.FindByShopName(ctx, shopName)
	if err != nil {
		return nil, fmt.Errorf("failed to look up tenant: %w", err)
	}
	if tenant == nil {
		return nil, domain.ErrInvalidCredentials
	}

	if err := s.hasher.Compare(tenant.AccessTokenDigest, accessToken); err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	token, err := newSessionToken()
	if err != nil {
		return nil, fmt.Errorf("failed to generate session token: %w", err)
	}

	now := time.Now()
	session := &domain.DashboardSession{
		Token:     token,
		TenantID:  tenant.ID,
		ShopName:  tenant.ShopName,
		CreatedAt: now,
		ExpiresAt: now.Add(s.sessionTTL),
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to store session: %w", err)
	}

	s.logger.Info().Str("shop_name", shopName).Int64("tenant_id", tenant.ID).Msg("Dashboard session created")
	return session, nil
}

// Logout removes the session for the given token. Unknown tokens are not an
// error.
func (s *TenantService) Logout(ctx context.Context, token string) error {
	return s.sessions.Delete(ctx, token)
}

func newSessionToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
