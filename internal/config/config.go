package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all runtime configuration, loaded from the environment with
// local-development defaults.
type Config struct {
	Server   ServerConfig
	Postgres PostgresConfig
	Redis    RedisConfig
	Shopify  ShopifyConfig
	Security SecurityConfig
}

type ServerConfig struct {
	Port string
}

type PostgresConfig struct {
	Host     string
	Port     int
	Database string
	Username string
	Password string
}

// DSN builds the connection string for the postgres driver.
func (c PostgresConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		c.Host, c.Port, c.Username, c.Password, c.Database)
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type ShopifyConfig struct {
	// APIVersion pins the Admin REST API version in request URLs.
	APIVersion string
	// Timeout bounds each HTTP request to the upstream API.
	Timeout time.Duration
	// MaxPages caps Link-header pagination per fetch.
	MaxPages int
	// PageSize is the per-page record limit requested from the API.
	PageSize int
	// MinRequestInterval spaces successive upstream calls to stay inside
	// Shopify's REST rate budget.
	MinRequestInterval time.Duration
}

type SecurityConfig struct {
	// EncryptionKey is the 32-byte AES-GCM key for access token storage.
	EncryptionKey string
	// SessionTTL bounds dashboard session lifetime.
	SessionTTL time.Duration
	// VerifyCredentials enables the optional upstream token check on tenant
	// registration. Failures are logged, never rejected.
	VerifyCredentials bool
	// VariantTenantScoped restricts variant lookups during order ingestion
	// to the ingesting tenant's catalog.
	VariantTenantScoped bool
}

// Load reads configuration from the environment, consulting a .env file when
// present.
func Load() (*Config, error) {
	// Load .env file if exists
	_ = godotenv.Load()

	pgPort, _ := strconv.Atoi(getEnv("POSTGRES_PORT", "5432"))
	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))
	maxPages, _ := strconv.Atoi(getEnv("SHOPIFY_MAX_PAGES", "10"))
	pageSize, _ := strconv.Atoi(getEnv("SHOPIFY_PAGE_SIZE", "250"))

	timeout, err := time.ParseDuration(getEnv("SHOPIFY_TIMEOUT", "10s"))
	if err != nil {
		return nil, fmt.Errorf("invalid SHOPIFY_TIMEOUT: %w", err)
	}
	minInterval, err := time.ParseDuration(getEnv("SHOPIFY_MIN_REQUEST_INTERVAL", "500ms"))
	if err != nil {
		return nil, fmt.Errorf("invalid SHOPIFY_MIN_REQUEST_INTERVAL: %w", err)
	}
	sessionTTL, err := time.ParseDuration(getEnv("SESSION_TTL", "24h"))
	if err != nil {
		return nil, fmt.Errorf("invalid SESSION_TTL: %w", err)
	}

	return &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "8080"),
		},
		Postgres: PostgresConfig{
			Host:     getEnv("POSTGRES_HOST", "localhost"),
			Port:     pgPort,
			Database: getEnv("POSTGRES_DATABASE", "shopifydb"),
			Username: getEnv("POSTGRES_USERNAME", "shopifyuser"),
			Password: getEnv("POSTGRES_PASSWORD", "12345678"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       redisDB,
		},
		Shopify: ShopifyConfig{
			APIVersion:         getEnv("SHOPIFY_API_VERSION", "2023-07"),
			Timeout:            timeout,
			MaxPages:           maxPages,
			PageSize:           pageSize,
			MinRequestInterval: minInterval,
		},
		Security: SecurityConfig{
			EncryptionKey:       os.Getenv("ENCRYPTION_KEY"),
			SessionTTL:          sessionTTL,
			VerifyCredentials:   getEnv("VERIFY_CREDENTIALS", "false") == "true",
			VariantTenantScoped: getEnv("VARIANT_TENANT_SCOPED", "false") == "true",
		},
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
