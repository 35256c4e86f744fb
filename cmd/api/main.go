package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"

	"shoplytics/internal/application"
	"shoplytics/internal/config"
	"shoplytics/internal/domain"
	"shoplytics/internal/infrastructure/encryption"
	"shoplytics/internal/infrastructure/metrics"
	"shoplytics/internal/infrastructure/postgres"
	"shoplytics/internal/infrastructure/repository"
	"shoplytics/internal/infrastructure/security"
	sessioninfra "shoplytics/internal/infrastructure/session"
	shopifyinfra "shoplytics/internal/infrastructure/shopify"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	httpSwagger "github.com/swaggo/http-swagger"

	authmiddleware "shoplytics/internal/infrastructure/middleware"
)

func main() {
	// Initialize logger
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Connect to Postgres and migrate the schema
	pgClient, err := postgres.NewClient(cfg.Postgres.DSN())
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to Postgres")
	}
	defer pgClient.Close()

	if err := repository.Migrate(pgClient.DB()); err != nil {
		logger.Fatal().Err(err).Msg("Failed to migrate database schema")
	}

	// Connect to Redis for dashboard sessions
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer redisClient.Close()

	// Get encryption key
	if cfg.Security.EncryptionKey == "" {
		logger.Fatal().Msg("ENCRYPTION_KEY environment variable is required")
	}

	// Initialize infrastructure (implementations)
	encryptionService, err := encryption.NewService(cfg.Security.EncryptionKey)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize encryption service")
	}

	hasher := security.NewBcryptHasher()
	sessionStore := sessioninfra.NewRedisSessionStore(redisClient)
	registry := metrics.NewRegistry()

	// Initialize repositories
	tenantRepo := repository.NewPostgresTenantRepository(pgClient.DB())
	analyticsRepo := repository.NewPostgresAnalyticsRepository(pgClient.DB())
	entityStore := repository.NewPostgresEntityStore(pgClient.DB())

	// Initialize rate limiter and retry config for Shopify API
	rateLimiter := shopifyinfra.NewRateLimiter(cfg.Shopify.MinRequestInterval, logger)
	retryConfig := shopifyinfra.DefaultRetryConfig()

	sourceClient := shopifyinfra.NewClientWithOptions(shopifyinfra.Config{
		APIVersion: cfg.Shopify.APIVersion,
		Timeout:    cfg.Shopify.Timeout,
		MaxPages:   cfg.Shopify.MaxPages,
		PageSize:   cfg.Shopify.PageSize,
	}, rateLimiter, retryConfig, logger)
	verifier := shopifyinfra.NewVerifier(logger)

	// Initialize application services
	tenantService := application.NewTenantServiceWithOptions(
		tenantRepo,
		encryptionService,
		hasher,
		sessionStore,
		verifier,
		cfg.Security.SessionTTL,
		cfg.Security.VerifyCredentials,
		logger,
	)

	ingestionService := application.NewIngestionServiceWithOptions(
		tenantRepo,
		entityStore,
		sourceClient,
		encryptionService,
		registry,
		cfg.Security.VariantTenantScoped,
		logger,
	)

	insightsService := application.NewInsightsService(analyticsRepo, logger)

	// Setup router
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	}))

	// Health check - must be public for monitoring
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})

	// Prometheus metrics
	r.Handle("/metrics", registry.Handler())

	// Swagger documentation - public
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"), // The URL pointing to API definition
	))
	r.Get("/swagger/doc.json", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		http.ServeFile(w, r, "./docs/swagger.json")
	})

	// Tenant registration
	r.Post("/tenants", createTenantHandler(tenantService, logger))

	// Ingestion endpoints
	r.Post("/ingest/customers/{tenantID}", ingestHandler(ingestionService.IngestCustomers, "Successfully ingested %d customers.", logger))
	r.Post("/ingest/products/{tenantID}", ingestHandler(ingestionService.IngestProducts, "Successfully ingested %d products and their variants.", logger))
	r.Post("/ingest/orders/{tenantID}", ingestHandler(ingestionService.IngestOrders, "Successfully ingested %d orders.", logger))

	// Dashboard authentication
	r.Post("/dashboard/login", loginHandler(tenantService, logger))

	// Insights routes require a valid dashboard session
	r.Group(func(r chi.Router) {
		r.Use(authmiddleware.SessionAuth(sessionStore, logger))

		r.Post("/dashboard/logout", logoutHandler(tenantService, logger))
		r.Get("/insights/overview", overviewHandler(insightsService, logger))
		r.Get("/insights/top-customers", topCustomersHandler(insightsService, logger))
		r.Get("/insights/top-products", topProductsHandler(insightsService, logger))
		r.Get("/insights/product-performance", productPerformanceHandler(insightsService, logger))
		r.Get("/insights/revenue-trend", revenueTrendHandler(insightsService, logger))
		r.Get("/insights/segments", customerSegmentsHandler(insightsService, logger))
	})

	port := cfg.Server.Port

	logger.Info().Str("port", port).Msg("Starting API server")
	logger.Info().Msg("Swagger documentation available at http://localhost:" + port + "/swagger/index.html")
	if err := http.ListenAndServe(":"+port, r); err != nil {
		logger.Fatal().Err(err).Msg("Failed to start server")
	}
}

// createTenantHandler registers a shop or rotates its access token
func createTenantHandler(tenantService *application.TenantService, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		shopName := r.URL.Query().Get("shop_name")
		accessToken := r.URL.Query().Get("access_token")
		if shopName == "" || accessToken == "" {
			http.Error(w, "shop_name and access_token query parameters are required", http.StatusBadRequest)
			return
		}

		_, created, err := tenantService.UpsertTenant(r.Context(), shopName, accessToken)
		if err != nil {
			logger.Error().Err(err).Str("shop_name", shopName).Msg("Failed to upsert tenant")
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		message := "Tenant access token updated successfully."
		if created {
			message = "New tenant created successfully."
		}
		json.NewEncoder(w).Encode(map[string]string{"message": message})
	}
}

// ingestHandler runs one ingestion call and reports the processed count
func ingestHandler(
	ingest func(ctx context.Context, tenantID int64) (*application.IngestionResult, error),
	successFormat string,
	logger zerolog.Logger,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenantID, err := strconv.ParseInt(chi.URLParam(r, "tenantID"), 10, 64)
		if err != nil {
			http.Error(w, "tenantID must be an integer", http.StatusBadRequest)
			return
		}

		result, err := ingest(r.Context(), tenantID)
		if err != nil {
			writeIngestionError(w, err, logger)
			return
		}

		json.NewEncoder(w).Encode(map[string]string{
			"message": fmt.Sprintf(successFormat, result.Processed),
		})
	}
}

func writeIngestionError(w http.ResponseWriter, err error, logger zerolog.Logger) {
	var upstreamErr *domain.UpstreamError
	switch {
	case errors.Is(err, domain.ErrTenantNotFound):
		http.Error(w, "Tenant not found", http.StatusNotFound)
	case errors.Is(err, domain.ErrConflict):
		http.Error(w, "A unique constraint was violated.", http.StatusConflict)
	case errors.As(err, &upstreamErr):
		logger.Error().Err(err).Msg("Upstream fetch failed")
		http.Error(w, "Failed to fetch data from Shopify", http.StatusInternalServerError)
	default:
		logger.Error().Err(err).Msg("Ingestion failed")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

// loginHandler opens a dashboard session for a shop's credentials
func loginHandler(tenantService *application.TenantService, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		shopName := r.URL.Query().Get("shop_name")
		accessToken := r.URL.Query().Get("access_token")
		if shopName == "" || accessToken == "" {
			http.Error(w, "shop_name and access_token query parameters are required", http.StatusBadRequest)
			return
		}

		session, err := tenantService.Authenticate(r.Context(), shopName, accessToken)
		if err != nil {
			if errors.Is(err, domain.ErrInvalidCredentials) {
				http.Error(w, "Invalid credentials", http.StatusUnauthorized)
				return
			}
			logger.Error().Err(err).Str("shop_name", shopName).Msg("Failed to authenticate tenant")
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		json.NewEncoder(w).Encode(session)
	}
}

// logoutHandler removes the caller's dashboard session
func logoutHandler(tenantService *application.TenantService, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok || token == "" {
			http.Error(w, "Authorization header with Bearer token is required", http.StatusUnauthorized)
			return
		}

		if err := tenantService.Logout(r.Context(), token); err != nil {
			logger.Error().Err(err).Msg("Failed to remove session")
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		json.NewEncoder(w).Encode(map[string]string{"message": "Logged out successfully."})
	}
}

func overviewHandler(insights *application.InsightsService, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenantID, ok := domain.GetTenantIDFromContext(r.Context())
		if !ok {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		overview, err := insights.Overview(r.Context(), tenantID)
		if err != nil {
			logger.Error().Err(err).Int64("tenant_id", tenantID).Msg("Failed to query business overview")
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		json.NewEncoder(w).Encode(overview)
	}
}

func topCustomersHandler(insights *application.InsightsService, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenantID, ok := domain.GetTenantIDFromContext(r.Context())
		if !ok {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		rows, err := insights.TopCustomers(r.Context(), tenantID, limit)
		if err != nil {
			logger.Error().Err(err).Int64("tenant_id", tenantID).Msg("Failed to query top customers")
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}
		if rows == nil {
			rows = []domain.TopCustomer{}
		}

		json.NewEncoder(w).Encode(rows)
	}
}

func topProductsHandler(insights *application.InsightsService, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenantID, ok := domain.GetTenantIDFromContext(r.Context())
		if !ok {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		rows, err := insights.TopProducts(r.Context(), tenantID, limit)
		if err != nil {
			logger.Error().Err(err).Int64("tenant_id", tenantID).Msg("Failed to query top products")
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}
		if rows == nil {
			rows = []domain.TopProduct{}
		}

		json.NewEncoder(w).Encode(rows)
	}
}

func productPerformanceHandler(insights *application.InsightsService, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenantID, ok := domain.GetTenantIDFromContext(r.Context())
		if !ok {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		rows, err := insights.ProductPerformance(r.Context(), tenantID, limit)
		if err != nil {
			logger.Error().Err(err).Int64("tenant_id", tenantID).Msg("Failed to query product performance")
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}
		if rows == nil {
			rows = []domain.ProductPerformance{}
		}

		json.NewEncoder(w).Encode(rows)
	}
}

func revenueTrendHandler(insights *application.InsightsService, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenantID, ok := domain.GetTenantIDFromContext(r.Context())
		if !ok {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		days, _ := strconv.Atoi(r.URL.Query().Get("days"))
		rows, err := insights.RevenueTrend(r.Context(), tenantID, days)
		if err != nil {
			logger.Error().Err(err).Int64("tenant_id", tenantID).Msg("Failed to query revenue trend")
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}
		if rows == nil {
			rows = []domain.RevenuePoint{}
		}

		json.NewEncoder(w).Encode(rows)
	}
}

func customerSegmentsHandler(insights *application.InsightsService, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenantID, ok := domain.GetTenantIDFromContext(r.Context())
		if !ok {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		rows, err := insights.CustomerSegments(r.Context(), tenantID)
		if err != nil {
			logger.Error().Err(err).Int64("tenant_id", tenantID).Msg("Failed to query customer segments")
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}
		if rows == nil {
			rows = []domain.CustomerSegment{}
		}

		json.NewEncoder(w).Encode(rows)
	}
}
