package shopify

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"shoplytics/internal/domain"
	"shoplytics/internal/ports"

	"github.com/rs/zerolog"
)

// Config holds the adapter's upstream API settings.
type Config struct {
	// APIVersion pins the Admin REST API version in request URLs.
	APIVersion string
	// Timeout bounds each HTTP request.
	Timeout time.Duration
	// MaxPages caps Link-header pagination per fetch.
	MaxPages int
	// PageSize is the per-page record limit requested from the API.
	PageSize int
}

type client struct {
	httpClient  *http.Client
	config      Config
	rateLimiter *RateLimiter
	retryConfig RetryConfig
	logger      zerolog.Logger

	// baseURL overrides the per-shop host when set. Tests point it at a
	// local server.
	baseURL string
}

// NewClient creates a new Shopify source client adapter
func NewClient(cfg Config, logger zerolog.Logger) ports.SourceClient {
	return NewClientWithOptions(cfg, nil, DefaultRetryConfig(), logger)
}

// NewClientWithOptions creates a client with rate limiting and retry options
func NewClientWithOptions(
	cfg Config,
	rateLimiter *RateLimiter,
	retryConfig RetryConfig,
	logger zerolog.Logger,
) ports.SourceClient {
	return &client{
		httpClient:  &http.Client{Timeout: cfg.Timeout},
		config:      cfg,
		rateLimiter: rateLimiter,
		retryConfig: retryConfig,
		logger:      logger,
	}
}

// FetchCustomers retrieves all customer pages for a shop
func (c *client) FetchCustomers(ctx context.Context, shopName string, accessToken string) ([]domain.CustomerRecord, error) {
	var out []domain.CustomerRecord
	err := c.fetchPages(ctx, shopName, accessToken, domain.ResourceCustomers, func(body []byte) error {
		var envelope struct {
			Customers []domain.CustomerRecord `json:"customers"`
		}
		if err := json.Unmarshal(body, &envelope); err != nil {
			return fmt.Errorf("failed to decode customers payload: %w", err)
		}
		for i, rec := range envelope.Customers {
			if err := rec.Validate(); err != nil {
				return fmt.Errorf("customers[%d]: %w", len(out)+i, err)
			}
		}
		out = append(out, envelope.Customers...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// FetchProducts retrieves all product pages for a shop, variants included
func (c *client) FetchProducts(ctx context.Context, shopName string, accessToken string) ([]domain.ProductRecord, error) {
	var out []domain.ProductRecord
	err := c.fetchPages(ctx, shopName, accessToken, domain.ResourceProducts, func(body []byte) error {
		var envelope struct {
			Products []domain.ProductRecord `json:"products"`
		}
		if err := json.Unmarshal(body, &envelope); err != nil {
			return fmt.Errorf("failed to decode products payload: %w", err)
		}
		for i, rec := range envelope.Products {
			if err := rec.Validate(); err != nil {
				return fmt.Errorf("products[%d]: %w", len(out)+i, err)
			}
		}
		out = append(out, envelope.Products...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// FetchOrders retrieves all order pages for a shop, line items and embedded
// customers included
func (c *client) FetchOrders(ctx context.Context, shopName string, accessToken string) ([]domain.OrderRecord, error) {
	var out []domain.OrderRecord
	err := c.fetchPages(ctx, shopName, accessToken, domain.ResourceOrders, func(body []byte) error {
		var envelope struct {
			Orders []domain.OrderRecord `json:"orders"`
		}
		if err := json.Unmarshal(body, &envelope); err != nil {
			return fmt.Errorf("failed to decode orders payload: %w", err)
		}
		for i, rec := range envelope.Orders {
			if err := rec.Validate(); err != nil {
				return fmt.Errorf("orders[%d]: %w", len(out)+i, err)
			}
		}
		out = append(out, envelope.Orders...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// fetchPages walks Link-header pagination from the first resource page,
// handing each body to decode. It returns all pages or an error; there is no
// partial success.
func (c *client) fetchPages(ctx context.Context, shopName, accessToken string, resource domain.ResourceKind, decode func(body []byte) error) error {
	pageURL := fmt.Sprintf("%s/admin/api/%s/%s.json?limit=%d",
		c.shopBaseURL(shopName), c.config.APIVersion, resource, c.config.PageSize)

	for page := 1; ; page++ {
		body, next, err := c.getPage(ctx, pageURL, shopName, accessToken, resource)
		if err != nil {
			return err
		}
		if err := decode(body); err != nil {
			return &domain.UpstreamError{Shop: shopName, Resource: resource, Err: err}
		}
		if next == "" {
			c.logger.Debug().
				Str("shop", shopName).
				Str("resource", string(resource)).
				Int("pages", page).
				Msg("Fetched all upstream pages")
			return nil
		}
		if page >= c.config.MaxPages {
			c.logger.Warn().
				Str("shop", shopName).
				Str("resource", string(resource)).
				Int("max_pages", c.config.MaxPages).
				Msg("Stopping pagination at page cap")
			return nil
		}
		pageURL = next
	}
}

// getPage performs one page GET with bounded retry. Network errors, 429 and
// 5xx are retried with a doubling delay; any other non-200 fails immediately.
func (c *client) getPage(ctx context.Context, pageURL, shopName, accessToken string, resource domain.ResourceKind) ([]byte, string, error) {
	delay := c.retryConfig.InitialDelay
	var lastErr error
	var lastStatus int

	for attempt := 1; attempt <= c.retryConfig.MaxAttempts; attempt++ {
		if attempt > 1 {
			c.logger.Warn().
				Str("shop", shopName).
				Str("resource", string(resource)).
				Int("attempt", attempt).
				Int("status", lastStatus).
				Msg("Retrying upstream page fetch")
			select {
			case <-ctx.Done():
				return nil, "", &domain.UpstreamError{Shop: shopName, Resource: resource, Err: ctx.Err()}
			case <-time.After(delay):
			}
			delay *= 2
		}

		if c.rateLimiter != nil {
			if err := c.rateLimiter.Wait(ctx); err != nil {
				return nil, "", &domain.UpstreamError{Shop: shopName, Resource: resource, Err: err}
			}
		}

		body, next, status, err := c.doGet(ctx, pageURL, accessToken)
		if err != nil {
			lastErr = err
			lastStatus = 0
			continue
		}
		if status == http.StatusOK {
			return body, next, nil
		}

		lastErr = fmt.Errorf("unexpected status %d", status)
		lastStatus = status
		if !retryableStatus(status) {
			return nil, "", &domain.UpstreamError{Shop: shopName, Resource: resource, Status: status, Err: lastErr}
		}
	}

	return nil, "", &domain.UpstreamError{Shop: shopName, Resource: resource, Status: lastStatus, Err: lastErr}
}

func (c *client) doGet(ctx context.Context, pageURL, accessToken string) ([]byte, string, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, "", 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("X-Shopify-Access-Token", accessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, "", 0, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, "", resp.StatusCode, nil
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", 0, fmt.Errorf("failed to read response body: %w", err)
	}
	return body, nextPageURL(resp.Header.Get("Link")), resp.StatusCode, nil
}

func (c *client) shopBaseURL(shopName string) string {
	if c.baseURL != "" {
		return c.baseURL
	}
	return fmt.Sprintf("https://%s.myshopify.com", shopName)
}

// nextPageURL extracts the rel="next" target from an RFC 5988 Link header.
// Shopify returns cursor pagination as <url?page_info=...>; rel="next".
func nextPageURL(header string) string {
	for _, part := range strings.Split(header, ",") {
		segments := strings.Split(part, ";")
		if len(segments) < 2 {
			continue
		}
		target := strings.Trim(strings.TrimSpace(segments[0]), "<>")
		for _, param := range segments[1:] {
			if strings.TrimSpace(param) == `rel="next"` {
				return target
			}
		}
	}
	return ""
}
