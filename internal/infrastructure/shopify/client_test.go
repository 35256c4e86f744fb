package shopify

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"shoplytics/internal/domain"

	"github.com/rs/zerolog"
)

func newTestClient(serverURL string, maxPages int) *client {
	return &client{
		httpClient:  &http.Client{Timeout: 2 * time.Second},
		config:      Config{APIVersion: "2023-07", MaxPages: maxPages, PageSize: 250},
		retryConfig: RetryConfig{MaxAttempts: 3, InitialDelay: time.Millisecond},
		logger:      zerolog.Nop(),
		baseURL:     serverURL,
	}
}

func TestFetchCustomers_FollowsPagination(t *testing.T) {
	var gotToken string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotToken = r.Header.Get("X-Shopify-Access-Token")
		if !strings.HasPrefix(r.URL.Path, "/admin/api/2023-07/customers.json") {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if r.URL.Query().Get("page_info") == "" {
			w.Header().Set("Link", fmt.Sprintf(`<%s/admin/api/2023-07/customers.json?page_info=abc>; rel="next"`, "http://"+r.Host))
			fmt.Fprint(w, `{"customers":[{"id":1,"first_name":"Ada"},{"id":2,"first_name":"Bob"}]}`)
			return
		}
		fmt.Fprint(w, `{"customers":[{"id":3,"first_name":"Cleo"}]}`)
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, 5)
	records, err := c.FetchCustomers(context.Background(), "demo-shop", "shpat_test")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected 3 records across pages, got %d", len(records))
	}
	if records[2].ID != 3 {
		t.Fatalf("pages out of order: %+v", records)
	}
	if gotToken != "shpat_test" {
		t.Fatalf("access token header not sent, got %q", gotToken)
	}
}

func TestFetchCustomers_StopsAtPageCap(t *testing.T) {
	var requests int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(&requests, 1)
		w.Header().Set("Link", fmt.Sprintf(`<%s/admin/api/2023-07/customers.json?page_info=p%d>; rel="next"`, "http://"+r.Host, n))
		fmt.Fprintf(w, `{"customers":[{"id":%d}]}`, n)
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, 2)
	records, err := c.FetchCustomers(context.Background(), "demo-shop", "shpat_test")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := atomic.LoadInt32(&requests); got != 2 {
		t.Fatalf("expected exactly 2 requests, got %d", got)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
}

func TestFetchProducts_RetriesServerErrors(t *testing.T) {
	var requests int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&requests, 1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		fmt.Fprint(w, `{"products":[{"id":10,"title":"Shirt","variants":[{"id":100,"price":"19.99"}]}]}`)
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, 5)
	records, err := c.FetchProducts(context.Background(), "demo-shop", "shpat_test")
	if err != nil {
		t.Fatalf("expected retry to recover, got %v", err)
	}
	if len(records) != 1 || len(records[0].Variants) != 1 {
		t.Fatalf("unexpected records: %+v", records)
	}
	if records[0].Variants[0].Price.String() != "19.99" {
		t.Fatalf("variant price lost precision: %s", records[0].Variants[0].Price)
	}
	if got := atomic.LoadInt32(&requests); got != 3 {
		t.Fatalf("expected 3 attempts, got %d", got)
	}
}

func TestFetchOrders_RetriesRateLimit(t *testing.T) {
	var requests int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&requests, 1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		fmt.Fprint(w, `{"orders":[{"id":500,"total_price":"42.00","currency":"USD"}]}`)
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, 5)
	records, err := c.FetchOrders(context.Background(), "demo-shop", "shpat_test")
	if err != nil {
		t.Fatalf("expected retry after 429, got %v", err)
	}
	if len(records) != 1 || records[0].ID != 500 {
		t.Fatalf("unexpected records: %+v", records)
	}
}

func TestFetchCustomers_DoesNotRetryAuthFailure(t *testing.T) {
	var requests int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&requests, 1)
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, 5)
	_, err := c.FetchCustomers(context.Background(), "demo-shop", "bad-token")
	if err == nil {
		t.Fatalf("expected error for 401")
	}

	var upstream *domain.UpstreamError
	if !errors.As(err, &upstream) {
		t.Fatalf("expected UpstreamError, got %T: %v", err, err)
	}
	if upstream.Status != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", upstream.Status)
	}
	if upstream.Resource != domain.ResourceCustomers {
		t.Fatalf("expected customers resource, got %s", upstream.Resource)
	}
	if got := atomic.LoadInt32(&requests); got != 1 {
		t.Fatalf("401 must not be retried, got %d attempts", got)
	}
}

func TestFetchCustomers_GivesUpAfterMaxAttempts(t *testing.T) {
	var requests int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&requests, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, 5)
	_, err := c.FetchCustomers(context.Background(), "demo-shop", "shpat_test")
	if err == nil {
		t.Fatalf("expected error after exhausting retries")
	}
	var upstream *domain.UpstreamError
	if !errors.As(err, &upstream) {
		t.Fatalf("expected UpstreamError, got %T", err)
	}
	if upstream.Status != http.StatusServiceUnavailable {
		t.Fatalf("expected status 503, got %d", upstream.Status)
	}
	if got := atomic.LoadInt32(&requests); got != 3 {
		t.Fatalf("expected 3 attempts, got %d", got)
	}
}

func TestFetchOrders_MalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"orders": [{`)
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, 5)
	_, err := c.FetchOrders(context.Background(), "demo-shop", "shpat_test")
	var upstream *domain.UpstreamError
	if !errors.As(err, &upstream) {
		t.Fatalf("expected UpstreamError for malformed body, got %v", err)
	}
}

func TestFetchOrders_ValidationReportsRecordIndex(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"orders":[{"id":1,"total_price":"5.00"},{"total_price":"9.00"}]}`)
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, 5)
	_, err := c.FetchOrders(context.Background(), "demo-shop", "shpat_test")
	if err == nil {
		t.Fatalf("expected validation error")
	}
	if !strings.Contains(err.Error(), `orders[1]: missing required field "id"`) {
		t.Fatalf("error must name the record index and field: %v", err)
	}
}

func TestNextPageURL(t *testing.T) {
	header := `<https://x.myshopify.com/admin/api/2023-07/orders.json?page_info=prev>; rel="previous", <https://x.myshopify.com/admin/api/2023-07/orders.json?page_info=next>; rel="next"`
	if got := nextPageURL(header); got != "https://x.myshopify.com/admin/api/2023-07/orders.json?page_info=next" {
		t.Fatalf("unexpected next url: %q", got)
	}
	if got := nextPageURL(`<https://x.myshopify.com/a.json?page_info=prev>; rel="previous"`); got != "" {
		t.Fatalf("expected empty next url, got %q", got)
	}
	if got := nextPageURL(""); got != "" {
		t.Fatalf("expected empty next url for empty header, got %q", got)
	}
}
