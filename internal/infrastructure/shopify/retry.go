package shopify

import (
	"net/http"
	"time"
)

// RetryConfig bounds the retry loop around each upstream page fetch.
type RetryConfig struct {
	MaxAttempts  int
	InitialDelay time.Duration
}

// DefaultRetryConfig retries transient failures three times with a doubling
// delay between attempts.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:  3,
		InitialDelay: 500 * time.Millisecond,
	}
}

// retryableStatus reports whether a response status is transient. Rate
// limiting and server errors are retried; any other 4xx is permanent.
func retryableStatus(status int) bool {
	return status == http.StatusTooManyRequests || status >= http.StatusInternalServerError
}
