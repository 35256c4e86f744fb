package ports

import (
	"time"

	"shoplytics/internal/domain"
)

// IngestionMetrics defines the interface for ingestion instrumentation.
// Implementations must be safe for concurrent use.
type IngestionMetrics interface {
	IncProcessed(resource domain.ResourceKind, count int)
	IncSkippedLineItems(count int)
	ObserveIngestion(resource domain.ResourceKind, d time.Duration)
	IncUpstreamFailures(resource domain.ResourceKind)
	IncConflicts(resource domain.ResourceKind)
}
