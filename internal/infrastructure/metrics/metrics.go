package metrics

import (
	"net/http"
	"time"

	"shoplytics/internal/domain"
	"shoplytics/internal/ports"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry collects ingestion metrics and serves them over HTTP.
type Registry struct {
	reg *prometheus.Registry

	Processed        *prometheus.CounterVec
	SkippedLineItems prometheus.Counter
	Duration         *prometheus.HistogramVec
	UpstreamFailures *prometheus.CounterVec
	Conflicts        *prometheus.CounterVec
}

var _ ports.IngestionMetrics = (*Registry)(nil)

func NewRegistry() *Registry {
	r := prometheus.NewRegistry()

	processed := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ingest_records_processed_total",
		Help: "Records reconciled into the store, by resource.",
	}, []string{"resource"})
	skipped := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "ingest_line_items_skipped_total",
		Help: "Order line items skipped because their variant was not ingested.",
	})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "ingest_duration_seconds",
		Help:    "End to end ingestion duration, by resource.",
		Buckets: prometheus.DefBuckets,
	}, []string{"resource"})
	upstreamFailures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ingest_upstream_failures_total",
		Help: "Failed upstream API fetches, by resource.",
	}, []string{"resource"})
	conflicts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ingest_conflicts_total",
		Help: "Ingestion batches rolled back on a uniqueness conflict, by resource.",
	}, []string{"resource"})

	r.MustRegister(processed, skipped, duration, upstreamFailures, conflicts)
	return &Registry{
		reg:              r,
		Processed:        processed,
		SkippedLineItems: skipped,
		Duration:         duration,
		UpstreamFailures: upstreamFailures,
		Conflicts:        conflicts,
	}
}

func (r *Registry) IncProcessed(resource domain.ResourceKind, count int) {
	r.Processed.WithLabelValues(string(resource)).Add(float64(count))
}

func (r *Registry) IncSkippedLineItems(count int) {
	r.SkippedLineItems.Add(float64(count))
}

func (r *Registry) ObserveIngestion(resource domain.ResourceKind, d time.Duration) {
	r.Duration.WithLabelValues(string(resource)).Observe(d.Seconds())
}

func (r *Registry) IncUpstreamFailures(resource domain.ResourceKind) {
	r.UpstreamFailures.WithLabelValues(string(resource)).Inc()
}

func (r *Registry) IncConflicts(resource domain.ResourceKind) {
	r.Conflicts.WithLabelValues(string(resource)).Inc()
}

func (r *Registry) Handler() http.Handler { return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{}) }
