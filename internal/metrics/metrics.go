// Package metrics exposes Prometheus instrumentation for discovery runs.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// SourcesSucceeded counts boards/sources/repos whose discovery call
	// completed successfully, labeled by category.
	SourcesSucceeded = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tracker",
		Name:      "sources_succeeded_total",
		Help:      "Discovery sources that completed successfully, by category.",
	}, []string{"category"})

	// SourcesFailed counts boards/sources/repos whose discovery call failed.
	SourcesFailed = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tracker",
		Name:      "sources_failed_total",
		Help:      "Discovery sources that failed, by category.",
	}, []string{"category"})

	// ListingsDiscovered counts raw listings contributed per category.
	ListingsDiscovered = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tracker",
		Name:      "listings_discovered_total",
		Help:      "Raw listings discovered, by category.",
	}, []string{"category"})

	// FetchRetries counts HTTP attempts issued after a transport failure.
	FetchRetries = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "tracker",
		Name:      "fetch_retries_total",
		Help:      "HTTP fetch attempts issued after a transport failure.",
	})

	rateLimitDelay = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "tracker",
		Name:      "rate_limit_delay_seconds",
		Help:      "Time spent waiting on the per-domain rate limiter.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"domain"})
)

// ObserveRateLimitDelay records how long a caller was throttled for domain.
func ObserveRateLimitDelay(domain string, d time.Duration) {
	rateLimitDelay.WithLabelValues(domain).Observe(d.Seconds())
}
