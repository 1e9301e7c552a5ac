package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds process-level Prometheus metrics. Feature-level metrics live
// next to their feature (internal/award/metrics).
type Metrics struct {
	HTTPRequests       *prometheus.CounterVec
	HTTPDuration       *prometheus.HistogramVec
	BalanceQueries     prometheus.Counter
	BalanceCacheHits   prometheus.Counter
	BalanceCacheMiss   prometheus.Counter
	AuditEventsDropped prometheus.Counter
}

// New creates and registers all process-level metrics.
func New() *Metrics {
	return &Metrics{
		HTTPRequests: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "kudos_http_requests_total",
			Help: "HTTP requests by route and status class",
		}, []string{"route", "status"}),
		HTTPDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "kudos_http_request_duration_ms",
			Help:    "HTTP request latency in milliseconds",
			Buckets: []float64{1, 2.5, 5, 10, 25, 50, 100, 250, 500, 1000},
		}, []string{"route"}),
		BalanceQueries: promauto.NewCounter(prometheus.CounterOpts{
			Name: "kudos_balance_queries_total",
			Help: "Balance summary computations requested",
		}),
		BalanceCacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "kudos_balance_cache_hits_total",
			Help: "Balance summaries served from the redis cache",
		}),
		BalanceCacheMiss: promauto.NewCounter(prometheus.CounterOpts{
			Name: "kudos_balance_cache_misses_total",
			Help: "Balance summaries recomputed after a cache miss",
		}),
		AuditEventsDropped: promauto.NewCounter(prometheus.CounterOpts{
			Name: "kudos_audit_events_dropped_total",
			Help: "Audit events dropped because the inbox was full",
		}),
	}
}
