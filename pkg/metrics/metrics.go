package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry holds the application-specific Prometheus collectors.
	Registry = prometheus.NewRegistry()

	httpInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "lucidly",
			Subsystem: "http",
			Name:      "inflight_requests",
			Help:      "Current number of in-flight HTTP requests.",
		},
	)

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "lucidly",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "path", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "lucidly",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10),
		},
		[]string{"method", "path"},
	)

	enrichments = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "lucidly",
			Subsystem: "enrichment",
			Name:      "requests_total",
			Help:      "Enrichment requests by kind and outcome.",
		},
		[]string{"kind", "outcome"},
	)

	providerDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "lucidly",
			Subsystem: "enrichment",
			Name:      "provider_duration_seconds",
			Help:      "Duration of content provider calls.",
			Buckets:   prometheus.ExponentialBuckets(0.05, 2, 12),
		},
		[]string{"kind", "provider"},
	)

	quotaDebits = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "lucidly",
			Subsystem: "quota",
			Name:      "debits_total",
			Help:      "Committed quota debits by kind.",
		},
		[]string{"kind"},
	)
)

// Enrichment outcomes.
const (
	OutcomeSuccess       = "success"
	OutcomeQuotaExceeded = "quota_exceeded"
	OutcomeProviderError = "provider_error"
	OutcomeStorageError  = "storage_error"
	OutcomeNotFound      = "not_found"
)

func init() {
	Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		httpInFlight,
		httpRequests,
		httpDuration,
		enrichments,
		providerDuration,
		quotaDebits,
	)
}

// Handler exposes the registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// GinMiddleware records request counts and latencies. Paths are the route
// templates so dream ids do not explode label cardinality.
func GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		httpInFlight.Inc()
		defer httpInFlight.Dec()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		httpRequests.WithLabelValues(c.Request.Method, path, strconv.Itoa(c.Writer.Status())).Inc()
		httpDuration.WithLabelValues(c.Request.Method, path).Observe(time.Since(start).Seconds())
	}
}

func RecordEnrichment(kind, outcome string) {
	enrichments.WithLabelValues(kind, outcome).Inc()
}

func RecordProviderCall(kind, provider string, d time.Duration) {
	providerDuration.WithLabelValues(kind, provider).Observe(d.Seconds())
}

func RecordQuotaDebit(kind string) {
	quotaDebits.WithLabelValues(kind).Inc()
}
