package prometheus

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/FlexEdwin/toolfinder-app/pkg/config"
)

var (
	// HTTP request metrics
	HttpRequestsTotal   prometheus.CounterVec
	HttpRequestDuration prometheus.HistogramVec

	// Remote catalog service call metrics
	RemoteCallDuration prometheus.HistogramVec
	RemoteCallErrors   prometheus.CounterVec

	// Query cache metrics
	CacheHitsCounter   prometheus.CounterVec
	CacheMissesCounter prometheus.CounterVec

	// Selection cart metrics
	SelectionOperationsCounter prometheus.CounterVec

	// Tool metrics
	ToolOperationsCounter prometheus.CounterVec

	// Kit metrics
	KitOperationsCounter prometheus.CounterVec

	// Category metrics
	CategoryOperationsCounter prometheus.CounterVec
)

// InitMetrics initializes Prometheus metrics with configuration
func InitMetrics(config *config.Config) {
	// Use metric prefix from configuration
	prefix := config.Metrics.Prefix

	// HTTP request metrics
	HttpRequestsTotal = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// HTTP request duration
	HttpRequestDuration = *promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    prefix + "_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	// Remote call metrics
	RemoteCallDuration = *promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    prefix + "_remote_call_duration_seconds",
			Help:    "Duration of remote catalog service calls in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	RemoteCallErrors = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_remote_call_errors_total",
			Help: "Total number of failed remote catalog service calls",
		},
		[]string{"operation"},
	)

	// Query cache metrics
	CacheHitsCounter = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_cache_hits_total",
			Help: "Total number of query cache hits",
		},
		[]string{"cache"},
	)

	CacheMissesCounter = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_cache_misses_total",
			Help: "Total number of query cache misses",
		},
		[]string{"cache"},
	)

	// Selection cart metrics
	SelectionOperationsCounter = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_selection_operations_total",
			Help: "Total number of selection cart operations",
		},
		[]string{"operation"},
	)

	// Tool metrics
	ToolOperationsCounter = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_tool_operations_total",
			Help: "Total number of tool operations",
		},
		[]string{"operation"},
	)

	// Kit metrics
	KitOperationsCounter = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_kit_operations_total",
			Help: "Total number of kit operations",
		},
		[]string{"operation"},
	)

	// Category metrics
	CategoryOperationsCounter = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_category_operations_total",
			Help: "Total number of category operations",
		},
		[]string{"operation"},
	)
}

// TrackRemoteCall returns a function that records the duration of a remote call
func TrackRemoteCall(operation string) func(startTime time.Time) {
	return func(startTime time.Time) {
		duration := time.Since(startTime).Seconds()
		RemoteCallDuration.WithLabelValues(operation).Observe(duration)
	}
}

// RecordRemoteCallError increments the counter for failed remote calls
func RecordRemoteCallError(operation string) {
	RemoteCallErrors.WithLabelValues(operation).Inc()
}

// RecordCacheHit increments the hit counter for the named cache
func RecordCacheHit(cache string) {
	CacheHitsCounter.WithLabelValues(cache).Inc()
}

// RecordCacheMiss increments the miss counter for the named cache
func RecordCacheMiss(cache string) {
	CacheMissesCounter.WithLabelValues(cache).Inc()
}

// RecordCacheResult increments the hit or miss counter for the named cache
func RecordCacheResult(cache string, hit bool) {
	if hit {
		RecordCacheHit(cache)
		return
	}
	RecordCacheMiss(cache)
}

// RecordToolOperation increments the counter for tool operations
func RecordToolOperation(operation string) {
	ToolOperationsCounter.WithLabelValues(operation).Inc()
}

// RecordSelectionOperation increments the counter for selection cart operations
func RecordSelectionOperation(operation string) {
	SelectionOperationsCounter.WithLabelValues(operation).Inc()
}

// RecordKitOperation increments the counter for kit operations
func RecordKitOperation(operation string) {
	KitOperationsCounter.WithLabelValues(operation).Inc()
}

// RecordCategoryOperation increments the counter for category operations
func RecordCategoryOperation(operation string) {
	CategoryOperationsCounter.WithLabelValues(operation).Inc()
}
