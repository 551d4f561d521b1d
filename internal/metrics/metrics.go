package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application
type Metrics struct {
	// HTTP Metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	HTTPResponseSize    *prometheus.HistogramVec

	// Datastore Metrics
	DatastoreQueriesTotal  *prometheus.CounterVec
	DatastoreQueryDuration *prometheus.HistogramVec

	// Application Metrics
	SearchesTotal    *prometheus.CounterVec
	SearchErrors     *prometheus.CounterVec
	QueryCacheOps    *prometheus.CounterVec
	QueryCacheFlushes prometheus.Counter
}

// New creates and registers all Prometheus metrics
func New() *Metrics {
	return &Metrics{
		// HTTP Metrics
		HTTPRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "endpoint", "status"},
		),

		HTTPRequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "endpoint", "status"},
		),

		HTTPResponseSize: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_response_size_bytes",
				Help:    "HTTP response size in bytes",
				Buckets: prometheus.ExponentialBuckets(100, 10, 7),
			},
			[]string{"method", "endpoint", "status"},
		),

		// Datastore Metrics
		DatastoreQueriesTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "datastore_queries_total",
				Help: "Total number of datastore queries",
			},
			[]string{"operation", "status"},
		),

		DatastoreQueryDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "datastore_query_duration_seconds",
				Help:    "Datastore query latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),

		// Application Metrics
		SearchesTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "location_searches_total",
				Help: "Total number of location searches by retrieval strategy",
			},
			[]string{"strategy", "result"},
		),

		SearchErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "location_search_errors_total",
				Help: "Total number of search errors",
			},
			[]string{"error_type"},
		),

		QueryCacheOps: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "query_cache_ops_total",
				Help: "Query cache hits and misses",
			},
			[]string{"result"},
		),

		QueryCacheFlushes: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "query_cache_flushes_total",
				Help: "Total number of explicit cache flushes",
			},
		),
	}
}
