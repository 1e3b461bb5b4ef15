package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	// Latency of HTTP handlers, labelled by method and route
	HTTPRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Latency of HTTP requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path"})

	// Total cart mutations served, labelled by operation
	CartOperations = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_operations_total",
		Help: "Total number of cart mutations",
	}, []string{"operation"})

	// Failed fire-and-forget writes to the product search index
	SearchSyncFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "search_sync_failures_total",
		Help: "Total number of failed product search index sync attempts",
	})
)

func Init() {
	prometheus.MustRegister(
		HTTPRequestDuration,
		CartOperations,
		SearchSyncFailures,
	)
}
