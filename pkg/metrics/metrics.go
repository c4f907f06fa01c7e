package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP request metrics.
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"service", "route", "method", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"service", "route", "method"},
	)
)

// Database metrics.
var (
	DatabaseOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "database_operations_total",
			Help: "Total number of database operations",
		},
		[]string{"operation", "table", "status"},
	)

	DatabaseOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "database_operation_duration_seconds",
			Help:    "Duration of database operations in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"operation", "table"},
	)
)

// Serving snapshot metrics.
var (
	SnapshotPoolSize = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "snapshot_pool_size",
			Help: "Number of records in the in-memory serving pools",
		},
		[]string{"pool"},
	)

	SnapshotLoadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "snapshot_loads_total",
			Help: "Total number of snapshot loads",
		},
		[]string{"status"},
	)

	SearchFilterResults = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "search_filter_results",
			Help:    "Number of listings returned by the in-memory filter",
			Buckets: []float64{0, 1, 5, 10, 25, 50, 100, 250, 500},
		},
		[]string{"mode"},
	)
)

// RecordHTTPRequest records one finished HTTP request.
func RecordHTTPRequest(service, route, method, status string, duration time.Duration) {
	HTTPRequestsTotal.WithLabelValues(service, route, method, status).Inc()
	HTTPRequestDuration.WithLabelValues(service, route, method).Observe(duration.Seconds())
}

// RecordDatabaseOperation records one database operation.
func RecordDatabaseOperation(operation, table, status string, duration time.Duration) {
	DatabaseOperationsTotal.WithLabelValues(operation, table, status).Inc()
	DatabaseOperationDuration.WithLabelValues(operation, table).Observe(duration.Seconds())
}

// RecordSnapshotLoad records one snapshot load outcome and pool sizes.
func RecordSnapshotLoad(status string, salons, categories, services int) {
	SnapshotLoadsTotal.WithLabelValues(status).Inc()
	if status == "success" || status == "partial" {
		SnapshotPoolSize.WithLabelValues("salons").Set(float64(salons))
		SnapshotPoolSize.WithLabelValues("categories").Set(float64(categories))
		SnapshotPoolSize.WithLabelValues("services").Set(float64(services))
	}
}

// RecordFilterResult records the size of one filter result.
func RecordFilterResult(mode string, count int) {
	SearchFilterResults.WithLabelValues(mode).Observe(float64(count))
}

// StatusFromError maps an error to a status label.
func StatusFromError(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
