package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Gallery-API Metrics
var (
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "mission",
			Subsystem: "gallery_api",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "mission",
			Subsystem: "gallery_api",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.5, 1, 2, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	PresignsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "mission",
			Subsystem: "gallery_api",
			Name:      "presigns_total",
			Help:      "Upload URLs issued",
		},
		[]string{"class", "status"},
	)

	FinalizesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "mission",
			Subsystem: "gallery_api",
			Name:      "finalizes_total",
			Help:      "Finalize calls by outcome",
		},
		[]string{"class", "status"},
	)

	DeletesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "mission",
			Subsystem: "gallery_api",
			Name:      "deletes_total",
			Help:      "Image deletions by outcome",
		},
		[]string{"class", "status"},
	)

	GuestRecordCleanupFailuresTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "mission",
			Subsystem: "gallery_api",
			Name:      "guest_record_cleanup_failures_total",
			Help:      "Guest deletions whose object was removed but whose index record was left behind",
		},
	)

	CacheLookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "mission",
			Subsystem: "gallery_api",
			Name:      "listing_cache_lookups_total",
			Help:      "Listing cache lookups by result",
		},
		[]string{"key", "result"},
	)

	StoreOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "mission",
			Subsystem: "gallery_api",
			Name:      "store_operations_total",
			Help:      "Total object store operations",
		},
		[]string{"operation", "status"},
	)

	StoreDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "mission",
			Subsystem: "gallery_api",
			Name:      "store_duration_seconds",
			Help:      "Object store operation duration in seconds",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5},
		},
		[]string{"operation"},
	)

	LocalUploadBytesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "mission",
			Subsystem: "gallery_api",
			Name:      "local_upload_bytes_total",
			Help:      "Bytes accepted by the local storage upload endpoint",
		},
	)
)

// RecordRequest records an HTTP request
func RecordRequest(method, endpoint, status string, durationSec float64) {
	RequestsTotal.WithLabelValues(method, endpoint, status).Inc()
	RequestDuration.WithLabelValues(method, endpoint).Observe(durationSec)
}

// RecordPresign records an upload URL issuance
func RecordPresign(class, status string) {
	PresignsTotal.WithLabelValues(class, status).Inc()
}

// RecordFinalize records a finalize outcome
func RecordFinalize(class, status string) {
	FinalizesTotal.WithLabelValues(class, status).Inc()
}

// RecordDelete records a delete outcome
func RecordDelete(class, status string) {
	DeletesTotal.WithLabelValues(class, status).Inc()
}

// RecordGuestRecordCleanupFailure counts a guest record left in the index after its object was deleted
func RecordGuestRecordCleanupFailure() {
	GuestRecordCleanupFailuresTotal.Inc()
}

// RecordCacheLookup records a listing cache hit or miss
func RecordCacheLookup(key string, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	CacheLookupsTotal.WithLabelValues(key, result).Inc()
}

// RecordStoreOperation records an object store call
func RecordStoreOperation(operation, status string, durationSec float64) {
	StoreOperationsTotal.WithLabelValues(operation, status).Inc()
	StoreDuration.WithLabelValues(operation).Observe(durationSec)
}

// RecordLocalUpload records bytes written by the local storage upload endpoint
func RecordLocalUpload(bytes int64) {
	LocalUploadBytesTotal.Add(float64(bytes))
}
