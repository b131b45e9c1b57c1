package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestDuration tracks request duration
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "locar_request_duration_seconds",
			Help: "Duration of HTTP requests in seconds",
		},
		[]string{"path", "method", "status"},
	)

	// ActiveConnections tracks in-flight requests
	ActiveConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "locar_active_connections",
			Help: "Number of active connections",
		},
	)

	// CacheHits tracks cache hits and misses
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "locar_cache_hits_total",
			Help: "Number of cache lookups by result",
		},
		[]string{"operation", "result"},
	)

	// DatabaseOperations tracks database operations
	DatabaseOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "locar_database_operations_total",
			Help: "Number of database operations",
		},
		[]string{"operation", "status"},
	)

	// SyncRuns counts synchronizer runs by mode and outcome
	SyncRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "locar_sync_runs_total",
			Help: "Number of employee synchronizer runs",
		},
		[]string{"mode", "outcome"},
	)

	// SyncRecords counts employee documents written by the synchronizer
	SyncRecords = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "locar_sync_records_total",
			Help: "Number of employee documents written by the synchronizer",
		},
		[]string{"mode", "kind"},
	)

	// SyncDuration tracks synchronizer run duration
	SyncDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "locar_sync_duration_seconds",
			Help:    "Duration of employee synchronizer runs in seconds",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 12),
		},
		[]string{"mode"},
	)

	// LoginAttempts counts login attempts by outcome
	LoginAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "locar_login_attempts_total",
			Help: "Number of login attempts",
		},
		[]string{"outcome"},
	)
)
