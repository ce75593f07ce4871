package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestDuration tracks request duration
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "produkta_request_duration_seconds",
			Help: "Duration of HTTP requests in seconds",
		},
		[]string{"path", "method", "status"},
	)

	// CacheHits tracks cache hits/misses
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "produkta_cache_hits_total",
			Help: "Number of cache lookups by result",
		},
		[]string{"cache", "result"},
	)

	// DatabaseOperations tracks database operations
	DatabaseOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "produkta_database_operations_total",
			Help: "Number of database operations",
		},
		[]string{"operation", "status"},
	)

	// ExportsTotal tracks produced export files
	ExportsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "produkta_exports_total",
			Help: "Number of export files produced",
		},
		[]string{"format"},
	)

	// ExportedRecords tracks records written into export files
	ExportedRecords = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "produkta_exported_records_total",
			Help: "Number of MSME records written into export files",
		},
		[]string{"format"},
	)

	// VisitsRecorded tracks MSME visit events
	VisitsRecorded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "produkta_visits_total",
			Help: "Number of MSME visit events",
		},
		[]string{"result"},
	)

	// ActiveConnections tracks active connections
	ActiveConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "produkta_active_connections",
			Help: "Number of active connections",
		},
	)
)
