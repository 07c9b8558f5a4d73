package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests by method, path and status.",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency in seconds by method and path.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	ScanLogSavesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scan_log_saves_total",
			Help: "Scan log persistence attempts by outcome (ok, error, skipped).",
		},
		[]string{"outcome"},
	)

	FilesLoadedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "inventory_files_loaded_total",
			Help: "Inventory files successfully parsed and loaded.",
		},
	)
)
