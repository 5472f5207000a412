package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Collectors are registered on the default registry at package init.
var (
	GatewayRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "annex_gateway_requests_total",
			Help: "Total number of link requests issued to the data source",
		},
		[]string{"gateway", "operation", "status"},
	)

	GatewayRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "annex_gateway_request_duration_seconds",
			Help:    "Duration of link requests to the data source in seconds",
			Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"gateway", "operation"},
	)

	RecordsInserted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "annex_navigator_records_inserted_total",
			Help: "Record entries added to navigator stores",
		},
	)

	RecordsRemoved = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "annex_navigator_records_removed_total",
			Help: "Record entries removed from navigator stores",
		},
	)

	// Sessions currently held by the HTTP service.
	ActiveSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "annex_navigator_sessions",
			Help: "Number of live navigator sessions",
		},
	)

	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "annex_http_requests_total",
			Help: "Total number of HTTP requests processed",
		},
		[]string{"method", "path", "status"},
	)
)
