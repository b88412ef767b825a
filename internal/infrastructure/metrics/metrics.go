package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Inbound HTTP surface
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lmgateway_http_requests_total",
			Help: "Total number of HTTP requests handled",
		},
		[]string{"endpoint", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "lmgateway_http_request_duration_seconds",
			Help:    "Time spent handling each HTTP request",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	// Outbound monitoring API calls
	UpstreamRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lmgateway_upstream_requests_total",
			Help: "Total number of monitoring API requests issued",
		},
		[]string{"resource", "status"}, // status: ok, error
	)

	UpstreamRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "lmgateway_upstream_request_duration_seconds",
			Help:    "Time spent on each monitoring API request",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"resource"},
	)

	PagesFetched = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "lmgateway_upstream_pages_fetched_total",
			Help: "Total number of result pages fetched from the monitoring API",
		},
	)

	// Suppression outcomes
	SuppressionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lmgateway_suppressions_total",
			Help: "Total number of suppression (SDT) submissions",
		},
		[]string{"status"}, // success, error
	)

	// Neighbor resolution outcomes
	NeighborLookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lmgateway_neighbor_lookups_total",
			Help: "Total number of neighbor interface lookups",
		},
		[]string{"status"}, // found, not_found
	)

	// Credential lifecycle
	CredentialRefreshesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lmgateway_credential_refreshes_total",
			Help: "Total number of credential refresh attempts",
		},
		[]string{"status"},
	)

	// Error accounting by domain error type
	ErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lmgateway_errors_total",
			Help: "Total number of errors encountered",
		},
		[]string{"error_type"},
	)

	// Build/runtime information
	GatewayInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "lmgateway_info",
			Help: "Gateway information",
		},
		[]string{"version", "node_name"},
	)
)

// RecordHTTPRequest records one handled inbound request.
func RecordHTTPRequest(endpoint, status string, duration float64) {
	HTTPRequestsTotal.WithLabelValues(endpoint, status).Inc()
	HTTPRequestDuration.WithLabelValues(endpoint).Observe(duration)
}

// RecordUpstreamRequest records one outbound monitoring API request.
func RecordUpstreamRequest(resource, status string, duration float64) {
	UpstreamRequestsTotal.WithLabelValues(resource, status).Inc()
	UpstreamRequestDuration.WithLabelValues(resource).Observe(duration)
}

// RecordPageFetched counts one fetched result page.
func RecordPageFetched() {
	PagesFetched.Inc()
}

// RecordSuppression records one suppression submission outcome.
func RecordSuppression(status string) {
	SuppressionsTotal.WithLabelValues(status).Inc()
}

// RecordNeighborLookup records one neighbor lookup outcome.
func RecordNeighborLookup(status string) {
	NeighborLookupsTotal.WithLabelValues(status).Inc()
}

// RecordCredentialRefresh records one credential refresh attempt.
func RecordCredentialRefresh(status string) {
	CredentialRefreshesTotal.WithLabelValues(status).Inc()
}

// RecordError records one error by domain type.
func RecordError(errorType string) {
	ErrorsTotal.WithLabelValues(errorType).Inc()
}

// SetGatewayInfo publishes static gateway information.
func SetGatewayInfo(version, nodeName string) {
	GatewayInfo.WithLabelValues(version, nodeName).Set(1)
}
