// Package metrics exposes application metrics collectors.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "validator_income",
		Subsystem: "http_client",
		Name:      "operations_total",
		Help:      "Count of upstream API operations.",
	}, []string{"service", "operation", "status"})
	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "validator_income",
		Subsystem: "http_client",
		Name:      "operation_duration_seconds",
		Help:      "Duration of upstream API operations including retries and pacing.",
		Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 20, 40},
	}, []string{"service", "operation", "status"})
)

// HTTPClient tracks metrics for calls to an upstream API such as the explorer or the price service.
type HTTPClient struct {
	service string
}

// NewHTTPClient constructs a metrics collector for one upstream service.
func NewHTTPClient(service string) *HTTPClient {
	if service == "" {
		service = "unknown"
	}
	return &HTTPClient{service: service}
}

// Observe records a single operation outcome and duration.
func (m HTTPClient) Observe(operation string, err error, started time.Time) {
	status := "success"
	if err != nil {
		status = "error"
	}

	httpRequestsTotal.WithLabelValues(m.service, operation, status).Inc()
	httpRequestDuration.WithLabelValues(m.service, operation, status).Observe(time.Since(started).Seconds())
}
