package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ingesterFetchPageTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "validator_income",
		Subsystem: "ingester",
		Name:      "fetch_page_total",
		Help:      "Count of balance history pages requested.",
	}, []string{"coin", "status"})

	ingesterFetchPageDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "validator_income",
		Subsystem: "ingester",
		Name:      "fetch_page_duration_seconds",
		Help:      "Duration of fetching one balance history page.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"coin", "status"})

	ingesterPageSize = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "validator_income",
		Subsystem: "ingester",
		Name:      "page_size",
		Help:      "Number of balance change events per page.",
		Buckets:   prometheus.ExponentialBuckets(1, 2, 8), // 1..128
	}, []string{"coin"})

	ingesterEventsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "validator_income",
		Subsystem: "ingester",
		Name:      "events_total",
		Help:      "Count of balance change events by classification.",
	}, []string{"coin", "kind"})
)

// Ingester tracks metrics for the balance history ingestion run.
type Ingester struct {
	coin string
}

// NewIngester constructs an Ingester collector.
func NewIngester(coin string) *Ingester {
	if coin == "" {
		coin = "unknown"
	}
	return &Ingester{coin: coin}
}

// ObservePage records a page fetch outcome, duration and size.
func (m Ingester) ObservePage(err error, events int, started time.Time) {
	status := "success"
	if err != nil {
		status = "error"
	}
	ingesterFetchPageTotal.WithLabelValues(m.coin, status).Inc()
	ingesterFetchPageDuration.WithLabelValues(m.coin, status).
		Observe(time.Since(started).Seconds())
	if err == nil {
		ingesterPageSize.WithLabelValues(m.coin).Observe(float64(events))
	}
}

// ObserveEvent counts one event by its classification kind.
func (m Ingester) ObserveEvent(kind string) {
	ingesterEventsTotal.WithLabelValues(m.coin, kind).Inc()
}
