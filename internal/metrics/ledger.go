package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var ledgerRowsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "validator_income",
	Subsystem: "ledger",
	Name:      "rows_total",
	Help:      "Count of ledger rows by price availability.",
}, []string{"coin", "price"})

// Ledger tracks metrics for ledger building.
type Ledger struct {
	coin string
}

// NewLedger constructs a Ledger collector.
func NewLedger(coin string) *Ledger {
	if coin == "" {
		coin = "unknown"
	}
	return &Ledger{coin: coin}
}

// ObserveRow counts a built row, split by whether a price was found.
func (m Ledger) ObserveRow(priced bool) {
	price := "present"
	if !priced {
		price = "absent"
	}
	ledgerRowsTotal.WithLabelValues(m.coin, price).Inc()
}
