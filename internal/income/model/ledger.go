package model

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// DailyDeltas accumulates whole-coin income per calendar day.
type DailyDeltas map[Date]decimal.Decimal

// Add accumulates amount onto day.
func (d DailyDeltas) Add(day Date, amount decimal.Decimal) {
	d[day] = d[day].Add(amount)
}

// SortedDates returns the days in ascending order.
func (d DailyDeltas) SortedDates() []Date {
	dates := make([]Date, 0, len(d))
	for day := range d {
		dates = append(dates, day)
	}
	sort.Slice(dates, func(i, j int) bool {
		return dates[i].Before(dates[j])
	})
	return dates
}

// IngestionSummary counts classified events; counters are per event, not per day.
type IngestionSummary struct {
	MinerCount      int
	WithdrawalCount int
}

// Total returns the number of income events.
func (s IngestionSummary) Total() int {
	return s.MinerCount + s.WithdrawalCount
}

// LedgerRow is one day of the income ledger. FiatIncome is valid iff CoinPrice is valid.
type LedgerRow struct {
	Date       Date
	CoinDelta  decimal.Decimal
	CoinPrice  decimal.NullDecimal
	FiatIncome decimal.NullDecimal
}

// MonthTotals aggregates a calendar month of ledger rows.
type MonthTotals struct {
	Month  time.Month
	Income decimal.Decimal
	Coins  decimal.Decimal
}

// LedgerTotals summarizes a ledger.
type LedgerTotals struct {
	TotalIncome      decimal.Decimal
	TotalCoins       decimal.Decimal
	MissingDataCount int
	Months           []MonthTotals
}

// Ledger is the finished, date-ordered income ledger.
type Ledger struct {
	Rows   []LedgerRow
	Totals LedgerTotals
}
