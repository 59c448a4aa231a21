package ledger

import (
	"context"
	"errors"

	"github.com/goodnatureofminers/blockinsight7000-income/internal/income/model"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Builder prices aggregated daily deltas and produces the reconciled ledger.
type Builder struct {
	logger  *zap.Logger
	metrics Metrics
}

// NewBuilder builds a Builder with dependencies.
func NewBuilder(metrics Metrics, logger *zap.Logger) (*Builder, error) {
	if metrics == nil {
		return nil, errors.New("ledger metrics is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Builder{logger: logger, metrics: metrics}, nil
}

// Build returns one row per day in ascending date order. Coin amounts and prices are
// rounded to 10 places and income to 2, half away from zero; income is computed from the
// unrounded operands.
//
// When ctx is canceled no further prices are requested: the remaining rows are emitted
// without a price and the complete ledger is returned together with ctx.Err().
func (b *Builder) Build(ctx context.Context, deltas model.DailyDeltas, resolver PriceResolver) (model.Ledger, error) {
	dates := deltas.SortedDates()
	rows := make([]model.LedgerRow, 0, len(dates))

	var canceled error
	for _, date := range dates {
		delta := deltas[date]
		price := decimal.NullDecimal{}

		if canceled == nil {
			if err := ctx.Err(); err != nil {
				canceled = err
			} else {
				b.logger.Debug("calculating income", zap.Stringer("date", date))
				p, err := resolver.Resolve(ctx, date)
				if err != nil {
					canceled = err
				} else {
					price = p
				}
			}
		}

		rows = append(rows, row(date, delta, price))
		b.metrics.ObserveRow(price.Valid)
	}

	ledger := model.Ledger{Rows: rows, Totals: Totals(rows)}
	if canceled != nil {
		b.logger.Warn("ledger interrupted, remaining days left unpriced",
			zap.Int("missing", ledger.Totals.MissingDataCount), zap.Error(canceled))
	}
	return ledger, canceled
}

func row(date model.Date, delta decimal.Decimal, price decimal.NullDecimal) model.LedgerRow {
	r := model.LedgerRow{
		Date:      date,
		CoinDelta: delta.Round(coinPlaces),
	}
	if price.Valid {
		r.CoinPrice = decimal.NullDecimal{Decimal: price.Decimal.Round(pricePlaces), Valid: true}
		r.FiatIncome = decimal.NullDecimal{Decimal: delta.Mul(price.Decimal).Round(fiatPlaces), Valid: true}
	}
	return r
}

// Totals summarizes rows: income over priced rows, coins over all rows, and a per-month
// breakdown in calendar order.
func Totals(rows []model.LedgerRow) model.LedgerTotals {
	totals := model.LedgerTotals{
		TotalIncome: decimal.Zero,
		TotalCoins:  decimal.Zero,
	}

	months := make(map[model.Date]*model.MonthTotals)
	var order []model.Date
	for _, r := range rows {
		key := model.Date{Year: r.Date.Year, Month: r.Date.Month, Day: 1}
		m, ok := months[key]
		if !ok {
			m = &model.MonthTotals{Month: r.Date.Month, Income: decimal.Zero, Coins: decimal.Zero}
			months[key] = m
			order = append(order, key)
		}

		totals.TotalCoins = totals.TotalCoins.Add(r.CoinDelta)
		m.Coins = m.Coins.Add(r.CoinDelta)
		if !r.FiatIncome.Valid {
			totals.MissingDataCount++
			continue
		}
		totals.TotalIncome = totals.TotalIncome.Add(r.FiatIncome.Decimal)
		m.Income = m.Income.Add(r.FiatIncome.Decimal)
	}
	totals.TotalIncome = totals.TotalIncome.Round(fiatPlaces)

	for _, key := range order {
		totals.Months = append(totals.Months, *months[key])
	}
	return totals
}
