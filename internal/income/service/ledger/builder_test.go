package ledger

import (
	"context"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/goodnatureofminers/blockinsight7000-income/internal/income/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func day(s string) model.Date {
	d, err := model.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func priced(s string) decimal.NullDecimal {
	return decimal.NullDecimal{Decimal: dec(s), Valid: true}
}

func newBuilder(t *testing.T, ctrl *gomock.Controller) *Builder {
	t.Helper()
	metrics := NewMockMetrics(ctrl)
	metrics.EXPECT().ObserveRow(gomock.Any()).AnyTimes()
	b, err := NewBuilder(metrics, zap.NewNop())
	require.NoError(t, err)
	return b
}

func TestBuilder_BuildOrdersAndPrices(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	ctx := context.Background()
	resolver := NewMockPriceResolver(ctrl)
	resolver.EXPECT().Resolve(ctx, day("2023-01-05")).Return(priced("2"), nil)
	resolver.EXPECT().Resolve(ctx, day("2023-02-01")).Return(decimal.NullDecimal{}, nil)
	resolver.EXPECT().Resolve(ctx, day("2023-03-10")).Return(priced("1.5"), nil)

	deltas := model.DailyDeltas{
		day("2023-03-10"): dec("0.5"),
		day("2023-01-05"): dec("42"),
		day("2023-02-01"): dec("1"),
	}

	got, err := newBuilder(t, ctrl).Build(ctx, deltas, resolver)
	require.NoError(t, err)
	require.Len(t, got.Rows, 3)

	assert.Equal(t, []model.Date{day("2023-01-05"), day("2023-02-01"), day("2023-03-10")},
		[]model.Date{got.Rows[0].Date, got.Rows[1].Date, got.Rows[2].Date})

	assert.True(t, got.Rows[0].FiatIncome.Decimal.Equal(dec("84")))
	assert.False(t, got.Rows[1].CoinPrice.Valid)
	assert.False(t, got.Rows[1].FiatIncome.Valid)
	assert.True(t, got.Rows[2].FiatIncome.Decimal.Equal(dec("0.75")))

	assert.Equal(t, 1, got.Totals.MissingDataCount)
	assert.True(t, got.Totals.TotalIncome.Equal(dec("84.75")), "income %s", got.Totals.TotalIncome)
	assert.True(t, got.Totals.TotalCoins.Equal(dec("43.5")), "coins %s", got.Totals.TotalCoins)

	require.Len(t, got.Totals.Months, 3)
	assert.Equal(t, time.January, got.Totals.Months[0].Month)
	assert.True(t, got.Totals.Months[1].Income.IsZero())
	assert.True(t, got.Totals.Months[1].Coins.Equal(dec("1")))
}

func TestBuilder_BuildRounding(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		delta      string
		price      string
		wantCoin   string
		wantPrice  string
		wantIncome string
	}{
		{
			name:       "coin and price to ten places",
			delta:      "1.23456789012345",
			price:      "2.123456789055",
			wantCoin:   "1.2345678901",
			wantPrice:  "2.1234567891",
			wantIncome: "2.62",
		},
		{
			name:       "half away from zero",
			delta:      "0.125",
			price:      "1",
			wantCoin:   "0.125",
			wantPrice:  "1",
			wantIncome: "0.13",
		},
		{
			name:       "income from unrounded operands",
			delta:      "0.00000000004",
			price:      "125000000",
			wantCoin:   "0",
			wantPrice:  "125000000",
			wantIncome: "0.01",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			ctrl := gomock.NewController(t)
			t.Cleanup(ctrl.Finish)

			resolver := NewMockPriceResolver(ctrl)
			resolver.EXPECT().Resolve(gomock.Any(), day("2023-06-01")).Return(priced(tt.price), nil)

			got, err := newBuilder(t, ctrl).Build(context.Background(),
				model.DailyDeltas{day("2023-06-01"): dec(tt.delta)}, resolver)
			require.NoError(t, err)
			require.Len(t, got.Rows, 1)

			r := got.Rows[0]
			assert.True(t, r.CoinDelta.Equal(dec(tt.wantCoin)), "coin %s", r.CoinDelta)
			assert.True(t, r.CoinPrice.Decimal.Equal(dec(tt.wantPrice)), "price %s", r.CoinPrice.Decimal)
			assert.True(t, r.FiatIncome.Decimal.Equal(dec(tt.wantIncome)), "income %s", r.FiatIncome.Decimal)
		})
	}
}

func TestBuilder_BuildCanceled(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	resolver := NewMockPriceResolver(ctrl)
	resolver.EXPECT().Resolve(ctx, day("2023-01-01")).Return(priced("3"), nil)
	resolver.EXPECT().Resolve(ctx, day("2023-01-02")).DoAndReturn(
		func(context.Context, model.Date) (decimal.NullDecimal, error) {
			cancel()
			return decimal.NullDecimal{}, context.Canceled
		})

	deltas := model.DailyDeltas{
		day("2023-01-01"): dec("1"),
		day("2023-01-02"): dec("2"),
		day("2023-01-03"): dec("4"),
	}

	got, err := newBuilder(t, ctrl).Build(ctx, deltas, resolver)
	require.ErrorIs(t, err, context.Canceled)
	require.Len(t, got.Rows, 3)
	assert.True(t, got.Rows[0].CoinPrice.Valid)
	assert.False(t, got.Rows[1].CoinPrice.Valid)
	assert.False(t, got.Rows[2].CoinPrice.Valid)
	assert.Equal(t, 2, got.Totals.MissingDataCount)
	assert.True(t, got.Totals.TotalCoins.Equal(dec("7")))
	assert.True(t, got.Totals.TotalIncome.Equal(dec("3")))
}

func TestBuilder_BuildObservesRows(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	metrics := NewMockMetrics(ctrl)
	metrics.EXPECT().ObserveRow(true)
	metrics.EXPECT().ObserveRow(false)
	resolver := NewMockPriceResolver(ctrl)
	resolver.EXPECT().Resolve(gomock.Any(), day("2023-01-01")).Return(priced("1"), nil)
	resolver.EXPECT().Resolve(gomock.Any(), day("2023-01-02")).Return(decimal.NullDecimal{}, nil)

	b, err := NewBuilder(metrics, nil)
	require.NoError(t, err)
	_, err = b.Build(context.Background(), model.DailyDeltas{
		day("2023-01-01"): dec("1"),
		day("2023-01-02"): dec("1"),
	}, resolver)
	require.NoError(t, err)
}

func TestTotals_Invariants(t *testing.T) {
	t.Parallel()

	rows := []model.LedgerRow{
		{Date: day("2023-01-31"), CoinDelta: dec("1.1"), CoinPrice: priced("2"), FiatIncome: priced("2.2")},
		{Date: day("2023-02-01"), CoinDelta: dec("0.3")},
		{Date: day("2023-02-02"), CoinDelta: dec("0.6"), CoinPrice: priced("1"), FiatIncome: priced("0.6")},
		{Date: day("2024-01-01"), CoinDelta: dec("1")},
	}
	totals := Totals(rows)

	sum := decimal.Zero
	pricedRows := 0
	for _, r := range rows {
		sum = sum.Add(r.CoinDelta)
		if r.CoinPrice.Valid {
			pricedRows++
		}
	}
	assert.True(t, totals.TotalCoins.Equal(sum))
	assert.Equal(t, len(rows), totals.MissingDataCount+pricedRows)
	assert.True(t, totals.TotalIncome.Equal(dec("2.8")))

	require.Len(t, totals.Months, 3, "months are keyed by year and month")
	assert.True(t, totals.Months[1].Income.Equal(dec("0.6")))
	assert.True(t, totals.Months[1].Coins.Equal(dec("0.9")))
}

func TestTotals_Empty(t *testing.T) {
	t.Parallel()

	totals := Totals(nil)
	assert.True(t, totals.TotalIncome.IsZero())
	assert.True(t, totals.TotalCoins.IsZero())
	assert.Zero(t, totals.MissingDataCount)
	assert.Empty(t, totals.Months)
}
