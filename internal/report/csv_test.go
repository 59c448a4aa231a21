package report

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/goodnatureofminers/blockinsight7000-income/internal/income/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleLedger(t *testing.T) model.Ledger {
	t.Helper()
	d1, err := model.ParseDate("2023-01-05")
	require.NoError(t, err)
	d2, err := model.ParseDate("2023-02-01")
	require.NoError(t, err)

	return model.Ledger{Rows: []model.LedgerRow{
		{
			Date:       d1,
			CoinDelta:  decimal.RequireFromString("42"),
			CoinPrice:  decimal.NullDecimal{Decimal: decimal.RequireFromString("1.2345678901"), Valid: true},
			FiatIncome: decimal.NullDecimal{Decimal: decimal.RequireFromString("51.9"), Valid: true},
		},
		{
			Date:      d2,
			CoinDelta: decimal.RequireFromString("0.0000000001"),
		},
	}}
}

func TestWriteCSV(t *testing.T) {
	ledger := sampleLedger(t)
	var buf bytes.Buffer

	require.NoError(t, WriteCSV(&buf, ledger, Columns{Coin: "LYX", Fiat: "EUR"}))
	assert.Equal(t,
		"Date,Received LYX,Former LYX Price,Income in EUR\n"+
			"2023-01-05,42,1.2345678901,51.90\n"+
			"2023-02-01,0.0000000001,None,None\n",
		buf.String())
	assert.False(t, ledger.Rows[1].CoinPrice.Valid, "ledger must not be mutated")
}

func TestWriteCSVFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, FileName(2023, "0xabc")+".csv")
	cols := Columns{Coin: "LYX", Fiat: "EUR"}

	require.NoError(t, WriteCSVFile(path, sampleLedger(t), cols, false))

	err := WriteCSVFile(path, model.Ledger{}, cols, false)
	require.ErrorIs(t, err, ErrExists)
	data, readErr := os.ReadFile(path)
	require.NoError(t, readErr)
	assert.Contains(t, string(data), "2023-01-05", "existing report left untouched")

	require.NoError(t, WriteCSVFile(path, model.Ledger{}, cols, true))
	data, readErr = os.ReadFile(path)
	require.NoError(t, readErr)
	assert.Equal(t, "Date,Received LYX,Former LYX Price,Income in EUR\n", string(data))
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "income_report_2023_0xabc", FileName(2023, "0xabc"))
}
