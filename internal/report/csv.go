// Package report renders a finished ledger into export files.
package report

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/goodnatureofminers/blockinsight7000-income/internal/income/model"
	"github.com/shopspring/decimal"
)

// Absent is written for a missing price or income.
const Absent = "None"

// ErrExists is returned when an export would overwrite an existing file.
var ErrExists = errors.New("report file already exists")

// Columns names the coin and fiat currency in the header row.
type Columns struct {
	Coin string
	Fiat string
}

// Headers returns the header row of the CSV export.
func (c Columns) Headers() []string {
	return []string{
		"Date",
		"Received " + c.Coin,
		"Former " + c.Coin + " Price",
		"Income in " + c.Fiat,
	}
}

// FileName returns the base name of a year's report for address, without extension.
func FileName(year int, address string) string {
	return fmt.Sprintf("income_report_%d_%s", year, address)
}

// WriteCSV writes the ledger rows to w. The ledger is not modified.
func WriteCSV(w io.Writer, ledger model.Ledger, cols Columns) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(cols.Headers()); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, r := range ledger.Rows {
		record := []string{
			r.Date.String(),
			r.CoinDelta.String(),
			nullable(r.CoinPrice, func(d decimal.Decimal) string { return d.String() }),
			nullable(r.FiatIncome, func(d decimal.Decimal) string { return d.StringFixed(2) }),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write row %s: %w", r.Date, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

// WriteCSVFile writes the ledger to path. Unless overwrite is set an existing file is left
// untouched and ErrExists returned.
func WriteCSVFile(path string, ledger model.Ledger, cols Columns, overwrite bool) (err error) {
	flags := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if !overwrite {
		flags = os.O_WRONLY | os.O_CREATE | os.O_EXCL
	}
	f, err := os.OpenFile(path, flags, 0o644)
	if errors.Is(err, os.ErrExist) {
		return fmt.Errorf("%w: %s", ErrExists, path)
	}
	if err != nil {
		return fmt.Errorf("create report: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close report: %w", closeErr)
		}
	}()
	return WriteCSV(f, ledger, cols)
}

func nullable(v decimal.NullDecimal, format func(decimal.Decimal) string) string {
	if !v.Valid {
		return Absent
	}
	return format(v.Decimal)
}
