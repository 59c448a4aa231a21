package price

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/goodnatureofminers/blockinsight7000-income/internal/income/model"
	"github.com/shopspring/decimal"
)

// Table is an in-memory price list keyed by calendar day. Lookups never touch the network.
type Table struct {
	prices map[model.Date]decimal.Decimal
	// Skipped counts data rows ignored while loading.
	Skipped int
}

// NewTable constructs a Table from prices. The map is copied.
func NewTable(prices map[model.Date]decimal.Decimal) *Table {
	t := &Table{prices: make(map[model.Date]decimal.Decimal, len(prices))}
	for d, p := range prices {
		t.prices[d] = p
	}
	return t
}

// LoadTableFile reads a price table from a CSV file.
func LoadTableFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open price table: %w", err)
	}
	defer f.Close()

	t, err := LoadTable(f)
	if err != nil {
		return nil, fmt.Errorf("load price table %s: %w", path, err)
	}
	return t, nil
}

// LoadTable reads a CSV with a header naming a Date column. The price is taken from the first
// column whose name mentions "price", or else the first other column. Rows with an empty or unparsable date or price are skipped.
func LoadTable(r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, errors.New("price table is empty")
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	dateCol, priceCol := -1, -1
	for i, name := range header {
		name = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))
		switch {
		case name == "date":
			dateCol = i
		case strings.Contains(name, "price"):
			if priceCol < 0 || !strings.Contains(strings.ToLower(header[priceCol]), "price") {
				priceCol = i
			}
		case priceCol < 0:
			priceCol = i
		}
	}
	if dateCol < 0 {
		return nil, fmt.Errorf("price table must contain a Date column, found %v", header)
	}
	if priceCol < 0 {
		return nil, errors.New("price table has no price column")
	}

	t := &Table{prices: make(map[model.Date]decimal.Decimal)}
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		if len(record) <= dateCol || len(record) <= priceCol {
			t.Skipped++
			continue
		}
		date, err := model.ParseDate(strings.TrimSpace(record[dateCol]))
		if err != nil {
			t.Skipped++
			continue
		}
		p, err := decimal.NewFromString(strings.TrimSpace(record[priceCol]))
		if err != nil {
			t.Skipped++
			continue
		}
		t.prices[date] = p
	}
	return t, nil
}

// Resolve looks the day up in the table.
func (t *Table) Resolve(_ context.Context, date model.Date) (decimal.NullDecimal, error) {
	p, ok := t.prices[date]
	if !ok {
		return absent(), nil
	}
	return present(p), nil
}

// Len returns the number of priced days.
func (t *Table) Len() int {
	return len(t.prices)
}

// MissingDates lists every day of the window without a price, in ascending order.
func (t *Table) MissingDates(w model.Window) []model.Date {
	var missing []model.Date
	for _, d := range w.Days() {
		if _, ok := t.prices[d]; !ok {
			missing = append(missing, d)
		}
	}
	return missing
}
