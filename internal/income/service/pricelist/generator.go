// Package pricelist writes a local price table for a date range, the input of dry runs.
package pricelist

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"

	"github.com/goodnatureofminers/blockinsight7000-income/internal/income/model"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const pricePlaces int32 = 10

type PriceResolver interface {
	Resolve(ctx context.Context, date model.Date) (decimal.NullDecimal, error)
}

// Generator writes Date,<column> rows for every priced day of a window.
type Generator struct {
	logger *zap.Logger
	column string
}

// NewGenerator builds a Generator; column names the price column, e.g. "Former LYX Price".
func NewGenerator(column string, logger *zap.Logger) *Generator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Generator{logger: logger, column: column}
}

// Generate resolves every day of window in order and writes the priced ones to w. Each
// row is flushed as soon as it is written so an interrupted run keeps its progress. Days
// without a price are skipped. It returns the number of rows written.
func (g *Generator) Generate(ctx context.Context, resolver PriceResolver, window model.Window, w io.Writer) (int, error) {
	cw := csv.NewWriter(w)
	if err := g.writeRow(cw, "Date", g.column); err != nil {
		return 0, err
	}

	written := 0
	for _, date := range window.Days() {
		if err := ctx.Err(); err != nil {
			return written, err
		}
		price, err := resolver.Resolve(ctx, date)
		if err != nil {
			return written, err
		}
		if !price.Valid {
			g.logger.Info("no price for date, skipping", zap.Stringer("date", date))
			continue
		}
		if err := g.writeRow(cw, date.String(), price.Decimal.StringFixed(pricePlaces)); err != nil {
			return written, err
		}
		written++
		g.logger.Debug("price written", zap.Stringer("date", date), zap.Stringer("price", price.Decimal))
	}
	return written, nil
}

func (g *Generator) writeRow(cw *csv.Writer, fields ...string) error {
	if err := cw.Write(fields); err != nil {
		return fmt.Errorf("write price row: %w", err)
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush price row: %w", err)
	}
	return nil
}
