// Package price resolves a day's representative coin price, either from the CoinMarketCap
// API or from a local price table for dry runs.
package price

import (
	"context"

	"github.com/goodnatureofminers/blockinsight7000-income/internal/income/model"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type (
	// Resolver returns the median price of a day. An absent price is a normal outcome;
	// the error is reserved for cancellation.
	Resolver interface {
		Resolve(ctx context.Context, date model.Date) (decimal.NullDecimal, error)
	}
	// HTTPAPI fetches and decodes JSON documents.
	HTTPAPI interface {
		GetJSON(ctx context.Context, operation, rawURL string, out any) error
	}
)

// Config selects and configures a Resolver.
type Config struct {
	// TablePath selects the local table when set.
	TablePath string
	BaseURL   string
	CryptoID  string
	FiatID    string
}

// DryRun reports whether the configuration selects the local table.
func (c Config) DryRun() bool {
	return c.TablePath != ""
}

// New builds the Resolver the configuration selects. api may be nil in dry-run mode.
func New(cfg Config, api HTTPAPI, logger *zap.Logger) (Resolver, error) {
	if cfg.DryRun() {
		table, err := LoadTableFile(cfg.TablePath)
		if err != nil {
			return nil, err
		}
		return table, nil
	}
	remote, err := NewRemote(api, cfg.BaseURL, cfg.CryptoID, cfg.FiatID, logger)
	if err != nil {
		return nil, err
	}
	return remote, nil
}

func absent() decimal.NullDecimal {
	return decimal.NullDecimal{}
}

func present(v decimal.Decimal) decimal.NullDecimal {
	return decimal.NullDecimal{Decimal: v, Valid: true}
}
