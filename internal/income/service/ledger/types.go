package ledger

import (
	"context"

	"github.com/goodnatureofminers/blockinsight7000-income/internal/income/model"
	"github.com/shopspring/decimal"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	PriceResolver interface {
		Resolve(ctx context.Context, date model.Date) (decimal.NullDecimal, error)
	}
	Metrics interface {
		ObserveRow(priced bool)
	}
)
