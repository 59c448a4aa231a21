package ingester

import (
	"context"
	"time"

	"github.com/goodnatureofminers/blockinsight7000-income/internal/income/model"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	PageFetcher interface {
		FetchPage(ctx context.Context, address string, cursor *model.Cursor) (model.Page, error)
	}
	BlockResolver interface {
		ResolveBlock(ctx context.Context, number int64) (model.BlockInfo, error)
	}
	Metrics interface {
		ObservePage(err error, events int, started time.Time)
		ObserveEvent(kind string)
	}
)
