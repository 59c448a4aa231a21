package blockscout

import (
	"context"
	"encoding/json"
	"time"
)

type (
	// HTTPAPI fetches and decodes JSON documents.
	HTTPAPI interface {
		GetJSON(ctx context.Context, operation, rawURL string, out any) error
	}
)

type coinBalanceHistoryResponse struct {
	Items          []coinBalanceItem          `json:"items"`
	NextPageParams map[string]json.RawMessage `json:"next_page_params"`
}

type coinBalanceItem struct {
	BlockNumber    int64     `json:"block_number"`
	BlockTimestamp time.Time `json:"block_timestamp"`
	Delta          string    `json:"delta"`
}

type addressRef struct {
	Hash string `json:"hash"`
}

type blockResponse struct {
	Height int64       `json:"height"`
	Miner  *addressRef `json:"miner"`
}

type withdrawalsResponse struct {
	Items []withdrawalItem `json:"items"`
}

type withdrawalItem struct {
	Index    int64       `json:"index"`
	Receiver *addressRef `json:"receiver"`
	Amount   string      `json:"amount"`
}
