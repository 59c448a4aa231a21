// Package blockscout implements the Blockscout explorer API used to page an address's
// balance history and classify the blocks behind it.
package blockscout

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"net/url"
	"strconv"
	"strings"

	"github.com/goodnatureofminers/blockinsight7000-income/internal/income/model"
	"go.uber.org/zap"
)

// Client talks to a Blockscout instance's REST API.
type Client struct {
	api     HTTPAPI
	baseURL *url.URL
	apiKey  string
	logger  *zap.Logger
}

// NewClient constructs a Client. baseURL is the API root without a version suffix,
// e.g. https://explorer.execution.mainnet.lukso.network/api.
func NewClient(api HTTPAPI, baseURL, apiKey string, logger *zap.Logger) (*Client, error) {
	parsed, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse explorer url: %w", err)
	}
	if parsed.Scheme != "https" && parsed.Scheme != "http" {
		return nil, fmt.Errorf("explorer url scheme %q not supported", parsed.Scheme)
	}
	if parsed.Host == "" {
		return nil, errors.New("explorer url missing host")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		api:     api,
		baseURL: parsed,
		apiKey:  apiKey,
		logger:  logger,
	}, nil
}

// FetchPage returns one page of address balance changes, newest first. A nil cursor
// starts from the latest block. The returned page has a nil Next when history is exhausted.
func (c *Client) FetchPage(ctx context.Context, address string, cursor *model.Cursor) (model.Page, error) {
	var params url.Values
	if cursor != nil {
		params = cursor.Params
	}
	endpoint := c.endpoint(params, "v2", "addresses", address, "coin-balance-history")

	var resp coinBalanceHistoryResponse
	if err := c.api.GetJSON(ctx, "coin_balance_history", endpoint, &resp); err != nil {
		return model.Page{}, err
	}

	events := make([]model.BalanceChangeEvent, 0, len(resp.Items))
	for _, item := range resp.Items {
		delta, ok := new(big.Int).SetString(strings.TrimSpace(item.Delta), 10)
		if !ok {
			c.logger.Warn("skipping balance change with malformed delta",
				zap.Int64("block", item.BlockNumber),
				zap.String("delta", item.Delta))
			continue
		}
		events = append(events, model.BalanceChangeEvent{
			BlockNumber: item.BlockNumber,
			Timestamp:   item.BlockTimestamp.UTC(),
			Delta:       delta,
		})
	}

	next := parseCursor(resp.NextPageParams)
	if next.Exhausted() {
		next = nil
	}
	return model.Page{Events: events, Next: next}, nil
}

// ResolveBlock fetches the miner and withdrawal receivers of a block. A failed sub-request
// leaves its half unknown; only cancellation is returned as an error.
func (c *Client) ResolveBlock(ctx context.Context, number int64) (model.BlockInfo, error) {
	info := model.BlockInfo{Number: number}
	height := strconv.FormatInt(number, 10)

	var block blockResponse
	err := c.api.GetJSON(ctx, "block", c.endpoint(nil, "v2", "blocks", height), &block)
	switch {
	case ctx.Err() != nil:
		return info, ctx.Err()
	case err != nil:
		c.logger.Warn("block details unavailable", zap.Int64("block", number), zap.Error(err))
	case block.Miner == nil || block.Miner.Hash == "":
		c.logger.Warn("block details missing miner", zap.Int64("block", number))
	default:
		info.Miner = model.NormalizeAddress(block.Miner.Hash)
		info.MinerKnown = true
	}

	var withdrawals withdrawalsResponse
	err = c.api.GetJSON(ctx, "block_withdrawals", c.endpoint(nil, "v2", "blocks", height, "withdrawals"), &withdrawals)
	switch {
	case ctx.Err() != nil:
		return info, ctx.Err()
	case err != nil:
		c.logger.Warn("block withdrawals unavailable", zap.Int64("block", number), zap.Error(err))
	default:
		info.Receivers = make(map[string]struct{}, len(withdrawals.Items))
		for _, w := range withdrawals.Items {
			if w.Receiver == nil || w.Receiver.Hash == "" {
				continue
			}
			info.Receivers[model.NormalizeAddress(w.Receiver.Hash)] = struct{}{}
		}
		info.WithdrawalsKnown = true
	}

	return info, nil
}

// Ping checks that the explorer answers a lightweight stats query.
func (c *Client) Ping(ctx context.Context) error {
	params := url.Values{}
	params.Set("module", "stats")
	params.Set("action", "ethprice")

	var resp json.RawMessage
	if err := c.api.GetJSON(ctx, "ping", c.endpoint(params), &resp); err != nil {
		return fmt.Errorf("explorer unreachable: %w", err)
	}
	return nil
}

func (c *Client) endpoint(params url.Values, segments ...string) string {
	u := c.baseURL.JoinPath(segments...)
	query := url.Values{}
	for k, v := range params {
		query[k] = append([]string(nil), v...)
	}
	if c.apiKey != "" {
		query.Set("apikey", c.apiKey)
	}
	u.RawQuery = query.Encode()
	return u.String()
}

// parseCursor turns next_page_params into a cursor, keeping every parameter verbatim.
func parseCursor(params map[string]json.RawMessage) *model.Cursor {
	if len(params) == 0 {
		return nil
	}

	values := url.Values{}
	for key, raw := range params {
		trimmed := strings.TrimSpace(string(raw))
		if trimmed == "" || trimmed == "null" {
			continue
		}
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			values.Set(key, s)
			continue
		}
		values.Set(key, trimmed)
	}

	marker, err := strconv.ParseInt(values.Get("block_number"), 10, 64)
	if err != nil {
		marker = 0
	}
	return &model.Cursor{BlockNumber: marker, Params: values}
}
