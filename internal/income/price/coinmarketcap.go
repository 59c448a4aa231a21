package price

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/goodnatureofminers/blockinsight7000-income/internal/income/model"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var two = decimal.NewFromInt(2)

// Remote resolves prices from the CoinMarketCap daily OHLCV history.
type Remote struct {
	api      HTTPAPI
	baseURL  *url.URL
	cryptoID string
	fiatID   string
	logger   *zap.Logger
}

// NewRemote constructs a Remote resolver for one crypto/fiat pair.
func NewRemote(api HTTPAPI, baseURL, cryptoID, fiatID string, logger *zap.Logger) (*Remote, error) {
	if api == nil {
		return nil, errors.New("price api client is required")
	}
	if cryptoID == "" || fiatID == "" {
		return nil, errors.New("crypto id and fiat id are required")
	}
	parsed, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse price api url: %w", err)
	}
	if parsed.Scheme != "https" && parsed.Scheme != "http" {
		return nil, fmt.Errorf("price api url scheme %q not supported", parsed.Scheme)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Remote{
		api:      api,
		baseURL:  parsed,
		cryptoID: cryptoID,
		fiatID:   fiatID,
		logger:   logger,
	}, nil
}

// Resolve returns (open + close) / 2 of the day's quote, or absent when the API has no
// usable quote for the day.
func (r *Remote) Resolve(ctx context.Context, date model.Date) (decimal.NullDecimal, error) {
	params := url.Values{}
	params.Set("id", r.cryptoID)
	params.Set("convert_id", r.fiatID)
	params.Set("time_period", "daily")
	params.Set("time_start", date.AddDays(-1).String())
	params.Set("time_end", date.String())

	u := r.baseURL.JoinPath("v2", "cryptocurrency", "ohlcv", "historical")
	u.RawQuery = params.Encode()

	var resp ohlcvResponse
	err := r.api.GetJSON(ctx, "ohlcv_historical", u.String(), &resp)
	if ctx.Err() != nil {
		return absent(), ctx.Err()
	}
	if err != nil {
		r.logger.Warn("price unavailable", zap.Stringer("date", date), zap.Error(err))
		return absent(), nil
	}

	quotes, err := decodeQuotes(resp.Data)
	if err != nil {
		r.logger.Warn("malformed price response", zap.Stringer("date", date), zap.Error(err))
		return absent(), nil
	}

	q, ok := r.pick(quotes, date)
	if !ok {
		r.logger.Info("no price quote for date", zap.Stringer("date", date))
		return absent(), nil
	}
	return present(q.Open.Add(*q.Close).Div(two)), nil
}

// Ping checks that the API key is accepted.
func (r *Remote) Ping(ctx context.Context) error {
	var resp json.RawMessage
	if err := r.api.GetJSON(ctx, "key_info", r.baseURL.JoinPath("v1", "key", "info").String(), &resp); err != nil {
		return fmt.Errorf("price api unreachable: %w", err)
	}
	return nil
}

// pick selects the fiat quote opening on date, falling back to the only quote returned.
func (r *Remote) pick(quotes []ohlcvQuote, date model.Date) (ohlcvValues, bool) {
	var fallback *ohlcvValues
	for _, q := range quotes {
		values, ok := q.Quote[r.fiatID]
		if !ok && len(q.Quote) == 1 {
			for _, v := range q.Quote {
				values, ok = v, true
			}
		}
		if !ok || values.Open == nil || values.Close == nil {
			continue
		}
		if !q.TimeOpen.IsZero() && model.DateOf(q.TimeOpen) == date {
			return values, true
		}
		if fallback == nil {
			v := values
			fallback = &v
		}
	}
	if fallback != nil && len(quotes) == 1 {
		return *fallback, true
	}
	return ohlcvValues{}, false
}

type ohlcvResponse struct {
	Data json.RawMessage `json:"data"`
}

type ohlcvEntry struct {
	Quotes []ohlcvQuote `json:"quotes"`
}

type ohlcvQuote struct {
	TimeOpen time.Time              `json:"time_open"`
	Quote    map[string]ohlcvValues `json:"quote"`
}

type ohlcvValues struct {
	Open  *decimal.Decimal `json:"open"`
	Close *decimal.Decimal `json:"close"`
}

// decodeQuotes accepts both the single-asset shape {"quotes": [...]} and the keyed shape
// {"<id>": {"quotes": [...]}} or {"<id>": [{"quotes": [...]}]}.
func decodeQuotes(raw json.RawMessage) ([]ohlcvQuote, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, errors.New("missing data")
	}

	var probe map[string]json.RawMessage
	if err := json.Unmarshal(raw, &probe); err != nil {
		return nil, fmt.Errorf("decode data: %w", err)
	}
	if _, ok := probe["quotes"]; ok {
		var entry ohlcvEntry
		if err := json.Unmarshal(raw, &entry); err != nil {
			return nil, fmt.Errorf("decode quotes: %w", err)
		}
		return entry.Quotes, nil
	}

	var quotes []ohlcvQuote
	for _, value := range probe {
		var entry ohlcvEntry
		if err := json.Unmarshal(value, &entry); err == nil {
			quotes = append(quotes, entry.Quotes...)
			continue
		}
		var entries []ohlcvEntry
		if err := json.Unmarshal(value, &entries); err != nil {
			return nil, fmt.Errorf("decode keyed quotes: %w", err)
		}
		for _, e := range entries {
			quotes = append(quotes, e.Quotes...)
		}
	}
	if len(quotes) == 0 {
		return nil, errors.New("no quotes")
	}
	return quotes, nil
}
