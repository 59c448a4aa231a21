package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/goodnatureofminers/blockinsight7000-income/internal/income/model"
	"github.com/goodnatureofminers/blockinsight7000-income/internal/income/price"
	"github.com/goodnatureofminers/blockinsight7000-income/internal/income/service/pricelist"
	"github.com/goodnatureofminers/blockinsight7000-income/internal/metrics"
	"github.com/goodnatureofminers/blockinsight7000-income/internal/pkg/httpapi"
	"github.com/goodnatureofminers/blockinsight7000-income/internal/retry"
	"github.com/goodnatureofminers/blockinsight7000-income/internal/terminal"
	"github.com/jessevdk/go-flags"
	"go.uber.org/zap"
)

type config struct {
	From      string `long:"from" env:"PRICE_LIST_FROM" description:"first day, YYYY-MM-DD" required:"true"`
	To        string `long:"to" env:"PRICE_LIST_TO" description:"last day, YYYY-MM-DD" required:"true"`
	Output    string `long:"output" env:"PRICE_LIST_OUTPUT" description:"price table file to write" default:"local_price_list.csv"`
	Overwrite bool   `long:"overwrite" env:"PRICE_LIST_OVERWRITE" description:"overwrite an existing price table"`
	Coin      string `long:"coin" env:"PRICE_LIST_COIN" description:"coin name used in the price column" default:"LYX"`

	PriceURL            string        `long:"price-url" env:"PRICE_LIST_PRICE_URL" description:"CoinMarketCap API URL" default:"https://pro-api.coinmarketcap.com"`
	PriceAPIKey         string        `long:"price-api-key" env:"PRICE_LIST_PRICE_API_KEY" description:"CoinMarketCap API key" required:"true"`
	PriceCryptoID       string        `long:"price-crypto-id" env:"PRICE_LIST_PRICE_CRYPTO_ID" description:"CoinMarketCap id of the coin" default:"27622"`
	PriceFiatID         string        `long:"price-fiat-id" env:"PRICE_LIST_PRICE_FIAT_ID" description:"CoinMarketCap id of the fiat currency" default:"2790"`
	PriceCallDelay      time.Duration `long:"price-call-delay" env:"PRICE_LIST_PRICE_CALL_DELAY" description:"pause after every successful price call" default:"3s"`
	PriceCallsPerMinute int           `long:"price-calls-per-minute" env:"PRICE_LIST_PRICE_CALLS_PER_MINUTE" description:"price request ceiling, retries included" default:"20"`
	HTTPTimeout         time.Duration `long:"http-timeout" env:"PRICE_LIST_HTTP_TIMEOUT" description:"timeout of a single request attempt" default:"10s"`
}

func main() {
	cfg := config{}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger, err := zap.NewDevelopment()
	if err != nil {
		panic("can't initialize zap logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync()
	}()

	if _, err := flags.ParseArgs(&cfg, os.Args); err != nil {
		var ferr *flags.Error
		if errors.As(err, &ferr) && ferr.Type == flags.ErrHelp {
			return
		}
		logger.Fatal("failed to parse flags", zap.Error(err))
	}

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal("price list generation failed", zap.Error(err))
	}
}

func run(ctx context.Context, cfg config, logger *zap.Logger) (err error) {
	from, err := model.ParseDate(cfg.From)
	if err != nil {
		return err
	}
	to, err := model.ParseDate(cfg.To)
	if err != nil {
		return err
	}
	if to.Before(from) {
		return fmt.Errorf("range end %s before start %s", to, from)
	}

	policy := retry.DefaultPolicy()
	policy.Timeout = cfg.HTTPTimeout
	api := httpapi.NewObservedClient(httpapi.Options{
		HTTPClient:     &http.Client{},
		Retry:          policy,
		CallDelay:      cfg.PriceCallDelay,
		CallsPerMinute: cfg.PriceCallsPerMinute,
		Header:         http.Header{"X-CMC_PRO_API_KEY": []string{cfg.PriceAPIKey}},
		Metrics:        metrics.NewHTTPClient("coinmarketcap"),
		Logger:         logger.Named("coinmarketcap"),
	})
	remote, err := price.NewRemote(api, cfg.PriceURL, cfg.PriceCryptoID, cfg.PriceFiatID, logger.Named("price"))
	if err != nil {
		return fmt.Errorf("init price resolver: %w", err)
	}
	if err := remote.Ping(ctx); err != nil {
		return err
	}

	flag := os.O_WRONLY | os.O_CREATE | os.O_EXCL
	if cfg.Overwrite {
		flag = os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	}
	f, err := os.OpenFile(cfg.Output, flag, 0o644)
	if err != nil {
		return fmt.Errorf("create price table: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	gen := pricelist.NewGenerator("Former "+cfg.Coin+" Price", logger.Named("pricelist"))
	window := model.Window{Min: from, Max: to}
	progress := terminal.NewProgressResolver(remote, len(window.Days()), "Fetching prices", os.Stderr, logger)
	written, err := gen.Generate(ctx, progress, window, f)
	progress.Finish()
	if errors.Is(err, context.Canceled) {
		logger.Warn("interrupted, price table kept", zap.String("path", cfg.Output), zap.Int("rows", written))
		return nil
	}
	if err != nil {
		return err
	}
	logger.Info("price table written", zap.String("path", cfg.Output), zap.Int("rows", written))
	return nil
}
