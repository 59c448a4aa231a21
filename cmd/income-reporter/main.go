package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/goodnatureofminers/blockinsight7000-income/internal/income/blockscout"
	"github.com/goodnatureofminers/blockinsight7000-income/internal/income/model"
	"github.com/goodnatureofminers/blockinsight7000-income/internal/income/price"
	"github.com/goodnatureofminers/blockinsight7000-income/internal/income/service/ingester"
	"github.com/goodnatureofminers/blockinsight7000-income/internal/income/service/ledger"
	"github.com/goodnatureofminers/blockinsight7000-income/internal/metrics"
	"github.com/goodnatureofminers/blockinsight7000-income/internal/pkg/httpapi"
	"github.com/goodnatureofminers/blockinsight7000-income/internal/report"
	"github.com/goodnatureofminers/blockinsight7000-income/internal/retry"
	"github.com/goodnatureofminers/blockinsight7000-income/internal/terminal"
	"github.com/goodnatureofminers/blockinsight7000-income/internal/validate"
	"github.com/jessevdk/go-flags"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

type config struct {
	Address     string `long:"address" env:"INCOME_ADDRESS" description:"validator withdrawal address" required:"true"`
	Year        int    `long:"year" env:"INCOME_YEAR" description:"calendar year to report" required:"true"`
	Coin        string `long:"coin" env:"INCOME_COIN" description:"coin name used in report columns" default:"LYX"`
	Fiat        string `long:"fiat" env:"INCOME_FIAT" description:"fiat currency used in report columns" default:"EUR"`
	MinerPolicy string `long:"miner-policy" env:"INCOME_MINER_POLICY" description:"block reward classification" choice:"optimistic" choice:"strict" default:"optimistic"`
	OutputDir   string `long:"output-dir" env:"INCOME_OUTPUT_DIR" description:"directory for the CSV report" default:"."`
	Overwrite   bool   `long:"overwrite" env:"INCOME_OVERWRITE" description:"overwrite an existing report"`
	MetricsAddr string `long:"metrics-addr" env:"INCOME_METRICS_ADDR" description:"address for metrics server, disabled when empty"`

	ExplorerURL            string        `long:"explorer-url" env:"INCOME_EXPLORER_URL" description:"Blockscout API URL" default:"https://explorer.execution.mainnet.lukso.network/api"`
	ExplorerAPIKey         string        `long:"explorer-api-key" env:"INCOME_EXPLORER_API_KEY" description:"Blockscout API key"`
	ExplorerCallDelay      time.Duration `long:"explorer-call-delay" env:"INCOME_EXPLORER_CALL_DELAY" description:"pause after every successful explorer call" default:"1.2s"`
	ExplorerCallsPerMinute int           `long:"explorer-calls-per-minute" env:"INCOME_EXPLORER_CALLS_PER_MINUTE" description:"explorer request ceiling, retries included" default:"50"`

	PriceTable          string        `long:"price-table" env:"INCOME_PRICE_TABLE" description:"local price table CSV; enables dry run without price API"`
	PriceURL            string        `long:"price-url" env:"INCOME_PRICE_URL" description:"CoinMarketCap API URL" default:"https://pro-api.coinmarketcap.com"`
	PriceAPIKey         string        `long:"price-api-key" env:"INCOME_PRICE_API_KEY" description:"CoinMarketCap API key"`
	PriceCryptoID       string        `long:"price-crypto-id" env:"INCOME_PRICE_CRYPTO_ID" description:"CoinMarketCap id of the coin" default:"27622"`
	PriceFiatID         string        `long:"price-fiat-id" env:"INCOME_PRICE_FIAT_ID" description:"CoinMarketCap id of the fiat currency" default:"2790"`
	PriceCallDelay      time.Duration `long:"price-call-delay" env:"INCOME_PRICE_CALL_DELAY" description:"pause after every successful price call" default:"3s"`
	PriceCallsPerMinute int           `long:"price-calls-per-minute" env:"INCOME_PRICE_CALLS_PER_MINUTE" description:"price request ceiling, retries included" default:"20"`

	Retries     int           `long:"retries" env:"INCOME_RETRIES" description:"attempts per request" default:"3"`
	HTTPTimeout time.Duration `long:"http-timeout" env:"INCOME_HTTP_TIMEOUT" description:"timeout of a single request attempt" default:"10s"`
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
		logger.Fatal("income report failed", zap.Error(err))
	}
}

func run(ctx context.Context, cfg config, logger *zap.Logger) error {
	if err := validate.Address(cfg.Address); err != nil {
		return err
	}
	if err := validate.Year(cfg.Year, time.Now()); err != nil {
		return err
	}
	policy, err := ingester.ParseMinerPolicy(cfg.MinerPolicy)
	if err != nil {
		return err
	}

	path := filepath.Join(cfg.OutputDir, report.FileName(cfg.Year, cfg.Address)+".csv")
	if !cfg.Overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%w: %s, pass --overwrite to replace it", report.ErrExists, path)
		}
	}

	if cfg.MetricsAddr != "" {
		startMetricsServer(ctx, cfg.MetricsAddr, logger)
	}

	policyCfg := retry.Policy{Attempts: cfg.Retries, BackoffBase: retry.DefaultPolicy().BackoffBase, Timeout: cfg.HTTPTimeout}
	explorerAPI := httpapi.NewObservedClient(httpapi.Options{
		HTTPClient:     &http.Client{},
		Retry:          policyCfg,
		CallDelay:      cfg.ExplorerCallDelay,
		CallsPerMinute: cfg.ExplorerCallsPerMinute,
		Metrics:        metrics.NewHTTPClient("blockscout"),
		Logger:         logger.Named("blockscout"),
	})
	explorer, err := blockscout.NewClient(explorerAPI, cfg.ExplorerURL, cfg.ExplorerAPIKey, logger.Named("blockscout"))
	if err != nil {
		return fmt.Errorf("init explorer client: %w", err)
	}

	priceCfg := price.Config{
		TablePath: cfg.PriceTable,
		BaseURL:   cfg.PriceURL,
		CryptoID:  cfg.PriceCryptoID,
		FiatID:    cfg.PriceFiatID,
	}
	var priceAPI price.HTTPAPI
	if !priceCfg.DryRun() {
		priceAPI = httpapi.NewObservedClient(httpapi.Options{
			HTTPClient:     &http.Client{},
			Retry:          policyCfg,
			CallDelay:      cfg.PriceCallDelay,
			CallsPerMinute: cfg.PriceCallsPerMinute,
			Header:         http.Header{"X-CMC_PRO_API_KEY": []string{cfg.PriceAPIKey}},
			Metrics:        metrics.NewHTTPClient("coinmarketcap"),
			Logger:         logger.Named("coinmarketcap"),
		})
	}
	resolver, err := price.New(priceCfg, priceAPI, logger.Named("price"))
	if err != nil {
		return fmt.Errorf("init price resolver: %w", err)
	}

	services := map[string]validate.Pinger{"explorer": explorer}
	if remote, ok := resolver.(*price.Remote); ok {
		services["price api"] = remote
	}
	if err := validate.Reachable(ctx, services); err != nil {
		return err
	}

	if table, ok := resolver.(*price.Table); ok {
		window := model.YearWindow(cfg.Year)
		logger.Info("dry run with local price table",
			zap.String("path", cfg.PriceTable),
			zap.Int("prices", table.Len()),
			zap.Int("missing_days", len(table.MissingDates(window))))
	}

	started := time.Now()
	logger.Info("starting income report",
		zap.String("address", cfg.Address),
		zap.Int("year", cfg.Year),
		zap.Stringer("miner_policy", policy))

	ingest, err := ingester.NewService(explorer, explorer, metrics.NewIngester(cfg.Coin), policy, logger.Named("ingester"))
	if err != nil {
		return err
	}
	result, ingestErr := ingest.Ingest(ctx, cfg.Address, model.YearWindow(cfg.Year))
	if ingestErr != nil && !errors.Is(ingestErr, context.Canceled) {
		return fmt.Errorf("ingest balance history: %w", ingestErr)
	}
	logger.Info("balance history ingested",
		zap.String("stop", string(result.Stop)),
		zap.Int("pages", result.Pages),
		zap.Int("days", len(result.Deltas)),
		zap.Int("withdrawals", result.Summary.WithdrawalCount),
		zap.Int("miner_rewards", result.Summary.MinerCount))

	builder, err := ledger.NewBuilder(metrics.NewLedger(cfg.Coin), logger.Named("ledger"))
	if err != nil {
		return err
	}
	progress := terminal.NewProgressResolver(resolver, len(result.Deltas), "Calculating income", os.Stderr, logger)
	book, buildErr := builder.Build(ctx, result.Deltas, progress)
	progress.Finish()
	if buildErr != nil && !errors.Is(buildErr, context.Canceled) {
		return fmt.Errorf("build ledger: %w", buildErr)
	}

	if err := report.WriteCSVFile(path, book, report.Columns{Coin: cfg.Coin, Fiat: cfg.Fiat}, cfg.Overwrite); err != nil {
		return err
	}

	fields := []zap.Field{
		zap.String("path", path),
		zap.Int("rows", len(book.Rows)),
		zap.Stringer("total_income", book.Totals.TotalIncome),
		zap.Stringer("total_coins", book.Totals.TotalCoins),
		zap.Int("missing_prices", book.Totals.MissingDataCount),
		zap.Int("validator_earnings", result.Summary.Total()),
		zap.Duration("elapsed", time.Since(started)),
	}
	for _, m := range book.Totals.Months {
		logger.Info("monthly income",
			zap.Stringer("month", m.Month),
			zap.Stringer("income", m.Income),
			zap.Stringer("coins", m.Coins))
	}
	if ingestErr != nil || buildErr != nil {
		logger.Warn("interrupted, partial report written", fields...)
		return nil
	}
	logger.Info("income report written", fields...)
	return nil
}

func startMetricsServer(ctx context.Context, addr string, logger *zap.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info("starting metrics server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server failed", zap.Error(err))
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("failed to shutdown metrics server", zap.Error(err))
		}
	}()
}
