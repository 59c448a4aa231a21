package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/goodnatureofminers/blockinsight7000-income/internal/income/model"
	"github.com/goodnatureofminers/blockinsight7000-income/internal/income/price"
	"github.com/jessevdk/go-flags"
	"go.uber.org/zap"
)

type config struct {
	Table string `long:"table" env:"PRICE_TABLE_PATH" description:"local price table CSV" required:"true"`
	From  string `long:"from" env:"PRICE_TABLE_FROM" description:"first day, YYYY-MM-DD" required:"true"`
	To    string `long:"to" env:"PRICE_TABLE_TO" description:"last day, YYYY-MM-DD" required:"true"`
}

func main() {
	cfg := config{}

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

	if err := run(cfg, logger); err != nil {
		logger.Fatal("price table check failed", zap.Error(err))
	}
}

func run(cfg config, logger *zap.Logger) error {
	from, err := model.ParseDate(cfg.From)
	if err != nil {
		return err
	}
	to, err := model.ParseDate(cfg.To)
	if err != nil {
		return err
	}

	table, err := price.LoadTableFile(cfg.Table)
	if err != nil {
		return err
	}

	missing := table.MissingDates(model.Window{Min: from, Max: to})
	for _, d := range missing {
		fmt.Printf("%q,\n", d.String())
	}
	logger.Info("price table checked",
		zap.String("path", cfg.Table),
		zap.Int("prices", table.Len()),
		zap.Int("skipped_rows", table.Skipped),
		zap.Int("missing", len(missing)))
	return nil
}
