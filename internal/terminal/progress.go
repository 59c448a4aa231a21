// Package terminal reports run progress on the operator's terminal.
package terminal

import (
	"context"
	"fmt"
	"io"

	"github.com/goodnatureofminers/blockinsight7000-income/internal/income/model"
	"github.com/schollz/progressbar/v3"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Resolver is the price lookup being tracked.
type Resolver interface {
	Resolve(ctx context.Context, date model.Date) (decimal.NullDecimal, error)
}

// ProgressResolver advances a progress bar for every price lookup it forwards.
type ProgressResolver struct {
	next   Resolver
	bar    *progressbar.ProgressBar
	logger *zap.Logger
}

// NewProgressResolver wraps next with a bar of total steps rendered to w.
func NewProgressResolver(next Resolver, total int, description string, w io.Writer, logger *zap.Logger) *ProgressResolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	bar := progressbar.NewOptions(total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("[cyan]"+description+"[reset]"),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionOnCompletion(func() {
			_, _ = fmt.Fprintln(w)
		}),
	)
	return &ProgressResolver{next: next, bar: bar, logger: logger}
}

// Resolve forwards the lookup and advances the bar, whatever the outcome.
func (p *ProgressResolver) Resolve(ctx context.Context, date model.Date) (decimal.NullDecimal, error) {
	price, err := p.next.Resolve(ctx, date)
	if addErr := p.bar.Add(1); addErr != nil {
		p.logger.Debug("failed to update progress bar", zap.Error(addErr))
	}
	return price, err
}

// Finish completes the bar.
func (p *ProgressResolver) Finish() {
	if err := p.bar.Finish(); err != nil {
		p.logger.Debug("failed to finish progress bar", zap.Error(err))
	}
}
