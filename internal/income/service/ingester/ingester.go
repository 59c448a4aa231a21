package ingester

import (
	"context"
	"errors"
	"time"

	"github.com/goodnatureofminers/blockinsight7000-income/internal/income/model"
	"go.uber.org/zap"
)

// Result is the state accumulated by one ingestion run. It is meaningful whatever the
// StopReason, including after a terminal failure or cancellation.
type Result struct {
	Deltas  model.DailyDeltas
	Summary model.IngestionSummary
	// Pages counts pages fetched successfully.
	Pages int
	// Events counts balance change events examined.
	Events int
	State  State
	Stop   StopReason
}

// Service walks an address's balance history backwards through time and aggregates the
// qualifying credits of one reporting window.
type Service struct {
	logger   *zap.Logger
	fetcher  PageFetcher
	resolver BlockResolver
	metrics  Metrics
	policy   MinerPolicy
}

// NewService builds a Service with dependencies.
func NewService(
	fetcher PageFetcher,
	resolver BlockResolver,
	metrics Metrics,
	policy MinerPolicy,
	logger *zap.Logger,
) (*Service, error) {
	if fetcher == nil {
		return nil, errors.New("page fetcher is required")
	}
	if resolver == nil {
		return nil, errors.New("block resolver is required")
	}
	if metrics == nil {
		return nil, errors.New("ingester metrics is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		logger:   logger.With(zap.Stringer("miner_policy", policy)),
		fetcher:  fetcher,
		resolver: resolver,
		metrics:  metrics,
		policy:   policy,
	}, nil
}

// Ingest pages through the history of address until the window is passed, history is
// exhausted or paging fails terminally. A terminal paging failure is reported through
// Result.Stop with a nil error; only cancellation returns an error, alongside the partial
// result.
func (s *Service) Ingest(ctx context.Context, address string, window model.Window) (Result, error) {
	res := Result{
		Deltas: make(model.DailyDeltas),
		State:  Searching,
	}
	logger := s.logger.With(
		zap.String("address", address),
		zap.Stringer("from", window.Min),
		zap.Stringer("to", window.Max),
	)

	var cursor *model.Cursor
	for {
		if err := ctx.Err(); err != nil {
			res.Stop = StopCanceled
			return res, err
		}

		started := time.Now()
		page, err := s.fetcher.FetchPage(ctx, address, cursor)
		s.metrics.ObservePage(err, len(page.Events), started)
		if err != nil {
			if ctx.Err() != nil {
				res.Stop = StopCanceled
				return res, ctx.Err()
			}
			logger.Warn("balance history paging failed, keeping partial result",
				zap.Int("pages", res.Pages), zap.Error(err))
			res.Stop = StopTerminalFailure
			return res, nil
		}
		res.Pages++
		if res.Pages%progressEveryPages == 0 {
			logger.Info("ingestion progress",
				zap.Int("pages", res.Pages),
				zap.Int("events", res.Events),
				zap.Stringer("state", res.State),
				zap.Int("income_events", res.Summary.Total()))
		}

		if err := s.processPage(ctx, address, window, page.Events, &res); err != nil {
			res.Stop = StopCanceled
			return res, err
		}
		if res.State == Done {
			res.Stop = StopWindowClosed
			logger.Info("reached start of window", zap.Int("pages", res.Pages))
			return res, nil
		}
		if page.Next.Exhausted() {
			res.Stop = StopExhausted
			logger.Info("balance history exhausted", zap.Int("pages", res.Pages))
			return res, nil
		}
		cursor = page.Next
	}
}

func (s *Service) processPage(
	ctx context.Context,
	address string,
	window model.Window,
	events []model.BalanceChangeEvent,
	res *Result,
) error {
	for _, ev := range events {
		res.Events++
		date := ev.Date()

		if res.State == Searching {
			if date.After(window.Max) {
				s.metrics.ObserveEvent(kindAfterWindow)
				continue
			}
			res.State = Collecting
		}

		if date.Before(window.Min) {
			s.metrics.ObserveEvent(kindBeforeWindow)
			res.State = Done
			return nil
		}
		if date.After(window.Max) {
			s.metrics.ObserveEvent(kindAfterWindow)
			continue
		}
		if !ev.Positive() {
			s.metrics.ObserveEvent(kindNonPositive)
			continue
		}

		if err := s.collect(ctx, address, ev, date, res); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) collect(
	ctx context.Context,
	address string,
	ev model.BalanceChangeEvent,
	date model.Date,
	res *Result,
) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	block, err := s.resolver.ResolveBlock(ctx, ev.BlockNumber)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		s.logger.Warn("block details unavailable", zap.Int64("block", ev.BlockNumber), zap.Error(err))
		block = model.BlockInfo{Number: ev.BlockNumber}
	}

	cls := classify(block, address, s.policy)
	switch {
	case cls.IsWithdrawal:
		res.Summary.WithdrawalCount++
		s.metrics.ObserveEvent(kindWithdrawal)
	case cls.IsMinerReward:
		res.Summary.MinerCount++
		s.metrics.ObserveEvent(kindMinerReward)
	default:
		s.logger.Debug("credit not classified, discarding",
			zap.Int64("block", ev.BlockNumber), zap.Stringer("date", date))
		s.metrics.ObserveEvent(kindUnclassified)
		return nil
	}

	res.Deltas.Add(date, ev.Coins())
	return nil
}
