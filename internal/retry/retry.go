// Package retry runs network operations under a bounded attempt/backoff policy and reports
// a tagged outcome instead of surfacing raw transport errors.
package retry

import (
	"context"
	"errors"
	"io"
	"net"
	"net/url"
	"syscall"
	"time"

	"github.com/goodnatureofminers/blockinsight7000-income/internal/clock"
	"go.uber.org/zap"
)

// Outcome tags the result of a retried operation.
type Outcome int

const (
	// Succeeded means one attempt completed without error.
	Succeeded Outcome = iota
	// Rejected means an attempt failed with a permanent error and was not retried.
	Rejected
	// Exhausted means every attempt failed with a transient error.
	Exhausted
	// Canceled means the parent context ended before the operation completed.
	Canceled
)

func (o Outcome) String() string {
	switch o {
	case Succeeded:
		return "succeeded"
	case Rejected:
		return "rejected"
	case Exhausted:
		return "exhausted"
	case Canceled:
		return "canceled"
	default:
		return "unknown"
	}
}

// Result reports how a retried operation ended.
type Result struct {
	Outcome  Outcome
	Attempts int
	// Err is the last error observed; nil on success.
	Err error
}

// OK reports whether the operation succeeded.
func (r Result) OK() bool { return r.Outcome == Succeeded }

// Policy bounds the attempts of a single operation.
type Policy struct {
	Attempts    int
	BackoffBase float64
	Timeout     time.Duration
}

// DefaultPolicy returns 3 attempts, 1s/2s/4s backoff and a 10s per-attempt timeout.
func DefaultPolicy() Policy {
	return Policy{
		Attempts:    3,
		BackoffBase: 2,
		Timeout:     10 * time.Second,
	}
}

// Retrier executes operations under a Policy.
type Retrier struct {
	policy Policy
	sleep  clock.SleepFunc
	logger *zap.Logger
}

// New constructs a Retrier. Non-positive attempts fall back to the default policy's value.
func New(policy Policy, logger *zap.Logger) *Retrier {
	if policy.Attempts <= 0 {
		policy.Attempts = DefaultPolicy().Attempts
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Retrier{
		policy: policy,
		sleep:  clock.SleepWithContext,
		logger: logger,
	}
}

// Policy returns the policy the retrier runs with.
func (r *Retrier) Policy() Policy {
	return r.policy
}

// Do runs fn until it succeeds, fails permanently, runs out of attempts or ctx ends.
// Each attempt receives a context bounded by the per-attempt timeout. A transient failure
// is followed by an exponential backoff sleep.
func (r *Retrier) Do(ctx context.Context, op string, fn func(ctx context.Context) error) Result {
	var lastErr error
	for attempt := 0; attempt < r.policy.Attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return Result{Outcome: Canceled, Attempts: attempt, Err: err}
		}

		err := r.attempt(ctx, fn)
		if err == nil {
			return Result{Outcome: Succeeded, Attempts: attempt + 1}
		}
		lastErr = err

		if ctx.Err() != nil {
			return Result{Outcome: Canceled, Attempts: attempt + 1, Err: ctx.Err()}
		}
		if !IsTransient(err) {
			r.logger.Warn("request failed permanently",
				zap.String("operation", op),
				zap.Error(err))
			return Result{Outcome: Rejected, Attempts: attempt + 1, Err: err}
		}

		backoff := clock.ExponentialBackoff(r.policy.BackoffBase, attempt)
		r.logger.Warn("network error, retrying",
			zap.String("operation", op),
			zap.Int("attempt", attempt+1),
			zap.Int("attempts", r.policy.Attempts),
			zap.Duration("backoff", backoff),
			zap.Error(err))
		if sleepErr := r.sleep(ctx, backoff); sleepErr != nil {
			return Result{Outcome: Canceled, Attempts: attempt + 1, Err: sleepErr}
		}
	}

	r.logger.Error("request failed after all attempts",
		zap.String("operation", op),
		zap.Int("attempts", r.policy.Attempts),
		zap.Error(lastErr))
	return Result{Outcome: Exhausted, Attempts: r.policy.Attempts, Err: lastErr}
}

func (r *Retrier) attempt(ctx context.Context, fn func(ctx context.Context) error) error {
	if r.policy.Timeout <= 0 {
		return fn(ctx)
	}
	attemptCtx, cancel := context.WithTimeout(ctx, r.policy.Timeout)
	defer cancel()
	return fn(attemptCtx)
}

// IsTransient reports whether err is a connection or timeout failure worth retrying.
// Callers must check the parent context first: a deadline here is the per-attempt one.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	// url.Error satisfies net.Error itself, so classify by what it wraps.
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		err = urlErr.Err
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	return errors.Is(err, io.EOF) ||
		errors.Is(err, io.ErrUnexpectedEOF) ||
		errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.ECONNREFUSED)
}
