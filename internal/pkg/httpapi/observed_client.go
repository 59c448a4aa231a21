// Package httpapi provides a paced, retrying and metered JSON-over-HTTP client for
// third-party APIs with call quotas.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/goodnatureofminers/blockinsight7000-income/internal/clock"
	"github.com/goodnatureofminers/blockinsight7000-income/internal/retry"
	"go.uber.org/ratelimit"
	"go.uber.org/zap"
)

var (
	// ErrRejected marks a permanent failure that was not retried.
	ErrRejected = errors.New("request rejected")
	// ErrExhausted marks a request whose retries were all spent on transient failures.
	ErrExhausted = errors.New("request retries exhausted")
)

// StatusError is returned for a non-2xx response.
type StatusError struct {
	StatusCode int
	URL        string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d from %s", e.StatusCode, e.URL)
}

type (
	// Metrics records metrics for API calls.
	Metrics interface {
		Observe(operation string, err error, started time.Time)
	}
	// Doer executes HTTP requests.
	Doer interface {
		Do(req *http.Request) (*http.Response, error)
	}
)

// Options configures an ObservedClient.
type Options struct {
	HTTPClient Doer
	Retry      retry.Policy
	// CallDelay is slept after every successful call.
	CallDelay time.Duration
	// CallsPerMinute caps attempts, retries included. Zero disables the cap.
	CallsPerMinute int
	Header         http.Header
	Metrics        Metrics
	Logger         *zap.Logger
}

// ObservedClient issues GET requests under a retry policy, a quota and a post-success delay.
type ObservedClient struct {
	client    Doer
	retrier   *retry.Retrier
	limiter   ratelimit.Limiter
	callDelay time.Duration
	header    http.Header
	sleep     clock.SleepFunc
	metrics   Metrics
}

// NewObservedClient constructs an ObservedClient.
func NewObservedClient(opts Options) *ObservedClient {
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Metrics == nil {
		opts.Metrics = nopMetrics{}
	}

	limiter := ratelimit.NewUnlimited()
	if opts.CallsPerMinute > 0 {
		limiter = ratelimit.New(opts.CallsPerMinute, ratelimit.Per(time.Minute), ratelimit.WithoutSlack)
	}

	return &ObservedClient{
		client:    opts.HTTPClient,
		retrier:   retry.New(opts.Retry, opts.Logger),
		limiter:   limiter,
		callDelay: opts.CallDelay,
		header:    opts.Header.Clone(),
		sleep:     clock.SleepWithContext,
		metrics:   opts.Metrics,
	}
}

// GetJSON fetches rawURL and decodes the JSON body into out. It returns ctx.Err() on
// cancellation, or an error wrapping ErrRejected or ErrExhausted.
func (c *ObservedClient) GetJSON(ctx context.Context, operation, rawURL string, out any) (err error) {
	started := time.Now()
	defer func() {
		c.metrics.Observe(operation, err, started)
	}()

	res := c.retrier.Do(ctx, operation, func(ctx context.Context) error {
		c.limiter.Take()
		return c.get(ctx, rawURL, out)
	})

	switch res.Outcome {
	case retry.Succeeded:
		// The payload is already decoded; a cancellation here surfaces on the next call.
		_ = c.sleep(ctx, c.callDelay)
		return nil
	case retry.Canceled:
		return res.Err
	case retry.Rejected:
		return fmt.Errorf("%s: %w: %w", operation, ErrRejected, res.Err)
	default:
		return fmt.Errorf("%s after %d attempts: %w: %w", operation, res.Attempts, ErrExhausted, res.Err)
	}
}

func (c *ObservedClient) get(ctx context.Context, rawURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	for key, values := range c.header {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}
	if req.Header.Get("Accept") == "" {
		req.Header.Set("Accept", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		_, _ = io.Copy(io.Discard, resp.Body)
		return &StatusError{StatusCode: resp.StatusCode, URL: req.URL.Redacted()}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

type nopMetrics struct{}

func (nopMetrics) Observe(string, error, time.Time) {}
