package ingest

import (
	"context"
	"log/slog"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/jdholdren/postboard/internal/metrics"
)

// RetryPolicy bounds how an operation is retried. The wait before attempt k+1
// is BaseDelay * 2^(k-1), with no jitter.
type RetryPolicy struct {
	MaxAttempts int
	BaseDelay   time.Duration
}

// DefaultRetryPolicy waits 1s then 2s, for three attempts in total.
var DefaultRetryPolicy = RetryPolicy{MaxAttempts: 3, BaseDelay: time.Second}

func (p RetryPolicy) backoff() retry.Backoff {
	attempts := max(p.MaxAttempts, 1)
	base := p.BaseDelay
	if base <= 0 {
		base = time.Nanosecond
	}

	return retry.WithMaxRetries(uint64(attempts-1), retry.NewExponential(base))
}

// WithRetry runs op until it succeeds or the policy's attempts are used up, in
// which case the last error is returned. Every error is retried the same way.
//
// The wait between attempts respects ctx, and a cancelled ctx ends the loop
// with ctx's error.
func WithRetry[T any](ctx context.Context, policy RetryPolicy, op func(context.Context) (T, error)) (T, error) {
	var (
		result  T
		attempt int
	)
	err := retry.Do(ctx, policy.backoff(), func(ctx context.Context) error {
		attempt++
		v, err := op(ctx)
		if err != nil {
			metrics.IngestBatchAttempts.WithLabelValues("failure").Inc()
			slog.WarnContext(ctx, "attempt failed", "attempt", attempt, "max_attempts", policy.MaxAttempts, "err", err)
			return retry.RetryableError(err)
		}

		metrics.IngestBatchAttempts.WithLabelValues("success").Inc()
		result = v
		return nil
	})
	if err != nil {
		var zero T
		return zero, err
	}

	return result, nil
}
