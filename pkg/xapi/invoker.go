package xapi

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Invoker wraps remote calls with the backoff policy. Only rate-limit errors
// are retried; every other failure (not found, malformed request, auth)
// propagates to the caller on the first attempt.
type Invoker struct {
	policy Policy
	sleep  func(context.Context, time.Duration) error
	logger *zap.Logger
}

// NewInvoker creates an invoker with the given policy. Pass nil logger to
// silence retry diagnostics.
func NewInvoker(policy Policy, logger *zap.Logger) *Invoker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Invoker{
		policy: policy,
		sleep:  sleepContext,
		logger: logger,
	}
}

// sleepContext blocks for d or until ctx is cancelled.
func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Invoke executes call, sleeping and retrying on rate-limit errors until the
// policy gives up. The attempt in progress is never interrupted; cancellation
// is honored during backoff waits.
func Invoke[T any](ctx context.Context, inv *Invoker, call func() (T, error)) (T, error) {
	var zero T
	var lastErr error

	for attempt := 0; ; attempt++ {
		result, err := call()
		if err == nil {
			return result, nil
		}
		lastErr = err

		if !IsRateLimit(err) {
			return zero, err
		}
		if !inv.policy.ShouldRetry(attempt) {
			return zero, lastErr
		}

		wait := inv.policy.DelayFor(attempt)
		inv.logger.Warn("Rate limited by X API, backing off",
			zap.Int("attempt", attempt+1),
			zap.Int("max_retries", inv.policy.MaxRetries),
			zap.Duration("wait", wait))

		if err := inv.sleep(ctx, wait); err != nil {
			return zero, err
		}
	}
}
