package middleware

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/terraskye/mediator"
)

type retryOptions struct {
	// RetryIf decides whether a failed attempt is retried.
	RetryIf func(err error) bool

	// Notify is called before every retry with the error and the delay.
	Notify backoff.Notify
}

// RetryOption configures Retry.
type RetryOption func(*retryOptions)

// WithRetryIf restricts retries to errors for which fn returns true.
// Context errors are never retried.
func WithRetryIf(fn func(err error) bool) RetryOption {
	return func(o *retryOptions) { o.RetryIf = fn }
}

// WithRetryNotify registers a callback invoked before each retry.
func WithRetryNotify(fn backoff.Notify) RetryOption {
	return func(o *retryOptions) { o.Notify = fn }
}

// Retry re-runs the rest of the chain while it fails, pacing attempts with a
// fresh BackOff from newBackOff for every request. The last error is returned
// unwrapped once the BackOff stops.
//
// Handlers of context-aware mediators take the context lock per attempt, so
// the lock is not held while waiting between attempts.
//
// Usage:
//
//	mw := Retry(func() backoff.BackOff {
//		return backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 3)
//	})
func Retry(newBackOff func() backoff.BackOff, opts ...RetryOption) mediator.Middleware {
	cfg := &retryOptions{
		RetryIf: func(error) bool { return true },
	}
	for _, o := range opts {
		o(cfg)
	}

	return func(ctx context.Context, req any, next mediator.HandlerFunc) error {
		b := backoff.WithContext(newBackOff(), ctx)

		return backoff.RetryNotify(func() error {
			err := next(ctx, req)
			if err == nil {
				return nil
			}
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) || !cfg.RetryIf(err) {
				return backoff.Permanent(err)
			}
			return err
		}, b, func(err error, d time.Duration) {
			if cfg.Notify != nil {
				cfg.Notify(err, d)
			}
		})
	}
}
