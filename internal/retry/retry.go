// Package retry re-runs failing operations with constant or exponential backoff.
//
// Only errors accepted by the retry predicate are retried; by default that is
// IsNetworkError, so permanent failures surface on the first attempt.
package retry

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/cenkalti/backoff/v4"
)

const (
	DefaultRetries  = 3
	DefaultInterval = time.Second
)

type options struct {
	retries     int
	interval    time.Duration
	exponential bool
	retryable   func(error) bool
	notify      func(err error, wait time.Duration)
	timer       backoff.Timer
}

type Option func(*options)

// WithRetries sets how many times a failed call is retried (not the total attempts).
func WithRetries(n int) Option {
	return func(o *options) {
		if n < 0 {
			n = 0
		}
		o.retries = n
	}
}

// WithInterval sets the wait before the first retry.
func WithInterval(d time.Duration) Option {
	return func(o *options) { o.interval = d }
}

// Constant keeps the interval fixed instead of doubling it.
func Constant() Option {
	return func(o *options) { o.exponential = false }
}

// RetryIf replaces the eligibility predicate.
func RetryIf(pred func(error) bool) Option {
	return func(o *options) { o.retryable = pred }
}

// RetryAll retries every error regardless of its class.
func RetryAll() Option {
	return RetryIf(func(error) bool { return true })
}

// WithNotify is called before each wait with the error and the wait duration.
func WithNotify(fn func(err error, wait time.Duration)) Option {
	return func(o *options) { o.notify = fn }
}

// WithTimer swaps the timer used between attempts.
func WithTimer(t backoff.Timer) Option {
	return func(o *options) { o.timer = t }
}

// Do calls fn until it succeeds, the error is not retryable, the retry budget is
// spent or ctx is done. The last error from fn is returned unchanged.
func Do[T any](ctx context.Context, fn func(context.Context) (T, error), opts ...Option) (T, error) {
	o := options{
		retries:     DefaultRetries,
		interval:    DefaultInterval,
		exponential: true,
		retryable:   IsNetworkError,
	}
	for _, opt := range opts {
		opt(&o)
	}

	var result T
	operation := func() error {
		v, err := fn(ctx)
		if err == nil {
			result = v
			return nil
		}
		if !o.retryable(err) {
			return backoff.Permanent(err)
		}
		return err
	}

	b := backoff.WithContext(backoff.WithMaxRetries(o.policy(), uint64(o.retries)), ctx)
	err := backoff.RetryNotifyWithTimer(operation, b, o.notify, o.timer)
	if err != nil {
		var zero T
		var perm *backoff.PermanentError
		if errors.As(err, &perm) {
			return zero, perm.Err
		}
		return zero, err
	}
	return result, nil
}

// Run is Do for operations without a result.
func Run(ctx context.Context, fn func(context.Context) error, opts ...Option) error {
	_, err := Do(ctx, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, fn(ctx)
	}, opts...)
	return err
}

func (o options) policy() backoff.BackOff {
	if !o.exponential {
		return backoff.NewConstantBackOff(o.interval)
	}
	eb := backoff.NewExponentialBackOff()
	eb.InitialInterval = o.interval
	eb.Multiplier = 2
	eb.RandomizationFactor = 0
	eb.MaxInterval = time.Duration(math.MaxInt64)
	eb.MaxElapsedTime = 0
	eb.Reset()
	return eb
}
