package client

import (
	"context"
	"time"

	"github.com/avast/retry-go"
	"github.com/rs/zerolog"
)

const (
	// retryAttempts counts the initial try plus at most one retry.
	retryAttempts = 2
	retryDelay    = 250 * time.Millisecond
)

// retrying wraps a Doer and retries retryable failures once with backoff.
// Client errors (4xx) pass through untouched.
type retrying struct {
	next Doer
	log  zerolog.Logger
}

// WithRetry returns a Doer that retries server, network, and timeout
// failures at most once before giving up.
func WithRetry(next Doer, logger zerolog.Logger) Doer {
	return &retrying{next: next, log: logger}
}

func (r *retrying) Request(ctx context.Context, method, path string, opts ...RequestOption) (*Response, error) {
	var resp *Response
	err := retry.Do(
		func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			var err error
			resp, err = r.next.Request(ctx, method, path, opts...)
			return err
		},
		retry.Attempts(retryAttempts),
		retry.Delay(retryDelay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(func(err error) bool {
			return ctx.Err() == nil && Retryable(err)
		}),
		retry.OnRetry(func(n uint, err error) {
			r.log.Warn().
				Uint("attempt", n+1).
				Str("method", method).
				Str("path", path).
				Err(err).
				Msg("retrying platform request")
		}),
	)
	if err != nil {
		return nil, err
	}
	return resp, nil
}
