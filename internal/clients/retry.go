// Janitarr - Media Library Janitor
// Copyright 2026 M. Pellat
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mpellat/janitarr

package clients

import (
	"context"
	"time"

	"github.com/mpellat/janitarr/internal/logging"
)

// Retry policy shared by all downstream calls: up to 3 retries after the
// initial attempt, exponential backoff starting at 1s and doubling.
const (
	defaultMaxRetries   = 3
	defaultInitialDelay = 1 * time.Second
	backoffMultiplier   = 2
)

// Retryer executes downstream calls with bounded exponential backoff.
// Transient failures (see IsTransient) are retried; permanent failures
// propagate immediately. The zero value is not usable; use NewRetryer.
type Retryer struct {
	maxRetries   int
	initialDelay time.Duration

	// sleep waits for the given duration or until the context is done.
	// Replaced in tests to observe backoff without real waiting.
	sleep func(ctx context.Context, d time.Duration) error
}

// NewRetryer returns a Retryer with the default policy.
func NewRetryer() *Retryer {
	return &Retryer{
		maxRetries:   defaultMaxRetries,
		initialDelay: defaultInitialDelay,
		sleep:        ctxSleep,
	}
}

func ctxSleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Do executes fn, retrying transient failures with exponential backoff
// (1s, 2s, 4s). Permanent failures and exhausted retries propagate the
// last error. The service label is used for logging only.
func (r *Retryer) Do(ctx context.Context, service string, fn func(context.Context) error) error {
	delay := r.initialDelay

	var err error
	for attempt := 0; ; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		err = fn(ctx)
		if err == nil {
			return nil
		}
		if !IsTransient(err) {
			return err
		}
		if attempt == r.maxRetries {
			return err
		}

		logging.Warn().
			Err(err).
			Str("service", service).
			Int("attempt", attempt+1).
			Int("max_attempts", r.maxRetries+1).
			Dur("delay", delay).
			Msg("Transient upstream error, retrying")

		if sleepErr := r.sleep(ctx, delay); sleepErr != nil {
			return sleepErr
		}
		delay *= backoffMultiplier
	}
}

// FetchWithRetry runs a result-producing call through the Retryer.
func FetchWithRetry[T any](ctx context.Context, r *Retryer, service string, fn func(context.Context) (T, error)) (T, error) {
	var result T
	err := r.Do(ctx, service, func(ctx context.Context) error {
		var fnErr error
		result, fnErr = fn(ctx)
		return fnErr
	})
	return result, err
}
