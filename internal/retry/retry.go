// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

// Package retry provides bounded exponential backoff shared by the profile
// reconciler and organization loader, replacing the scattered ad hoc delays
// of earlier iterations with one parameterized policy.
package retry

import (
	"context"
	"errors"
	"math/rand"
	"time"
)

// ErrMaxAttemptsExceeded marks an operation that stayed transient through
// every allowed attempt.
var ErrMaxAttemptsExceeded = errors.New("retry: max attempts exceeded")

// Config parameterizes a retry policy.
type Config struct {
	// MaxAttempts is the total number of attempts, including the first.
	MaxAttempts int

	// BaseDelay is the delay before the first retry; attempt n waits
	// BaseDelay << n.
	BaseDelay time.Duration

	// CallTimeout bounds each individual attempt.
	CallTimeout time.Duration

	// Jitter is the random factor (0-1) added to each delay.
	Jitter float64
}

// DefaultConfig returns the policy used when nothing is configured.
func DefaultConfig() Config {
	return Config{
		MaxAttempts: 3,
		BaseDelay:   500 * time.Millisecond,
		CallTimeout: 5 * time.Second,
		Jitter:      0.1,
	}
}

// Delay computes the backoff before retrying after the given zero-based
// attempt number.
func (c Config) Delay(attempt int) time.Duration {
	if attempt < 0 {
		attempt = 0
	}

	delay := c.BaseDelay << uint(attempt)
	if c.Jitter > 0 {
		delay += time.Duration(rand.Float64() * c.Jitter * float64(delay))
	}
	return delay
}

// Wait sleeps for the backoff owed after the given attempt, or returns early
// with the context's error.
func (c Config) Wait(ctx context.Context, attempt int) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(c.Delay(attempt)):
		return nil
	}
}

// Call runs fn under the per-call timeout.
func (c Config) Call(ctx context.Context, fn func(context.Context) error) error {
	if c.CallTimeout <= 0 {
		return fn(ctx)
	}

	callCtx, cancel := context.WithTimeout(ctx, c.CallTimeout)
	defer cancel()

	return fn(callCtx)
}

// Do runs fn until it succeeds, fails with a non-retryable error, or
// exhausts the configured attempts. retryable decides which errors are
// worth another attempt.
func Do(ctx context.Context, cfg Config, retryable func(error) bool, fn func(context.Context) error) error {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 1
	}

	var lastErr error
	for attempt := 0; attempt < cfg.MaxAttempts; attempt++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		lastErr = cfg.Call(ctx, fn)
		if lastErr == nil {
			return nil
		}

		if !retryable(lastErr) {
			return lastErr
		}

		if attempt == cfg.MaxAttempts-1 {
			break
		}

		if err := cfg.Wait(ctx, attempt); err != nil {
			return err
		}
	}

	return errors.Join(ErrMaxAttemptsExceeded, lastErr)
}
