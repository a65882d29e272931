// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides HTTP helpers shared across stages: a fetcher
// with per-call timeouts and typed errors, retry with exponential backoff,
// and User-Agent providers.
package httputil

import (
	"context"
	"math"
	"time"
)

// RetryBaseDelay controls the base duration for exponential backoff.
// Tests override this to avoid real sleeps.
var RetryBaseDelay = 1 * time.Second

// Retry calls fn until it succeeds, returns a permanent error, or maxRetries
// retries have been spent. The delay starts at RetryBaseDelay (1 s) and
// doubles each attempt: 1 s, 2 s, 4 s.
//
// fn receives the zero-based attempt number. A negative maxRetries is treated
// as zero. If the context is cancelled during a backoff wait the function
// returns ctx.Err(). After exhausting retries the last error is returned.
func Retry(ctx context.Context, maxRetries int, fn func(attempt int) error) error {
	if maxRetries < 0 {
		maxRetries = 0
	}

	for attempt := 0; ; attempt++ {
		err := fn(attempt)
		if err == nil {
			return nil
		}
		if !IsTransient(err) || attempt >= maxRetries {
			return err
		}

		backoff := time.Duration(math.Pow(2, float64(attempt))) * RetryBaseDelay

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
	}
}
