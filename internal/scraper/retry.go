package scraper

import (
	"context"
	"crypto/rand"
	"errors"
	"log/slog"
	"math"
	"math/big"
	"time"
)

// RetryWithBackoff retries a function with exponential backoff and jitter.
// Stops retrying immediately if the error is a permanentError.
//
// maxRetries: maximum number of retry attempts (0 = no retry, just try once)
// initialDelay: delay before the first retry (e.g. 1s)
//
// Backoff formula: delay = initialDelay * 2^attempt ± 25% jitter
func RetryWithBackoff(ctx context.Context, maxRetries int, initialDelay time.Duration, fn func() error) error {
	var lastErr error
	startTime := time.Now()

	for attempt := 0; attempt <= maxRetries; attempt++ {
		err := fn()
		if err == nil {
			if attempt > 0 {
				slog.InfoContext(ctx, "Request succeeded after retries",
					"total_attempts", attempt+1,
					"total_duration_ms", time.Since(startTime).Milliseconds())
			}
			return nil
		}
		lastErr = err

		var permErr *permanentError
		if errors.As(err, &permErr) {
			slog.DebugContext(ctx, "Permanent error, not retrying",
				"error", err,
				"attempt", attempt+1)
			return permErr.Unwrap()
		}

		if attempt == maxRetries {
			break
		}

		slog.DebugContext(ctx, "Request failed, will retry",
			"attempt", attempt+1,
			"max_retries", maxRetries,
			"error", err)

		delay := time.Duration(float64(initialDelay) * math.Pow(2, float64(attempt)))

		// ±25% jitter
		halfDelay := int64(delay) / 2
		if halfDelay == 0 {
			halfDelay = 1
		}
		jitterBig, err := rand.Int(rand.Reader, big.NewInt(halfDelay))
		if err != nil {
			jitterBig = big.NewInt(0)
		}
		jitter := time.Duration(jitterBig.Int64())
		delay = delay - delay/4 + jitter

		select {
		case <-time.After(delay):
			continue
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	slog.ErrorContext(ctx, "All retries exhausted",
		"total_attempts", maxRetries+1,
		"total_duration_ms", time.Since(startTime).Milliseconds(),
		"last_error", lastErr)

	return lastErr
}

// permanentError wraps an error to indicate it should not be retried.
type permanentError struct {
	err error
}

func (e *permanentError) Error() string {
	return e.err.Error()
}

func (e *permanentError) Unwrap() error {
	return e.err
}

// Sleep waits for the specified duration, respecting context cancellation.
func Sleep(ctx context.Context, d time.Duration) error {
	select {
	case <-time.After(d):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
