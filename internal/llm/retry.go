package llm

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"time"
)

// RetryClient is a decorator that retries transient errors with
// exponential backoff and jitter.
type RetryClient struct {
	inner  Client
	config RetryConfig
}

// WithRetry wraps a Client with retry logic.
func WithRetry(c Client, cfg RetryConfig) Client {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 1
	}
	return &RetryClient{inner: c, config: cfg}
}

func (r *RetryClient) Complete(ctx context.Context, prompt string) (string, error) {
	var lastErr error

	for attempt := range r.config.MaxAttempts {
		text, err := r.inner.Complete(ctx, prompt)
		if err == nil {
			return text, nil
		}
		lastErr = err

		if !shouldRetry(err) {
			return "", err
		}
		// Last attempt: don't sleep, just return the error.
		if attempt == r.config.MaxAttempts-1 {
			break
		}

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(r.backoff(attempt, err)):
		}
	}

	return "", lastErr
}

func (r *RetryClient) ModelID() string {
	return r.inner.ModelID()
}

// shouldRetry determines if an error is transient.
func shouldRetry(err error) bool {
	// Context errors are never retried.
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	// An empty response is a content problem, not a transport one.
	var empty *ErrEmptyResponse
	if errors.As(err, &empty) {
		return false
	}

	// Rate limits, outages and other network errors are transient.
	return true
}

// backoff computes the wait duration for the given attempt.
func (r *RetryClient) backoff(attempt int, err error) time.Duration {
	// Respect RetryAfter for rate limits.
	var rl *ErrRateLimit
	if errors.As(err, &rl) && rl.RetryAfter > 0 {
		return rl.RetryAfter
	}

	wait := float64(r.config.InitialWait) * math.Pow(r.config.Multiplier, float64(attempt))
	if wait > float64(r.config.MaxWait) {
		wait = float64(r.config.MaxWait)
	}

	// ±20% jitter.
	wait += wait * 0.2 * (2*rand.Float64() - 1)
	if wait < 0 {
		wait = 0
	}
	return time.Duration(wait)
}
