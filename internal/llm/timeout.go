package llm

import (
	"context"
	"time"
)

// TimeoutClient is a decorator that bounds each completion call with a
// deadline. It wraps the retry decorator, so the deadline covers all
// attempts of one logical call.
type TimeoutClient struct {
	inner   Client
	timeout time.Duration
}

// WithTimeout wraps a Client so every Complete call runs under a
// deadline. A non-positive timeout returns the client unchanged.
func WithTimeout(c Client, timeout time.Duration) Client {
	if timeout <= 0 {
		return c
	}
	return &TimeoutClient{inner: c, timeout: timeout}
}

func (t *TimeoutClient) Complete(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	return t.inner.Complete(ctx, prompt)
}

func (t *TimeoutClient) ModelID() string {
	return t.inner.ModelID()
}
