package llm

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"
)

// RateLimited paces calls to a provider.
type RateLimited struct {
	next    Completer
	limiter *rate.Limiter
}

// WithRateLimit waits on limiter before each call.
func WithRateLimit(next Completer, limiter *rate.Limiter) *RateLimited {
	return &RateLimited{next: next, limiter: limiter}
}

// Name returns the wrapped completer name.
func (r *RateLimited) Name() string { return r.next.Name() }

// Complete fails when the wait cannot finish before ctx is done.
func (r *RateLimited) Complete(ctx context.Context, req Request) (*Response, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}
	return r.next.Complete(ctx, req)
}
