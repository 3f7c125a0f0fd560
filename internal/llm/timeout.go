package llm

import (
	"context"
	"time"
)

// Timeout bounds each call to a provider.
type Timeout struct {
	next    Completer
	timeout time.Duration
}

// WithTimeout bounds each call to next. A non-positive timeout returns next unchanged.
func WithTimeout(next Completer, timeout time.Duration) Completer {
	if timeout <= 0 {
		return next
	}
	return &Timeout{next: next, timeout: timeout}
}

// Name returns the wrapped completer name.
func (t *Timeout) Name() string { return t.next.Name() }

// Complete calls next with a deadline.
func (t *Timeout) Complete(ctx context.Context, req Request) (*Response, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	return t.next.Complete(ctx, req)
}
