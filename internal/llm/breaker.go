package llm

import (
	"context"

	"github.com/jonesrussell/cityvoice/infrastructure/circuitbreaker"
)

// Breaker fails fast while the guarded provider keeps failing.
type Breaker struct {
	next    Completer
	breaker *circuitbreaker.Breaker
}

// WithBreaker guards next with breaker.
func WithBreaker(next Completer, breaker *circuitbreaker.Breaker) *Breaker {
	return &Breaker{next: next, breaker: breaker}
}

// Name returns the wrapped completer name.
func (b *Breaker) Name() string { return b.next.Name() }

// Complete returns circuitbreaker.ErrCircuitOpen without calling next while open.
func (b *Breaker) Complete(ctx context.Context, req Request) (*Response, error) {
	var resp *Response
	err := b.breaker.Execute(ctx, func(ctx context.Context) error {
		var callErr error
		resp, callErr = b.next.Complete(ctx, req)
		return callErr
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}
