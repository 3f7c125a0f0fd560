package llm

import (
	"context"

	infralogger "github.com/jonesrussell/cityvoice/infrastructure/logger"
)

// AcceptFunc reports whether a primary response is usable. A rejected
// response is treated like a failed call.
type AcceptFunc func(req Request, resp *Response) bool

// Fallback tries a primary completer and answers from a fallback on any
// error or rejected response. Calls are never retried.
type Fallback struct {
	primary  Completer
	fallback Completer
	accept   AcceptFunc
	logger   infralogger.Logger
}

// WithFallback wraps primary with fallback. A nil primary always uses the fallback.
func WithFallback(primary, fallback Completer, accept AcceptFunc, logger infralogger.Logger) *Fallback {
	if logger == nil {
		logger = infralogger.NewNop()
	}
	return &Fallback{
		primary:  primary,
		fallback: fallback,
		accept:   accept,
		logger:   logger,
	}
}

// Name returns the primary name, or the fallback name without a primary.
func (f *Fallback) Name() string {
	if f.primary == nil {
		return f.fallback.Name()
	}
	return f.primary.Name()
}

// Complete returns the primary response when it succeeds and is accepted.
// Otherwise it returns the fallback response marked Offline.
func (f *Fallback) Complete(ctx context.Context, req Request) (*Response, error) {
	if f.primary != nil {
		resp, err := f.primary.Complete(ctx, req)
		switch {
		case err != nil:
			f.logger.Warn("Remote completion failed, using fallback",
				infralogger.Aspect(string(req.Aspect)),
				infralogger.String("model", f.primary.Name()),
				infralogger.Error(err),
			)
		case f.accept != nil && !f.accept(req, resp):
			f.logger.Warn("Remote completion rejected, using fallback",
				infralogger.Aspect(string(req.Aspect)),
				infralogger.String("model", f.primary.Name()),
				infralogger.String("response", truncateForLog(resp.Text)),
			)
		default:
			return resp, nil
		}
	}

	resp, err := f.fallback.Complete(ctx, req)
	if err != nil {
		return nil, err
	}
	resp.Offline = true
	f.logger.Info("Fallback completion used",
		infralogger.Aspect(string(req.Aspect)),
		infralogger.String("model", resp.Model),
	)
	return resp, nil
}

const maxLoggedResponse = 120

func truncateForLog(s string) string {
	if len(s) <= maxLoggedResponse {
		return s
	}
	return s[:maxLoggedResponse] + "..."
}
