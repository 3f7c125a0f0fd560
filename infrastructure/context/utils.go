// Package context holds the timeouts shared by startup and health checks.
package context

import (
	"context"
	"time"
)

// DefaultPingTimeout bounds ping/health check operations.
const DefaultPingTimeout = 5 * time.Second

// WithPingTimeout derives a context bounded by the ping timeout.
func WithPingTimeout(parent context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(parent, DefaultPingTimeout)
}
