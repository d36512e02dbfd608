// Package context holds timeout helpers shared by startup and shutdown code.
package context

import (
	"context"
	"time"
)

const (
	DefaultShutdownTimeout = 10 * time.Second
	DefaultPingTimeout     = 5 * time.Second
)

// WithShutdownTimeout bounds graceful shutdown work.
func WithShutdownTimeout() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), DefaultShutdownTimeout)
}

// WithPingTimeout bounds a single dependency ping.
func WithPingTimeout() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), DefaultPingTimeout)
}
