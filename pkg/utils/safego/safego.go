// Package safego launches goroutines that recover panics into the log
// instead of crashing the process, for background work whose failure
// should surface as a degraded result, not a dead server.
package safego

import (
	"context"
	"runtime/debug"

	"github.com/kiosk404/echosql/pkg/logger"
)

// Go runs fn in a new goroutine, recovering any panic and logging it with
// a stack trace. ctx is accepted for symmetry with cancellable call sites;
// fn is responsible for honoring ctx cancellation itself.
func Go(_ context.Context, fn func()) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("panic recovered: %v\n%s", r, debug.Stack())
			}
		}()
		fn()
	}()
}
