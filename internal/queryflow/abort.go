package queryflow

import (
	"context"
	"sync"
	"time"

	"github.com/kiosk404/echosql/internal/domain/errno"
	"github.com/kiosk404/echosql/pkg/logger"
)

// AbortController manages cancellation of a single request's repair loop.
//
// - Explicit Abort() for client-requested cancellation
// - optional timeout for automatic cancellation
// - thread-safe abort state, checked at every suspension point (§5)
type AbortController struct {
	ctx    context.Context
	cancel context.CancelFunc
	mu     sync.Mutex
	down   bool
	reqID  string
}

// NewAbortController wraps parent with a cancellable (and optionally
// time-bounded) context for request reqID. timeout <= 0 disables the
// automatic deadline.
func NewAbortController(parent context.Context, reqID string, timeout time.Duration) *AbortController {
	var ctx context.Context
	var cancel context.CancelFunc
	if timeout > 0 {
		ctx, cancel = context.WithTimeout(parent, timeout)
	} else {
		ctx, cancel = context.WithCancel(parent)
	}
	return &AbortController{ctx: ctx, cancel: cancel, reqID: reqID}
}

// Context returns the controlled context; every suspension point (LLM
// call, warehouse call, cache I/O) must be driven by this context.
func (ac *AbortController) Context() context.Context {
	return ac.ctx
}

// Abort cancels the run. Safe to call multiple times.
func (ac *AbortController) Abort() {
	ac.mu.Lock()
	defer ac.mu.Unlock()
	if ac.down {
		return
	}
	ac.down = true
	ac.cancel()
	logger.Info("[queryflow] abort request %s", ac.reqID)
}

// IsAborted reports whether Abort was called or the context otherwise ended.
func (ac *AbortController) IsAborted() bool {
	ac.mu.Lock()
	defer ac.mu.Unlock()
	if ac.down {
		return true
	}
	select {
	case <-ac.ctx.Done():
		return true
	default:
		return false
	}
}

// CheckAborted returns errno.ErrRequestCancelled when the run has been aborted.
func (ac *AbortController) CheckAborted() error {
	if ac.IsAborted() {
		return errno.ErrRequestCancelled
	}
	return nil
}

// CleanUp releases the controller's context without flagging it as a
// client-requested abort (used once a request reaches a terminal state).
func (ac *AbortController) CleanUp() {
	ac.cancel()
}
