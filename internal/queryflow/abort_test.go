package queryflow

import (
	"context"
	"testing"
	"time"

	"github.com/kiosk404/echosql/internal/domain/errno"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAbortController_Abort(t *testing.T) {
	ac := NewAbortController(context.Background(), "req-1", 0)
	assert.False(t, ac.IsAborted())
	assert.NoError(t, ac.CheckAborted())

	ac.Abort()
	assert.True(t, ac.IsAborted())
	assert.ErrorIs(t, ac.CheckAborted(), errno.ErrRequestCancelled)

	// idempotent
	assert.NotPanics(t, ac.Abort)
}

func TestAbortController_Timeout(t *testing.T) {
	ac := NewAbortController(context.Background(), "req-2", 10*time.Millisecond)
	select {
	case <-ac.Context().Done():
	case <-time.After(time.Second):
		t.Fatal("context never cancelled on timeout")
	}
	assert.True(t, ac.IsAborted())
}

func TestAbortController_ParentCancel(t *testing.T) {
	parent, cancelParent := context.WithCancel(context.Background())
	ac := NewAbortController(parent, "req-3", 0)
	cancelParent()
	require.Eventually(t, ac.IsAborted, time.Second, time.Millisecond)
}
