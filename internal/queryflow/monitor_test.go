package queryflow

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/kiosk404/echosql/internal/domain/entity"
	"github.com/kiosk404/echosql/internal/store/inmemory"
)

func TestCrashRecoveryMonitor_RecoversStaleRequest(t *testing.T) {
	requests := inmemory.NewRequestStore()
	ctx := context.Background()

	stale := &entity.Request{ID: "r1", Status: entity.RequestStatusInProgress, UpdatedAt: time.Now().Add(-time.Hour)}
	fresh := &entity.Request{ID: "r2", Status: entity.RequestStatusInProgress, UpdatedAt: time.Now()}
	require.NoError(t, requests.Create(ctx, stale))
	require.NoError(t, requests.Create(ctx, fresh))

	m := NewCrashRecoveryMonitor(requests, 5*time.Millisecond, time.Minute)
	m.Start()
	defer m.Stop()

	require.Eventually(t, func() bool {
		got, err := requests.Get(ctx, "r1")
		return err == nil && got.Status == entity.RequestStatusError
	}, time.Second, 5*time.Millisecond)

	still, err := requests.Get(ctx, "r2")
	require.NoError(t, err)
	require.Equal(t, entity.RequestStatusInProgress, still.Status)
}

func TestCrashRecoveryMonitor_StopEndsLoop(t *testing.T) {
	requests := inmemory.NewRequestStore()
	m := NewCrashRecoveryMonitor(requests, time.Millisecond, time.Minute)
	m.Start()
	m.Stop()
	require.NotPanics(t, func() { time.Sleep(10 * time.Millisecond) })
}
