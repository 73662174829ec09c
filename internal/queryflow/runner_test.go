package queryflow

import (
	"context"
	"testing"
	"time"

	"github.com/kiosk404/echosql/internal/domain/entity"
	llmentity "github.com/kiosk404/echosql/internal/llm/domain/entity"
	"github.com/kiosk404/echosql/internal/store/inmemory"
	"github.com/stretchr/testify/require"
)

func TestJoinIssues(t *testing.T) {
	require.Equal(t, "", joinIssues(nil))
	require.Equal(t, "a; b", joinIssues([]string{"a", "b"}))
}

func TestRunner_LatestQueryID(t *testing.T) {
	queries := inmemory.NewQueryStore()
	r := &Runner{queries: queries}

	require.Equal(t, "", r.latestQueryID(context.Background(), "missing-session"))

	now := time.Now()
	older := &entity.QueryMetadata{ID: "q1", SessionID: "s1", CreatedAt: now.Add(-time.Hour)}
	newer := &entity.QueryMetadata{ID: "q2", SessionID: "s1", CreatedAt: now}
	require.NoError(t, queries.Create(context.Background(), older))
	require.NoError(t, queries.Create(context.Background(), newer))

	got := r.latestQueryID(context.Background(), "s1")
	require.Equal(t, "q2", got)
}

func TestRunner_Run_AlreadyAborted(t *testing.T) {
	requests := inmemory.NewRequestStore()
	queries := inmemory.NewQueryStore()
	r := NewRunner(DefaultRunnerConfig(llmentity.FallbackConfig{}), requests, queries, nil, nil, nil, nil)

	req := &entity.Request{ID: "req-1", SessionID: "sess-1", UserText: "how many orders last week?", Status: entity.RequestStatusPending}
	require.NoError(t, requests.Create(context.Background(), req))

	abort := NewAbortController(context.Background(), req.ID, 0)
	abort.Abort()

	err := r.Run(context.Background(), req, "sess-1", "default", "acme", "prod", abort)
	require.NoError(t, err)
	require.Equal(t, entity.RequestStatusCancelled, req.Status)
}
