package inmemory_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/kiosk404/echosql/internal/domain/entity"
	"github.com/kiosk404/echosql/internal/domain/errno"
	"github.com/kiosk404/echosql/internal/store/inmemory"
)

func TestSessionStore_CreateGetUpdate(t *testing.T) {
	store := inmemory.NewSessionStore()
	ctx := context.Background()

	session := &entity.Session{ID: "s1", OwnerID: "owner-1", Summary: "first"}
	require.NoError(t, store.Create(ctx, session))

	got, err := store.Get(ctx, "s1")
	require.NoError(t, err)
	require.Equal(t, "owner-1", got.OwnerID)

	got.Summary = "updated"
	require.NoError(t, store.Update(ctx, got))

	reloaded, err := store.Get(ctx, "s1")
	require.NoError(t, err)
	require.Equal(t, "updated", reloaded.Summary)

	_, err = store.Get(ctx, "missing")
	require.ErrorIs(t, err, errno.ErrSessionNotFound)

	err = store.Update(ctx, &entity.Session{ID: "missing"})
	require.ErrorIs(t, err, errno.ErrSessionNotFound)
}

func TestSessionStore_ListByOwner(t *testing.T) {
	store := inmemory.NewSessionStore()
	ctx := context.Background()

	require.NoError(t, store.Create(ctx, &entity.Session{ID: "s1", OwnerID: "owner-1"}))
	require.NoError(t, store.Create(ctx, &entity.Session{ID: "s2", OwnerID: "owner-2"}))
	require.NoError(t, store.Create(ctx, &entity.Session{ID: "s3", OwnerID: "owner-1"}))

	sessions, err := store.ListByOwner(ctx, "owner-1")
	require.NoError(t, err)
	require.Len(t, sessions, 2)

	none, err := store.ListByOwner(ctx, "nobody")
	require.NoError(t, err)
	require.Empty(t, none)
}

func TestRequestStore_CreateGetUpdate(t *testing.T) {
	store := inmemory.NewRequestStore()
	ctx := context.Background()

	req := &entity.Request{ID: "r1", SessionID: "s1", SequenceNumber: 1, UserText: "how many orders?"}
	require.NoError(t, store.Create(ctx, req))

	got, err := store.Get(ctx, "r1")
	require.NoError(t, err)
	require.Equal(t, "how many orders?", got.UserText)

	got.QueryID = "q1"
	require.NoError(t, store.Update(ctx, got))

	reloaded, err := store.Get(ctx, "r1")
	require.NoError(t, err)
	require.Equal(t, "q1", reloaded.QueryID)

	_, err = store.Get(ctx, "missing")
	require.ErrorIs(t, err, errno.ErrRequestNotFound)

	err = store.Update(ctx, &entity.Request{ID: "missing"})
	require.ErrorIs(t, err, errno.ErrRequestNotFound)
}

func TestRequestStore_ListBySession(t *testing.T) {
	store := inmemory.NewRequestStore()
	ctx := context.Background()

	require.NoError(t, store.Create(ctx, &entity.Request{ID: "r1", SessionID: "s1"}))
	require.NoError(t, store.Create(ctx, &entity.Request{ID: "r2", SessionID: "s2"}))
	require.NoError(t, store.Create(ctx, &entity.Request{ID: "r3", SessionID: "s1"}))

	reqs, err := store.ListBySession(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, reqs, 2)
}

func TestRequestStore_ListInProgressOlderThan(t *testing.T) {
	store := inmemory.NewRequestStore()
	ctx := context.Background()

	stale := &entity.Request{ID: "r1", Status: entity.RequestStatusInProgress, UpdatedAt: time.Now().Add(-time.Hour)}
	fresh := &entity.Request{ID: "r2", Status: entity.RequestStatusInProgress, UpdatedAt: time.Now()}
	done := &entity.Request{ID: "r3", Status: entity.RequestStatusDone, UpdatedAt: time.Now().Add(-time.Hour)}
	require.NoError(t, store.Create(ctx, stale))
	require.NoError(t, store.Create(ctx, fresh))
	require.NoError(t, store.Create(ctx, done))

	overdue, err := store.ListInProgressOlderThan(ctx, 60)
	require.NoError(t, err)
	require.Len(t, overdue, 1)
	require.Equal(t, "r1", overdue[0].ID)
}

func TestRequestStore_AppendAndListTurns(t *testing.T) {
	store := inmemory.NewRequestStore()
	ctx := context.Background()

	require.NoError(t, store.AppendTurn(ctx, "s1", entity.NewUserTurn("r1", "how many orders?")))
	require.NoError(t, store.AppendTurn(ctx, "s1", entity.NewAssistantTurn("r1", "SELECT COUNT(*) ...")))

	turns, err := store.ListTurns(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, turns, 2)
	require.Equal(t, entity.RoleUser, turns[0].Role)
	require.Equal(t, entity.RoleAssistant, turns[1].Role)

	none, err := store.ListTurns(ctx, "unknown")
	require.NoError(t, err)
	require.Empty(t, none)
}

func TestQueryStore_CreateGetListBySession(t *testing.T) {
	store := inmemory.NewQueryStore()
	ctx := context.Background()

	require.NoError(t, store.Create(ctx, &entity.QueryMetadata{ID: "q1", SessionID: "s1", Summary: "orders count"}))
	require.NoError(t, store.Create(ctx, &entity.QueryMetadata{ID: "q2", SessionID: "s2", Summary: "other"}))

	got, err := store.Get(ctx, "q1")
	require.NoError(t, err)
	require.Equal(t, "orders count", got.Summary)

	queries, err := store.ListBySession(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, queries, 1)

	_, err = store.Get(ctx, "missing")
	require.ErrorIs(t, err, errno.ErrQueryNotFound)
}
