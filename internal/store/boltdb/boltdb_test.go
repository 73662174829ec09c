package boltdb_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kiosk404/echosql/internal/domain/entity"
	"github.com/kiosk404/echosql/internal/store/boltdb"
)

func openTestDB(t *testing.T) *boltdb.DB {
	t.Helper()
	db, err := boltdb.Open(filepath.Join(t.TempDir(), "echosql.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestSessionStore_CreateGetUpdate(t *testing.T) {
	db := openTestDB(t)
	store := boltdb.NewSessionStore(db)
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
	require.Error(t, err)
}

func TestSessionStore_ListByOwner(t *testing.T) {
	db := openTestDB(t)
	store := boltdb.NewSessionStore(db)
	ctx := context.Background()

	require.NoError(t, store.Create(ctx, &entity.Session{ID: "s1", OwnerID: "owner-1"}))
	require.NoError(t, store.Create(ctx, &entity.Session{ID: "s2", OwnerID: "owner-2"}))
	require.NoError(t, store.Create(ctx, &entity.Session{ID: "s3", OwnerID: "owner-1"}))

	sessions, err := store.ListByOwner(ctx, "owner-1")
	require.NoError(t, err)
	require.Len(t, sessions, 2)
}

func TestRequestStore_CreateGetUpdate(t *testing.T) {
	db := openTestDB(t)
	store := boltdb.NewRequestStore(db)
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
}

func TestRequestStore_ListBySession(t *testing.T) {
	db := openTestDB(t)
	store := boltdb.NewRequestStore(db)
	ctx := context.Background()

	require.NoError(t, store.Create(ctx, &entity.Request{ID: "r1", SessionID: "s1"}))
	require.NoError(t, store.Create(ctx, &entity.Request{ID: "r2", SessionID: "s2"}))
	require.NoError(t, store.Create(ctx, &entity.Request{ID: "r3", SessionID: "s1"}))

	reqs, err := store.ListBySession(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, reqs, 2)
}

func TestQueryStore_CreateGetListBySession(t *testing.T) {
	db := openTestDB(t)
	store := boltdb.NewQueryStore(db)
	ctx := context.Background()

	require.NoError(t, store.Create(ctx, &entity.QueryMetadata{ID: "q1", SessionID: "s1", Summary: "orders count"}))
	require.NoError(t, store.Create(ctx, &entity.QueryMetadata{ID: "q2", SessionID: "s2", Summary: "other"}))

	got, err := store.Get(ctx, "q1")
	require.NoError(t, err)
	require.Equal(t, "orders count", got.Summary)

	queries, err := store.ListBySession(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, queries, 1)
}
