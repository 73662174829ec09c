package warehouse

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func newSQLiteTestPool(t *testing.T) (*Pool, string) {
	t.Helper()
	cfg := NewConfig()
	cfg.Profiles["test"] = &ProfileConfig{Driver: "sqlite", DSN: "file::memory:?cache=shared"}
	pool := NewPool(cfg)
	db, _, err := pool.Get(context.Background(), "test")
	require.NoError(t, err)
	_, err = db.Exec(`CREATE TABLE users (user_id INTEGER, user_name TEXT)`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO users (user_id, user_name) VALUES (1, 'Ann'), (2, 'Bo')`)
	require.NoError(t, err)
	return pool, "test"
}

func TestPool_Fetch_NoCount(t *testing.T) {
	pool, profile := newSQLiteTestPool(t)
	defer pool.Close()

	result, err := pool.Fetch(context.Background(), profile, `WITH __paginated AS (
SELECT user_id, user_name FROM users
)
SELECT __paginated.* FROM __paginated ORDER BY user_id DESC LIMIT 10 OFFSET 0`, false)
	require.NoError(t, err)
	require.Equal(t, int64(-1), result.TotalCount)
	require.Len(t, result.Rows, 2)
	require.Equal(t, int64(2), result.Rows[0]["user_id"])
}

func TestPool_Fetch_WithCount(t *testing.T) {
	pool, profile := newSQLiteTestPool(t)
	defer pool.Close()

	result, err := pool.Fetch(context.Background(), profile, `WITH __paginated AS (
SELECT user_id, user_name FROM users
)
SELECT __paginated.*, COUNT(*) OVER () AS total_count FROM __paginated ORDER BY user_id ASC LIMIT 10 OFFSET 0`, true)
	require.NoError(t, err)
	require.Equal(t, int64(2), result.TotalCount)
	require.Len(t, result.Rows, 2)
	require.NotContains(t, result.Rows[0], "total_count")
}

func TestPool_Fetch_DriverError(t *testing.T) {
	pool, profile := newSQLiteTestPool(t)
	defer pool.Close()

	_, err := pool.Fetch(context.Background(), profile, `SELECT * FROM does_not_exist`, false)
	require.Error(t, err)
}
