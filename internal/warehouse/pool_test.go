package warehouse

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kiosk404/echosql/internal/dialect"
)

func TestPool_Get_DetectsDialectOnce(t *testing.T) {
	cfg := NewConfig()
	cfg.Profiles["test"] = &ProfileConfig{Driver: "sqlite", DSN: "file::memory:?cache=shared&_pool_dialect_cache"}
	pool := NewPool(cfg)
	defer pool.Close()

	_, d, err := pool.Get(context.Background(), "test")
	require.NoError(t, err)
	require.Equal(t, dialect.SQLite, d)
	require.Equal(t, dialect.SQLite, pool.dialects.Get("test", func() string {
		t.Fatal("detect func should not run again: dialect was already cached by the first Get")
		return ""
	}))

	_, d2, err := pool.Get(context.Background(), "test")
	require.NoError(t, err)
	require.Equal(t, dialect.SQLite, d2)
}

func TestPool_Get_UnknownProfile(t *testing.T) {
	pool := NewPool(NewConfig())
	_, _, err := pool.Get(context.Background(), "missing")
	require.Error(t, err)
}
