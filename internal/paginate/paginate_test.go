package paginate

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kiosk404/echosql/internal/dialect"
	"github.com/kiosk404/echosql/internal/domain/entity"
	"github.com/kiosk404/echosql/internal/domain/errno"
)

var cols = []entity.Column{{ColumnName: "user_id"}, {ColumnName: "user_name"}}

func TestBuild_NoSortWithCount(t *testing.T) {
	sql, params, err := Build("SELECT user_id, user_name FROM users", "", Asc, true, dialect.Postgres, cols, 10, 0)
	require.NoError(t, err)
	require.NotContains(t, sql, "ORDER BY")
	require.Contains(t, sql, "COUNT(*) OVER ()")
	require.Equal(t, Params{Limit: 10, Offset: 0}, params)
}

func TestBuild_SortNoCount(t *testing.T) {
	sql, _, err := Build("SELECT user_id, user_name FROM users", "user_id", Desc, false, dialect.Postgres, cols, 10, 0)
	require.NoError(t, err)
	require.Contains(t, sql, "ORDER BY user_id DESC")
	require.NotContains(t, sql, "total_count")
}

func TestBuild_InvalidSortColumn(t *testing.T) {
	_, _, err := Build("SELECT user_id FROM users", "nonexistent", Asc, false, dialect.Postgres, cols, 10, 0)
	require.ErrorIs(t, err, errno.ErrInvalidSortColumn)
}

func TestBuild_TrinoScalarSubqueryCount(t *testing.T) {
	sql, _, err := Build("SELECT user_id FROM users", "", Asc, true, dialect.Trino, cols, 10, 0)
	require.NoError(t, err)
	require.Contains(t, sql, "total_count")
	require.Contains(t, sql, "ORDER BY 1 ASC")
}

func TestBuild_TrinoDeterministicOrderWithoutTotalCount(t *testing.T) {
	sql, _, err := Build("SELECT user_id FROM users", "", Asc, false, dialect.Trino, cols, 10, 0)
	require.NoError(t, err)
	require.Contains(t, sql, "ORDER BY 1 ASC")
	require.NotContains(t, sql, "total_count")
}

func TestBuild_DefaultsLimit(t *testing.T) {
	_, params, err := Build("SELECT user_id FROM users", "", Asc, false, dialect.Postgres, cols, 0, -5)
	require.NoError(t, err)
	require.Equal(t, Params{Limit: defaultLimit, Offset: 0}, params)
}

func TestBuild_OriginalSQLAppearsAsLiveText(t *testing.T) {
	sql, _, err := Build("SELECT user_id FROM users", "", Asc, false, dialect.Postgres, cols, 10, 0)
	require.NoError(t, err)
	require.Contains(t, sql, "SELECT user_id FROM users")
}

func TestStripTrailingEnvelope(t *testing.T) {
	require.Equal(t, "SELECT 1", stripTrailingEnvelope("SELECT 1 ORDER BY x LIMIT 5 OFFSET 1"))
	require.Equal(t, "SELECT 1", stripTrailingEnvelope("SELECT 1"))
}
