package v1

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/kiosk404/echosql/internal/domain/entity"
	"github.com/kiosk404/echosql/internal/store/inmemory"
	"github.com/kiosk404/echosql/internal/warehouse"
)

func newTestDataHandler(t *testing.T) (*DataHandler, *inmemory.QueryStore) {
	t.Helper()
	cfg := warehouse.NewConfig()
	cfg.Profiles["analytics"] = &warehouse.ProfileConfig{Driver: "sqlite", DSN: "file::memory:?cache=shared&_data_test"}
	pool := warehouse.NewPool(cfg)

	db, _, err := pool.Get(context.Background(), "analytics")
	require.NoError(t, err)
	_, err = db.Exec(`CREATE TABLE users (user_id INTEGER, user_name TEXT)`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO users (user_id, user_name) VALUES (1, 'Ann'), (2, 'Bo')`)
	require.NoError(t, err)

	queries := inmemory.NewQueryStore()
	q := &entity.QueryMetadata{
		ID:        "q1",
		Profile:   "analytics",
		Dialect:   "sqlite",
		SQL:       "SELECT user_id, user_name FROM users",
		Columns:   []entity.Column{{ColumnName: "user_id"}, {ColumnName: "user_name"}},
		CreatedAt: time.Now(),
	}
	require.NoError(t, queries.Create(context.Background(), q))

	return NewDataHandler(queries, pool), queries
}

func TestDataHandler_Get_Sorted(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h, _ := newTestDataHandler(t)

	r := gin.New()
	r.GET("/data/:query_id", h.Get)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/data/q1?sort_by=user_id&sort_order=desc&limit=10&offset=0", nil)
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "\"user_id\":2")
}

func TestDataHandler_Get_InvalidSortColumn(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h, _ := newTestDataHandler(t)

	r := gin.New()
	r.GET("/data/:query_id", h.Get)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/data/q1?sort_by=nonexistent", nil)
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Contains(t, w.Body.String(), "nonexistent")
}

func TestDataHandler_Get_UnknownQuery(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h, _ := newTestDataHandler(t)

	r := gin.New()
	r.GET("/data/:query_id", h.Get)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/data/missing", nil)
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestDataHandler_Lineage_WalksParentChain(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h, queries := newTestDataHandler(t)

	refined := &entity.QueryMetadata{ID: "q2", ParentID: "q1", Profile: "analytics", SQL: "SELECT user_id FROM users"}
	require.NoError(t, queries.Create(context.Background(), refined))

	r := gin.New()
	r.GET("/data/:query_id/lineage", h.Lineage)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/data/q2/lineage", nil)
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"id":"q1"`)
	require.Contains(t, w.Body.String(), `"id":"q2"`)
}

func TestDataHandler_Lineage_UnknownQuery(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h, _ := newTestDataHandler(t)

	r := gin.New()
	r.GET("/data/:query_id/lineage", h.Lineage)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/data/missing/lineage", nil)
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusNotFound, w.Code)
}
