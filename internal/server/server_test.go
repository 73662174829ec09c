package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kiosk404/echosql/internal/config"
	"github.com/kiosk404/echosql/internal/options"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	opts := options.NewOptions()
	opts.WarehouseOptions.ConfigFile = "testdata/does-not-exist.json"
	cfg, err := config.CreateConfigFromOptions(opts)
	require.NoError(t, err)
	return cfg
}

func TestNew_BuildsWithDefaults(t *testing.T) {
	srv, err := New(context.Background(), testConfig(t))
	require.NoError(t, err)
	require.NotNil(t, srv.engine)
	require.NotNil(t, srv.warehousePool)
	require.NotNil(t, srv.llmModule)
}

func TestNew_RegistersCoreRoutes(t *testing.T) {
	srv, err := New(context.Background(), testConfig(t))
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/sessions/unknown-id", nil)
	srv.engine.ServeHTTP(w, req)

	require.NotEqual(t, http.StatusNotFound, w.Code, "GET /sessions/:id should be a registered route")
}

func TestNew_UnknownRouteIs404(t *testing.T) {
	srv, err := New(context.Background(), testConfig(t))
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/nope", nil)
	srv.engine.ServeHTTP(w, req)

	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestNew_BuildsWithBoltDBStore(t *testing.T) {
	opts := options.NewOptions()
	opts.WarehouseOptions.ConfigFile = "testdata/does-not-exist.json"
	opts.StoreOptions.Path = t.TempDir() + "/echosql.db"
	cfg, err := config.CreateConfigFromOptions(opts)
	require.NoError(t, err)

	srv, err := New(context.Background(), cfg)
	require.NoError(t, err)
	require.NotNil(t, srv.boltDB)
}

func TestGinModeFor(t *testing.T) {
	require.Equal(t, "debug", ginModeFor("debug"))
	require.Equal(t, "test", ginModeFor("test"))
	require.Equal(t, "release", ginModeFor("release"))
	require.Equal(t, "release", ginModeFor("bogus"))
}
