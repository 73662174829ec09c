package toolcontract

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kiosk404/echosql/internal/domain/entity"
	"github.com/kiosk404/echosql/internal/store/inmemory"
	"github.com/kiosk404/echosql/internal/vectorindex"
	"github.com/kiosk404/echosql/internal/warehouse"
)

type stubProvider struct{ vec []float32 }

func (s stubProvider) ID() string    { return "stub" }
func (s stubProvider) Model() string { return "stub-model" }
func (s stubProvider) EmbedQuery(context.Context, string) ([]float32, error) {
	return s.vec, nil
}
func (s stubProvider) EmbedBatch(context.Context, []string) ([][]float32, error) {
	return nil, nil
}

func TestRenderExamples_Empty(t *testing.T) {
	require.Equal(t, "none", renderExamples(nil))
}

func TestRenderExamples(t *testing.T) {
	out := renderExamples([]entity.QueryExample{{Description: "top spenders", SQL: "SELECT 1"}})
	require.Contains(t, out, "top spenders")
	require.Contains(t, out, "SELECT 1")
}

func TestService_LogSuccessfulQuery_IndexesExample(t *testing.T) {
	queries := inmemory.NewQueryStore()
	require.NoError(t, queries.Create(context.Background(), &entity.QueryMetadata{ID: "q1", Profile: "analytics", SQL: "SELECT 1"}))

	idx := vectorindex.NewIndex(stubProvider{vec: []float32{1, 0, 0}}, nil, nil)
	svc := NewService(warehouse.NewConfig(), warehouse.NewPool(warehouse.NewConfig()), nil, idx, nil, queries)

	err := svc.LogSuccessfulQuery(context.Background(), "q1", "SELECT count(*) FROM orders", "order count", "unknown column cnt", "SELECT cnt FROM orders")
	require.NoError(t, err)

	examples, err := idx.RelevantExamples(context.Background(), "how many orders", "analytics", 5)
	require.NoError(t, err)
	require.Len(t, examples, 1)
	require.Contains(t, examples[0].Description, "order count")
	require.Contains(t, examples[0].Description, "unknown column cnt")
}

func TestService_LogSuccessfulQuery_UnknownQuery(t *testing.T) {
	idx := vectorindex.NewIndex(stubProvider{vec: []float32{1, 0, 0}}, nil, nil)
	svc := NewService(warehouse.NewConfig(), warehouse.NewPool(warehouse.NewConfig()), nil, idx, nil, inmemory.NewQueryStore())

	err := svc.LogSuccessfulQuery(context.Background(), "missing", "SELECT 1", "desc", "", "")
	require.Error(t, err)
}

func TestService_DescribeProvider_UnreachableWithoutDriver(t *testing.T) {
	cfg := warehouse.NewConfig()
	cfg.Profiles["analytics"] = &warehouse.ProfileConfig{Driver: "trino", DSN: "trino://unused"}
	pool := warehouse.NewPool(cfg)
	svc := NewService(cfg, pool, nil, nil, nil, nil)

	profiles, err := svc.DescribeProvider(context.Background(), "", "")
	require.NoError(t, err)
	require.Len(t, profiles, 1)
	require.Equal(t, "analytics", profiles[0].Name)
	require.Equal(t, "trino", profiles[0].Dialect)
	require.False(t, profiles[0].Reachable)
}
