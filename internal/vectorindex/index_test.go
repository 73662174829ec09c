package vectorindex

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kiosk404/echosql/internal/domain/entity"
)

// stubProvider always embeds to the same vector, so every test controls
// similarity purely through the vectors assigned to indexed items.
type stubProvider struct {
	vec []float32
}

func (s *stubProvider) ID() string      { return "stub" }
func (s *stubProvider) Model() string   { return "stub-model" }
func (s *stubProvider) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	return s.vec, nil
}
func (s *stubProvider) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = s.vec
	}
	return out, nil
}

func TestIndex_RelevantTables_ThresholdFallback(t *testing.T) {
	provider := &stubProvider{vec: []float32{1, 0}}
	idx := NewIndex(provider, nil, nil)
	idx.IndexTable(context.Background(), entity.TableRelevance{Profile: "p", FQN: "unrelated", Embedding: []float32{0, 1}})

	// Nothing clears a 0.9 threshold, so the fallback keeps the single
	// highest-scoring table anyway.
	out, err := idx.RelevantTables(context.Background(), "find orders", "p", 3, 0.9)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "unrelated", out[0].FQN)
}

func TestIndex_RelevantTables_AlwaysIncludesPinned(t *testing.T) {
	provider := &stubProvider{vec: []float32{1, 0}}
	idx := NewIndex(provider, nil, func(profile string) []string { return []string{"always_here"} })
	idx.IndexTable(context.Background(), entity.TableRelevance{Profile: "p", FQN: "matching", Embedding: []float32{1, 0}})

	out, err := idx.RelevantTables(context.Background(), "orders report", "p", 3, 0.5)
	require.NoError(t, err)

	var fqns []string
	for _, t := range out {
		fqns = append(fqns, t.FQN)
	}
	assert.Contains(t, fqns, "matching")
	assert.Contains(t, fqns, "always_here")
}

func TestIndex_RelevantExamples(t *testing.T) {
	provider := &stubProvider{vec: []float32{1, 0}}
	idx := NewIndex(provider, nil, nil)
	idx.IndexExample(context.Background(), entity.QueryExample{ID: "1", Profile: "p", Embedding: []float32{1, 0}})
	idx.IndexExample(context.Background(), entity.QueryExample{ID: "2", Profile: "p", Embedding: []float32{0, 1}})

	out, err := idx.RelevantExamples(context.Background(), "orders by month", "p", 1)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "1", out[0].ID)
}
