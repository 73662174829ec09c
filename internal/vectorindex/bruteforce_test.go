package vectorindex

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kiosk404/echosql/internal/domain/entity"
)

func TestCosineSimilarity(t *testing.T) {
	assert.InDelta(t, 1.0, cosineSimilarity([]float32{1, 0}, []float32{1, 0}), 1e-9)
	assert.InDelta(t, 0.0, cosineSimilarity([]float32{1, 0}, []float32{0, 1}), 1e-9)
	assert.InDelta(t, -1.0, cosineSimilarity([]float32{1, 0}, []float32{-1, 0}), 1e-9)
	assert.Equal(t, 0.0, cosineSimilarity(nil, []float32{1}))
	assert.Equal(t, 0.0, cosineSimilarity([]float32{0, 0}, []float32{1, 1}))
}

func TestBruteForceIndex_SearchExamples(t *testing.T) {
	idx := NewBruteForceIndex()
	idx.IndexExample("warehouse_a", entity.QueryExample{ID: "close", Embedding: []float32{1, 0}})
	idx.IndexExample("warehouse_a", entity.QueryExample{ID: "far", Embedding: []float32{0, 1}})
	idx.IndexExample("warehouse_b", entity.QueryExample{ID: "other-profile", Embedding: []float32{1, 0}})

	results := idx.SearchExamples("warehouse_a", []float32{1, 0}, 2)
	require.Len(t, results, 2)
	assert.Equal(t, "close", results[0].ID)
	assert.Greater(t, results[0].Similarity, results[1].Similarity)
}

func TestBruteForceIndex_SearchExamples_TopKTruncates(t *testing.T) {
	idx := NewBruteForceIndex()
	for i := 0; i < 5; i++ {
		idx.IndexExample("p", entity.QueryExample{ID: string(rune('a' + i)), Embedding: []float32{1, 0}})
	}
	results := idx.SearchExamples("p", []float32{1, 0}, 3)
	assert.Len(t, results, 3)
}

func TestBruteForceIndex_SearchTables(t *testing.T) {
	idx := NewBruteForceIndex()
	idx.IndexTable("p", entity.TableRelevance{FQN: "orders", Embedding: []float32{1, 0}})
	idx.IndexTable("p", entity.TableRelevance{FQN: "customers", Embedding: []float32{0.9, 0.1}})
	idx.IndexTable("p", entity.TableRelevance{FQN: "logs", Embedding: []float32{0, 1}})

	results := idx.SearchTables("p", []float32{1, 0})
	require.Len(t, results, 3)
	assert.Equal(t, "orders", results[0].FQN)
	assert.Equal(t, "logs", results[len(results)-1].FQN)
}
