package vectorindex

import (
	"math"
	"sort"
	"sync"

	"github.com/kiosk404/echosql/internal/domain/entity"
)

// cosineSimilarity computes the cosine similarity between two vectors,
// truncating to the shorter length if they differ.
func cosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	length := len(a)
	if len(b) < length {
		length = len(b)
	}

	var dot, normA, normB float64
	for i := 0; i < length; i++ {
		av, bv := float64(a[i]), float64(b[i])
		dot += av * bv
		normA += av * av
		normB += bv * bv
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// BruteForceIndex is the no-external-endpoint fallback: it holds every
// indexed item in memory and scores all of them on each query. Adequate
// for the example/table-relevance index sizes this core deals with
// (hundreds to low thousands of entries per profile). It is used only
// when no Qdrant endpoint is configured; there is no size-based switch.
type BruteForceIndex struct {
	mu       sync.RWMutex
	examples map[string][]entity.QueryExample  // profile -> examples
	tables   map[string][]entity.TableRelevance // profile -> tables
}

func NewBruteForceIndex() *BruteForceIndex {
	return &BruteForceIndex{
		examples: make(map[string][]entity.QueryExample),
		tables:   make(map[string][]entity.TableRelevance),
	}
}

func (b *BruteForceIndex) IndexExample(profile string, ex entity.QueryExample) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.examples[profile] = append(b.examples[profile], ex)
}

func (b *BruteForceIndex) IndexTable(profile string, t entity.TableRelevance) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.tables[profile] = append(b.tables[profile], t)
}

// SearchExamples returns the topK nearest examples to queryVec, descending
// by similarity.
func (b *BruteForceIndex) SearchExamples(profile string, queryVec []float32, topK int) []entity.QueryExample {
	b.mu.RLock()
	defer b.mu.RUnlock()

	candidates := b.examples[profile]
	scored := make([]entity.QueryExample, len(candidates))
	copy(scored, candidates)
	for i := range scored {
		scored[i].Similarity = float32(cosineSimilarity(queryVec, scored[i].Embedding))
	}
	sort.Slice(scored, func(i, j int) bool { return scored[i].Similarity > scored[j].Similarity })
	if topK < len(scored) {
		scored = scored[:topK]
	}
	return scored
}

// SearchTables returns every indexed table for profile scored by
// similarity to queryVec, descending. Threshold filtering and pinned-table
// injection are the caller's responsibility (spec §4.2's relevant_tables
// combines this with profile configuration, not index internals).
func (b *BruteForceIndex) SearchTables(profile string, queryVec []float32) []entity.TableRelevance {
	b.mu.RLock()
	defer b.mu.RUnlock()

	candidates := b.tables[profile]
	scored := make([]entity.TableRelevance, len(candidates))
	copy(scored, candidates)
	for i := range scored {
		scored[i].Similarity = float32(cosineSimilarity(queryVec, scored[i].Embedding))
	}
	sort.Slice(scored, func(i, j int) bool { return scored[i].Similarity > scored[j].Similarity })
	return scored
}
