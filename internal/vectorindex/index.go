package vectorindex

import (
	"context"
	"fmt"
	"sort"

	"github.com/kiosk404/echosql/internal/domain/entity"
	"github.com/kiosk404/echosql/internal/warehouse"
	"github.com/kiosk404/echosql/pkg/logger"
)

// Index answers relevant_examples and relevant_tables (spec §4.2). It
// prefers a Qdrant-backed store when one is configured and falls back to
// an in-process brute-force index otherwise, so the core runs with zero
// external services for local/dev use.
type Index struct {
	provider Provider
	qdrant   *QdrantStore // nil when no endpoint configured
	fallback *BruteForceIndex

	pinnedTables func(profile string) []string
}

func NewIndex(provider Provider, qdrant *QdrantStore, pinnedTables func(profile string) []string) *Index {
	return &Index{
		provider:     provider,
		qdrant:       qdrant,
		fallback:     NewBruteForceIndex(),
		pinnedTables: pinnedTables,
	}
}

// NewIndexFromWarehouseConfig builds the pinned-table lookup from a loaded
// warehouse.Config, the common wiring path.
func NewIndexFromWarehouseConfig(provider Provider, qdrant *QdrantStore, cfg *warehouse.Config) *Index {
	return NewIndex(provider, qdrant, func(profile string) []string {
		p, ok := cfg.Profiles[profile]
		if !ok {
			return nil
		}
		return p.PinnedTables
	})
}

func (idx *Index) IndexExample(ctx context.Context, ex entity.QueryExample) error {
	if idx.qdrant != nil {
		return idx.qdrant.UpsertExample(ctx, ProviderKey(idx.provider), ex)
	}
	idx.fallback.IndexExample(ex.Profile, ex)
	return nil
}

func (idx *Index) IndexTable(ctx context.Context, t entity.TableRelevance) error {
	if idx.qdrant != nil {
		return idx.qdrant.UpsertTable(ctx, ProviderKey(idx.provider), t)
	}
	idx.fallback.IndexTable(t.Profile, t)
	return nil
}

// RelevantExamples embeds userRequest and returns the topK nearest indexed
// query examples for profile.
func (idx *Index) RelevantExamples(ctx context.Context, userRequest, profile string, topK int) ([]entity.QueryExample, error) {
	vec, err := idx.provider.EmbedQuery(ctx, userRequest)
	if err != nil {
		return nil, fmt.Errorf("embed request: %w", err)
	}

	if idx.qdrant != nil {
		examples, err := idx.qdrant.SearchExamples(ctx, profile, vec, topK)
		if err != nil {
			logger.WarnX("vectorindex", "qdrant search examples failed, falling back to brute force: %v", err)
			return idx.fallback.SearchExamples(profile, vec, topK), nil
		}
		return examples, nil
	}
	return idx.fallback.SearchExamples(profile, vec, topK), nil
}

// RelevantTables embeds userRequest, scores every table indexed for
// profile, keeps those at or above threshold, always includes the
// profile's pinned tables, and falls back to the topK highest-scoring
// tables regardless of threshold when nothing clears it (spec §4.2).
func (idx *Index) RelevantTables(ctx context.Context, userRequest, profile string, topK int, threshold float64) ([]entity.TableRelevance, error) {
	vec, err := idx.provider.EmbedQuery(ctx, userRequest)
	if err != nil {
		return nil, fmt.Errorf("embed request: %w", err)
	}

	var scored []entity.TableRelevance
	if idx.qdrant != nil {
		scored, err = idx.qdrant.SearchTables(ctx, profile, vec, topK)
		if err != nil {
			logger.WarnX("vectorindex", "qdrant search tables failed, falling back to brute force: %v", err)
			scored = idx.fallback.SearchTables(profile, vec)
		}
	} else {
		scored = idx.fallback.SearchTables(profile, vec)
	}

	selected := make(map[string]entity.TableRelevance)
	for _, t := range scored {
		if float64(t.Similarity) >= threshold {
			selected[t.FQN] = t
		}
	}

	if len(selected) == 0 {
		limit := topK
		if limit > len(scored) {
			limit = len(scored)
		}
		for _, t := range scored[:limit] {
			selected[t.FQN] = t
		}
	}

	if idx.pinnedTables != nil {
		for _, fqn := range idx.pinnedTables(profile) {
			if _, ok := selected[fqn]; !ok {
				selected[fqn] = entity.TableRelevance{Profile: profile, FQN: fqn, Similarity: 1}
			}
		}
	}

	out := make([]entity.TableRelevance, 0, len(selected))
	for _, t := range selected {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Similarity > out[j].Similarity })
	return out, nil
}
