package repo

import (
	"context"

	"github.com/kiosk404/echosql/internal/domain/entity"
	"github.com/kiosk404/echosql/internal/domain/errno"
)

// DefaultLineageDepth bounds ResolveLineage when the caller has no
// stronger opinion.
const DefaultLineageDepth = 25

// ResolveLineage walks a QueryMetadata's ParentID chain back to its root,
// returning the chain ordered oldest-first (root, ..., id). It stops with
// ErrLineageCycleDetected if the walk exceeds maxDepth, since ParentID
// forms an in-session DAG only by convention — nothing prevents a
// corrupted store from introducing a cycle.
func ResolveLineage(ctx context.Context, repo QueryRepo, id string, maxDepth int) ([]*entity.QueryMetadata, error) {
	chain := make([]*entity.QueryMetadata, 0, maxDepth)
	cur := id
	for i := 0; i <= maxDepth; i++ {
		if cur == "" {
			break
		}
		if i == maxDepth {
			return nil, errno.ErrLineageCycleDetected
		}
		q, err := repo.Get(ctx, cur)
		if err != nil {
			return nil, err
		}
		chain = append(chain, q)
		cur = q.ParentID
	}

	for l, r := 0, len(chain)-1; l < r; l, r = l+1, r-1 {
		chain[l], chain[r] = chain[r], chain[l]
	}
	return chain, nil
}
