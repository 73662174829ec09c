// Package vectorindex backs relevant_examples and relevant_tables
// (spec §4.2): embed a user request, then rank stored (SQL, description,
// tables) examples and table descriptors by cosine similarity. Qdrant is
// the primary store; an in-process brute-force cosine index serves as the
// fallback when no Qdrant endpoint is configured, so this runs with zero
// external services for local/dev use.
package vectorindex

import "context"

// Provider is an embedding backend.
type Provider interface {
	ID() string
	Model() string
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}

// ProviderKey is a stable identifier for a provider. It is stored with
// each Qdrant point as a payload field; searches do not filter on it.
func ProviderKey(p Provider) string {
	return p.ID() + ":" + p.Model()
}
