package vectorindex

import (
	"context"
	"fmt"

	"github.com/qdrant/go-client/qdrant"

	"github.com/kiosk404/echosql/internal/domain/entity"
)

// QdrantStore is the primary backing store when a Qdrant endpoint is
// configured. It uses one fixed collection for examples and one for
// tables; the payload carries the profile name so a single collection
// can serve every warehouse profile. Searches filter by profile only, so
// the collections are not partitioned by embedding model.
type QdrantStore struct {
	client         *qdrant.Client
	pointsClient   qdrant.PointsClient
	collectionsAPI qdrant.CollectionsClient

	examplesCollection string
	tablesCollection   string
}

type QdrantConfig struct {
	Host               string
	Port               int
	APIKey             string
	UseTLS             bool
	ExamplesCollection string
	TablesCollection   string
}

func NewQdrantStore(cfg QdrantConfig) (*QdrantStore, error) {
	client, err := qdrant.NewClient(&qdrant.Config{
		Host:   cfg.Host,
		Port:   cfg.Port,
		APIKey: cfg.APIKey,
		UseTLS: cfg.UseTLS,
	})
	if err != nil {
		return nil, fmt.Errorf("connect qdrant: %w", err)
	}

	examples := cfg.ExamplesCollection
	if examples == "" {
		examples = "echosql_query_examples"
	}
	tables := cfg.TablesCollection
	if tables == "" {
		tables = "echosql_table_relevance"
	}

	return &QdrantStore{
		client:             client,
		examplesCollection: examples,
		tablesCollection:   tables,
	}, nil
}

// EnsureCollections creates the example/table collections if absent, sized
// for dim-dimensional vectors scored by cosine distance.
func (s *QdrantStore) EnsureCollections(ctx context.Context, dim uint64) error {
	for _, name := range []string{s.examplesCollection, s.tablesCollection} {
		exists, err := s.client.CollectionExists(ctx, name)
		if err != nil {
			return fmt.Errorf("check collection %s: %w", name, err)
		}
		if exists {
			continue
		}
		err = s.client.CreateCollection(ctx, &qdrant.CreateCollection{
			CollectionName: name,
			VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
				Size:     dim,
				Distance: qdrant.Distance_Cosine,
			}),
		})
		if err != nil {
			return fmt.Errorf("create collection %s: %w", name, err)
		}
	}
	return nil
}

func (s *QdrantStore) UpsertExample(ctx context.Context, providerKey string, ex entity.QueryExample) error {
	vec := toFloat32Vector(ex.Embedding)
	point := &qdrant.PointStruct{
		Id:      qdrant.NewID(ex.ID),
		Vectors: qdrant.NewVectors(vec...),
		Payload: qdrant.NewValueMap(map[string]any{
			"provider":    providerKey,
			"profile":     ex.Profile,
			"description": ex.Description,
			"sql":         ex.SQL,
			"tables":      ex.Tables,
		}),
	}
	_, err := s.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: s.examplesCollection,
		Points:         []*qdrant.PointStruct{point},
	})
	if err != nil {
		return fmt.Errorf("upsert example %s: %w", ex.ID, err)
	}
	return nil
}

func (s *QdrantStore) UpsertTable(ctx context.Context, providerKey string, t entity.TableRelevance) error {
	vec := toFloat32Vector(t.Embedding)
	point := &qdrant.PointStruct{
		Id:      qdrant.NewID(providerKey + ":" + t.Profile + ":" + t.FQN),
		Vectors: qdrant.NewVectors(vec...),
		Payload: qdrant.NewValueMap(map[string]any{
			"provider": providerKey,
			"profile":  t.Profile,
			"fqn":      t.FQN,
		}),
	}
	_, err := s.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: s.tablesCollection,
		Points:         []*qdrant.PointStruct{point},
	})
	if err != nil {
		return fmt.Errorf("upsert table %s: %w", t.FQN, err)
	}
	return nil
}

func (s *QdrantStore) SearchExamples(ctx context.Context, profile string, queryVec []float32, topK int) ([]entity.QueryExample, error) {
	filter := &qdrant.Filter{
		Must: []*qdrant.Condition{
			qdrant.NewMatchKeyword("profile", profile),
		},
	}
	limit := uint64(topK)
	resp, err := s.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: s.examplesCollection,
		Query:          qdrant.NewQuery(toFloat32Vector(queryVec)...),
		Filter:         filter,
		Limit:          &limit,
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, fmt.Errorf("search examples: %w", err)
	}

	out := make([]entity.QueryExample, 0, len(resp))
	for _, p := range resp {
		payload := p.GetPayload()
		out = append(out, entity.QueryExample{
			ID:          p.GetId().GetUuid(),
			Profile:     payload["profile"].GetStringValue(),
			Description: payload["description"].GetStringValue(),
			SQL:         payload["sql"].GetStringValue(),
			Similarity:  float32(p.GetScore()),
		})
	}
	return out, nil
}

func (s *QdrantStore) SearchTables(ctx context.Context, profile string, queryVec []float32, topK int) ([]entity.TableRelevance, error) {
	filter := &qdrant.Filter{
		Must: []*qdrant.Condition{
			qdrant.NewMatchKeyword("profile", profile),
		},
	}
	limit := uint64(topK)
	resp, err := s.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: s.tablesCollection,
		Query:          qdrant.NewQuery(toFloat32Vector(queryVec)...),
		Filter:         filter,
		Limit:          &limit,
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, fmt.Errorf("search tables: %w", err)
	}

	out := make([]entity.TableRelevance, 0, len(resp))
	for _, p := range resp {
		payload := p.GetPayload()
		out = append(out, entity.TableRelevance{
			Profile:    payload["profile"].GetStringValue(),
			FQN:        payload["fqn"].GetStringValue(),
			Similarity: float32(p.GetScore()),
		})
	}
	return out, nil
}

func toFloat32Vector(v []float32) []float32 {
	if v == nil {
		return []float32{}
	}
	return v
}
