package boltdb

import (
	"context"
	"fmt"

	"github.com/boltdb/bolt"
	"github.com/kiosk404/echosql/internal/domain/entity"
	"github.com/kiosk404/echosql/pkg/utils/json"
)

// QueryStore implements repo.QueryRepo using BoltDB.
type QueryStore struct {
	boltDB *bolt.DB
}

func NewQueryStore(db *DB) *QueryStore {
	return &QueryStore{boltDB: db.Bolt()}
}

func (s *QueryStore) Create(_ context.Context, q *entity.QueryMetadata) error {
	return s.boltDB.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketQueries)
		data, err := json.Marshal(q)
		if err != nil {
			return fmt.Errorf("failed to marshal query: %w", err)
		}
		return b.Put([]byte(q.ID), data)
	})
}

func (s *QueryStore) Get(_ context.Context, id string) (*entity.QueryMetadata, error) {
	var q entity.QueryMetadata
	err := s.boltDB.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketQueries)
		data := b.Get([]byte(id))
		if data == nil {
			return fmt.Errorf("query %q not found", id)
		}
		return json.Unmarshal(data, &q)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get query %q: %w", id, err)
	}
	return &q, nil
}

func (s *QueryStore) ListBySession(_ context.Context, sessionID string) ([]*entity.QueryMetadata, error) {
	var out []*entity.QueryMetadata
	err := s.boltDB.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketQueries)
		return b.ForEach(func(_, v []byte) error {
			var q entity.QueryMetadata
			if err := json.Unmarshal(v, &q); err != nil {
				return fmt.Errorf("failed to unmarshal query: %w", err)
			}
			if q.SessionID == sessionID {
				out = append(out, &q)
			}
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list queries by session %q: %w", sessionID, err)
	}
	return out, nil
}
