package boltdb

import (
	"context"
	"fmt"
	"time"

	"github.com/boltdb/bolt"
	"github.com/kiosk404/echosql/internal/domain/entity"
	"github.com/kiosk404/echosql/pkg/utils/json"
)

// RequestStore implements repo.RequestRepo using BoltDB. Turns are stored
// as one JSON-encoded slice per session, mirroring how the upstream agent
// runner inlines its message history directly on the session record.
type RequestStore struct {
	boltDB *bolt.DB
}

func NewRequestStore(db *DB) *RequestStore {
	return &RequestStore{boltDB: db.Bolt()}
}

func (s *RequestStore) Create(_ context.Context, r *entity.Request) error {
	return s.boltDB.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketRequests)
		data, err := json.Marshal(r)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		return b.Put([]byte(r.ID), data)
	})
}

func (s *RequestStore) Get(_ context.Context, id string) (*entity.Request, error) {
	var r entity.Request
	err := s.boltDB.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketRequests)
		data := b.Get([]byte(id))
		if data == nil {
			return fmt.Errorf("request %q not found", id)
		}
		return json.Unmarshal(data, &r)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get request %q: %w", id, err)
	}
	return &r, nil
}

func (s *RequestStore) Update(_ context.Context, r *entity.Request) error {
	return s.boltDB.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketRequests)
		if b.Get([]byte(r.ID)) == nil {
			return fmt.Errorf("request %q not found", r.ID)
		}
		data, err := json.Marshal(r)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		return b.Put([]byte(r.ID), data)
	})
}

func (s *RequestStore) ListBySession(_ context.Context, sessionID string) ([]*entity.Request, error) {
	var out []*entity.Request
	err := s.boltDB.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketRequests)
		return b.ForEach(func(_, v []byte) error {
			var r entity.Request
			if err := json.Unmarshal(v, &r); err != nil {
				return fmt.Errorf("failed to unmarshal request: %w", err)
			}
			if r.SessionID == sessionID {
				out = append(out, &r)
			}
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list requests by session %q: %w", sessionID, err)
	}
	return out, nil
}

func (s *RequestStore) ListInProgressOlderThan(_ context.Context, ageSeconds int64) ([]*entity.Request, error) {
	cutoff := time.Now().Add(-time.Duration(ageSeconds) * time.Second)
	var out []*entity.Request
	err := s.boltDB.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketRequests)
		return b.ForEach(func(_, v []byte) error {
			var r entity.Request
			if err := json.Unmarshal(v, &r); err != nil {
				return fmt.Errorf("failed to unmarshal request: %w", err)
			}
			if r.Status == entity.RequestStatusInProgress && r.UpdatedAt.Before(cutoff) {
				out = append(out, &r)
			}
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan in-progress requests: %w", err)
	}
	return out, nil
}

func (s *RequestStore) AppendTurn(_ context.Context, sessionID string, t *entity.Turn) error {
	return s.boltDB.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketTurns)
		var turns []*entity.Turn
		if data := b.Get([]byte(sessionID)); data != nil {
			if err := json.Unmarshal(data, &turns); err != nil {
				return fmt.Errorf("failed to unmarshal turns: %w", err)
			}
		}
		turns = append(turns, t)
		data, err := json.Marshal(turns)
		if err != nil {
			return fmt.Errorf("failed to marshal turns: %w", err)
		}
		return b.Put([]byte(sessionID), data)
	})
}

func (s *RequestStore) ListTurns(_ context.Context, sessionID string) ([]*entity.Turn, error) {
	var turns []*entity.Turn
	err := s.boltDB.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketTurns)
		data := b.Get([]byte(sessionID))
		if data == nil {
			return nil
		}
		return json.Unmarshal(data, &turns)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list turns for session %q: %w", sessionID, err)
	}
	return turns, nil
}
