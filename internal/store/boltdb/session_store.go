package boltdb

import (
	"context"
	"fmt"

	"github.com/boltdb/bolt"
	"github.com/kiosk404/echosql/internal/domain/entity"
	"github.com/kiosk404/echosql/pkg/utils/json"
)

// SessionStore implements repo.SessionRepo using BoltDB.
type SessionStore struct {
	boltDB *bolt.DB
}

func NewSessionStore(db *DB) *SessionStore {
	return &SessionStore{boltDB: db.Bolt()}
}

func (s *SessionStore) Create(_ context.Context, session *entity.Session) error {
	return s.boltDB.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketSessions)
		data, err := json.Marshal(session)
		if err != nil {
			return fmt.Errorf("failed to marshal session: %w", err)
		}
		return b.Put([]byte(session.ID), data)
	})
}

func (s *SessionStore) Get(_ context.Context, id string) (*entity.Session, error) {
	var session entity.Session
	err := s.boltDB.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketSessions)
		data := b.Get([]byte(id))
		if data == nil {
			return fmt.Errorf("session %q not found", id)
		}
		return json.Unmarshal(data, &session)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get session %q: %w", id, err)
	}
	return &session, nil
}

func (s *SessionStore) Update(_ context.Context, session *entity.Session) error {
	return s.boltDB.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketSessions)
		if b.Get([]byte(session.ID)) == nil {
			return fmt.Errorf("session %q not found", session.ID)
		}
		data, err := json.Marshal(session)
		if err != nil {
			return fmt.Errorf("failed to marshal session: %w", err)
		}
		return b.Put([]byte(session.ID), data)
	})
}

func (s *SessionStore) ListByOwner(_ context.Context, ownerID string) ([]*entity.Session, error) {
	var sessions []*entity.Session
	err := s.boltDB.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketSessions)
		return b.ForEach(func(_, v []byte) error {
			var session entity.Session
			if err := json.Unmarshal(v, &session); err != nil {
				return fmt.Errorf("failed to unmarshal session: %w", err)
			}
			if session.OwnerID == ownerID {
				sessions = append(sessions, &session)
			}
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions by owner %q: %w", ownerID, err)
	}
	return sessions, nil
}
