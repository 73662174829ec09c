// Package inmemory is the default, process-lifetime-only persistence
// backend, used when no durable store is configured.
package inmemory

import (
	"context"
	"sync"

	"github.com/kiosk404/echosql/internal/domain/entity"
	"github.com/kiosk404/echosql/internal/domain/errno"
)

// SessionStore is an in-memory implementation of repo.SessionRepo.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*entity.Session
}

func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[string]*entity.Session)}
}

func (s *SessionStore) Create(_ context.Context, session *entity.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.ID] = session
	return nil
}

func (s *SessionStore) Get(_ context.Context, id string) (*entity.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[id]
	if !ok {
		return nil, errno.ErrSessionNotFound
	}
	return session, nil
}

func (s *SessionStore) Update(_ context.Context, session *entity.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[session.ID]; !ok {
		return errno.ErrSessionNotFound
	}
	s.sessions[session.ID] = session
	return nil
}

func (s *SessionStore) ListByOwner(_ context.Context, ownerID string) ([]*entity.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*entity.Session, 0)
	for _, session := range s.sessions {
		if session.OwnerID == ownerID {
			out = append(out, session)
		}
	}
	return out, nil
}
