package inmemory

import (
	"context"
	"sync"

	"github.com/kiosk404/echosql/internal/domain/entity"
	"github.com/kiosk404/echosql/internal/domain/errno"
)

// QueryStore is an in-memory implementation of repo.QueryRepo.
type QueryStore struct {
	mu      sync.RWMutex
	queries map[string]*entity.QueryMetadata
}

func NewQueryStore() *QueryStore {
	return &QueryStore{queries: make(map[string]*entity.QueryMetadata)}
}

func (s *QueryStore) Create(_ context.Context, q *entity.QueryMetadata) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queries[q.ID] = q
	return nil
}

func (s *QueryStore) Get(_ context.Context, id string) (*entity.QueryMetadata, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	q, ok := s.queries[id]
	if !ok {
		return nil, errno.ErrQueryNotFound
	}
	return q, nil
}

func (s *QueryStore) ListBySession(_ context.Context, sessionID string) ([]*entity.QueryMetadata, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*entity.QueryMetadata, 0)
	for _, q := range s.queries {
		if q.SessionID == sessionID {
			out = append(out, q)
		}
	}
	return out, nil
}
