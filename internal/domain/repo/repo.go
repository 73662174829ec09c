// Package repo declares the persistence interfaces the core depends on.
// Concrete implementations live under internal/store; swapping one in for
// another (boltdb for inmemory, or a future SQL-backed store) never touches
// caller code.
package repo

import (
	"context"

	"github.com/kiosk404/echosql/internal/domain/entity"
)

// SessionRepo persists Session records.
type SessionRepo interface {
	Create(ctx context.Context, s *entity.Session) error
	Get(ctx context.Context, id string) (*entity.Session, error)
	Update(ctx context.Context, s *entity.Session) error
	ListByOwner(ctx context.Context, ownerID string) ([]*entity.Session, error)
}

// RequestRepo persists Request records and their conversational Turn
// history.
type RequestRepo interface {
	Create(ctx context.Context, r *entity.Request) error
	Get(ctx context.Context, id string) (*entity.Request, error)
	Update(ctx context.Context, r *entity.Request) error
	ListBySession(ctx context.Context, sessionID string) ([]*entity.Request, error)

	// ListInProgressOlderThan supports the crash-recovery monitor that
	// transitions stuck in_progress requests to error.
	ListInProgressOlderThan(ctx context.Context, age int64) ([]*entity.Request, error)

	AppendTurn(ctx context.Context, sessionID string, t *entity.Turn) error
	ListTurns(ctx context.Context, sessionID string) ([]*entity.Turn, error)
}

// QueryRepo persists QueryMetadata records.
type QueryRepo interface {
	Create(ctx context.Context, q *entity.QueryMetadata) error
	Get(ctx context.Context, id string) (*entity.QueryMetadata, error)
	ListBySession(ctx context.Context, sessionID string) ([]*entity.QueryMetadata, error)
}
