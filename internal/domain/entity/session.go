package entity

import "time"

// Session is an ordered, append-only sequence of Requests belonging to a
// single user identity (authenticated or guest).
type Session struct {
	// ID is the unique session identifier.
	ID string `json:"id"`

	// OwnerID identifies the user (or guest) this session belongs to.
	OwnerID string `json:"owner_id"`

	// ParentSessionID is set when this session was forked from another
	// session (e.g. "continue this conversation with a new scope").
	ParentSessionID string `json:"parent_session_id,omitempty"`

	// SequenceCounter is the last-assigned Request.SequenceNumber; the
	// next request in this session gets SequenceCounter+1.
	SequenceCounter int64 `json:"sequence_counter"`

	// Summary is a short free-form description, set by the client or
	// derived from the first request.
	Summary string `json:"summary,omitempty"`

	// Tags holds arbitrary client-assigned labels.
	Tags []string `json:"tags,omitempty"`

	// Metadata holds arbitrary key-value pairs for extensibility.
	Metadata map[string]string `json:"metadata,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NextSequenceNumber increments and returns the session's request counter.
// Callers must hold whatever lock the store uses for session mutation.
func (s *Session) NextSequenceNumber() int64 {
	s.SequenceCounter++
	s.UpdatedAt = time.Now()
	return s.SequenceCounter
}
