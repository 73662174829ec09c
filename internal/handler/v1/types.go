package v1

import (
	"time"

	"github.com/kiosk404/echosql/internal/domain/entity"
	"github.com/kiosk404/echosql/internal/warehouse"
)

const timeFormat = time.RFC3339

// FormatTime renders t in the wire time format used by every response.
func FormatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(timeFormat)
}

// --- Sessions ---

// CreateSessionRequest is the body for POST /sessions.
type CreateSessionRequest struct {
	OwnerID         string            `json:"owner_id"`
	ParentSessionID string            `json:"parent_session_id,omitempty"`
	Summary         string            `json:"summary,omitempty"`
	Tags            []string          `json:"tags,omitempty"`
	Metadata        map[string]string `json:"metadata,omitempty"`
}

// SessionResponse is the wire shape of an entity.Session.
type SessionResponse struct {
	ID              string            `json:"id"`
	OwnerID         string            `json:"owner_id"`
	ParentSessionID string            `json:"parent_session_id,omitempty"`
	Summary         string            `json:"summary,omitempty"`
	Tags            []string          `json:"tags,omitempty"`
	Metadata        map[string]string `json:"metadata,omitempty"`
	CreatedAt       string            `json:"created_at"`
	UpdatedAt       string            `json:"updated_at"`
}

func newSessionResponse(s *entity.Session) SessionResponse {
	return SessionResponse{
		ID:              s.ID,
		OwnerID:         s.OwnerID,
		ParentSessionID: s.ParentSessionID,
		Summary:         s.Summary,
		Tags:            s.Tags,
		Metadata:        s.Metadata,
		CreatedAt:       FormatTime(s.CreatedAt),
		UpdatedAt:       FormatTime(s.UpdatedAt),
	}
}

// --- Requests ---

// CreateRequestRequest is the body for POST /sessions/:id/requests.
// Profile is optional; when empty the handler's configured default
// warehouse profile is used (spec.md §6.1 names no profile parameter for
// this endpoint, and §9's Open Question treats profile as an opaque
// routing key without a mandated selection rule per request).
type CreateRequestRequest struct {
	Text    string `json:"text" binding:"required"`
	Profile string `json:"profile,omitempty"`
}

// RequestErrorResponse is the wire shape of an entity.RequestError.
type RequestErrorResponse struct {
	Class   string `json:"class"`
	Message string `json:"message"`
	Attempt int    `json:"attempt,omitempty"`
}

// RequestResponse is the wire shape of an entity.Request, with its linked
// QueryMetadata inlined once the request reaches done.
type RequestResponse struct {
	ID             string                 `json:"id"`
	SessionID      string                 `json:"session_id"`
	SequenceNumber int64                  `json:"sequence_number"`
	UserText       string                 `json:"user_text"`
	Status         string                 `json:"status"`
	QueryID        string                 `json:"query_id,omitempty"`
	Error          *RequestErrorResponse  `json:"error,omitempty"`
	Attempts       int                    `json:"attempts,omitempty"`
	CreatedAt      string                 `json:"created_at"`
	UpdatedAt      string                 `json:"updated_at"`
	DoneAt         string                 `json:"done_at,omitempty"`
	Query          *QueryMetadataResponse `json:"query,omitempty"`
}

func newRequestResponse(r *entity.Request, q *entity.QueryMetadata) RequestResponse {
	resp := RequestResponse{
		ID:             r.ID,
		SessionID:      r.SessionID,
		SequenceNumber: r.SequenceNumber,
		UserText:       r.UserText,
		Status:         string(r.Status),
		QueryID:        r.QueryID,
		Attempts:       r.Attempts,
		CreatedAt:      FormatTime(r.CreatedAt),
		UpdatedAt:      FormatTime(r.UpdatedAt),
	}
	if r.Error != nil {
		resp.Error = &RequestErrorResponse{Class: r.Error.Class, Message: r.Error.Message, Attempt: r.Error.Attempt}
	}
	if r.DoneAt != nil {
		resp.DoneAt = FormatTime(*r.DoneAt)
	}
	if q != nil {
		qr := newQueryMetadataResponse(q)
		resp.Query = &qr
	}
	return resp
}

// --- Query metadata ---

// ColumnResponse is the wire shape of an entity.Column.
type ColumnResponse struct {
	ColumnName   string `json:"column_name"`
	DisplayAlias string `json:"display_alias,omitempty"`
	Type         string `json:"type,omitempty"`
	Summary      string `json:"summary,omitempty"`
	Description  string `json:"description,omitempty"`
}

// QueryMetadataResponse is the wire shape of an entity.QueryMetadata.
type QueryMetadataResponse struct {
	ID              string           `json:"id"`
	SessionID       string           `json:"session_id"`
	RequestID       string           `json:"request_id"`
	ParentID        string           `json:"parent_id,omitempty"`
	Summary         string           `json:"summary"`
	Description     string           `json:"description"`
	SQL             string           `json:"sql"`
	ResultNarrative string           `json:"result_narrative,omitempty"`
	Columns         []ColumnResponse `json:"columns"`
	Dialect         string           `json:"dialect,omitempty"`
	Profile         string           `json:"profile,omitempty"`
	CreatedAt       string           `json:"created_at"`
}

func newQueryMetadataResponse(q *entity.QueryMetadata) QueryMetadataResponse {
	cols := make([]ColumnResponse, len(q.Columns))
	for i, c := range q.Columns {
		cols[i] = ColumnResponse{
			ColumnName:   c.ColumnName,
			DisplayAlias: c.DisplayAlias,
			Type:         c.Type,
			Summary:      c.Summary,
			Description:  c.Description,
		}
	}
	return QueryMetadataResponse{
		ID:              q.ID,
		SessionID:       q.SessionID,
		RequestID:       q.RequestID,
		ParentID:        q.ParentID,
		Summary:         q.Summary,
		Description:     q.Description,
		SQL:             q.SQL,
		ResultNarrative: q.ResultNarrative,
		Columns:         cols,
		Dialect:         q.Dialect,
		Profile:         q.Profile,
		CreatedAt:       FormatTime(q.CreatedAt),
	}
}

// --- Data ---

// DataResponse is the wire shape of GET /data/:query_id.
type DataResponse struct {
	Rows      []warehouse.Row `json:"rows"`
	TotalRows *int64          `json:"total_rows,omitempty"`
}

// LineageResponse is the wire shape of GET /data/:query_id/lineage: the
// refinement chain oldest-first, ending with the requested query.
type LineageResponse struct {
	Chain []QueryMetadataResponse `json:"chain"`
}

func newLineageResponse(chain []*entity.QueryMetadata) LineageResponse {
	out := make([]QueryMetadataResponse, len(chain))
	for i, q := range chain {
		out[i] = newQueryMetadataResponse(q)
	}
	return LineageResponse{Chain: out}
}
