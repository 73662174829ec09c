package v1

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/kiosk404/echosql/internal/domain/entity"
	"github.com/kiosk404/echosql/internal/domain/repo"
	"github.com/kiosk404/echosql/pkg/core"
	"github.com/kiosk404/echosql/pkg/errorx"
)

// SessionHandler serves session lifecycle endpoints (spec.md §6.1).
type SessionHandler struct {
	sessions repo.SessionRepo
}

func NewSessionHandler(sessions repo.SessionRepo) *SessionHandler {
	return &SessionHandler{sessions: sessions}
}

// Create handles POST /sessions.
func (h *SessionHandler) Create(c *gin.Context) {
	var req CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		core.WriteResponse(c, errorx.WrapC(err, ErrBind, "invalid session request body"), nil)
		return
	}

	now := time.Now()
	session := &entity.Session{
		ID:              uuid.New().String(),
		OwnerID:         req.OwnerID,
		ParentSessionID: req.ParentSessionID,
		Summary:         req.Summary,
		Tags:            req.Tags,
		Metadata:        req.Metadata,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := h.sessions.Create(c.Request.Context(), session); err != nil {
		core.WriteResponse(c, errorx.WrapC(err, ErrSessionCreate, "create session"), nil)
		return
	}
	core.WriteResponse(c, nil, newSessionResponse(session))
}

// Get handles GET /sessions/:id.
func (h *SessionHandler) Get(c *gin.Context) {
	id := c.Param("id")
	session, err := h.sessions.Get(c.Request.Context(), id)
	if err != nil {
		core.WriteResponse(c, errorx.WrapC(err, ErrSessionNotFound, "session %q not found", id), nil)
		return
	}
	core.WriteResponse(c, nil, newSessionResponse(session))
}
