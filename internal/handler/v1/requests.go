package v1

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/kiosk404/echosql/internal/domain/entity"
	"github.com/kiosk404/echosql/internal/domain/repo"
	"github.com/kiosk404/echosql/internal/queryflow"
	"github.com/kiosk404/echosql/pkg/core"
	"github.com/kiosk404/echosql/pkg/errorx"
	"github.com/kiosk404/echosql/pkg/utils/safego"
)

// RequestHandler serves the repair loop's HTTP surface (spec.md §6.1):
// enqueue and poll Requests. Create launches the repair loop in the
// background and returns immediately with the request's initial status;
// callers observe progress via GetOne polling or the session's event
// stream.
type RequestHandler struct {
	sessions repo.SessionRepo
	requests repo.RequestRepo
	queries  repo.QueryRepo
	runner   *queryflow.Runner

	defaultProfile string

	// runTimeout bounds a request's entire repair loop, across all
	// attempts, as a last-resort safety net — there is no explicit cancel
	// endpoint in spec.md §6.1, so this is the one place the CANCEL
	// transition of §4.6 can originate from outside an explicit abort.
	runTimeout time.Duration
}

func NewRequestHandler(sessions repo.SessionRepo, requests repo.RequestRepo, queries repo.QueryRepo, runner *queryflow.Runner, defaultProfile string, runTimeout time.Duration) *RequestHandler {
	return &RequestHandler{
		sessions:       sessions,
		requests:       requests,
		queries:        queries,
		runner:         runner,
		defaultProfile: defaultProfile,
		runTimeout:     runTimeout,
	}
}

// Create handles POST /sessions/:id/requests.
func (h *RequestHandler) Create(c *gin.Context) {
	sessionID := c.Param("id")

	var body CreateRequestRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		core.WriteResponse(c, errorx.WrapC(err, ErrBind, "invalid request body"), nil)
		return
	}

	session, err := h.sessions.Get(c.Request.Context(), sessionID)
	if err != nil {
		core.WriteResponse(c, errorx.WrapC(err, ErrSessionNotFound, "session %q not found", sessionID), nil)
		return
	}

	profile := body.Profile
	if profile == "" {
		profile = h.defaultProfile
	}

	now := time.Now()
	req := &entity.Request{
		ID:             uuid.New().String(),
		SessionID:      sessionID,
		SequenceNumber: session.NextSequenceNumber(),
		UserText:       body.Text,
		Status:         entity.RequestStatusPending,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := h.requests.Create(c.Request.Context(), req); err != nil {
		core.WriteResponse(c, errorx.WrapC(err, ErrRequestCreate, "create request"), nil)
		return
	}
	if err := h.sessions.Update(c.Request.Context(), session); err != nil {
		core.WriteResponse(c, errorx.WrapC(err, ErrRequestCreate, "persist session sequence counter"), nil)
		return
	}

	h.launch(req, profile)

	core.WriteResponse(c, nil, newRequestResponse(req, nil))
}

// launch runs the repair loop detached from the HTTP request's context:
// the loop must outlive the response that enqueued it.
func (h *RequestHandler) launch(req *entity.Request, profile string) {
	abort := queryflow.NewAbortController(context.Background(), req.ID, h.runTimeout)
	safego.Go(abort.Context(), func() {
		defer abort.CleanUp()
		if err := h.runner.Run(abort.Context(), req, req.SessionID, profile, "", "", abort); err != nil {
			_ = err // the repair loop persists its own terminal state on every path; nothing further to report here
		}
	})
}

// Get handles GET /requests/:id.
func (h *RequestHandler) Get(c *gin.Context) {
	id := c.Param("id")
	req, err := h.requests.Get(c.Request.Context(), id)
	if err != nil {
		core.WriteResponse(c, errorx.WrapC(err, ErrRequestNotFound, "request %q not found", id), nil)
		return
	}

	var query *entity.QueryMetadata
	if req.QueryID != "" {
		query, err = h.queries.Get(c.Request.Context(), req.QueryID)
		if err != nil {
			query = nil
		}
	}
	core.WriteResponse(c, nil, newRequestResponse(req, query))
}
