package v1

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/kiosk404/echosql/internal/domain/entity"
	"github.com/kiosk404/echosql/internal/domain/repo"
	"github.com/kiosk404/echosql/internal/events"
	"github.com/kiosk404/echosql/pkg/core"
	"github.com/kiosk404/echosql/pkg/errorx"
	"github.com/kiosk404/echosql/pkg/logger"
	"github.com/kiosk404/echosql/pkg/utils/json"
)

// StreamHandler serves the session's persistent event channel over SSE
// (spec.md §6.1/§6.3).
type StreamHandler struct {
	sessions repo.SessionRepo
	requests repo.RequestRepo
	hub      *events.Hub
}

func NewStreamHandler(sessions repo.SessionRepo, requests repo.RequestRepo, hub *events.Hub) *StreamHandler {
	return &StreamHandler{sessions: sessions, requests: requests, hub: hub}
}

// Stream handles GET /sessions/:id/stream.
func (h *StreamHandler) Stream(c *gin.Context) {
	sessionID := c.Param("id")
	if _, err := h.sessions.Get(c.Request.Context(), sessionID); err != nil {
		core.WriteResponse(c, errorx.WrapC(err, ErrSessionNotFound, "session %q not found", sessionID), nil)
		return
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")
	w := c.Writer

	ch, unsubscribe := h.hub.Subscribe(sessionID)
	defer unsubscribe()

	// A reconnecting client may have missed notifications while
	// disconnected; recover up front the latest known state of the
	// session's in_progress, done and cancelled requests (pending and
	// error requests are not replayed) (spec §6.3's point-in-time fetch).
	h.writeCatchUp(w, sessionID)
	w.Flush()

	for {
		select {
		case <-c.Request.Context().Done():
			return
		case ev, ok := <-ch:
			if !ok {
				return
			}
			writeSSEEvent(w, ev)
			w.Flush()
		}
	}
}

func (h *StreamHandler) writeCatchUp(w gin.ResponseWriter, sessionID string) {
	reqs, err := h.requests.ListBySession(context.Background(), sessionID)
	if err != nil {
		logger.WarnX("handler", "stream catch-up: list requests for session %s: %v", sessionID, err)
		return
	}
	for _, r := range reqs {
		if r.Status.IsTerminal() || r.Status == entity.RequestStatusInProgress {
			writeSSEEvent(w, events.NewRequestUpdate(r.ID, sessionID, string(r.Status), r.QueryID != "", r.Error != nil, r.SequenceNumber))
		}
	}
}

func writeSSEEvent(w gin.ResponseWriter, ev events.Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		logger.WarnX("handler", "marshal event: %v", err)
		return
	}
	fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.Kind, data)
}
