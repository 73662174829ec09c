package v1

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/kiosk404/echosql/internal/domain/entity"
	"github.com/kiosk404/echosql/internal/events"
	"github.com/kiosk404/echosql/internal/store/inmemory"
)

func TestStreamHandler_CatchUpThenFanOut(t *testing.T) {
	gin.SetMode(gin.TestMode)

	sessions := inmemory.NewSessionStore()
	requests := inmemory.NewRequestStore()
	hub := events.NewHub()

	session := &entity.Session{ID: "sess-1", CreatedAt: time.Now(), UpdatedAt: time.Now()}
	require.NoError(t, sessions.Create(context.Background(), session))
	req := &entity.Request{ID: "req-1", SessionID: "sess-1", Status: entity.RequestStatusInProgress, CreatedAt: time.Now(), UpdatedAt: time.Now()}
	require.NoError(t, requests.Create(context.Background(), req))

	h := NewStreamHandler(sessions, requests, hub)

	r := gin.New()
	r.GET("/sessions/:id/stream", h.Stream)

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	httpReq := httptest.NewRequest(http.MethodGet, "/sessions/sess-1/stream", nil).WithContext(ctx)
	w := httptest.NewRecorder()

	done := make(chan struct{})
	go func() {
		r.ServeHTTP(w, httpReq)
		close(done)
	}()

	time.Sleep(20 * time.Millisecond)
	hub.Publish("sess-1", events.NewAgentStatus(events.StepLLMThinking, 1, 3))

	<-done
	body := w.Body.String()
	require.Contains(t, body, "request_update")
	require.Contains(t, body, "agent_status")
}

func TestStreamHandler_UnknownSession(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewStreamHandler(inmemory.NewSessionStore(), inmemory.NewRequestStore(), events.NewHub())

	r := gin.New()
	r.GET("/sessions/:id/stream", h.Stream)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/sessions/missing/stream", nil)
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusNotFound, w.Code)
}
