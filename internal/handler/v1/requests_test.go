package v1

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/kiosk404/echosql/internal/domain/entity"
	llmentity "github.com/kiosk404/echosql/internal/llm/domain/entity"
	"github.com/kiosk404/echosql/internal/queryflow"
	"github.com/kiosk404/echosql/internal/store/inmemory"
)

func newTestRequestHandler(t *testing.T) (*RequestHandler, *inmemory.SessionStore, string) {
	t.Helper()
	sessions := inmemory.NewSessionStore()
	requests := inmemory.NewRequestStore()
	queries := inmemory.NewQueryStore()
	runner := queryflow.NewRunner(queryflow.DefaultRunnerConfig(llmentity.FallbackConfig{}), requests, queries, nil, nil, nil, nil)
	h := NewRequestHandler(sessions, requests, queries, runner, "analytics", time.Second)

	session := &entity.Session{ID: "sess-1", OwnerID: "user-1", CreatedAt: time.Now(), UpdatedAt: time.Now()}
	require.NoError(t, sessions.Create(context.Background(), session))
	return h, sessions, session.ID
}

func TestRequestHandler_Create(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h, _, sessionID := newTestRequestHandler(t)

	r := gin.New()
	r.POST("/sessions/:id/requests", h.Create)

	body, _ := json.Marshal(CreateRequestRequest{Text: "how many orders last week?"})
	req := httptest.NewRequest(http.MethodPost, "/sessions/"+sessionID+"/requests", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var created struct {
		Data RequestResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	require.NotEmpty(t, created.Data.ID)
	require.Equal(t, sessionID, created.Data.SessionID)
}

func TestRequestHandler_Create_UnknownSession(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h, _, _ := newTestRequestHandler(t)

	r := gin.New()
	r.POST("/sessions/:id/requests", h.Create)

	body, _ := json.Marshal(CreateRequestRequest{Text: "anything"})
	req := httptest.NewRequest(http.MethodPost, "/sessions/missing/requests", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestRequestHandler_Get(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h, _, sessionID := newTestRequestHandler(t)

	req := &entity.Request{ID: "req-1", SessionID: sessionID, UserText: "x", Status: entity.RequestStatusDone, CreatedAt: time.Now(), UpdatedAt: time.Now()}
	require.NoError(t, h.requests.Create(context.Background(), req))

	r := gin.New()
	r.GET("/requests/:id", h.Get)

	w := httptest.NewRecorder()
	httpReq := httptest.NewRequest(http.MethodGet, "/requests/req-1", nil)
	r.ServeHTTP(w, httpReq)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestRequestHandler_Get_NotFound(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h, _, _ := newTestRequestHandler(t)

	r := gin.New()
	r.GET("/requests/:id", h.Get)

	w := httptest.NewRecorder()
	httpReq := httptest.NewRequest(http.MethodGet, "/requests/missing", nil)
	r.ServeHTTP(w, httpReq)
	require.Equal(t, http.StatusNotFound, w.Code)
}
