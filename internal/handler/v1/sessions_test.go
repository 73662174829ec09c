package v1

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/kiosk404/echosql/internal/store/inmemory"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestSessionHandler_CreateAndGet(t *testing.T) {
	sessions := inmemory.NewSessionStore()
	h := NewSessionHandler(sessions)

	r := gin.New()
	r.POST("/sessions", h.Create)
	r.GET("/sessions/:id", h.Get)

	body, _ := json.Marshal(CreateSessionRequest{OwnerID: "user-1", Summary: "exploring orders"})
	req := httptest.NewRequest(http.MethodPost, "/sessions", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var created struct {
		Data SessionResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	require.NotEmpty(t, created.Data.ID)
	require.Equal(t, "user-1", created.Data.OwnerID)

	w2 := httptest.NewRecorder()
	req2 := httptest.NewRequest(http.MethodGet, "/sessions/"+created.Data.ID, nil)
	r.ServeHTTP(w2, req2)
	require.Equal(t, http.StatusOK, w2.Code)
}

func TestSessionHandler_Get_NotFound(t *testing.T) {
	h := NewSessionHandler(inmemory.NewSessionStore())
	r := gin.New()
	r.GET("/sessions/:id", h.Get)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/sessions/missing", nil)
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusNotFound, w.Code)
}
