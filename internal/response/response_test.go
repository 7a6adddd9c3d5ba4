package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func perform(t *testing.T, h gin.HandlerFunc, reqID string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.GET("/", h)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if reqID != "" {
		req.Header.Set("X-Request-ID", reqID)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w, body
}

func TestSuccess_EchoesRequestID(t *testing.T) {
	w, body := perform(t, func(c *gin.Context) {
		Success(c, http.StatusOK, gin.H{"ok": true})
	}, "req-123")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "req-123", w.Header().Get("X-Request-ID"))
	assert.Equal(t, map[string]interface{}{"ok": true}, body["data"])
	assert.NotContains(t, body, "error")
	meta := body["metadata"].(map[string]interface{})
	assert.Equal(t, "req-123", meta["request_id"])
	assert.NotEmpty(t, meta["timestamp"])
}

func TestFailWithDetails_GridCollision(t *testing.T) {
	pairs := []map[string]string{{"field_id_a": "f1", "field_id_b": "f2"}}
	w, body := perform(t, func(c *gin.Context) {
		FailWithDetails(c, http.StatusConflict, ErrGridCollision, gin.H{"collisions": pairs})
	}, "")

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Nil(t, body["data"])
	e := body["error"].(map[string]interface{})
	assert.Equal(t, "GRID_COLLISION", e["code"])
	assert.Equal(t, "Grid collision detected.", e["message"])
	details := e["details"].(map[string]interface{})
	assert.Len(t, details["collisions"], 1)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestNewPagination(t *testing.T) {
	assert.Equal(t, &Pagination{Page: 2, PerPage: 20, TotalItems: 41, TotalPages: 3}, NewPagination(2, 20, 41))
	assert.Equal(t, 0, NewPagination(1, 0, 5).TotalPages)
}

func TestGetMessage_Unknown(t *testing.T) {
	assert.Equal(t, "An unexpected error occurred.", GetMessage(ErrCode("NOPE")))
}

func TestRequestIDMiddleware_ReplacesUnsafeIDs(t *testing.T) {
	for _, id := range []string{"has space", "new\nline", strings.Repeat("a", 65)} {
		w, body := perform(t, func(c *gin.Context) {
			Success(c, http.StatusOK, gin.H{})
		}, id)

		got := w.Header().Get("X-Request-ID")
		assert.NotEqual(t, id, got)
		_, err := uuid.Parse(got)
		assert.NoError(t, err)
		assert.Equal(t, got, body["metadata"].(map[string]interface{})["request_id"])
	}
}
