package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/quizforge/quiz-cms-backend/internal/grid"
	"github.com/quizforge/quiz-cms-backend/internal/model"
	"github.com/quizforge/quiz-cms-backend/internal/repository"
	"github.com/quizforge/quiz-cms-backend/internal/response"
	"github.com/quizforge/quiz-cms-backend/internal/service"
	ws "github.com/quizforge/quiz-cms-backend/internal/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Code    response.ErrCode `json:"code"`
		Message string           `json:"message"`
		Details CollisionDetails `json:"details"`
	} `json:"error"`
}

func failWith(t *testing.T, err error) (int, envelope) {
	t.Helper()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	fail(c, err)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	require.NotNil(t, env.Error)
	return w.Code, env
}

func TestFail_GridCollisionCarriesPairs(t *testing.T) {
	err := fmt.Errorf("move field: %w", &service.CollisionError{
		Collisions: []grid.Collision{{A: "a", B: "b"}},
	})

	status, env := failWith(t, err)

	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, response.ErrGridCollision, env.Error.Code)
	assert.Equal(t, "Grid collision detected.", env.Error.Message)
	assert.Equal(t, []grid.Collision{{A: "a", B: "b"}}, env.Error.Details.Collisions)
}

func TestFail_Mapping(t *testing.T) {
	tests := []struct {
		err    error
		status int
		code   response.ErrCode
	}{
		{repository.ErrNotFound, http.StatusNotFound, response.ErrNotFound},
		{fmt.Errorf("load: %w", repository.ErrDuplicate), http.StatusConflict, response.ErrConflict},
		{repository.ErrReferenced, http.StatusConflict, response.ErrDependencyExists},
		{service.ErrGridFull, http.StatusConflict, response.ErrGridFull},
		{service.ErrDuplicateFieldKey, http.StatusConflict, response.ErrDuplicateFieldKey},
		{service.ErrFieldKindMismatch, http.StatusUnprocessableEntity, response.ErrFieldKindMismatch},
		{service.ErrTrafficWeightExceeded, http.StatusUnprocessableEntity, response.ErrTrafficWeightExceeded},
		{service.ErrQuizNotPublished, http.StatusNotFound, response.ErrQuizNotPublished},
		{service.ErrFileTooLarge, http.StatusRequestEntityTooLarge, response.ErrFileTooLarge},
		{service.ErrInvalidCredentials, http.StatusUnauthorized, response.ErrInvalidCredentials},
		{errors.New("connection reset"), http.StatusInternalServerError, response.ErrInternal},
	}
	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			status, env := failWith(t, tt.err)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.code, env.Error.Code)
		})
	}
}

func TestParamUUID(t *testing.T) {
	r := gin.New()
	r.GET("/fields/:id", func(c *gin.Context) {
		id, ok := paramUUID(c, "id")
		if !ok {
			return
		}
		c.String(http.StatusOK, id.String())
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/fields/12", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/fields/7f1b6a52-6c7e-4d2c-9a51-8cf0c1b0a111", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "7f1b6a52-6c7e-4d2c-9a51-8cf0c1b0a111", w.Body.String())
}

func TestItems_NeverNull(t *testing.T) {
	body, err := json.Marshal(items[int](nil))
	require.NoError(t, err)
	assert.JSONEq(t, `{"items":[]}`, string(body))
}

func TestCheckRequest_ZeroMeansUnset(t *testing.T) {
	req := checkRequest(ws.CheckRequest{Action: ws.ActionCheck, FieldID: "f", Row: 3, ColSpan: 4})

	assert.Equal(t, "f", req.FieldID)
	require.NotNil(t, req.Position)
	assert.Nil(t, req.Position.Col)
	assert.Nil(t, req.Position.RowSpan)

	moved := req.Resolve(model.GridPosition{Row: 1, Col: 5, RowSpan: 2, ColSpan: 2})
	assert.Equal(t, model.GridPosition{Row: 3, Col: 5, RowSpan: 2, ColSpan: 4}, moved)
}
