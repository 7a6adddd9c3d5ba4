package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/quizforge/quiz-cms-backend/internal/grid"
	"github.com/quizforge/quiz-cms-backend/internal/repository"
	"github.com/quizforge/quiz-cms-backend/internal/response"
	"github.com/quizforge/quiz-cms-backend/internal/service"
)

// CollisionDetails is the error.details body of a GRID_COLLISION reply.
type CollisionDetails struct {
	Collisions []grid.Collision `json:"collisions"`
}

var errorStatus = []struct {
	err    error
	status int
	code   response.ErrCode
}{
	{repository.ErrNotFound, http.StatusNotFound, response.ErrNotFound},
	{repository.ErrDuplicate, http.StatusConflict, response.ErrConflict},
	{repository.ErrReferenced, http.StatusConflict, response.ErrDependencyExists},
	{service.ErrGridFull, http.StatusConflict, response.ErrGridFull},
	{service.ErrDuplicateFieldKey, http.StatusConflict, response.ErrDuplicateFieldKey},
	{service.ErrDuplicateOptionValue, http.StatusConflict, response.ErrDuplicateOptionValue},
	{service.ErrFieldKindMismatch, http.StatusUnprocessableEntity, response.ErrFieldKindMismatch},
	{service.ErrTrafficWeightExceeded, http.StatusUnprocessableEntity, response.ErrTrafficWeightExceeded},
	{service.ErrDefaultVersionLocked, http.StatusConflict, response.ErrDefaultVersionLocked},
	{service.ErrQuizNotPublishable, http.StatusUnprocessableEntity, response.ErrQuizNotPublishable},
	{service.ErrQuizNotPublished, http.StatusNotFound, response.ErrQuizNotPublished},
	{service.ErrInvalidStepOrder, http.StatusUnprocessableEntity, response.ErrInvalidStepOrder},
	{service.ErrInvalidReference, http.StatusUnprocessableEntity, response.ErrInvalidPayload},
	{service.ErrUnsupportedFileType, http.StatusUnsupportedMediaType, response.ErrUnsupportedFile},
	{service.ErrFileTooLarge, http.StatusRequestEntityTooLarge, response.ErrFileTooLarge},
	{service.ErrInvalidCredentials, http.StatusUnauthorized, response.ErrInvalidCredentials},
	{service.ErrInvalidRefreshToken, http.StatusUnauthorized, response.ErrRefreshInvalid},
}

// fail maps a service or repository error onto the response envelope.
// Anything unrecognised is a 500 and is attached to the gin context so the
// access log records it.
func fail(c *gin.Context, err error) {
	var collision *service.CollisionError
	if errors.As(err, &collision) {
		response.FailWithDetails(c, http.StatusConflict, response.ErrGridCollision,
			CollisionDetails{Collisions: collision.Collisions})
		return
	}

	for _, m := range errorStatus {
		if errors.Is(err, m.err) {
			response.Fail(c, m.status, m.code)
			return
		}
	}

	_ = c.Error(err)
	response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
}

// paramUUID parses a path parameter, replying 400 INVALID_ID when malformed.
func paramUUID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return uuid.Nil, false
	}
	return id, true
}

// items wraps a list the way every list endpoint returns it.
func items[T any](list []T) gin.H {
	if list == nil {
		list = []T{}
	}
	return gin.H{"items": list}
}
