package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/quizforge/quiz-cms-backend/internal/model"
	"github.com/quizforge/quiz-cms-backend/internal/response"
	"github.com/quizforge/quiz-cms-backend/internal/service"
	"github.com/quizforge/quiz-cms-backend/internal/validator"
)

// VersionHandler handles A/B versions of a quiz.
type VersionHandler struct {
	versionService *service.VersionService
}

// NewVersionHandler creates a new VersionHandler.
func NewVersionHandler(versionService *service.VersionService) *VersionHandler {
	return &VersionHandler{versionService: versionService}
}

// ListByQuiz godoc
// GET /api/v1/admin/quizzes/:id/versions
func (h *VersionHandler) ListByQuiz(c *gin.Context) {
	quizID, ok := paramUUID(c, "id")
	if !ok {
		return
	}

	versions, err := h.versionService.ListByQuiz(c.Request.Context(), quizID)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, items(versions))
}

// Get godoc
// GET /api/v1/admin/versions/:id
func (h *VersionHandler) Get(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}

	version, err := h.versionService.GetByID(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, version)
}

// Create godoc
// POST /api/v1/admin/versions
// The first version of a quiz becomes its default.
func (h *VersionHandler) Create(c *gin.Context) {
	var req model.CreateVersionRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	version, err := h.versionService.Create(c.Request.Context(), &req)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusCreated, version)
}

// Update godoc
// PATCH /api/v1/admin/versions/:id
func (h *VersionHandler) Update(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}

	var req model.UpdateVersionRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	version, err := h.versionService.Update(c.Request.Context(), id, &req)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, version)
}

// Delete godoc
// DELETE /api/v1/admin/versions/:id
func (h *VersionHandler) Delete(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}

	if err := h.versionService.Delete(c.Request.Context(), id); err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{})
}
