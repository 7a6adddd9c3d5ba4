package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/quizforge/quiz-cms-backend/internal/model"
	"github.com/quizforge/quiz-cms-backend/internal/response"
	"github.com/quizforge/quiz-cms-backend/internal/service"
	"github.com/quizforge/quiz-cms-backend/internal/validator"
)

// OptionHandler handles the options of choice fields.
type OptionHandler struct {
	optionService *service.OptionService
}

// NewOptionHandler creates a new OptionHandler.
func NewOptionHandler(optionService *service.OptionService) *OptionHandler {
	return &OptionHandler{optionService: optionService}
}

// ListByField godoc
// GET /api/v1/admin/fields/:id/options
func (h *OptionHandler) ListByField(c *gin.Context) {
	fieldID, ok := paramUUID(c, "id")
	if !ok {
		return
	}

	options, err := h.optionService.ListByField(c.Request.Context(), fieldID)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, items(options))
}

// Get godoc
// GET /api/v1/admin/options/:id
func (h *OptionHandler) Get(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}

	option, err := h.optionService.GetByID(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, option)
}

// Create godoc
// POST /api/v1/admin/options
func (h *OptionHandler) Create(c *gin.Context) {
	var req model.CreateOptionRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	option, err := h.optionService.Create(c.Request.Context(), &req)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusCreated, option)
}

// Update godoc
// PATCH /api/v1/admin/options/:id
func (h *OptionHandler) Update(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}

	var req model.UpdateOptionRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	option, err := h.optionService.Update(c.Request.Context(), id, &req)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, option)
}

// Delete godoc
// DELETE /api/v1/admin/options/:id
func (h *OptionHandler) Delete(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}

	if err := h.optionService.Delete(c.Request.Context(), id); err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{})
}
