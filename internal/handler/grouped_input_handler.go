package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/quizforge/quiz-cms-backend/internal/model"
	"github.com/quizforge/quiz-cms-backend/internal/response"
	"github.com/quizforge/quiz-cms-backend/internal/service"
	"github.com/quizforge/quiz-cms-backend/internal/validator"
)

// GroupedInputHandler handles the sub-inputs laid out inside a group field.
type GroupedInputHandler struct {
	inputService *service.GroupedInputService
}

// NewGroupedInputHandler creates a new GroupedInputHandler.
func NewGroupedInputHandler(inputService *service.GroupedInputService) *GroupedInputHandler {
	return &GroupedInputHandler{inputService: inputService}
}

// ListByField godoc
// GET /api/v1/admin/fields/:id/grouped-inputs
func (h *GroupedInputHandler) ListByField(c *gin.Context) {
	fieldID, ok := paramUUID(c, "id")
	if !ok {
		return
	}

	inputs, err := h.inputService.ListByField(c.Request.Context(), fieldID)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, items(inputs))
}

// Get godoc
// GET /api/v1/admin/grouped-inputs/:id
func (h *GroupedInputHandler) Get(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}

	input, err := h.inputService.GetByID(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, input)
}

// Create godoc
// POST /api/v1/admin/grouped-inputs
func (h *GroupedInputHandler) Create(c *gin.Context) {
	var req model.CreateGroupedInputRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	input, err := h.inputService.Create(c.Request.Context(), &req)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusCreated, input)
}

// Update godoc
// PATCH /api/v1/admin/grouped-inputs/:id
func (h *GroupedInputHandler) Update(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}

	var req model.UpdateGroupedInputRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	input, err := h.inputService.Update(c.Request.Context(), id, &req)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, input)
}

// Delete godoc
// DELETE /api/v1/admin/grouped-inputs/:id
func (h *GroupedInputHandler) Delete(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}

	if err := h.inputService.Delete(c.Request.Context(), id); err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{})
}
