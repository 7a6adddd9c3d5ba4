package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/quizforge/quiz-cms-backend/internal/model"
	"github.com/quizforge/quiz-cms-backend/internal/response"
	"github.com/quizforge/quiz-cms-backend/internal/service"
	"github.com/quizforge/quiz-cms-backend/internal/validator"
)

// FieldHandler handles fields placed on a step grid. Every write that
// changes a position goes through the collision check in FieldService.
type FieldHandler struct {
	fieldService *service.FieldService
}

// NewFieldHandler creates a new FieldHandler.
func NewFieldHandler(fieldService *service.FieldService) *FieldHandler {
	return &FieldHandler{fieldService: fieldService}
}

// ListByStep godoc
// GET /api/v1/admin/steps/:id/fields
func (h *FieldHandler) ListByStep(c *gin.Context) {
	stepID, ok := paramUUID(c, "id")
	if !ok {
		return
	}

	fields, err := h.fieldService.ListByStep(c.Request.Context(), stepID)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, items(fields))
}

// Get godoc
// GET /api/v1/admin/fields/:id
func (h *FieldHandler) Get(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}

	field, err := h.fieldService.GetByID(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, field)
}

// Create godoc
// POST /api/v1/admin/fields
// Without a position the field lands on the first free cell (GRID_FULL when none).
func (h *FieldHandler) Create(c *gin.Context) {
	var req model.CreateFieldRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	field, err := h.fieldService.Create(c.Request.Context(), &req)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusCreated, field)
}

// Update godoc
// PATCH /api/v1/admin/fields/:id
func (h *FieldHandler) Update(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}

	var req model.UpdateFieldRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	field, err := h.fieldService.Update(c.Request.Context(), id, &req)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, field)
}

// Move godoc
// PUT /api/v1/admin/fields/:id/position
// Accepts a nested "position" object or the flat row_index/col_index/row_span/col_span.
func (h *FieldHandler) Move(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}

	var req model.MoveFieldRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}
	if !req.IsSet() {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation,
			map[string]string{"position": "position is required"})
		return
	}

	field, err := h.fieldService.Move(c.Request.Context(), id, req.PositionInput)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, field)
}

// Delete godoc
// DELETE /api/v1/admin/fields/:id
func (h *FieldHandler) Delete(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}

	if err := h.fieldService.Delete(c.Request.Context(), id); err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{})
}
