package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/quizforge/quiz-cms-backend/internal/grid"
	"github.com/quizforge/quiz-cms-backend/internal/model"
	"github.com/quizforge/quiz-cms-backend/internal/response"
	"github.com/quizforge/quiz-cms-backend/internal/service"
	"github.com/quizforge/quiz-cms-backend/internal/validator"
)

// StepHandler handles steps and their grid diagnostics.
type StepHandler struct {
	stepService *service.StepService
}

// NewStepHandler creates a new StepHandler.
func NewStepHandler(stepService *service.StepService) *StepHandler {
	return &StepHandler{stepService: stepService}
}

// ListByVersion godoc
// GET /api/v1/admin/versions/:id/steps
// Steps come back in order_index order.
func (h *StepHandler) ListByVersion(c *gin.Context) {
	versionID, ok := paramUUID(c, "id")
	if !ok {
		return
	}

	steps, err := h.stepService.ListByVersion(c.Request.Context(), versionID)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, items(steps))
}

// Get godoc
// GET /api/v1/admin/steps/:id
func (h *StepHandler) Get(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}

	step, err := h.stepService.GetByID(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, step)
}

// Create godoc
// POST /api/v1/admin/steps
func (h *StepHandler) Create(c *gin.Context) {
	var req model.CreateStepRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	step, err := h.stepService.Create(c.Request.Context(), &req)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusCreated, step)
}

// Update godoc
// PATCH /api/v1/admin/steps/:id
// A grid_columns change that would make fields overlap is refused with GRID_COLLISION.
func (h *StepHandler) Update(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}

	var req model.UpdateStepRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	step, err := h.stepService.Update(c.Request.Context(), id, &req)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, step)
}

// Delete godoc
// DELETE /api/v1/admin/steps/:id
func (h *StepHandler) Delete(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}

	if err := h.stepService.Delete(c.Request.Context(), id); err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{})
}

// Reorder godoc
// PUT /api/v1/admin/versions/:id/steps/order
func (h *StepHandler) Reorder(c *gin.Context) {
	versionID, ok := paramUUID(c, "id")
	if !ok {
		return
	}

	var req model.ReorderStepsRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	steps, err := h.stepService.Reorder(c.Request.Context(), versionID, req.Order)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, items(steps))
}

// Collisions godoc
// GET /api/v1/admin/steps/:id/collisions
// Lists every overlapping field pair currently stored on the step.
func (h *StepHandler) Collisions(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}

	collisions, err := h.stepService.Collisions(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	if collisions == nil {
		collisions = []grid.Collision{}
	}
	response.Success(c, http.StatusOK, gin.H{
		"count":      len(collisions),
		"collisions": collisions,
	})
}

// CheckLayout godoc
// POST /api/v1/admin/steps/:id/layout/check
// Dry run for drag previews; nothing is persisted.
func (h *StepHandler) CheckLayout(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}

	var req model.LayoutCheckRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	check, err := h.stepService.CheckLayout(c.Request.Context(), id, &req)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, check)
}
