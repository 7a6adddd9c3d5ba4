package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/quizforge/quiz-cms-backend/internal/model"
	"github.com/quizforge/quiz-cms-backend/internal/response"
	"github.com/quizforge/quiz-cms-backend/internal/service"
	"github.com/quizforge/quiz-cms-backend/internal/validator"
)

// BrandHandler handles brand CRUD.
type BrandHandler struct {
	brandService *service.BrandService
}

// NewBrandHandler creates a new BrandHandler.
func NewBrandHandler(brandService *service.BrandService) *BrandHandler {
	return &BrandHandler{brandService: brandService}
}

// List godoc
// GET /api/v1/admin/brands
func (h *BrandHandler) List(c *gin.Context) {
	brands, err := h.brandService.GetAll(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, items(brands))
}

// Get godoc
// GET /api/v1/admin/brands/:id
func (h *BrandHandler) Get(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}

	brand, err := h.brandService.GetByID(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, brand)
}

// Create godoc
// POST /api/v1/admin/brands
func (h *BrandHandler) Create(c *gin.Context) {
	var req model.CreateBrandRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	brand := &model.Brand{Name: req.Name}
	if err := h.brandService.Create(c.Request.Context(), brand); err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusCreated, brand)
}

// Update godoc
// PATCH /api/v1/admin/brands/:id
func (h *BrandHandler) Update(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}

	var req model.UpdateBrandRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	brand := &model.Brand{ID: id, Name: req.Name}
	if err := h.brandService.Update(c.Request.Context(), brand); err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, brand)
}

// Delete godoc
// DELETE /api/v1/admin/brands/:id
// Brands that still own quizzes are refused with DEPENDENCY_EXISTS.
func (h *BrandHandler) Delete(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}

	if err := h.brandService.Delete(c.Request.Context(), id); err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{})
}
