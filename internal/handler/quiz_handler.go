package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/quizforge/quiz-cms-backend/internal/model"
	"github.com/quizforge/quiz-cms-backend/internal/response"
	"github.com/quizforge/quiz-cms-backend/internal/service"
	"github.com/quizforge/quiz-cms-backend/internal/validator"
)

// QuizHandler handles quiz authoring and lifecycle endpoints.
type QuizHandler struct {
	quizService     *service.QuizService
	assemblyService *service.AssemblyService
}

// NewQuizHandler creates a new QuizHandler.
func NewQuizHandler(quizService *service.QuizService, assemblyService *service.AssemblyService) *QuizHandler {
	return &QuizHandler{quizService: quizService, assemblyService: assemblyService}
}

// List godoc
// GET /api/v1/admin/quizzes?q=&status=&page=&per_page=
func (h *QuizHandler) List(c *gin.Context) {
	var q model.ListQuizzesQuery
	if fields := validator.BindQuery(c, &q); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}
	q.Normalize()

	quizzes, total, err := h.quizService.List(c.Request.Context(), q)
	if err != nil {
		fail(c, err)
		return
	}
	response.SuccessWithPagination(c, http.StatusOK, items(quizzes), response.NewPagination(q.Page, q.PerPage, total))
}

// Get godoc
// GET /api/v1/admin/quizzes/:id
func (h *QuizHandler) Get(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}

	quiz, err := h.quizService.GetByID(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, quiz)
}

// Create godoc
// POST /api/v1/admin/quizzes
// New quizzes start as drafts.
func (h *QuizHandler) Create(c *gin.Context) {
	var req model.CreateQuizRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	quiz, err := h.quizService.Create(c.Request.Context(), &req)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusCreated, quiz)
}

// Update godoc
// PATCH /api/v1/admin/quizzes/:id
func (h *QuizHandler) Update(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}

	var req model.UpdateQuizRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	quiz, err := h.quizService.Update(c.Request.Context(), id, &req)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, quiz)
}

// Publish godoc
// POST /api/v1/admin/quizzes/:id/publish
// Requires at least one version and exactly one default version.
func (h *QuizHandler) Publish(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}

	quiz, err := h.quizService.Publish(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, quiz)
}

// Archive godoc
// POST /api/v1/admin/quizzes/:id/archive
func (h *QuizHandler) Archive(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}

	quiz, err := h.quizService.Archive(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, quiz)
}

// Delete godoc
// DELETE /api/v1/admin/quizzes/:id
func (h *QuizHandler) Delete(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}

	if err := h.quizService.Delete(c.Request.Context(), id); err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{})
}

// Preview godoc
// GET /api/v1/admin/quizzes/:id/preview?version=&seed=
// Assembles the quiz in any status without touching the public cache.
func (h *QuizHandler) Preview(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}

	assembled, err := h.assemblyService.Preview(c.Request.Context(), id, c.Query("version"), c.Query("seed"))
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, assembled)
}
