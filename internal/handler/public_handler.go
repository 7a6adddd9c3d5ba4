package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/quizforge/quiz-cms-backend/internal/model"
	"github.com/quizforge/quiz-cms-backend/internal/response"
	"github.com/quizforge/quiz-cms-backend/internal/service"
	"github.com/quizforge/quiz-cms-backend/internal/validator"
)

// PublicHandler serves published quizzes to respondents and accepts their answers.
type PublicHandler struct {
	assemblyService   *service.AssemblyService
	submissionService *service.SubmissionService
}

// NewPublicHandler creates a new PublicHandler.
func NewPublicHandler(assemblyService *service.AssemblyService, submissionService *service.SubmissionService) *PublicHandler {
	return &PublicHandler{assemblyService: assemblyService, submissionService: submissionService}
}

// GetQuiz godoc
// GET /api/v1/public/quizzes/:slug?version=&seed=
// The payload is served from the assembled cache when present.
func (h *PublicHandler) GetQuiz(c *gin.Context) {
	payload, err := h.assemblyService.Public(c.Request.Context(), c.Param("slug"), c.Query("version"), c.Query("seed"))
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, payload)
}

// Submit godoc
// POST /api/v1/public/submissions
// Queues the answers for the persistence worker and replies 202.
func (h *PublicHandler) Submit(c *gin.Context) {
	var req model.CreateSubmissionRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	meta := req.Meta
	meta.IP = c.ClientIP()
	if meta.UA == "" {
		meta.UA = c.Request.UserAgent()
	}

	sub, err := h.submissionService.Enqueue(c.Request.Context(), &req, meta)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusAccepted, gin.H{"id": sub.ID})
}

// SubmissionHandler lists collected submissions for authors.
type SubmissionHandler struct {
	submissionService *service.SubmissionService
}

// NewSubmissionHandler creates a new SubmissionHandler.
func NewSubmissionHandler(submissionService *service.SubmissionService) *SubmissionHandler {
	return &SubmissionHandler{submissionService: submissionService}
}

// ListByQuiz godoc
// GET /api/v1/admin/quizzes/:id/submissions?page=&per_page=
func (h *SubmissionHandler) ListByQuiz(c *gin.Context) {
	quizID, ok := paramUUID(c, "id")
	if !ok {
		return
	}

	var q model.ListSubmissionsQuery
	if fields := validator.BindQuery(c, &q); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PerPage < 1 {
		q.PerPage = 50
	}

	subs, total, err := h.submissionService.ListByQuiz(c.Request.Context(), quizID, q)
	if err != nil {
		fail(c, err)
		return
	}
	response.SuccessWithPagination(c, http.StatusOK, items(subs), response.NewPagination(q.Page, q.PerPage, total))
}
