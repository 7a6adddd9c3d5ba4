package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/quizforge/quiz-cms-backend/internal/model"
	"github.com/quizforge/quiz-cms-backend/internal/response"
	"github.com/quizforge/quiz-cms-backend/internal/service"
	"github.com/quizforge/quiz-cms-backend/internal/validator"
)

// MediaHandler handles the media library.
type MediaHandler struct {
	mediaService *service.MediaService
}

// NewMediaHandler creates a new MediaHandler.
func NewMediaHandler(mediaService *service.MediaService) *MediaHandler {
	return &MediaHandler{mediaService: mediaService}
}

// List godoc
// GET /api/v1/admin/media?type=
func (h *MediaHandler) List(c *gin.Context) {
	media, err := h.mediaService.List(c.Request.Context(), c.Query("type"))
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, items(media))
}

// Upload godoc
// POST /api/v1/admin/media (multipart: file, type, alt, locale)
// The content type is sniffed from the bytes; the file name is ignored.
func (h *MediaHandler) Upload(c *gin.Context) {
	var form model.UploadMediaForm
	if err := c.ShouldBind(&form); err != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, validator.TranslateErrors(err))
		return
	}

	file, _, err := c.Request.FormFile("file")
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrFileRequired)
		return
	}
	defer file.Close()

	media, err := h.mediaService.Upload(c.Request.Context(), file, form)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusCreated, media)
}

// Delete godoc
// DELETE /api/v1/admin/media/:id
// Media still referenced by a step or option is refused with DEPENDENCY_EXISTS.
func (h *MediaHandler) Delete(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}

	if err := h.mediaService.Delete(c.Request.Context(), id); err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{})
}
