package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/quizforge/quiz-cms-backend/internal/config"
	"github.com/quizforge/quiz-cms-backend/internal/middleware"
	"github.com/quizforge/quiz-cms-backend/internal/model"
	"github.com/quizforge/quiz-cms-backend/internal/response"
	"github.com/quizforge/quiz-cms-backend/internal/service"
	"github.com/quizforge/quiz-cms-backend/internal/validator"
)

const (
	refreshCookieName = "refresh_token"
	refreshCookiePath = "/api/v1/auth"
)

// AuthHandler handles admin authentication endpoints.
type AuthHandler struct {
	authService *service.AuthService
	cfg         *config.Config
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *service.AuthService, cfg *config.Config) *AuthHandler {
	return &AuthHandler{authService: authService, cfg: cfg}
}

// Login godoc
// POST /api/v1/auth/login
// Validates email + password, returns an access JWT and sets the refresh cookie.
func (h *AuthHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	res, refresh, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		fail(c, err)
		return
	}

	h.setRefreshCookie(c, refresh, int(h.cfg.RefreshTokenTTL.Seconds()))
	response.Success(c, http.StatusOK, res)
}

// Refresh godoc
// POST /api/v1/auth/refresh
// Rotates the refresh cookie and returns a new access JWT.
func (h *AuthHandler) Refresh(c *gin.Context) {
	token, err := c.Cookie(refreshCookieName)
	if err != nil || token == "" {
		response.Fail(c, http.StatusUnauthorized, response.ErrRefreshInvalid)
		return
	}

	res, refresh, err := h.authService.Refresh(c.Request.Context(), token)
	if err != nil {
		h.setRefreshCookie(c, "", -1)
		fail(c, err)
		return
	}

	h.setRefreshCookie(c, refresh, int(h.cfg.RefreshTokenTTL.Seconds()))
	response.Success(c, http.StatusOK, res)
}

// Logout godoc
// POST /api/v1/auth/logout
// Ends the refresh session and clears the cookie.
func (h *AuthHandler) Logout(c *gin.Context) {
	token, _ := c.Cookie(refreshCookieName)
	if err := h.authService.Logout(c.Request.Context(), token); err != nil {
		fail(c, err)
		return
	}

	h.setRefreshCookie(c, "", -1)
	response.Success(c, http.StatusOK, gin.H{})
}

// Me godoc
// GET /api/v1/auth/me
// Returns the profile of the currently authenticated admin.
func (h *AuthHandler) Me(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	adminID, err := uuid.Parse(claims.AdminID)
	if err != nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenInvalid)
		return
	}

	admin, err := h.authService.GetAdmin(c.Request.Context(), adminID)
	if err != nil {
		fail(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"admin":       admin,
		"permissions": claims.Permissions,
	})
}

func (h *AuthHandler) setRefreshCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(refreshCookieName, value, maxAge, refreshCookiePath, "", h.cfg.CookieSecure, true)
}
