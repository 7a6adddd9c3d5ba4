package model

import (
	"time"

	"github.com/google/uuid"
)

// Admin is a CMS operator who authors quizzes.
type Admin struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	Role         AdminRole `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// LoginRequest is the payload for admin authentication.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email,max=255"`
	Password string `json:"password" binding:"required,min=6,max=128"`
}

// LoginResponse is returned after a successful login or refresh.
// The refresh token travels in an HttpOnly cookie, never in the body.
type LoginResponse struct {
	AccessToken string   `json:"access_token"`
	Admin       Admin    `json:"admin"`
	Permissions []string `json:"permissions"`
}
