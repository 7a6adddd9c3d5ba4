package model

import (
	"time"

	"github.com/google/uuid"
)

// Brand owns a set of quizzes.
type Brand struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type CreateBrandRequest struct {
	Name string `json:"name" binding:"required,min=1,max=120"`
}

type UpdateBrandRequest struct {
	Name string `json:"name" binding:"required,min=1,max=120"`
}
