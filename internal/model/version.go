package model

import (
	"time"

	"github.com/google/uuid"
)

// MaxTrafficWeight is the cap on the sum of a quiz's version weights.
const MaxTrafficWeight = 100

// Version is an A/B variant of a quiz. Exactly one version per quiz is the default.
type Version struct {
	ID            uuid.UUID `json:"id"`
	QuizID        uuid.UUID `json:"quiz_id"`
	Label         string    `json:"label"`
	TrafficWeight int       `json:"traffic_weight"`
	IsDefault     bool      `json:"is_default"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type CreateVersionRequest struct {
	QuizID        string `json:"quiz_id" binding:"required,uuid"`
	Label         string `json:"label" binding:"required,max=40"`
	TrafficWeight *int   `json:"traffic_weight" binding:"omitempty,min=0,max=100"`
	IsDefault     bool   `json:"is_default"`
}

type UpdateVersionRequest struct {
	Label         *string `json:"label" binding:"omitempty,min=1,max=40"`
	TrafficWeight *int    `json:"traffic_weight" binding:"omitempty,min=0,max=100"`
	IsDefault     *bool   `json:"is_default"`
}
