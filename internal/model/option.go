package model

import (
	"time"

	"github.com/google/uuid"
)

// Option is one answer of a choice field. Options carry a position for
// tile layouts but are not collision-checked.
type Option struct {
	ID           uuid.UUID    `json:"id"`
	FieldID      uuid.UUID    `json:"field_id"`
	OrderIndex   int          `json:"order_index"`
	IsVisible    bool         `json:"is_visible"`
	Label        string       `json:"label"`
	Description  string       `json:"description"`
	Value        string       `json:"value"`
	IconMediaID  *uuid.UUID   `json:"icon_media_id"`
	ImageMediaID *uuid.UUID   `json:"image_media_id"`
	IsDefault    bool         `json:"is_default"`
	Score        *float64     `json:"score"`
	Position     GridPosition `json:"position"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

type CreateOptionRequest struct {
	FieldID      string   `json:"field_id" binding:"required,uuid"`
	Label        string   `json:"label" binding:"max=300"`
	Description  string   `json:"description" binding:"max=1000"`
	Value        string   `json:"value" binding:"required,max=200"`
	IconMediaID  *string  `json:"icon_media_id" binding:"omitempty,uuid"`
	ImageMediaID *string  `json:"image_media_id" binding:"omitempty,uuid"`
	IsDefault    bool     `json:"is_default"`
	Score        *float64 `json:"score"`
	IsVisible    *bool    `json:"is_visible"`
	PositionInput
}

type UpdateOptionRequest struct {
	Label        *string  `json:"label" binding:"omitempty,max=300"`
	Description  *string  `json:"description" binding:"omitempty,max=1000"`
	Value        *string  `json:"value" binding:"omitempty,min=1,max=200"`
	IconMediaID  *string  `json:"icon_media_id" binding:"omitempty,max=36"`
	ImageMediaID *string  `json:"image_media_id" binding:"omitempty,max=36"`
	IsDefault    *bool    `json:"is_default"`
	Score        *float64 `json:"score"`
	IsVisible    *bool    `json:"is_visible"`
	OrderIndex   *int     `json:"order_index" binding:"omitempty,min=0"`
	PositionInput
}
