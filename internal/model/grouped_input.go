package model

import (
	"time"

	"github.com/google/uuid"
)

// GroupedInput is a sub-input of a group field, positioned on the group's
// container grid.
type GroupedInput struct {
	ID          uuid.UUID    `json:"id"`
	FieldID     uuid.UUID    `json:"field_id"`
	OrderIndex  int          `json:"order_index"`
	IsVisible   bool         `json:"is_visible"`
	FieldKey    string       `json:"field_key"`
	Label       string       `json:"label"`
	InputType   string       `json:"input_type"`
	Unit        string       `json:"unit"`
	Min         *float64     `json:"min"`
	Max         *float64     `json:"max"`
	Placeholder string       `json:"placeholder"`
	Required    bool         `json:"required"`
	Position    GridPosition `json:"position"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

type CreateGroupedInputRequest struct {
	FieldID     string   `json:"field_id" binding:"required,uuid"`
	FieldKey    string   `json:"field_key" binding:"required,max=64"`
	Label       string   `json:"label" binding:"max=300"`
	InputType   string   `json:"input_type" binding:"required,oneof=text number email phone date"`
	Unit        string   `json:"unit" binding:"max=20"`
	Min         *float64 `json:"min"`
	Max         *float64 `json:"max"`
	Placeholder string   `json:"placeholder" binding:"max=200"`
	Required    bool     `json:"required"`
	IsVisible   *bool    `json:"is_visible"`
	PositionInput
}

type UpdateGroupedInputRequest struct {
	FieldKey    *string  `json:"field_key" binding:"omitempty,min=1,max=64"`
	Label       *string  `json:"label" binding:"omitempty,max=300"`
	InputType   *string  `json:"input_type" binding:"omitempty,oneof=text number email phone date"`
	Unit        *string  `json:"unit" binding:"omitempty,max=20"`
	Min         *float64 `json:"min"`
	Max         *float64 `json:"max"`
	Placeholder *string  `json:"placeholder" binding:"omitempty,max=200"`
	Required    *bool    `json:"required"`
	IsVisible   *bool    `json:"is_visible"`
	OrderIndex  *int     `json:"order_index" binding:"omitempty,min=0"`
	PositionInput
}
