package model

import (
	"time"

	"github.com/google/uuid"
)

// QuizStatus represents the lifecycle state of a quiz.
type QuizStatus string

const (
	QuizStatusDraft     QuizStatus = "draft"
	QuizStatusPublished QuizStatus = "published"
	QuizStatusArchived  QuizStatus = "archived"
)

// Quiz is the top-level authored questionnaire.
type Quiz struct {
	ID             uuid.UUID  `json:"id"`
	BrandID        uuid.UUID  `json:"brand_id"`
	Slug           string     `json:"slug"`
	Title          string     `json:"title"`
	Subtitle       string     `json:"subtitle"`
	LocaleDefault  string     `json:"locale_default"`
	ProgressStyle  string     `json:"progress_style"`
	ShowTrustStrip bool       `json:"show_trust_strip"`
	ShowSeenOn     bool       `json:"show_seen_on"`
	Status         QuizStatus `json:"status"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// CreateQuizRequest is the payload for creating a quiz. New quizzes start as drafts.
type CreateQuizRequest struct {
	BrandID        string `json:"brand_id" binding:"required,uuid"`
	Slug           string `json:"slug" binding:"required,max=120,slug"`
	Title          string `json:"title" binding:"required,max=200"`
	Subtitle       string `json:"subtitle" binding:"max=300"`
	LocaleDefault  string `json:"locale_default" binding:"omitempty,max=10"`
	ProgressStyle  string `json:"progress_style" binding:"omitempty,oneof=bar steps dots none"`
	ShowTrustStrip bool   `json:"show_trust_strip"`
	ShowSeenOn     bool   `json:"show_seen_on"`
}

// UpdateQuizRequest is a partial update; nil fields are left untouched.
type UpdateQuizRequest struct {
	BrandID        *string `json:"brand_id" binding:"omitempty,uuid"`
	Slug           *string `json:"slug" binding:"omitempty,max=120,slug"`
	Title          *string `json:"title" binding:"omitempty,min=1,max=200"`
	Subtitle       *string `json:"subtitle" binding:"omitempty,max=300"`
	LocaleDefault  *string `json:"locale_default" binding:"omitempty,max=10"`
	ProgressStyle  *string `json:"progress_style" binding:"omitempty,oneof=bar steps dots none"`
	ShowTrustStrip *bool   `json:"show_trust_strip"`
	ShowSeenOn     *bool   `json:"show_seen_on"`
}

// ListQuizzesQuery filters the admin quiz list.
type ListQuizzesQuery struct {
	Q       string `form:"q" binding:"max=120"`
	Status  string `form:"status" binding:"omitempty,oneof=draft published archived"`
	Page    int    `form:"page" binding:"omitempty,min=1"`
	PerPage int    `form:"per_page" binding:"omitempty,min=1,max=100"`
}

// Normalize fills paging defaults.
func (q *ListQuizzesQuery) Normalize() {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PerPage < 1 {
		q.PerPage = 20
	}
}
