package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// SubmissionMeta is client context captured with a submission.
type SubmissionMeta struct {
	UA     string `json:"ua,omitempty" binding:"omitempty,max=500"`
	Locale string `json:"locale,omitempty" binding:"omitempty,max=10"`
	IP     string `json:"ip,omitempty"`
	Ref    string `json:"ref,omitempty" binding:"omitempty,max=500"`
}

// Submission is a respondent's completed set of answers.
type Submission struct {
	ID           uuid.UUID       `json:"id"`
	QuizID       uuid.UUID       `json:"quiz_id"`
	VersionLabel string          `json:"version_label"`
	Answers      json.RawMessage `json:"answers"`
	Meta         SubmissionMeta  `json:"meta"`
	CreatedAt    time.Time       `json:"created_at"`
}

type CreateSubmissionRequest struct {
	QuizID       string                 `json:"quiz_id" binding:"required,uuid"`
	VersionLabel string                 `json:"version_label" binding:"required,max=40"`
	Answers      map[string]interface{} `json:"answers" binding:"required"`
	Meta         SubmissionMeta         `json:"meta"`
}

type ListSubmissionsQuery struct {
	Page    int `form:"page" binding:"omitempty,min=1"`
	PerPage int `form:"per_page" binding:"omitempty,min=1,max=200"`
}
