package model

import (
	"time"

	"github.com/google/uuid"
)

// MediaType is the intended use of an uploaded asset.
type MediaType string

const (
	MediaIcon   MediaType = "icon"
	MediaImage  MediaType = "image"
	MediaLogo   MediaType = "logo"
	MediaAvatar MediaType = "avatar"
)

// Media is an uploaded image referenced by steps and options.
type Media struct {
	ID         uuid.UUID `json:"id"`
	Type       MediaType `json:"type"`
	URL        string    `json:"url"`
	Alt        string    `json:"alt"`
	Width      *int      `json:"width"`
	Height     *int      `json:"height"`
	Locale     string    `json:"locale"`
	MimeType   string    `json:"mime_type"`
	SizeBytes  int64     `json:"size_bytes"`
	StorageKey string    `json:"-"`
	CreatedAt  time.Time `json:"created_at"`
}

// UploadMediaForm is the non-file part of a multipart upload.
type UploadMediaForm struct {
	Type   string `form:"type" binding:"required,oneof=icon image logo avatar"`
	Alt    string `form:"alt" binding:"max=300"`
	Locale string `form:"locale" binding:"max=10"`
}
