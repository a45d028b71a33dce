package models

import (
	"fmt"
	"time"

	"telepipe/internal/models"
)

// Video is the public representation of a stored file
type Video struct {
	ID           uint   `json:"id"`
	Title        string `json:"title"`
	OriginalName string `json:"original_name"`
	MimeType     string `json:"mime_type"`
	Size         int64  `json:"size"`
	CreatedAt    string `json:"created_at"`
	FileURL      string `json:"file_url"`
}

// NewVideo projects a stored record, building file_url from baseURL.
func NewVideo(v models.Video, baseURL string) Video {
	return Video{
		ID:           v.ID,
		Title:        v.Title,
		OriginalName: v.OriginalName,
		MimeType:     v.MimeType,
		Size:         v.Size,
		CreatedAt:    v.CreatedAt.UTC().Format(time.RFC3339Nano),
		FileURL:      fmt.Sprintf("%s/video/%d", baseURL, v.ID),
	}
}
