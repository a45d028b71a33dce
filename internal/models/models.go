package models

import (
	"time"
)

// Video represents one stored media file
type Video struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Title        string    `gorm:"type:varchar(255);not null" json:"title"`
	OriginalName string    `gorm:"type:varchar(255);not null" json:"original_name"`
	StoredName   string    `gorm:"type:varchar(255);not null;uniqueIndex" json:"stored_name"`
	MimeType     string    `gorm:"type:varchar(100);not null" json:"mime_type"`
	Size         int64     `gorm:"not null" json:"size"`
	CreatedAt    time.Time `gorm:"autoCreateTime;index" json:"created_at"`
}

func (Video) TableName() string {
	return "videos"
}
