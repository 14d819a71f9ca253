package domain

import (
	"time"

	"github.com/google/uuid"
)

// Media represents an uploaded file stored in S3-compatible storage
type Media struct {
	ID         uuid.UUID  `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Filename   string     `gorm:"column:filename;type:varchar(255)" json:"filename"`
	StorageKey string     `gorm:"column:storage_key;type:varchar(500);uniqueIndex" json:"storage_key"`
	URL        string     `gorm:"column:url;type:varchar(1000)" json:"url"`
	MimeType   string     `gorm:"column:mime_type;type:varchar(100);index" json:"mime_type"`
	Size       int64      `gorm:"column:size" json:"size"`
	Width      int        `gorm:"column:width;default:0" json:"width,omitempty"`
	Height     int        `gorm:"column:height;default:0" json:"height,omitempty"`
	AltText    *string    `gorm:"column:alt_text;type:varchar(500)" json:"alt_text,omitempty"`
	UploadedBy *uuid.UUID `gorm:"column:uploaded_by;type:uuid" json:"uploaded_by,omitempty"`
	CreatedAt  time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time  `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Media) TableName() string { return "media" }

// UpdateMediaRequest request body for updating media metadata
type UpdateMediaRequest struct {
	AltText *string `json:"alt_text"`
}
