package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Entry lifecycle statuses
const (
	StatusDraft     = "draft"
	StatusPublished = "published"
	StatusArchived  = "archived"
)

// ContentEntry represents the live/current state of a piece of content
type ContentEntry struct {
	ID            uuid.UUID            `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	ContentTypeID uuid.UUID            `gorm:"column:content_type_id;type:uuid;index;uniqueIndex:uniq_type_slug" json:"content_type_id"`
	Title         string               `gorm:"column:title;type:varchar(255)" json:"title"`
	Slug          string               `gorm:"column:slug;type:varchar(255);uniqueIndex:uniq_type_slug" json:"slug"`
	Status        string               `gorm:"column:status;type:varchar(20);default:'draft';index" json:"status"`
	Fields        datatypes.JSONMap    `gorm:"column:fields;type:jsonb" json:"fields"`
	PublishedAt   *time.Time           `gorm:"column:published_at" json:"published_at,omitempty"`
	CreatedBy     *uuid.UUID           `gorm:"column:created_by;type:uuid" json:"created_by,omitempty"`
	CreatedAt     time.Time            `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time            `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
	Versions      []ContentEntryVersion `gorm:"foreignKey:EntryID;constraint:OnDelete:CASCADE" json:"-"`
}

func (ContentEntry) TableName() string { return "content_entries" }

// CreateEntryRequest request body for creating an entry
type CreateEntryRequest struct {
	Title  string                 `json:"title" binding:"required"`
	Slug   string                 `json:"slug" binding:"required"`
	Status string                 `json:"status"`
	Fields map[string]interface{} `json:"fields"`
}

// UpdateEntryRequest request body for updating an entry
type UpdateEntryRequest struct {
	Title  *string                 `json:"title"`
	Slug   *string                 `json:"slug"`
	Status *string                 `json:"status"`
	Fields *map[string]interface{} `json:"fields"`
}

// EntryListQuery filters for entry listings
type EntryListQuery struct {
	Status string
	Page   int
	Limit  int
}
