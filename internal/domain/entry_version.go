package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// ContentEntryVersion is an immutable snapshot of an entry's state.
// Version numbers are monotonic per entry, starting at 1, and are never
// reused even after individual versions are deleted.
type ContentEntryVersion struct {
	ID            uuid.UUID         `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	EntryID       uuid.UUID         `gorm:"column:entry_id;type:uuid;uniqueIndex:uniq_entry_version" json:"entry_id"`
	VersionNumber int               `gorm:"column:version_number;uniqueIndex:uniq_entry_version" json:"version_number"`
	Title         string            `gorm:"column:title;type:varchar(255)" json:"title"`
	Slug          string            `gorm:"column:slug;type:varchar(255)" json:"slug"`
	Status        string            `gorm:"column:status;type:varchar(20)" json:"status"`
	Fields        datatypes.JSONMap `gorm:"column:fields;type:jsonb" json:"fields"`
	Comment       string            `gorm:"column:comment;type:text" json:"comment"`
	CreatedBy     *uuid.UUID        `gorm:"column:created_by;type:uuid" json:"created_by,omitempty"`
	CreatedAt     time.Time         `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (ContentEntryVersion) TableName() string { return "content_entry_versions" }

// Snapshot is a value-copy of the versionable part of an entry
type Snapshot struct {
	Title  string                 `json:"title"`
	Slug   string                 `json:"slug"`
	Status string                 `json:"status"`
	Fields map[string]interface{} `json:"fields"`
}

// SnapshotOf copies the versionable state out of a live entry
func SnapshotOf(entry *ContentEntry) Snapshot {
	fields := make(map[string]interface{}, len(entry.Fields))
	for k, v := range entry.Fields {
		fields[k] = v
	}
	return Snapshot{
		Title:  entry.Title,
		Slug:   entry.Slug,
		Status: entry.Status,
		Fields: fields,
	}
}

// Diff change classifications
const (
	DiffAdded    = "added"
	DiffModified = "modified"
	DiffDeleted  = "deleted"
)

// FieldDiff describes one field's change between two snapshots.
// Derived on demand, never persisted.
type FieldDiff struct {
	Field    string      `json:"field"`
	OldValue interface{} `json:"old_value"`
	NewValue interface{} `json:"new_value"`
	Change   string      `json:"change"`
}

// VersionResponse version data with resolved creator display info
type VersionResponse struct {
	*ContentEntryVersion
	CreatorName string `json:"creator_name,omitempty"`
}

// CreateVersionRequest request body for a manual checkpoint
type CreateVersionRequest struct {
	Comment string `json:"comment"`
}

// RollbackRequest request body for rolling an entry back to a version
type RollbackRequest struct {
	CreateBackup *bool  `json:"create_backup"`
	Comment      string `json:"comment"`
}

// VersionDetailResponse version detail with optional diff
type VersionDetailResponse struct {
	Version *VersionResponse `json:"version"`
	Diff    []FieldDiff      `json:"diff,omitempty"`
}
