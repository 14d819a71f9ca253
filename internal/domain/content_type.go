package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Field kinds supported by content type definitions
const (
	FieldText     = "text"
	FieldRichText = "richtext"
	FieldNumber   = "number"
	FieldBoolean  = "boolean"
	FieldDate     = "date"
	FieldDateTime = "datetime"
	FieldJSON     = "json"
	FieldMedia    = "media"
	FieldRelation = "relation"
	FieldSelect   = "select"
)

// KnownFieldKinds lists every accepted field kind
var KnownFieldKinds = []string{
	FieldText, FieldRichText, FieldNumber, FieldBoolean,
	FieldDate, FieldDateTime, FieldJSON, FieldMedia,
	FieldRelation, FieldSelect,
}

// FieldDefinition describes one field of a content type
type FieldDefinition struct {
	Name     string      `json:"name" binding:"required"`
	Kind     string      `json:"kind" binding:"required"`
	Label    string      `json:"label,omitempty"`
	Required bool        `json:"required,omitempty"`
	Unique   bool        `json:"unique,omitempty"`
	Default  interface{} `json:"default,omitempty"`
	Options  []string    `json:"options,omitempty"` // for select fields
}

// ContentType represents a dynamic content schema
type ContentType struct {
	ID          uuid.UUID      `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Name        string         `gorm:"column:name;type:varchar(100);uniqueIndex" json:"name"`
	DisplayName string         `gorm:"column:display_name;type:varchar(255)" json:"display_name"`
	Description *string        `gorm:"column:description;type:text" json:"description,omitempty"`
	Icon        *string        `gorm:"column:icon;type:varchar(100)" json:"icon,omitempty"`
	Fields      datatypes.JSON `gorm:"column:fields;type:jsonb" json:"fields"`
	CreatedAt   time.Time      `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`

	Entries []ContentEntry `gorm:"foreignKey:ContentTypeID;constraint:OnDelete:CASCADE" json:"-"`
}

func (ContentType) TableName() string { return "content_types" }

// CreateContentTypeRequest request body for creating a content type
type CreateContentTypeRequest struct {
	Name        string            `json:"name" binding:"required"`
	DisplayName string            `json:"display_name" binding:"required"`
	Description *string           `json:"description"`
	Icon        *string           `json:"icon"`
	Fields      []FieldDefinition `json:"fields" binding:"required"`
}

// UpdateContentTypeRequest request body for updating a content type
type UpdateContentTypeRequest struct {
	DisplayName *string            `json:"display_name"`
	Description *string            `json:"description"`
	Icon        *string            `json:"icon"`
	Fields      *[]FieldDefinition `json:"fields"`
}
