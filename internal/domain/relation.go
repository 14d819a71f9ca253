package domain

import (
	"time"

	"github.com/google/uuid"
)

// Relation kinds
const (
	RelationOneToOne   = "one-to-one"
	RelationOneToMany  = "one-to-many"
	RelationManyToMany = "many-to-many"
)

// RelationDefinition declares a typed relation between two content types
type RelationDefinition struct {
	ID            uuid.UUID `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Name          string    `gorm:"column:name;type:varchar(100);uniqueIndex" json:"name"`
	SourceTypeID  uuid.UUID `gorm:"column:source_type_id;type:uuid;index" json:"source_type_id"`
	TargetTypeID  uuid.UUID `gorm:"column:target_type_id;type:uuid;index" json:"target_type_id"`
	Kind          string    `gorm:"column:kind;type:varchar(20)" json:"kind"`
	CascadeDelete bool      `gorm:"column:cascade_delete;default:false" json:"cascade_delete"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (RelationDefinition) TableName() string { return "relation_definitions" }

// EntryRelation links two entries under a relation definition
type EntryRelation struct {
	ID            uuid.UUID `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	DefinitionID  uuid.UUID `gorm:"column:definition_id;type:uuid;uniqueIndex:uniq_relation_pair" json:"definition_id"`
	SourceEntryID uuid.UUID `gorm:"column:source_entry_id;type:uuid;uniqueIndex:uniq_relation_pair;index" json:"source_entry_id"`
	TargetEntryID uuid.UUID `gorm:"column:target_entry_id;type:uuid;uniqueIndex:uniq_relation_pair;index" json:"target_entry_id"`
	SortOrder     int       `gorm:"column:sort_order;default:0" json:"sort_order"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (EntryRelation) TableName() string { return "entry_relations" }

// CreateRelationDefinitionRequest request body for defining a relation
type CreateRelationDefinitionRequest struct {
	Name          string `json:"name" binding:"required"`
	SourceTypeID  string `json:"source_type_id" binding:"required"`
	TargetTypeID  string `json:"target_type_id" binding:"required"`
	Kind          string `json:"kind" binding:"required"`
	CascadeDelete bool   `json:"cascade_delete"`
}

// SetRelationsRequest replaces the target set for a source entry
type SetRelationsRequest struct {
	TargetEntryIDs []string `json:"target_entry_ids" binding:"required"`
}
