package repository

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/PT-GSA/ai-cms-backend/internal/domain"
)

// RelationRepository relation definition and entry relation data access
type RelationRepository interface {
	CreateDefinition(def *domain.RelationDefinition) error
	FindDefinitionByID(id uuid.UUID) (*domain.RelationDefinition, error)
	FindDefinitionByName(name string) (*domain.RelationDefinition, error)
	ListDefinitions() ([]*domain.RelationDefinition, error)
	DeleteDefinition(id uuid.UUID) error

	ReplaceRelations(defID, sourceEntryID uuid.UUID, targets []uuid.UUID) error
	ListTargets(defID, sourceEntryID uuid.UUID) ([]*domain.EntryRelation, error)
	ListSources(defID, targetEntryID uuid.UUID) ([]*domain.EntryRelation, error)
	DeleteByEntry(entryID uuid.UUID) error
}

type relationRepository struct {
	db *gorm.DB
}

// NewRelationRepository creates a new RelationRepository
func NewRelationRepository(db *gorm.DB) RelationRepository {
	return &relationRepository{db: db}
}

func (r *relationRepository) CreateDefinition(def *domain.RelationDefinition) error {
	return r.db.Create(def).Error
}

func (r *relationRepository) FindDefinitionByID(id uuid.UUID) (*domain.RelationDefinition, error) {
	var def domain.RelationDefinition
	if err := r.db.Where("id = ?", id).First(&def).Error; err != nil {
		return nil, err
	}
	return &def, nil
}

func (r *relationRepository) FindDefinitionByName(name string) (*domain.RelationDefinition, error) {
	var def domain.RelationDefinition
	if err := r.db.Where("name = ?", name).First(&def).Error; err != nil {
		return nil, err
	}
	return &def, nil
}

func (r *relationRepository) ListDefinitions() ([]*domain.RelationDefinition, error) {
	var defs []*domain.RelationDefinition
	if err := r.db.Order("name ASC").Find(&defs).Error; err != nil {
		return nil, err
	}
	return defs, nil
}

// DeleteDefinition removes the definition and all relations under it
func (r *relationRepository) DeleteDefinition(id uuid.UUID) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("definition_id = ?", id).Delete(&domain.EntryRelation{}).Error; err != nil {
			return err
		}
		result := tx.Where("id = ?", id).Delete(&domain.RelationDefinition{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

// ReplaceRelations atomically swaps the target set for a source entry
func (r *relationRepository) ReplaceRelations(defID, sourceEntryID uuid.UUID, targets []uuid.UUID) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Where("definition_id = ? AND source_entry_id = ?", defID, sourceEntryID).
			Delete(&domain.EntryRelation{}).Error
		if err != nil {
			return err
		}

		for i, targetID := range targets {
			rel := &domain.EntryRelation{
				DefinitionID:  defID,
				SourceEntryID: sourceEntryID,
				TargetEntryID: targetID,
				SortOrder:     i,
			}
			if err := tx.Create(rel).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *relationRepository) ListTargets(defID, sourceEntryID uuid.UUID) ([]*domain.EntryRelation, error) {
	var rels []*domain.EntryRelation
	err := r.db.Where("definition_id = ? AND source_entry_id = ?", defID, sourceEntryID).
		Order("sort_order ASC").
		Find(&rels).Error
	return rels, err
}

func (r *relationRepository) ListSources(defID, targetEntryID uuid.UUID) ([]*domain.EntryRelation, error) {
	var rels []*domain.EntryRelation
	err := r.db.Where("definition_id = ? AND target_entry_id = ?", defID, targetEntryID).
		Order("sort_order ASC").
		Find(&rels).Error
	return rels, err
}

// DeleteByEntry removes every relation touching an entry (either side)
func (r *relationRepository) DeleteByEntry(entryID uuid.UUID) error {
	return r.db.Where("source_entry_id = ? OR target_entry_id = ?", entryID, entryID).
		Delete(&domain.EntryRelation{}).Error
}
