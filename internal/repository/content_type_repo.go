package repository

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/PT-GSA/ai-cms-backend/internal/domain"
)

// ContentTypeRepository content type data access
type ContentTypeRepository interface {
	Create(ct *domain.ContentType) error
	FindByID(id uuid.UUID) (*domain.ContentType, error)
	FindByName(name string) (*domain.ContentType, error)
	List(page, limit int) ([]*domain.ContentType, int64, error)
	Update(ct *domain.ContentType) error
	Delete(id uuid.UUID) error
}

type contentTypeRepository struct {
	db *gorm.DB
}

// NewContentTypeRepository creates a new ContentTypeRepository
func NewContentTypeRepository(db *gorm.DB) ContentTypeRepository {
	return &contentTypeRepository{db: db}
}

func (r *contentTypeRepository) Create(ct *domain.ContentType) error {
	return r.db.Create(ct).Error
}

func (r *contentTypeRepository) FindByID(id uuid.UUID) (*domain.ContentType, error) {
	var ct domain.ContentType
	if err := r.db.Where("id = ?", id).First(&ct).Error; err != nil {
		return nil, err
	}
	return &ct, nil
}

func (r *contentTypeRepository) FindByName(name string) (*domain.ContentType, error) {
	var ct domain.ContentType
	if err := r.db.Where("name = ?", name).First(&ct).Error; err != nil {
		return nil, err
	}
	return &ct, nil
}

func (r *contentTypeRepository) List(page, limit int) ([]*domain.ContentType, int64, error) {
	var types []*domain.ContentType
	var total int64

	if err := r.db.Model(&domain.ContentType{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	err := r.db.Order("name ASC").Offset(offset).Limit(limit).Find(&types).Error
	if err != nil {
		return nil, 0, err
	}

	return types, total, nil
}

func (r *contentTypeRepository) Update(ct *domain.ContentType) error {
	return r.db.Save(ct).Error
}

// Delete removes the type together with its entries, their versions and
// relations, and any relation definitions pointing at the type. Everything
// runs in one transaction so a mid-way failure leaves no orphans.
func (r *contentTypeRepository) Delete(id uuid.UUID) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		entryIDs := tx.Model(&domain.ContentEntry{}).Select("id").Where("content_type_id = ?", id)

		if err := tx.Where("source_entry_id IN (?) OR target_entry_id IN (?)", entryIDs, entryIDs).
			Delete(&domain.EntryRelation{}).Error; err != nil {
			return err
		}
		if err := tx.Where("entry_id IN (?)", entryIDs).
			Delete(&domain.ContentEntryVersion{}).Error; err != nil {
			return err
		}
		if err := tx.Where("content_type_id = ?", id).
			Delete(&domain.ContentEntry{}).Error; err != nil {
			return err
		}
		if err := tx.Where("source_type_id = ? OR target_type_id = ?", id, id).
			Delete(&domain.RelationDefinition{}).Error; err != nil {
			return err
		}

		result := tx.Where("id = ?", id).Delete(&domain.ContentType{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
