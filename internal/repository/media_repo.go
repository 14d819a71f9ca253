package repository

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/PT-GSA/ai-cms-backend/internal/domain"
)

// MediaRepository media metadata data access
type MediaRepository interface {
	Create(m *domain.Media) error
	FindByID(id uuid.UUID) (*domain.Media, error)
	List(mimePrefix string, page, limit int) ([]*domain.Media, int64, error)
	Update(m *domain.Media) error
	Delete(id uuid.UUID) error
}

type mediaRepository struct {
	db *gorm.DB
}

// NewMediaRepository creates a new MediaRepository
func NewMediaRepository(db *gorm.DB) MediaRepository {
	return &mediaRepository{db: db}
}

func (r *mediaRepository) Create(m *domain.Media) error {
	return r.db.Create(m).Error
}

func (r *mediaRepository) FindByID(id uuid.UUID) (*domain.Media, error) {
	var m domain.Media
	if err := r.db.Where("id = ?", id).First(&m).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

// List returns media ordered newest-first, optionally filtered by mime prefix
// (e.g. "image/" matches all images)
func (r *mediaRepository) List(mimePrefix string, page, limit int) ([]*domain.Media, int64, error) {
	var items []*domain.Media
	var total int64

	query := r.db.Model(&domain.Media{})
	if mimePrefix != "" {
		query = query.Where("mime_type LIKE ?", mimePrefix+"%")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	err := query.Order("created_at DESC").Offset(offset).Limit(limit).Find(&items).Error
	if err != nil {
		return nil, 0, err
	}

	return items, total, nil
}

func (r *mediaRepository) Update(m *domain.Media) error {
	return r.db.Save(m).Error
}

func (r *mediaRepository) Delete(id uuid.UUID) error {
	result := r.db.Where("id = ?", id).Delete(&domain.Media{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
