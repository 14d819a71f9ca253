package repository

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/PT-GSA/ai-cms-backend/internal/domain"
)

// EntryRepository content entry data access
type EntryRepository interface {
	Create(entry *domain.ContentEntry) error
	FindByID(id uuid.UUID) (*domain.ContentEntry, error)
	FindBySlug(typeID uuid.UUID, slug string) (*domain.ContentEntry, error)
	ListByType(typeID uuid.UUID, q domain.EntryListQuery) ([]*domain.ContentEntry, int64, error)
	Update(entry *domain.ContentEntry) error
	ApplySnapshot(id uuid.UUID, snap domain.Snapshot) error
	Delete(id uuid.UUID) error
	DB() *gorm.DB
	WithTx(tx *gorm.DB) EntryRepository
}

type entryRepository struct {
	db *gorm.DB
}

// NewEntryRepository creates a new EntryRepository
func NewEntryRepository(db *gorm.DB) EntryRepository {
	return &entryRepository{db: db}
}

// DB exposes the underlying handle so services can open transactions
func (r *entryRepository) DB() *gorm.DB {
	return r.db
}

// WithTx returns a repository bound to the given transaction
func (r *entryRepository) WithTx(tx *gorm.DB) EntryRepository {
	return &entryRepository{db: tx}
}

func (r *entryRepository) Create(entry *domain.ContentEntry) error {
	return r.db.Create(entry).Error
}

func (r *entryRepository) FindByID(id uuid.UUID) (*domain.ContentEntry, error) {
	var entry domain.ContentEntry
	err := r.db.Where("id = ?", id).First(&entry).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *entryRepository) FindBySlug(typeID uuid.UUID, slug string) (*domain.ContentEntry, error) {
	var entry domain.ContentEntry
	err := r.db.Where("content_type_id = ? AND slug = ?", typeID, slug).First(&entry).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *entryRepository) ListByType(typeID uuid.UUID, q domain.EntryListQuery) ([]*domain.ContentEntry, int64, error) {
	var entries []*domain.ContentEntry
	var total int64

	query := r.db.Model(&domain.ContentEntry{}).Where("content_type_id = ?", typeID)
	if q.Status != "" {
		query = query.Where("status = ?", q.Status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (q.Page - 1) * q.Limit
	err := query.
		Order("updated_at DESC").
		Offset(offset).
		Limit(q.Limit).
		Find(&entries).Error
	if err != nil {
		return nil, 0, err
	}

	return entries, total, nil
}

func (r *entryRepository) Update(entry *domain.ContentEntry) error {
	return r.db.Save(entry).Error
}

// ApplySnapshot overwrites the entry's versionable state in one update.
// Used by rollback; stamps updated_at explicitly.
func (r *entryRepository) ApplySnapshot(id uuid.UUID, snap domain.Snapshot) error {
	result := r.db.Model(&domain.ContentEntry{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"title":      snap.Title,
			"slug":       snap.Slug,
			"status":     snap.Status,
			"fields":     datatypes.JSONMap(snap.Fields),
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *entryRepository) Delete(id uuid.UUID) error {
	result := r.db.Where("id = ?", id).Delete(&domain.ContentEntry{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
