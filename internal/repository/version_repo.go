package repository

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/PT-GSA/ai-cms-backend/internal/domain"
)

// maxVersionInsertRetries bounds retry-on-conflict when two writers race
// for the same version number. The unique index on (entry_id, version_number)
// makes the loser fail its insert instead of silently duplicating a number.
const maxVersionInsertRetries = 3

// VersionRepository content entry version data access
type VersionRepository interface {
	FindByEntryAndNumber(entryID uuid.UUID, number int) (*domain.ContentEntryVersion, error)
	ListByEntry(entryID uuid.UUID, page, limit int) ([]*domain.ContentEntryVersion, int64, error)
	LatestNumber(entryID uuid.UUID) (int, error)
	CreateNext(entryID uuid.UUID, snap domain.Snapshot, comment string, createdBy *uuid.UUID) (*domain.ContentEntryVersion, error)
	Delete(entryID uuid.UUID, number int) error
	WithTx(tx *gorm.DB) VersionRepository
}

type versionRepository struct {
	db *gorm.DB
}

// NewVersionRepository creates a new VersionRepository
func NewVersionRepository(db *gorm.DB) VersionRepository {
	return &versionRepository{db: db}
}

// WithTx returns a repository bound to the given transaction
func (r *versionRepository) WithTx(tx *gorm.DB) VersionRepository {
	return &versionRepository{db: tx}
}

func (r *versionRepository) FindByEntryAndNumber(entryID uuid.UUID, number int) (*domain.ContentEntryVersion, error) {
	var version domain.ContentEntryVersion
	err := r.db.Where("entry_id = ? AND version_number = ?", entryID, number).First(&version).Error
	if err != nil {
		return nil, err
	}
	return &version, nil
}

func (r *versionRepository) ListByEntry(entryID uuid.UUID, page, limit int) ([]*domain.ContentEntryVersion, int64, error) {
	var versions []*domain.ContentEntryVersion
	var total int64

	query := r.db.Model(&domain.ContentEntryVersion{}).Where("entry_id = ?", entryID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	err := query.
		Order("version_number DESC").
		Offset(offset).
		Limit(limit).
		Find(&versions).Error
	if err != nil {
		return nil, 0, err
	}

	return versions, total, nil
}

// LatestNumber returns the highest version number for an entry, 0 if none
func (r *versionRepository) LatestNumber(entryID uuid.UUID) (int, error) {
	var latest *int
	err := r.db.Model(&domain.ContentEntryVersion{}).
		Where("entry_id = ?", entryID).
		Select("MAX(version_number)").
		Scan(&latest).Error
	if err != nil {
		return 0, err
	}
	if latest == nil {
		return 0, nil
	}
	return *latest, nil
}

// CreateNext inserts a snapshot with the next version number (max+1).
// The read-max-then-insert runs inside a transaction and retries on a
// duplicate-key conflict, so concurrent writers never reuse a number.
func (r *versionRepository) CreateNext(entryID uuid.UUID, snap domain.Snapshot, comment string, createdBy *uuid.UUID) (*domain.ContentEntryVersion, error) {
	var created *domain.ContentEntryVersion

	for attempt := 0; attempt < maxVersionInsertRetries; attempt++ {
		err := r.db.Transaction(func(tx *gorm.DB) error {
			next, err := r.WithTx(tx).LatestNumber(entryID)
			if err != nil {
				return err
			}

			version := &domain.ContentEntryVersion{
				EntryID:       entryID,
				VersionNumber: next + 1,
				Title:         snap.Title,
				Slug:          snap.Slug,
				Status:        snap.Status,
				Fields:        datatypes.JSONMap(snap.Fields),
				Comment:       comment,
				CreatedBy:     createdBy,
			}
			if err := tx.Create(version).Error; err != nil {
				return err
			}
			created = version
			return nil
		})
		if err == nil {
			return created, nil
		}
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			continue
		}
		return nil, err
	}

	return nil, gorm.ErrDuplicatedKey
}

func (r *versionRepository) Delete(entryID uuid.UUID, number int) error {
	result := r.db.Where("entry_id = ? AND version_number = ?", entryID, number).
		Delete(&domain.ContentEntryVersion{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
