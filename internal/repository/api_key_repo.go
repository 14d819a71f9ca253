package repository

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/PT-GSA/ai-cms-backend/internal/domain"
)

// APIKeyRepository api key data access
type APIKeyRepository interface {
	Create(key *domain.APIKey) error
	FindByHash(hash string) (*domain.APIKey, error)
	List(page, limit int) ([]*domain.APIKey, int64, error)
	Revoke(id uuid.UUID) error
	TouchLastUsed(id uuid.UUID) error
}

type apiKeyRepository struct {
	db *gorm.DB
}

// NewAPIKeyRepository creates a new APIKeyRepository
func NewAPIKeyRepository(db *gorm.DB) APIKeyRepository {
	return &apiKeyRepository{db: db}
}

func (r *apiKeyRepository) Create(key *domain.APIKey) error {
	return r.db.Create(key).Error
}

func (r *apiKeyRepository) FindByHash(hash string) (*domain.APIKey, error) {
	var key domain.APIKey
	if err := r.db.Where("key_hash = ?", hash).First(&key).Error; err != nil {
		return nil, err
	}
	return &key, nil
}

func (r *apiKeyRepository) List(page, limit int) ([]*domain.APIKey, int64, error) {
	var keys []*domain.APIKey
	var total int64

	if err := r.db.Model(&domain.APIKey{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	err := r.db.Order("created_at DESC").Offset(offset).Limit(limit).Find(&keys).Error
	if err != nil {
		return nil, 0, err
	}

	return keys, total, nil
}

func (r *apiKeyRepository) Revoke(id uuid.UUID) error {
	result := r.db.Model(&domain.APIKey{}).
		Where("id = ? AND revoked_at IS NULL", id).
		Update("revoked_at", time.Now())
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// TouchLastUsed stamps last_used_at; failures are tolerable and ignored upstream
func (r *apiKeyRepository) TouchLastUsed(id uuid.UUID) error {
	return r.db.Model(&domain.APIKey{}).
		Where("id = ?", id).
		Update("last_used_at", time.Now()).Error
}
