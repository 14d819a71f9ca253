package service

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/PT-GSA/ai-cms-backend/internal/common"
	"github.com/PT-GSA/ai-cms-backend/internal/domain"
	"github.com/PT-GSA/ai-cms-backend/internal/repository"
)

const apiKeyPrefix = "cms_"

// APIKeyService issues and validates API keys
type APIKeyService interface {
	Create(req *domain.CreateAPIKeyRequest, userID *uuid.UUID) (*domain.APIKeyCreatedResponse, error)
	List(page, limit int) ([]*domain.APIKey, *common.Meta, error)
	Revoke(id uuid.UUID) error
	// Validate checks a plaintext key and returns the key record when it is
	// active. Touches last_used_at on success.
	Validate(plaintext string) (*domain.APIKey, error)
}

type apiKeyService struct {
	repo repository.APIKeyRepository
}

// NewAPIKeyService creates a new APIKeyService
func NewAPIKeyService(repo repository.APIKeyRepository) APIKeyService {
	return &apiKeyService{repo: repo}
}

func (s *apiKeyService) Create(req *domain.CreateAPIKeyRequest, userID *uuid.UUID) (*domain.APIKeyCreatedResponse, error) {
	if len(req.Scopes) == 0 {
		return nil, fmt.Errorf("%w: at least one scope is required", common.ErrInvalidInput)
	}
	for _, scope := range req.Scopes {
		switch scope {
		case domain.ScopeRead, domain.ScopeWrite, domain.ScopeAdmin:
		default:
			return nil, fmt.Errorf("%w: unknown scope: %s", common.ErrInvalidInput, scope)
		}
	}
	if req.ExpiresAt != nil && req.ExpiresAt.Before(time.Now()) {
		return nil, fmt.Errorf("%w: expiry must be in the future", common.ErrInvalidInput)
	}

	plaintext, err := generateAPIKey()
	if err != nil {
		return nil, err
	}

	key := &domain.APIKey{
		Name:      req.Name,
		KeyHash:   hashAPIKey(plaintext),
		KeyPrefix: plaintext[:len(apiKeyPrefix)+8],
		Scopes:    strings.Join(req.Scopes, ","),
		UserID:    userID,
		ExpiresAt: req.ExpiresAt,
	}
	if err := s.repo.Create(key); err != nil {
		return nil, err
	}

	return &domain.APIKeyCreatedResponse{APIKey: key, Key: plaintext}, nil
}

func (s *apiKeyService) List(page, limit int) ([]*domain.APIKey, *common.Meta, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	keys, total, err := s.repo.List(page, limit)
	if err != nil {
		return nil, nil, err
	}
	return keys, common.NewMeta(page, limit, total), nil
}

func (s *apiKeyService) Revoke(id uuid.UUID) error {
	err := s.repo.Revoke(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return common.ErrAPIKeyNotFound
	}
	return err
}

func (s *apiKeyService) Validate(plaintext string) (*domain.APIKey, error) {
	if !strings.HasPrefix(plaintext, apiKeyPrefix) {
		return nil, common.ErrUnauthorized
	}

	key, err := s.repo.FindByHash(hashAPIKey(plaintext))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrUnauthorized
		}
		return nil, err
	}
	if key.RevokedAt != nil {
		return nil, common.ErrUnauthorized
	}
	if key.ExpiresAt != nil && key.ExpiresAt.Before(time.Now()) {
		return nil, common.ErrUnauthorized
	}

	// Best-effort usage stamp, not worth failing the request over
	_ = s.repo.TouchLastUsed(key.ID)

	return key, nil
}

// HasScope reports whether the key grants a scope. Admin implies everything.
func HasScope(key *domain.APIKey, scope string) bool {
	for _, s := range strings.Split(key.Scopes, ",") {
		if s == scope || s == domain.ScopeAdmin {
			return true
		}
	}
	return false
}

func generateAPIKey() (string, error) {
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}
	return apiKeyPrefix + hex.EncodeToString(raw), nil
}

func hashAPIKey(plaintext string) string {
	sum := sha256.Sum256([]byte(plaintext))
	return hex.EncodeToString(sum[:])
}
