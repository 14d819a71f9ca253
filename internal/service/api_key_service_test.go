package service

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	"github.com/PT-GSA/ai-cms-backend/internal/common"
	"github.com/PT-GSA/ai-cms-backend/internal/domain"
)

// --- Mock APIKeyRepository ---

type mockAPIKeyRepo struct {
	mock.Mock
}

func (m *mockAPIKeyRepo) Create(key *domain.APIKey) error {
	return m.Called(key).Error(0)
}

func (m *mockAPIKeyRepo) FindByHash(hash string) (*domain.APIKey, error) {
	args := m.Called(hash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.APIKey), args.Error(1)
}

func (m *mockAPIKeyRepo) List(page, limit int) ([]*domain.APIKey, int64, error) {
	args := m.Called(page, limit)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]*domain.APIKey), args.Get(1).(int64), args.Error(2)
}

func (m *mockAPIKeyRepo) Revoke(id uuid.UUID) error {
	return m.Called(id).Error(0)
}

func (m *mockAPIKeyRepo) TouchLastUsed(id uuid.UUID) error {
	return m.Called(id).Error(0)
}

// --- Tests ---

func TestCreateAPIKey_Success(t *testing.T) {
	repo := new(mockAPIKeyRepo)
	svc := NewAPIKeyService(repo)

	repo.On("Create", mock.AnythingOfType("*domain.APIKey")).Return(nil)

	result, err := svc.Create(&domain.CreateAPIKeyRequest{
		Name:   "ci-pipeline",
		Scopes: []string{domain.ScopeRead, domain.ScopeWrite},
	}, nil)

	assert.NoError(t, err)
	assert.True(t, strings.HasPrefix(result.Key, "cms_"))
	assert.True(t, strings.HasPrefix(result.Key, result.KeyPrefix))
	// The plaintext is returned once and only its hash is stored
	assert.NotContains(t, result.KeyHash, result.Key)
	assert.Len(t, result.KeyHash, 64)
	repo.AssertExpectations(t)
}

func TestCreateAPIKey_UnknownScope(t *testing.T) {
	repo := new(mockAPIKeyRepo)
	svc := NewAPIKeyService(repo)

	_, err := svc.Create(&domain.CreateAPIKeyRequest{
		Name:   "bad",
		Scopes: []string{"superuser"},
	}, nil)

	assert.ErrorIs(t, err, common.ErrInvalidInput)
	repo.AssertNotCalled(t, "Create", mock.Anything)
}

func TestCreateAPIKey_NoScopes(t *testing.T) {
	repo := new(mockAPIKeyRepo)
	svc := NewAPIKeyService(repo)

	_, err := svc.Create(&domain.CreateAPIKeyRequest{Name: "empty"}, nil)

	assert.ErrorIs(t, err, common.ErrInvalidInput)
}

func TestCreateAPIKey_PastExpiry(t *testing.T) {
	repo := new(mockAPIKeyRepo)
	svc := NewAPIKeyService(repo)

	past := time.Now().Add(-time.Hour)
	_, err := svc.Create(&domain.CreateAPIKeyRequest{
		Name:      "stale",
		Scopes:    []string{domain.ScopeRead},
		ExpiresAt: &past,
	}, nil)

	assert.ErrorIs(t, err, common.ErrInvalidInput)
}

func TestValidateAPIKey_Success(t *testing.T) {
	repo := new(mockAPIKeyRepo)
	svc := NewAPIKeyService(repo)

	plaintext, err := generateAPIKey()
	assert.NoError(t, err)

	stored := &domain.APIKey{
		ID:      uuid.New(),
		KeyHash: hashAPIKey(plaintext),
		Scopes:  domain.ScopeRead,
	}
	repo.On("FindByHash", stored.KeyHash).Return(stored, nil)
	repo.On("TouchLastUsed", stored.ID).Return(nil)

	key, err := svc.Validate(plaintext)

	assert.NoError(t, err)
	assert.Equal(t, stored.ID, key.ID)
	repo.AssertExpectations(t)
}

func TestValidateAPIKey_WrongPrefix(t *testing.T) {
	repo := new(mockAPIKeyRepo)
	svc := NewAPIKeyService(repo)

	_, err := svc.Validate("sk_not_ours")

	assert.ErrorIs(t, err, common.ErrUnauthorized)
	repo.AssertNotCalled(t, "FindByHash", mock.Anything)
}

func TestValidateAPIKey_Revoked(t *testing.T) {
	repo := new(mockAPIKeyRepo)
	svc := NewAPIKeyService(repo)

	plaintext, _ := generateAPIKey()
	revokedAt := time.Now().Add(-time.Minute)
	repo.On("FindByHash", hashAPIKey(plaintext)).
		Return(&domain.APIKey{ID: uuid.New(), RevokedAt: &revokedAt}, nil)

	_, err := svc.Validate(plaintext)

	assert.ErrorIs(t, err, common.ErrUnauthorized)
	repo.AssertNotCalled(t, "TouchLastUsed", mock.Anything)
}

func TestValidateAPIKey_Expired(t *testing.T) {
	repo := new(mockAPIKeyRepo)
	svc := NewAPIKeyService(repo)

	plaintext, _ := generateAPIKey()
	expiredAt := time.Now().Add(-time.Minute)
	repo.On("FindByHash", hashAPIKey(plaintext)).
		Return(&domain.APIKey{ID: uuid.New(), ExpiresAt: &expiredAt}, nil)

	_, err := svc.Validate(plaintext)

	assert.ErrorIs(t, err, common.ErrUnauthorized)
}

func TestValidateAPIKey_UnknownHash(t *testing.T) {
	repo := new(mockAPIKeyRepo)
	svc := NewAPIKeyService(repo)

	plaintext, _ := generateAPIKey()
	repo.On("FindByHash", hashAPIKey(plaintext)).Return(nil, gorm.ErrRecordNotFound)

	_, err := svc.Validate(plaintext)

	assert.ErrorIs(t, err, common.ErrUnauthorized)
}

func TestRevokeAPIKey_NotFound(t *testing.T) {
	repo := new(mockAPIKeyRepo)
	svc := NewAPIKeyService(repo)

	id := uuid.New()
	repo.On("Revoke", id).Return(gorm.ErrRecordNotFound)

	err := svc.Revoke(id)

	assert.ErrorIs(t, err, common.ErrAPIKeyNotFound)
}

func TestHasScope(t *testing.T) {
	readKey := &domain.APIKey{Scopes: domain.ScopeRead}
	assert.True(t, HasScope(readKey, domain.ScopeRead))
	assert.False(t, HasScope(readKey, domain.ScopeWrite))

	adminKey := &domain.APIKey{Scopes: domain.ScopeAdmin}
	assert.True(t, HasScope(adminKey, domain.ScopeRead))
	assert.True(t, HasScope(adminKey, domain.ScopeWrite))

	multiKey := &domain.APIKey{Scopes: domain.ScopeRead + "," + domain.ScopeWrite}
	assert.True(t, HasScope(multiKey, domain.ScopeWrite))
	assert.False(t, HasScope(multiKey, domain.ScopeAdmin))
}
