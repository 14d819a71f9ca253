package service

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/PT-GSA/ai-cms-backend/internal/common"
	"github.com/PT-GSA/ai-cms-backend/internal/domain"
	"github.com/PT-GSA/ai-cms-backend/internal/repository"
)

// --- Mock VersionRepository ---

type mockVersionRepo struct {
	mock.Mock
}

func (m *mockVersionRepo) FindByEntryAndNumber(entryID uuid.UUID, number int) (*domain.ContentEntryVersion, error) {
	args := m.Called(entryID, number)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ContentEntryVersion), args.Error(1)
}

func (m *mockVersionRepo) ListByEntry(entryID uuid.UUID, page, limit int) ([]*domain.ContentEntryVersion, int64, error) {
	args := m.Called(entryID, page, limit)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]*domain.ContentEntryVersion), args.Get(1).(int64), args.Error(2)
}

func (m *mockVersionRepo) LatestNumber(entryID uuid.UUID) (int, error) {
	args := m.Called(entryID)
	return args.Int(0), args.Error(1)
}

func (m *mockVersionRepo) CreateNext(entryID uuid.UUID, snap domain.Snapshot, comment string, createdBy *uuid.UUID) (*domain.ContentEntryVersion, error) {
	args := m.Called(entryID, snap, comment, createdBy)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ContentEntryVersion), args.Error(1)
}

func (m *mockVersionRepo) Delete(entryID uuid.UUID, number int) error {
	return m.Called(entryID, number).Error(0)
}

func (m *mockVersionRepo) WithTx(tx *gorm.DB) repository.VersionRepository {
	return m
}

// --- Mock EntryRepository ---

type mockEntryRepo struct {
	mock.Mock
}

func (m *mockEntryRepo) Create(entry *domain.ContentEntry) error {
	return m.Called(entry).Error(0)
}

func (m *mockEntryRepo) FindByID(id uuid.UUID) (*domain.ContentEntry, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ContentEntry), args.Error(1)
}

func (m *mockEntryRepo) FindBySlug(typeID uuid.UUID, slug string) (*domain.ContentEntry, error) {
	args := m.Called(typeID, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ContentEntry), args.Error(1)
}

func (m *mockEntryRepo) ListByType(typeID uuid.UUID, q domain.EntryListQuery) ([]*domain.ContentEntry, int64, error) {
	args := m.Called(typeID, q)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]*domain.ContentEntry), args.Get(1).(int64), args.Error(2)
}

func (m *mockEntryRepo) Update(entry *domain.ContentEntry) error {
	return m.Called(entry).Error(0)
}

func (m *mockEntryRepo) ApplySnapshot(id uuid.UUID, snap domain.Snapshot) error {
	return m.Called(id, snap).Error(0)
}

func (m *mockEntryRepo) Delete(id uuid.UUID) error {
	return m.Called(id).Error(0)
}

func (m *mockEntryRepo) DB() *gorm.DB {
	return nil
}

func (m *mockEntryRepo) WithTx(tx *gorm.DB) repository.EntryRepository {
	return m
}

// --- Mock UserRepository ---

type mockUserRepo struct {
	mock.Mock
}

func (m *mockUserRepo) Create(user *domain.User) error {
	return m.Called(user).Error(0)
}

func (m *mockUserRepo) FindByID(id uuid.UUID) (*domain.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepo) FindByUsername(username string) (*domain.User, error) {
	args := m.Called(username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepo) FindManyByIDs(ids []uuid.UUID) ([]*domain.User, error) {
	args := m.Called(ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.User), args.Error(1)
}

func (m *mockUserRepo) List(page, limit int) ([]*domain.User, int64, error) {
	args := m.Called(page, limit)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]*domain.User), args.Get(1).(int64), args.Error(2)
}

func (m *mockUserRepo) Update(user *domain.User) error {
	return m.Called(user).Error(0)
}

// --- Tests ---

func newVersionServiceWithMocks() (VersionService, *mockVersionRepo, *mockEntryRepo, *mockUserRepo) {
	versions := new(mockVersionRepo)
	entries := new(mockEntryRepo)
	users := new(mockUserRepo)
	return NewVersionService(versions, entries, users, nil), versions, entries, users
}

func TestListVersions_ResolvesCreators(t *testing.T) {
	svc, versions, _, users := newVersionServiceWithMocks()

	entryID := uuid.New()
	authorID := uuid.New()
	rows := []*domain.ContentEntryVersion{
		{EntryID: entryID, VersionNumber: 2, CreatedBy: &authorID},
		{EntryID: entryID, VersionNumber: 1, CreatedBy: nil},
	}
	versions.On("ListByEntry", entryID, 1, 20).Return(rows, int64(2), nil)
	users.On("FindManyByIDs", []uuid.UUID{authorID}).
		Return([]*domain.User{{ID: authorID, Username: "editor1"}}, nil)

	results, meta, err := svc.ListVersions(entryID, 1, 20)

	assert.NoError(t, err)
	assert.Len(t, results, 2)
	assert.Equal(t, "editor1", results[0].CreatorName)
	assert.Empty(t, results[1].CreatorName)
	assert.Equal(t, int64(2), meta.Total)
	versions.AssertExpectations(t)
	users.AssertExpectations(t)
}

func TestListVersions_PaginationDefaults(t *testing.T) {
	svc, versions, _, users := newVersionServiceWithMocks()

	entryID := uuid.New()
	versions.On("ListByEntry", entryID, 1, 20).
		Return([]*domain.ContentEntryVersion{}, int64(0), nil)
	users.On("FindManyByIDs", []uuid.UUID{}).Return([]*domain.User{}, nil)

	_, meta, err := svc.ListVersions(entryID, 0, 500)

	assert.NoError(t, err)
	assert.Equal(t, 1, meta.Page)
	assert.Equal(t, 20, meta.PerPage)
	versions.AssertExpectations(t)
}

func TestCreateCheckpoint_Success(t *testing.T) {
	svc, versions, entries, _ := newVersionServiceWithMocks()

	entryID := uuid.New()
	actorID := uuid.New()
	entry := &domain.ContentEntry{
		ID:     entryID,
		Title:  "Launch post",
		Slug:   "launch-post",
		Status: domain.StatusDraft,
		Fields: datatypes.JSONMap{"body": "hello"},
	}
	entries.On("FindByID", entryID).Return(entry, nil)

	expectedSnap := domain.SnapshotOf(entry)
	created := &domain.ContentEntryVersion{EntryID: entryID, VersionNumber: 3}
	versions.On("CreateNext", entryID, expectedSnap, "before redesign", &actorID).
		Return(created, nil)

	result, err := svc.CreateCheckpoint(entryID, "before redesign", &actorID)

	assert.NoError(t, err)
	assert.Equal(t, 3, result.VersionNumber)
	versions.AssertExpectations(t)
	entries.AssertExpectations(t)
}

func TestCreateCheckpoint_DefaultComment(t *testing.T) {
	svc, versions, entries, _ := newVersionServiceWithMocks()

	entryID := uuid.New()
	entry := &domain.ContentEntry{ID: entryID, Fields: datatypes.JSONMap{}}
	entries.On("FindByID", entryID).Return(entry, nil)
	versions.On("CreateNext", entryID, domain.SnapshotOf(entry), "Manual checkpoint", (*uuid.UUID)(nil)).
		Return(&domain.ContentEntryVersion{VersionNumber: 1}, nil)

	_, err := svc.CreateCheckpoint(entryID, "", nil)

	assert.NoError(t, err)
	versions.AssertExpectations(t)
}

func TestCreateCheckpoint_EntryNotFound(t *testing.T) {
	svc, _, entries, _ := newVersionServiceWithMocks()

	entryID := uuid.New()
	entries.On("FindByID", entryID).Return(nil, gorm.ErrRecordNotFound)

	_, err := svc.CreateCheckpoint(entryID, "x", nil)

	assert.ErrorIs(t, err, common.ErrEntryNotFound)
}

func TestCreateCheckpoint_NumberConflict(t *testing.T) {
	svc, versions, entries, _ := newVersionServiceWithMocks()

	entryID := uuid.New()
	entry := &domain.ContentEntry{ID: entryID, Fields: datatypes.JSONMap{}}
	entries.On("FindByID", entryID).Return(entry, nil)
	versions.On("CreateNext", entryID, domain.SnapshotOf(entry), "Manual checkpoint", (*uuid.UUID)(nil)).
		Return(nil, gorm.ErrDuplicatedKey)

	_, err := svc.CreateCheckpoint(entryID, "", nil)

	assert.ErrorIs(t, err, common.ErrConflict)
}

func TestGetVersion_WithoutComparison(t *testing.T) {
	svc, versions, _, users := newVersionServiceWithMocks()

	entryID := uuid.New()
	version := &domain.ContentEntryVersion{EntryID: entryID, VersionNumber: 2}
	versions.On("FindByEntryAndNumber", entryID, 2).Return(version, nil)
	users.On("FindManyByIDs", []uuid.UUID{}).Return([]*domain.User{}, nil)

	result, err := svc.GetVersion(entryID, 2, "")

	assert.NoError(t, err)
	assert.Equal(t, 2, result.Version.VersionNumber)
	assert.Nil(t, result.Diff)
	versions.AssertExpectations(t)
}

func TestGetVersion_CompareWithCurrent(t *testing.T) {
	svc, versions, entries, users := newVersionServiceWithMocks()

	entryID := uuid.New()
	version := &domain.ContentEntryVersion{
		EntryID:       entryID,
		VersionNumber: 1,
		Fields:        datatypes.JSONMap{"body": "old text"},
	}
	entry := &domain.ContentEntry{
		ID:     entryID,
		Fields: datatypes.JSONMap{"body": "new text", "subtitle": "added later"},
	}
	versions.On("FindByEntryAndNumber", entryID, 1).Return(version, nil)
	entries.On("FindByID", entryID).Return(entry, nil)
	users.On("FindManyByIDs", []uuid.UUID{}).Return([]*domain.User{}, nil)

	result, err := svc.GetVersion(entryID, 1, CompareWithCurrent)

	assert.NoError(t, err)
	assert.Len(t, result.Diff, 2)
	assert.Equal(t, "body", result.Diff[0].Field)
	assert.Equal(t, domain.DiffModified, result.Diff[0].Change)
	assert.Equal(t, "subtitle", result.Diff[1].Field)
	assert.Equal(t, domain.DiffAdded, result.Diff[1].Change)
	versions.AssertExpectations(t)
	entries.AssertExpectations(t)
}

func TestGetVersion_CompareWithOtherVersion(t *testing.T) {
	svc, versions, _, users := newVersionServiceWithMocks()

	entryID := uuid.New()
	v3 := &domain.ContentEntryVersion{
		EntryID:       entryID,
		VersionNumber: 3,
		Fields:        datatypes.JSONMap{"body": "third"},
	}
	v1 := &domain.ContentEntryVersion{
		EntryID:       entryID,
		VersionNumber: 1,
		Fields:        datatypes.JSONMap{"body": "first"},
	}
	versions.On("FindByEntryAndNumber", entryID, 3).Return(v3, nil)
	versions.On("FindByEntryAndNumber", entryID, 1).Return(v1, nil)
	users.On("FindManyByIDs", []uuid.UUID{}).Return([]*domain.User{}, nil)

	result, err := svc.GetVersion(entryID, 3, "1")

	assert.NoError(t, err)
	assert.Len(t, result.Diff, 1)
	assert.Equal(t, domain.DiffModified, result.Diff[0].Change)
	versions.AssertExpectations(t)
}

func TestGetVersion_InvalidCompareTarget(t *testing.T) {
	svc, versions, _, users := newVersionServiceWithMocks()

	entryID := uuid.New()
	versions.On("FindByEntryAndNumber", entryID, 2).
		Return(&domain.ContentEntryVersion{EntryID: entryID, VersionNumber: 2}, nil)
	users.On("FindManyByIDs", []uuid.UUID{}).Return([]*domain.User{}, nil)

	_, err := svc.GetVersion(entryID, 2, "latest")

	assert.ErrorIs(t, err, common.ErrInvalidInput)
}

func TestGetVersion_NotFound(t *testing.T) {
	svc, versions, _, _ := newVersionServiceWithMocks()

	entryID := uuid.New()
	versions.On("FindByEntryAndNumber", entryID, 9).Return(nil, gorm.ErrRecordNotFound)

	_, err := svc.GetVersion(entryID, 9, "")

	assert.ErrorIs(t, err, common.ErrVersionNotFound)
}

func TestDeleteVersion_NotFoundBeforeProtection(t *testing.T) {
	// A missing version reports 404 even when the number would be
	// protected if it existed.
	svc, versions, _, _ := newVersionServiceWithMocks()

	entryID := uuid.New()
	versions.On("FindByEntryAndNumber", entryID, 1).Return(nil, gorm.ErrRecordNotFound)

	err := svc.DeleteVersion(entryID, 1)

	assert.ErrorIs(t, err, common.ErrVersionNotFound)
}

func TestDeleteVersion_VersionOneProtected(t *testing.T) {
	svc, versions, _, _ := newVersionServiceWithMocks()

	entryID := uuid.New()
	versions.On("FindByEntryAndNumber", entryID, 1).
		Return(&domain.ContentEntryVersion{EntryID: entryID, VersionNumber: 1}, nil)

	err := svc.DeleteVersion(entryID, 1)

	assert.ErrorIs(t, err, common.ErrVersionProtected)
	versions.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestDeleteVersion_RecentVersionsProtected(t *testing.T) {
	// With 5 versions, only version 2 is deletable: 1 is the original
	// and 3..5 are the three most recent.
	svc, versions, _, _ := newVersionServiceWithMocks()

	entryID := uuid.New()
	for _, number := range []int{3, 4, 5} {
		versions.On("FindByEntryAndNumber", entryID, number).
			Return(&domain.ContentEntryVersion{EntryID: entryID, VersionNumber: number}, nil)
	}
	versions.On("LatestNumber", entryID).Return(5, nil)

	for _, number := range []int{3, 4, 5} {
		err := svc.DeleteVersion(entryID, number)
		assert.ErrorIs(t, err, common.ErrVersionProtected, "version %d should be protected", number)
	}
	versions.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestDeleteVersion_Success(t *testing.T) {
	svc, versions, _, _ := newVersionServiceWithMocks()

	entryID := uuid.New()
	versions.On("FindByEntryAndNumber", entryID, 2).
		Return(&domain.ContentEntryVersion{EntryID: entryID, VersionNumber: 2}, nil)
	versions.On("LatestNumber", entryID).Return(5, nil)
	versions.On("Delete", entryID, 2).Return(nil)

	err := svc.DeleteVersion(entryID, 2)

	assert.NoError(t, err)
	versions.AssertExpectations(t)
}

func TestDeleteVersion_RepoError(t *testing.T) {
	svc, versions, _, _ := newVersionServiceWithMocks()

	entryID := uuid.New()
	dbErr := errors.New("connection reset")
	versions.On("FindByEntryAndNumber", entryID, 2).Return(nil, dbErr)

	err := svc.DeleteVersion(entryID, 2)

	assert.ErrorIs(t, err, dbErr)
}
