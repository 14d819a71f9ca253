package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/PT-GSA/ai-cms-backend/internal/common"
	"github.com/PT-GSA/ai-cms-backend/internal/domain"
	"github.com/PT-GSA/ai-cms-backend/internal/repository"
	"github.com/PT-GSA/ai-cms-backend/pkg/cache"
)

// protectedRecentVersions how many of the most recent versions are
// shielded from deletion, in addition to version 1
const protectedRecentVersions = 3

// CompareWithCurrent compares a version against the live entry state
const CompareWithCurrent = "current"

// VersionService version history, comparison and rollback
type VersionService interface {
	ListVersions(entryID uuid.UUID, page, limit int) ([]*domain.VersionResponse, *common.Meta, error)
	CreateCheckpoint(entryID uuid.UUID, comment string, createdBy *uuid.UUID) (*domain.ContentEntryVersion, error)
	GetVersion(entryID uuid.UUID, number int, compareWith string) (*domain.VersionDetailResponse, error)
	Rollback(entryID uuid.UUID, targetNumber int, createBackup bool, comment string, actor *uuid.UUID) (*domain.ContentEntry, error)
	DeleteVersion(entryID uuid.UUID, number int) error
}

type versionService struct {
	versions repository.VersionRepository
	entries  repository.EntryRepository
	users    repository.UserRepository
	cache    cache.Service
}

// NewVersionService creates a new VersionService
func NewVersionService(versions repository.VersionRepository, entries repository.EntryRepository, users repository.UserRepository, cacheSvc cache.Service) VersionService {
	return &versionService{versions: versions, entries: entries, users: users, cache: cacheSvc}
}

// ListVersions returns versions newest-first with resolved creator names
func (s *versionService) ListVersions(entryID uuid.UUID, page, limit int) ([]*domain.VersionResponse, *common.Meta, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	versions, total, err := s.versions.ListByEntry(entryID, page, limit)
	if err != nil {
		return nil, nil, err
	}

	responses := s.resolveCreators(versions)
	meta := common.NewMeta(page, limit, total)

	return responses, meta, nil
}

// CreateCheckpoint snapshots the entry's current state as a new version
func (s *versionService) CreateCheckpoint(entryID uuid.UUID, comment string, createdBy *uuid.UUID) (*domain.ContentEntryVersion, error) {
	entry, err := s.entries.FindByID(entryID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrEntryNotFound
		}
		return nil, err
	}

	if comment == "" {
		comment = "Manual checkpoint"
	}

	version, err := s.versions.CreateNext(entryID, domain.SnapshotOf(entry), comment, createdBy)
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, common.ErrConflict
		}
		return nil, err
	}

	return version, nil
}

// GetVersion returns a version, optionally with a diff against another
// version number or the live entry ("current")
func (s *versionService) GetVersion(entryID uuid.UUID, number int, compareWith string) (*domain.VersionDetailResponse, error) {
	target, err := s.versions.FindByEntryAndNumber(entryID, number)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrVersionNotFound
		}
		return nil, err
	}

	resp := &domain.VersionDetailResponse{
		Version: s.resolveCreators([]*domain.ContentEntryVersion{target})[0],
	}

	if compareWith == "" {
		return resp, nil
	}

	compareFields, err := s.resolveCompareFields(entryID, compareWith)
	if err != nil {
		return nil, err
	}

	resp.Diff = ComputeDiff(target.Fields, compareFields)
	return resp, nil
}

func (s *versionService) resolveCompareFields(entryID uuid.UUID, compareWith string) (map[string]interface{}, error) {
	if compareWith == CompareWithCurrent {
		entry, err := s.entries.FindByID(entryID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, common.ErrEntryNotFound
			}
			return nil, err
		}
		return entry.Fields, nil
	}

	otherNumber, err := strconv.Atoi(compareWith)
	if err != nil || otherNumber < 1 {
		return nil, fmt.Errorf("%w: compare_with must be a version number or %q", common.ErrInvalidInput, CompareWithCurrent)
	}

	other, err := s.versions.FindByEntryAndNumber(entryID, otherNumber)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrVersionNotFound
		}
		return nil, err
	}
	return other.Fields, nil
}

// Rollback restores a target version into the live entry. The backup
// snapshot, the live overwrite and the rollback version record run in one
// transaction: a failure at any step leaves no partial history behind.
func (s *versionService) Rollback(entryID uuid.UUID, targetNumber int, createBackup bool, comment string, actor *uuid.UUID) (*domain.ContentEntry, error) {
	target, err := s.versions.FindByEntryAndNumber(entryID, targetNumber)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrVersionNotFound
		}
		return nil, err
	}

	entry, err := s.entries.FindByID(entryID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrEntryNotFound
		}
		return nil, err
	}

	targetSnap := domain.Snapshot{
		Title:  target.Title,
		Slug:   target.Slug,
		Status: target.Status,
		Fields: target.Fields,
	}

	if comment == "" {
		comment = fmt.Sprintf("Rolled back to version %d", targetNumber)
	}

	err = s.entries.DB().Transaction(func(tx *gorm.DB) error {
		versionsTx := s.versions.WithTx(tx)
		entriesTx := s.entries.WithTx(tx)

		if createBackup {
			backupComment := fmt.Sprintf("Backup before rollback to v%d", targetNumber)
			if _, err := versionsTx.CreateNext(entryID, domain.SnapshotOf(entry), backupComment, actor); err != nil {
				return err
			}
		}

		if err := entriesTx.ApplySnapshot(entryID, targetSnap); err != nil {
			return err
		}

		// The rollback is its own entry in version history, not a silent restore
		_, err := versionsTx.CreateNext(entryID, targetSnap, comment, actor)
		return err
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, common.ErrConflict
		}
		return nil, err
	}

	s.invalidateEntryCache(entry)
	return s.entries.FindByID(entryID)
}

// invalidateEntryCache drops the cached entry and its type's list pages
// after a rollback overwrites the live row
func (s *versionService) invalidateEntryCache(entry *domain.ContentEntry) {
	if s.cache == nil {
		return
	}
	ctx := context.Background()
	_ = s.cache.Delete(ctx, cache.PrefixEntry+entry.ID.String())
	_ = s.cache.DeletePattern(ctx, cache.PrefixEntryList+entry.ContentTypeID.String()+":*")
}

// DeleteVersion removes a version subject to the retention policy:
// version 1 is never deletable, nor are the three most recent versions.
// Deletion never renumbers surviving versions.
func (s *versionService) DeleteVersion(entryID uuid.UUID, number int) error {
	if _, err := s.versions.FindByEntryAndNumber(entryID, number); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return common.ErrVersionNotFound
		}
		return err
	}

	if number == 1 {
		return common.ErrVersionProtected
	}

	latest, err := s.versions.LatestNumber(entryID)
	if err != nil {
		return err
	}
	if number > latest-protectedRecentVersions {
		return common.ErrVersionProtected
	}

	if err := s.versions.Delete(entryID, number); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return common.ErrVersionNotFound
		}
		return err
	}
	return nil
}

// resolveCreators bulk-loads creator display names for version rows
func (s *versionService) resolveCreators(versions []*domain.ContentEntryVersion) []*domain.VersionResponse {
	ids := make([]uuid.UUID, 0, len(versions))
	seen := make(map[uuid.UUID]struct{})
	for _, v := range versions {
		if v.CreatedBy == nil {
			continue
		}
		if _, ok := seen[*v.CreatedBy]; ok {
			continue
		}
		seen[*v.CreatedBy] = struct{}{}
		ids = append(ids, *v.CreatedBy)
	}

	names := make(map[uuid.UUID]string, len(ids))
	if users, err := s.users.FindManyByIDs(ids); err == nil {
		for _, u := range users {
			names[u.ID] = u.Username
		}
	}

	responses := make([]*domain.VersionResponse, len(versions))
	for i, v := range versions {
		resp := &domain.VersionResponse{ContentEntryVersion: v}
		if v.CreatedBy != nil {
			resp.CreatorName = names[*v.CreatedBy]
		}
		responses[i] = resp
	}
	return responses
}
