package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/PT-GSA/ai-cms-backend/internal/domain"
	"github.com/PT-GSA/ai-cms-backend/internal/repository"
	"github.com/PT-GSA/ai-cms-backend/pkg/cache"
)

// recordingCache captures invalidation calls without a real backend
type recordingCache struct {
	deleted  []string
	patterns []string
}

func (c *recordingCache) Get(ctx context.Context, key string, dest interface{}) error {
	return cache.ErrCacheMiss
}

func (c *recordingCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return nil
}

func (c *recordingCache) Delete(ctx context.Context, keys ...string) error {
	c.deleted = append(c.deleted, keys...)
	return nil
}

func (c *recordingCache) DeletePattern(ctx context.Context, pattern string) error {
	c.patterns = append(c.patterns, pattern)
	return nil
}

// setupVersionDB opens an in-memory database with the entry and version
// tables. The schema is created by hand because the model column defaults
// (gen_random_uuid, jsonb) are Postgres-specific; the unique pair on
// (entry_id, version_number) mirrors the production index that version
// allocation relies on.
func setupVersionDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}

	ddl := []string{
		`CREATE TABLE content_entries (
			id text PRIMARY KEY DEFAULT (lower(hex(randomblob(16)))),
			content_type_id text,
			title varchar(255),
			slug varchar(255),
			status varchar(20) DEFAULT 'draft',
			fields text,
			published_at datetime,
			created_by text,
			created_at datetime,
			updated_at datetime,
			UNIQUE (content_type_id, slug)
		)`,
		`CREATE TABLE content_entry_versions (
			id text PRIMARY KEY DEFAULT (lower(hex(randomblob(16)))),
			entry_id text,
			version_number integer,
			title varchar(255),
			slug varchar(255),
			status varchar(20),
			fields text,
			comment text,
			created_by text,
			created_at datetime,
			UNIQUE (entry_id, version_number)
		)`,
		`CREATE TABLE users (
			id text PRIMARY KEY DEFAULT (lower(hex(randomblob(16)))),
			username varchar(50),
			email varchar(255),
			password varchar(255),
			role varchar(20),
			is_active boolean DEFAULT true,
			created_at datetime,
			updated_at datetime
		)`,
	}
	for _, stmt := range ddl {
		if err := db.Exec(stmt).Error; err != nil {
			t.Fatalf("failed to create schema: %v", err)
		}
	}
	return db
}

func setupVersionService(t *testing.T) (VersionService, repository.EntryRepository, repository.VersionRepository, *recordingCache, *domain.ContentEntry) {
	t.Helper()
	db := setupVersionDB(t)

	versionRepo := repository.NewVersionRepository(db)
	entryRepo := repository.NewEntryRepository(db)
	userRepo := repository.NewUserRepository(db)
	rc := &recordingCache{}
	svc := NewVersionService(versionRepo, entryRepo, userRepo, rc)

	entry := &domain.ContentEntry{
		ID:            uuid.New(),
		ContentTypeID: uuid.New(),
		Title:         "title 1",
		Slug:          "rollback-target",
		Status:        domain.StatusDraft,
		Fields:        datatypes.JSONMap{"title": "title 1", "body": "body 1"},
	}
	if err := db.Create(entry).Error; err != nil {
		t.Fatalf("failed to seed entry: %v", err)
	}

	return svc, entryRepo, versionRepo, rc, entry
}

// checkpointHistory records versions 1..n, mutating the live entry before
// each checkpoint so every version carries distinct data.
func checkpointHistory(t *testing.T, svc VersionService, entries repository.EntryRepository, entry *domain.ContentEntry, n int) {
	t.Helper()
	for i := 1; i <= n; i++ {
		entry.Title = fmt.Sprintf("title %d", i)
		entry.Fields = datatypes.JSONMap{"title": fmt.Sprintf("title %d", i), "body": fmt.Sprintf("body %d", i)}
		if err := entries.Update(entry); err != nil {
			t.Fatalf("failed to update entry: %v", err)
		}
		if _, err := svc.CreateCheckpoint(entry.ID, fmt.Sprintf("checkpoint %d", i), nil); err != nil {
			t.Fatalf("failed to create checkpoint %d: %v", i, err)
		}
	}
}

func TestRollback_RestoresSnapshotAndRecordsHistory(t *testing.T) {
	svc, entries, versions, rc, entry := setupVersionService(t)
	checkpointHistory(t, svc, entries, entry, 5)

	// Drift the live entry away from every recorded version
	entry.Title = "live title"
	entry.Fields = datatypes.JSONMap{"title": "live title", "body": "live body"}
	assert.NoError(t, entries.Update(entry))

	restored, err := svc.Rollback(entry.ID, 2, true, "", nil)

	assert.NoError(t, err)
	assert.Equal(t, "title 2", restored.Title)
	assert.Equal(t, "body 2", restored.Fields["body"])

	latest, err := versions.LatestNumber(entry.ID)
	assert.NoError(t, err)
	assert.Equal(t, 7, latest)

	backup, err := versions.FindByEntryAndNumber(entry.ID, 6)
	assert.NoError(t, err)
	assert.Equal(t, "Backup before rollback to v2", backup.Comment)
	assert.Equal(t, "live title", backup.Title)
	assert.Equal(t, "live body", backup.Fields["body"])

	record, err := versions.FindByEntryAndNumber(entry.ID, 7)
	assert.NoError(t, err)
	assert.Equal(t, "Rolled back to version 2", record.Comment)
	assert.Equal(t, "body 2", record.Fields["body"])

	// The overwritten entry must not be served from cache
	assert.Contains(t, rc.deleted, cache.PrefixEntry+entry.ID.String())
	assert.Contains(t, rc.patterns, cache.PrefixEntryList+entry.ContentTypeID.String()+":*")
}

func TestRollback_WithoutBackup(t *testing.T) {
	svc, entries, versions, _, entry := setupVersionService(t)
	checkpointHistory(t, svc, entries, entry, 3)

	restored, err := svc.Rollback(entry.ID, 1, false, "undo experiment", nil)

	assert.NoError(t, err)
	assert.Equal(t, "title 1", restored.Title)

	// Only the rollback record itself, no backup snapshot
	latest, err := versions.LatestNumber(entry.ID)
	assert.NoError(t, err)
	assert.Equal(t, 4, latest)

	record, err := versions.FindByEntryAndNumber(entry.ID, 4)
	assert.NoError(t, err)
	assert.Equal(t, "undo experiment", record.Comment)
}
