package repository

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/PT-GSA/ai-cms-backend/internal/domain"
)

// SearchRepository full-text search over content entries.
// Ranking and tokenization are delegated to Postgres: the search_vector
// tsvector column is maintained by a trigger installed in migration.
type SearchRepository interface {
	Search(query string, typeID *uuid.UUID, status string, page, limit int) ([]*domain.ContentEntry, int64, error)
}

type searchRepository struct {
	db *gorm.DB
}

// NewSearchRepository creates a new SearchRepository
func NewSearchRepository(db *gorm.DB) SearchRepository {
	return &searchRepository{db: db}
}

// trigramMinLength below this query length websearch_to_tsquery matches
// poorly on partial words, so we fall back to trigram-backed ILIKE
const trigramMinLength = 3

func (r *searchRepository) Search(query string, typeID *uuid.UUID, status string, page, limit int) ([]*domain.ContentEntry, int64, error) {
	if len(query) < trigramMinLength {
		return r.searchTrigram(query, typeID, status, page, limit)
	}
	return r.searchFullText(query, typeID, status, page, limit)
}

// searchFullText uses websearch_to_tsquery with ts_rank ordering
func (r *searchRepository) searchFullText(query string, typeID *uuid.UUID, status string, page, limit int) ([]*domain.ContentEntry, int64, error) {
	var entries []*domain.ContentEntry
	var total int64

	base := r.db.Model(&domain.ContentEntry{}).
		Where("search_vector @@ websearch_to_tsquery('simple', ?)", query)
	base = applySearchFilters(base, typeID, status)

	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	err := base.
		Clauses(clause.OrderBy{Expression: clause.Expr{
			SQL:                "ts_rank(search_vector, websearch_to_tsquery('simple', ?)) DESC",
			Vars:               []interface{}{query},
			WithoutParentheses: true,
		}}).
		Offset(offset).
		Limit(limit).
		Find(&entries).Error
	if err != nil {
		return nil, 0, err
	}

	return entries, total, nil
}

// searchTrigram matches short queries against title and slug via ILIKE,
// served by the pg_trgm GIN indexes
func (r *searchRepository) searchTrigram(query string, typeID *uuid.UUID, status string, page, limit int) ([]*domain.ContentEntry, int64, error) {
	var entries []*domain.ContentEntry
	var total int64

	pattern := "%" + query + "%"
	base := r.db.Model(&domain.ContentEntry{}).
		Where("title ILIKE ? OR slug ILIKE ?", pattern, pattern)
	base = applySearchFilters(base, typeID, status)

	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	err := base.
		Order("updated_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&entries).Error
	if err != nil {
		return nil, 0, err
	}

	return entries, total, nil
}

func applySearchFilters(query *gorm.DB, typeID *uuid.UUID, status string) *gorm.DB {
	if typeID != nil {
		query = query.Where("content_type_id = ?", *typeID)
	}
	if status != "" {
		query = query.Where("status = ?", status)
	}
	return query
}
