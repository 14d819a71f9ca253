package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/PT-GSA/ai-cms-backend/internal/common"
	"github.com/PT-GSA/ai-cms-backend/internal/domain"
	"github.com/PT-GSA/ai-cms-backend/internal/repository"
	"github.com/PT-GSA/ai-cms-backend/pkg/cache"
)

const maxSearchQueryLength = 200

// SearchQuery carries search parameters after handler-level parsing
type SearchQuery struct {
	Query  string
	TypeID *uuid.UUID
	Status string
	Page   int
	Limit  int
}

// SearchService runs full-text search over content entries
type SearchService interface {
	Search(q SearchQuery) ([]*domain.ContentEntry, *common.Meta, error)
}

type searchService struct {
	repo  repository.SearchRepository
	cache cache.Service
}

// NewSearchService creates a new SearchService. cacheService may be nil.
func NewSearchService(repo repository.SearchRepository, cacheService cache.Service) SearchService {
	return &searchService{repo: repo, cache: cacheService}
}

func (s *searchService) Search(q SearchQuery) ([]*domain.ContentEntry, *common.Meta, error) {
	q.Query = strings.TrimSpace(q.Query)
	if q.Query == "" {
		return nil, nil, fmt.Errorf("%w: search query is required", common.ErrInvalidInput)
	}
	if len(q.Query) > maxSearchQueryLength {
		// back off to a rune boundary so multi-byte input is not split
		cut := maxSearchQueryLength
		for cut > 0 && !utf8.RuneStart(q.Query[cut]) {
			cut--
		}
		q.Query = q.Query[:cut]
	}
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 || q.Limit > 100 {
		q.Limit = 20
	}
	if q.Status != "" && q.Status != domain.StatusDraft && q.Status != domain.StatusPublished && q.Status != domain.StatusArchived {
		return nil, nil, fmt.Errorf("%w: unknown status: %s", common.ErrInvalidInput, q.Status)
	}

	type cached struct {
		Entries []*domain.ContentEntry `json:"entries"`
		Total   int64                  `json:"total"`
	}

	key := s.cacheKey(q)
	if s.cache != nil {
		var hit cached
		if err := s.cache.Get(context.Background(), key, &hit); err == nil {
			return hit.Entries, common.NewMeta(q.Page, q.Limit, hit.Total), nil
		}
	}

	entries, total, err := s.repo.Search(q.Query, q.TypeID, q.Status, q.Page, q.Limit)
	if err != nil {
		return nil, nil, err
	}

	if s.cache != nil {
		_ = s.cache.Set(context.Background(), key, cached{Entries: entries, Total: total}, cache.TTLSearch)
	}

	return entries, common.NewMeta(q.Page, q.Limit, total), nil
}

func (s *searchService) cacheKey(q SearchQuery) string {
	typeID := ""
	if q.TypeID != nil {
		typeID = q.TypeID.String()
	}
	raw := fmt.Sprintf("%s|%s|%s|%d|%d", q.Query, typeID, q.Status, q.Page, q.Limit)
	sum := sha256.Sum256([]byte(raw))
	return cache.PrefixSearch + hex.EncodeToString(sum[:16])
}
