package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/PT-GSA/ai-cms-backend/internal/common"
	"github.com/PT-GSA/ai-cms-backend/internal/domain"
	"github.com/PT-GSA/ai-cms-backend/internal/repository"
	"github.com/PT-GSA/ai-cms-backend/pkg/cache"
)

// EntryService business logic for content entries
type EntryService interface {
	Create(typeIDOrName string, req *domain.CreateEntryRequest, createdBy *uuid.UUID) (*domain.ContentEntry, error)
	Get(id uuid.UUID) (*domain.ContentEntry, error)
	GetBySlug(typeIDOrName, slug string) (*domain.ContentEntry, error)
	List(typeIDOrName string, q domain.EntryListQuery) ([]*domain.ContentEntry, *common.Meta, error)
	Update(id uuid.UUID, req *domain.UpdateEntryRequest) (*domain.ContentEntry, error)
	SetStatus(id uuid.UUID, status string) (*domain.ContentEntry, error)
	Delete(id uuid.UUID) error
}

type entryService struct {
	entries   repository.EntryRepository
	relations repository.RelationRepository
	types     ContentTypeService
	cache     cache.Service
}

// NewEntryService creates a new EntryService. The cache may be nil; every
// cache interaction degrades to a repository hit.
func NewEntryService(entries repository.EntryRepository, relations repository.RelationRepository, types ContentTypeService, cacheSvc cache.Service) EntryService {
	return &entryService{entries: entries, relations: relations, types: types, cache: cacheSvc}
}

func (s *entryService) Create(typeIDOrName string, req *domain.CreateEntryRequest, createdBy *uuid.UUID) (*domain.ContentEntry, error) {
	ct, err := s.types.Get(typeIDOrName)
	if err != nil {
		return nil, err
	}

	status := req.Status
	if status == "" {
		status = domain.StatusDraft
	}
	if !isValidStatus(status) {
		return nil, fmt.Errorf("%w: unknown status %q", common.ErrInvalidInput, status)
	}

	fields := req.Fields
	if fields == nil {
		fields = map[string]interface{}{}
	}
	if err := s.validateFields(ct, fields); err != nil {
		return nil, err
	}

	entry := &domain.ContentEntry{
		ContentTypeID: ct.ID,
		Title:         req.Title,
		Slug:          req.Slug,
		Status:        status,
		Fields:        datatypes.JSONMap(fields),
		CreatedBy:     createdBy,
	}
	if status == domain.StatusPublished {
		now := time.Now()
		entry.PublishedAt = &now
	}

	if err := s.entries.Create(entry); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, common.ErrSlugTaken
		}
		return nil, err
	}

	s.invalidateListCache(ct.ID)
	return entry, nil
}

func (s *entryService) Get(id uuid.UUID) (*domain.ContentEntry, error) {
	if s.cache != nil {
		var cached domain.ContentEntry
		if err := s.cache.Get(context.Background(), cache.PrefixEntry+id.String(), &cached); err == nil {
			return &cached, nil
		}
	}

	entry, err := s.entries.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrEntryNotFound
		}
		return nil, err
	}

	if s.cache != nil {
		_ = s.cache.Set(context.Background(), cache.PrefixEntry+id.String(), entry, cache.TTLEntry)
	}
	return entry, nil
}

func (s *entryService) GetBySlug(typeIDOrName, slug string) (*domain.ContentEntry, error) {
	ct, err := s.types.Get(typeIDOrName)
	if err != nil {
		return nil, err
	}

	entry, err := s.entries.FindBySlug(ct.ID, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrEntryNotFound
		}
		return nil, err
	}
	return entry, nil
}

func (s *entryService) List(typeIDOrName string, q domain.EntryListQuery) ([]*domain.ContentEntry, *common.Meta, error) {
	ct, err := s.types.Get(typeIDOrName)
	if err != nil {
		return nil, nil, err
	}

	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 || q.Limit > 100 {
		q.Limit = 20
	}
	if q.Status != "" && !isValidStatus(q.Status) {
		return nil, nil, fmt.Errorf("%w: unknown status %q", common.ErrInvalidInput, q.Status)
	}

	entries, total, err := s.entries.ListByType(ct.ID, q)
	if err != nil {
		return nil, nil, err
	}

	return entries, common.NewMeta(q.Page, q.Limit, total), nil
}

func (s *entryService) Update(id uuid.UUID, req *domain.UpdateEntryRequest) (*domain.ContentEntry, error) {
	entry, err := s.entries.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrEntryNotFound
		}
		return nil, err
	}

	ct, err := s.types.Get(entry.ContentTypeID.String())
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		entry.Title = *req.Title
	}
	if req.Slug != nil {
		entry.Slug = *req.Slug
	}
	if req.Status != nil {
		if !isValidStatus(*req.Status) {
			return nil, fmt.Errorf("%w: unknown status %q", common.ErrInvalidInput, *req.Status)
		}
		applyStatus(entry, *req.Status)
	}
	if req.Fields != nil {
		if err := s.validateFields(ct, *req.Fields); err != nil {
			return nil, err
		}
		entry.Fields = datatypes.JSONMap(*req.Fields)
	}

	if err := s.entries.Update(entry); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, common.ErrSlugTaken
		}
		return nil, err
	}

	s.invalidateEntryCache(entry)
	return entry, nil
}

// SetStatus transitions the entry lifecycle: publish stamps published_at,
// unpublish returns it to draft and clears the stamp
func (s *entryService) SetStatus(id uuid.UUID, status string) (*domain.ContentEntry, error) {
	if !isValidStatus(status) {
		return nil, fmt.Errorf("%w: unknown status %q", common.ErrInvalidInput, status)
	}

	entry, err := s.entries.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrEntryNotFound
		}
		return nil, err
	}

	applyStatus(entry, status)

	if err := s.entries.Update(entry); err != nil {
		return nil, err
	}

	s.invalidateEntryCache(entry)
	return entry, nil
}

func (s *entryService) Delete(id uuid.UUID) error {
	entry, err := s.entries.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return common.ErrEntryNotFound
		}
		return err
	}

	// Relations referencing this entry go first; versions cascade via FK
	if err := s.relations.DeleteByEntry(id); err != nil {
		return err
	}
	if err := s.entries.Delete(id); err != nil {
		return err
	}

	s.invalidateEntryCache(entry)
	return nil
}

func applyStatus(entry *domain.ContentEntry, status string) {
	entry.Status = status
	switch status {
	case domain.StatusPublished:
		if entry.PublishedAt == nil {
			now := time.Now()
			entry.PublishedAt = &now
		}
	case domain.StatusDraft:
		entry.PublishedAt = nil
	}
}

func isValidStatus(status string) bool {
	switch status {
	case domain.StatusDraft, domain.StatusPublished, domain.StatusArchived:
		return true
	}
	return false
}

// validateFields checks an entry payload against the type's field definitions:
// required fields present, no unknown fields, scalar kinds type-checked
func (s *entryService) validateFields(ct *domain.ContentType, fields map[string]interface{}) error {
	defs, err := s.types.FieldDefinitions(ct)
	if err != nil {
		return err
	}

	byName := make(map[string]domain.FieldDefinition, len(defs))
	for _, def := range defs {
		byName[def.Name] = def
	}

	for name := range fields {
		if _, known := byName[name]; !known {
			return fmt.Errorf("%w: field %q is not defined on type %s", common.ErrInvalidInput, name, ct.Name)
		}
	}

	for _, def := range defs {
		value, present := fields[def.Name]
		if !present || value == nil {
			if def.Required {
				return fmt.Errorf("%w: required field %q is missing", common.ErrInvalidInput, def.Name)
			}
			continue
		}
		if err := checkFieldKind(def, value); err != nil {
			return err
		}
	}

	return nil
}

func checkFieldKind(def domain.FieldDefinition, value interface{}) error {
	switch def.Kind {
	case domain.FieldText, domain.FieldRichText:
		if _, ok := value.(string); !ok {
			return kindError(def, "string")
		}
	case domain.FieldNumber:
		if _, ok := asFloat(value); !ok {
			return kindError(def, "number")
		}
	case domain.FieldBoolean:
		if _, ok := value.(bool); !ok {
			return kindError(def, "boolean")
		}
	case domain.FieldDate:
		str, ok := value.(string)
		if !ok {
			return kindError(def, "date string")
		}
		if _, err := time.Parse("2006-01-02", str); err != nil {
			return fmt.Errorf("%w: field %q must be a YYYY-MM-DD date", common.ErrInvalidInput, def.Name)
		}
	case domain.FieldDateTime:
		str, ok := value.(string)
		if !ok {
			return kindError(def, "datetime string")
		}
		if _, err := time.Parse(time.RFC3339, str); err != nil {
			return fmt.Errorf("%w: field %q must be an RFC3339 timestamp", common.ErrInvalidInput, def.Name)
		}
	case domain.FieldSelect:
		str, ok := value.(string)
		if !ok {
			return kindError(def, "string")
		}
		for _, opt := range def.Options {
			if opt == str {
				return nil
			}
		}
		return fmt.Errorf("%w: field %q value %q is not an allowed option", common.ErrInvalidInput, def.Name, str)
	case domain.FieldMedia, domain.FieldRelation:
		str, ok := value.(string)
		if !ok {
			return kindError(def, "uuid string")
		}
		if _, err := uuid.Parse(str); err != nil {
			return fmt.Errorf("%w: field %q must be a UUID reference", common.ErrInvalidInput, def.Name)
		}
	case domain.FieldJSON:
		// any JSON value allowed
	}
	return nil
}

func kindError(def domain.FieldDefinition, want string) error {
	return fmt.Errorf("%w: field %q must be a %s", common.ErrInvalidInput, def.Name, want)
}

func (s *entryService) invalidateEntryCache(entry *domain.ContentEntry) {
	if s.cache == nil {
		return
	}
	ctx := context.Background()
	_ = s.cache.Delete(ctx, cache.PrefixEntry+entry.ID.String())
	_ = s.cache.DeletePattern(ctx, cache.PrefixEntryList+entry.ContentTypeID.String()+":*")
}

func (s *entryService) invalidateListCache(typeID uuid.UUID) {
	if s.cache == nil {
		return
	}
	_ = s.cache.DeletePattern(context.Background(), cache.PrefixEntryList+typeID.String()+":*")
}
