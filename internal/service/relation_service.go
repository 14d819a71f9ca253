package service

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/PT-GSA/ai-cms-backend/internal/common"
	"github.com/PT-GSA/ai-cms-backend/internal/domain"
	"github.com/PT-GSA/ai-cms-backend/internal/repository"
)

// RelationService manages relation definitions and per-entry links
type RelationService interface {
	CreateDefinition(req *domain.CreateRelationDefinitionRequest) (*domain.RelationDefinition, error)
	GetDefinition(idOrName string) (*domain.RelationDefinition, error)
	ListDefinitions() ([]*domain.RelationDefinition, error)
	DeleteDefinition(id uuid.UUID) error
	SetRelations(definitionID, sourceEntryID uuid.UUID, targetIDs []string) error
	ListTargets(definitionID, sourceEntryID uuid.UUID) ([]*domain.ContentEntry, error)
	ListSources(definitionID, targetEntryID uuid.UUID) ([]*domain.ContentEntry, error)
}

type relationService struct {
	relations repository.RelationRepository
	entries   repository.EntryRepository
	types     repository.ContentTypeRepository
}

// NewRelationService creates a new RelationService
func NewRelationService(relations repository.RelationRepository, entries repository.EntryRepository, types repository.ContentTypeRepository) RelationService {
	return &relationService{relations: relations, entries: entries, types: types}
}

func (s *relationService) CreateDefinition(req *domain.CreateRelationDefinitionRequest) (*domain.RelationDefinition, error) {
	switch req.Kind {
	case domain.RelationOneToOne, domain.RelationOneToMany, domain.RelationManyToMany:
	default:
		return nil, fmt.Errorf("%w: unknown relation kind: %s", common.ErrInvalidInput, req.Kind)
	}

	sourceID, err := uuid.Parse(req.SourceTypeID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid source type id", common.ErrInvalidInput)
	}
	targetID, err := uuid.Parse(req.TargetTypeID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid target type id", common.ErrInvalidInput)
	}

	for _, id := range []uuid.UUID{sourceID, targetID} {
		if _, err := s.types.FindByID(id); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, common.ErrContentTypeNotFound
			}
			return nil, err
		}
	}

	def := &domain.RelationDefinition{
		Name:          req.Name,
		SourceTypeID:  sourceID,
		TargetTypeID:  targetID,
		Kind:          req.Kind,
		CascadeDelete: req.CascadeDelete,
	}
	if err := s.relations.CreateDefinition(def); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: relation %q already exists", common.ErrConflict, req.Name)
		}
		return nil, err
	}
	return def, nil
}

// GetDefinition accepts either a definition UUID or its unique name
func (s *relationService) GetDefinition(idOrName string) (*domain.RelationDefinition, error) {
	var (
		def *domain.RelationDefinition
		err error
	)
	if id, parseErr := uuid.Parse(idOrName); parseErr == nil {
		def, err = s.relations.FindDefinitionByID(id)
	} else {
		def, err = s.relations.FindDefinitionByName(idOrName)
	}
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrRelationNotFound
		}
		return nil, err
	}
	return def, nil
}

func (s *relationService) ListDefinitions() ([]*domain.RelationDefinition, error) {
	return s.relations.ListDefinitions()
}

func (s *relationService) DeleteDefinition(id uuid.UUID) error {
	err := s.relations.DeleteDefinition(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return common.ErrRelationNotFound
	}
	return err
}

// SetRelations replaces the full target set for one source entry under one
// definition. Order of targetIDs becomes the stored sort order.
func (s *relationService) SetRelations(definitionID, sourceEntryID uuid.UUID, targetIDs []string) error {
	def, err := s.findDefinition(definitionID)
	if err != nil {
		return err
	}

	source, err := s.entries.FindByID(sourceEntryID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return common.ErrEntryNotFound
		}
		return err
	}
	if source.ContentTypeID != def.SourceTypeID {
		return fmt.Errorf("%w: entry type does not match relation source type", common.ErrInvalidInput)
	}

	if def.Kind == domain.RelationOneToOne && len(targetIDs) > 1 {
		return fmt.Errorf("%w: one-to-one relation accepts a single target", common.ErrInvalidInput)
	}

	seen := make(map[uuid.UUID]bool, len(targetIDs))
	targets := make([]uuid.UUID, 0, len(targetIDs))
	for _, raw := range targetIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			return fmt.Errorf("%w: invalid target entry id: %s", common.ErrInvalidInput, raw)
		}
		if seen[id] {
			continue
		}
		seen[id] = true

		target, err := s.entries.FindByID(id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: target entry %s", common.ErrEntryNotFound, id)
			}
			return err
		}
		if target.ContentTypeID != def.TargetTypeID {
			return fmt.Errorf("%w: entry %s does not match relation target type", common.ErrInvalidInput, id)
		}
		targets = append(targets, id)
	}

	return s.relations.ReplaceRelations(definitionID, sourceEntryID, targets)
}

func (s *relationService) ListTargets(definitionID, sourceEntryID uuid.UUID) ([]*domain.ContentEntry, error) {
	if _, err := s.findDefinition(definitionID); err != nil {
		return nil, err
	}
	rels, err := s.relations.ListTargets(definitionID, sourceEntryID)
	if err != nil {
		return nil, err
	}
	return s.resolveEntries(rels, func(rel *domain.EntryRelation) uuid.UUID { return rel.TargetEntryID })
}

func (s *relationService) ListSources(definitionID, targetEntryID uuid.UUID) ([]*domain.ContentEntry, error) {
	if _, err := s.findDefinition(definitionID); err != nil {
		return nil, err
	}
	rels, err := s.relations.ListSources(definitionID, targetEntryID)
	if err != nil {
		return nil, err
	}
	return s.resolveEntries(rels, func(rel *domain.EntryRelation) uuid.UUID { return rel.SourceEntryID })
}

func (s *relationService) findDefinition(id uuid.UUID) (*domain.RelationDefinition, error) {
	def, err := s.relations.FindDefinitionByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrRelationNotFound
		}
		return nil, err
	}
	return def, nil
}

// resolveEntries loads the entries behind a relation list, preserving sort order.
// Entries deleted since the relation was written are silently skipped.
func (s *relationService) resolveEntries(rels []*domain.EntryRelation, pick func(*domain.EntryRelation) uuid.UUID) ([]*domain.ContentEntry, error) {
	entries := make([]*domain.ContentEntry, 0, len(rels))
	for _, rel := range rels {
		entry, err := s.entries.FindByID(pick(rel))
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue
			}
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}
