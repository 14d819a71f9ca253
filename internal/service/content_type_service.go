package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/PT-GSA/ai-cms-backend/internal/common"
	"github.com/PT-GSA/ai-cms-backend/internal/domain"
	"github.com/PT-GSA/ai-cms-backend/internal/repository"
)

var typeNamePattern = regexp.MustCompile(`^[a-z][a-z0-9_]{1,99}$`)

// ContentTypeService business logic for content type definitions
type ContentTypeService interface {
	Create(req *domain.CreateContentTypeRequest) (*domain.ContentType, error)
	Get(idOrName string) (*domain.ContentType, error)
	List(page, limit int) ([]*domain.ContentType, *common.Meta, error)
	Update(id uuid.UUID, req *domain.UpdateContentTypeRequest) (*domain.ContentType, error)
	Delete(id uuid.UUID) error
	FieldDefinitions(ct *domain.ContentType) ([]domain.FieldDefinition, error)
}

type contentTypeService struct {
	repo repository.ContentTypeRepository
}

// NewContentTypeService creates a new ContentTypeService
func NewContentTypeService(repo repository.ContentTypeRepository) ContentTypeService {
	return &contentTypeService{repo: repo}
}

func (s *contentTypeService) Create(req *domain.CreateContentTypeRequest) (*domain.ContentType, error) {
	if !typeNamePattern.MatchString(req.Name) {
		return nil, fmt.Errorf("%w: name must be lowercase snake_case", common.ErrInvalidInput)
	}
	if err := validateFieldDefinitions(req.Fields); err != nil {
		return nil, err
	}

	fieldsJSON, err := json.Marshal(req.Fields)
	if err != nil {
		return nil, err
	}

	ct := &domain.ContentType{
		Name:        req.Name,
		DisplayName: req.DisplayName,
		Description: req.Description,
		Icon:        req.Icon,
		Fields:      datatypes.JSON(fieldsJSON),
	}

	if err := s.repo.Create(ct); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, common.ErrConflict
		}
		return nil, err
	}

	return ct, nil
}

// Get resolves a content type by UUID or by machine name
func (s *contentTypeService) Get(idOrName string) (*domain.ContentType, error) {
	var ct *domain.ContentType
	var err error

	if id, parseErr := uuid.Parse(idOrName); parseErr == nil {
		ct, err = s.repo.FindByID(id)
	} else {
		ct, err = s.repo.FindByName(idOrName)
	}

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrContentTypeNotFound
		}
		return nil, err
	}
	return ct, nil
}

func (s *contentTypeService) List(page, limit int) ([]*domain.ContentType, *common.Meta, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	types, total, err := s.repo.List(page, limit)
	if err != nil {
		return nil, nil, err
	}

	return types, common.NewMeta(page, limit, total), nil
}

func (s *contentTypeService) Update(id uuid.UUID, req *domain.UpdateContentTypeRequest) (*domain.ContentType, error) {
	ct, err := s.repo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrContentTypeNotFound
		}
		return nil, err
	}

	if req.DisplayName != nil {
		ct.DisplayName = *req.DisplayName
	}
	if req.Description != nil {
		ct.Description = req.Description
	}
	if req.Icon != nil {
		ct.Icon = req.Icon
	}
	if req.Fields != nil {
		if err := validateFieldDefinitions(*req.Fields); err != nil {
			return nil, err
		}
		fieldsJSON, err := json.Marshal(*req.Fields)
		if err != nil {
			return nil, err
		}
		ct.Fields = datatypes.JSON(fieldsJSON)
	}

	if err := s.repo.Update(ct); err != nil {
		return nil, err
	}
	return ct, nil
}

func (s *contentTypeService) Delete(id uuid.UUID) error {
	err := s.repo.Delete(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return common.ErrContentTypeNotFound
	}
	return err
}

// FieldDefinitions decodes the stored field definitions of a type
func (s *contentTypeService) FieldDefinitions(ct *domain.ContentType) ([]domain.FieldDefinition, error) {
	var defs []domain.FieldDefinition
	if len(ct.Fields) == 0 {
		return defs, nil
	}
	if err := json.Unmarshal(ct.Fields, &defs); err != nil {
		return nil, fmt.Errorf("decode field definitions for type %s: %w", ct.Name, err)
	}
	return defs, nil
}

func validateFieldDefinitions(fields []domain.FieldDefinition) error {
	seen := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		if f.Name == "" {
			return fmt.Errorf("%w: field name is required", common.ErrInvalidInput)
		}
		if _, dup := seen[f.Name]; dup {
			return fmt.Errorf("%w: duplicate field name %q", common.ErrInvalidInput, f.Name)
		}
		seen[f.Name] = struct{}{}

		if !isKnownFieldKind(f.Kind) {
			return fmt.Errorf("%w: unknown field kind %q for field %q", common.ErrInvalidInput, f.Kind, f.Name)
		}
		if f.Kind == domain.FieldSelect && len(f.Options) == 0 {
			return fmt.Errorf("%w: select field %q requires options", common.ErrInvalidInput, f.Name)
		}
	}
	return nil
}

func isKnownFieldKind(kind string) bool {
	for _, k := range domain.KnownFieldKinds {
		if k == kind {
			return true
		}
	}
	return false
}
