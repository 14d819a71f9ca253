package service

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	"github.com/PT-GSA/ai-cms-backend/internal/common"
	"github.com/PT-GSA/ai-cms-backend/internal/domain"
)

func newRelationServiceWithMocks() (RelationService, *mockRelationRepo, *mockEntryRepo, *mockContentTypeRepo) {
	relations := new(mockRelationRepo)
	entries := new(mockEntryRepo)
	types := new(mockContentTypeRepo)
	return NewRelationService(relations, entries, types), relations, entries, types
}

func TestCreateRelationDefinition_Success(t *testing.T) {
	svc, relations, _, types := newRelationServiceWithMocks()

	sourceType := uuid.New()
	targetType := uuid.New()
	types.On("FindByID", sourceType).Return(&domain.ContentType{ID: sourceType}, nil)
	types.On("FindByID", targetType).Return(&domain.ContentType{ID: targetType}, nil)
	relations.On("CreateDefinition", mock.AnythingOfType("*domain.RelationDefinition")).Return(nil)

	def, err := svc.CreateDefinition(&domain.CreateRelationDefinitionRequest{
		Name:         "article_author",
		SourceTypeID: sourceType.String(),
		TargetTypeID: targetType.String(),
		Kind:         domain.RelationOneToMany,
	})

	assert.NoError(t, err)
	assert.Equal(t, sourceType, def.SourceTypeID)
	assert.Equal(t, domain.RelationOneToMany, def.Kind)
	relations.AssertExpectations(t)
}

func TestCreateRelationDefinition_UnknownKind(t *testing.T) {
	svc, relations, _, _ := newRelationServiceWithMocks()

	_, err := svc.CreateDefinition(&domain.CreateRelationDefinitionRequest{
		Name:         "bad",
		SourceTypeID: uuid.New().String(),
		TargetTypeID: uuid.New().String(),
		Kind:         "friends-with",
	})

	assert.ErrorIs(t, err, common.ErrInvalidInput)
	relations.AssertNotCalled(t, "CreateDefinition", mock.Anything)
}

func TestCreateRelationDefinition_MissingType(t *testing.T) {
	svc, _, _, types := newRelationServiceWithMocks()

	sourceType := uuid.New()
	types.On("FindByID", sourceType).Return(nil, gorm.ErrRecordNotFound)

	_, err := svc.CreateDefinition(&domain.CreateRelationDefinitionRequest{
		Name:         "orphan",
		SourceTypeID: sourceType.String(),
		TargetTypeID: uuid.New().String(),
		Kind:         domain.RelationOneToOne,
	})

	assert.ErrorIs(t, err, common.ErrContentTypeNotFound)
}

func TestGetRelationDefinition_ByName(t *testing.T) {
	svc, relations, _, _ := newRelationServiceWithMocks()

	relations.On("FindDefinitionByName", "article_author").
		Return(&domain.RelationDefinition{Name: "article_author"}, nil)

	def, err := svc.GetDefinition("article_author")

	assert.NoError(t, err)
	assert.Equal(t, "article_author", def.Name)
	relations.AssertNotCalled(t, "FindDefinitionByID", mock.Anything)
}

func TestSetRelations_Success(t *testing.T) {
	svc, relations, entries, _ := newRelationServiceWithMocks()

	sourceType := uuid.New()
	targetType := uuid.New()
	defID := uuid.New()
	def := &domain.RelationDefinition{
		ID:           defID,
		SourceTypeID: sourceType,
		TargetTypeID: targetType,
		Kind:         domain.RelationManyToMany,
	}
	relations.On("FindDefinitionByID", defID).Return(def, nil)

	source := uuid.New()
	entries.On("FindByID", source).Return(&domain.ContentEntry{ID: source, ContentTypeID: sourceType}, nil)

	targetA := uuid.New()
	targetB := uuid.New()
	for _, id := range []uuid.UUID{targetA, targetB} {
		entries.On("FindByID", id).Return(&domain.ContentEntry{ID: id, ContentTypeID: targetType}, nil)
	}

	// Duplicate target collapses, first occurrence keeps its position
	relations.On("ReplaceRelations", defID, source, []uuid.UUID{targetA, targetB}).Return(nil)

	err := svc.SetRelations(defID, source, []string{targetA.String(), targetB.String(), targetA.String()})

	assert.NoError(t, err)
	relations.AssertExpectations(t)
}

func TestSetRelations_OneToOneSingleTarget(t *testing.T) {
	svc, relations, entries, _ := newRelationServiceWithMocks()

	sourceType := uuid.New()
	defID := uuid.New()
	relations.On("FindDefinitionByID", defID).Return(&domain.RelationDefinition{
		ID:           defID,
		SourceTypeID: sourceType,
		TargetTypeID: uuid.New(),
		Kind:         domain.RelationOneToOne,
	}, nil)

	source := uuid.New()
	entries.On("FindByID", source).Return(&domain.ContentEntry{ID: source, ContentTypeID: sourceType}, nil)

	err := svc.SetRelations(defID, source, []string{uuid.New().String(), uuid.New().String()})

	assert.ErrorIs(t, err, common.ErrInvalidInput)
	relations.AssertNotCalled(t, "ReplaceRelations", mock.Anything, mock.Anything, mock.Anything)
}

func TestSetRelations_SourceTypeMismatch(t *testing.T) {
	svc, relations, entries, _ := newRelationServiceWithMocks()

	defID := uuid.New()
	relations.On("FindDefinitionByID", defID).Return(&domain.RelationDefinition{
		ID:           defID,
		SourceTypeID: uuid.New(),
		TargetTypeID: uuid.New(),
		Kind:         domain.RelationOneToMany,
	}, nil)

	source := uuid.New()
	entries.On("FindByID", source).Return(&domain.ContentEntry{ID: source, ContentTypeID: uuid.New()}, nil)

	err := svc.SetRelations(defID, source, nil)

	assert.ErrorIs(t, err, common.ErrInvalidInput)
}

func TestSetRelations_TargetTypeMismatch(t *testing.T) {
	svc, relations, entries, _ := newRelationServiceWithMocks()

	sourceType := uuid.New()
	targetType := uuid.New()
	defID := uuid.New()
	relations.On("FindDefinitionByID", defID).Return(&domain.RelationDefinition{
		ID:           defID,
		SourceTypeID: sourceType,
		TargetTypeID: targetType,
		Kind:         domain.RelationOneToMany,
	}, nil)

	source := uuid.New()
	entries.On("FindByID", source).Return(&domain.ContentEntry{ID: source, ContentTypeID: sourceType}, nil)

	stray := uuid.New()
	entries.On("FindByID", stray).Return(&domain.ContentEntry{ID: stray, ContentTypeID: uuid.New()}, nil)

	err := svc.SetRelations(defID, source, []string{stray.String()})

	assert.ErrorIs(t, err, common.ErrInvalidInput)
}

func TestListTargets_SkipsDeletedEntries(t *testing.T) {
	svc, relations, entries, _ := newRelationServiceWithMocks()

	defID := uuid.New()
	relations.On("FindDefinitionByID", defID).Return(&domain.RelationDefinition{ID: defID}, nil)

	source := uuid.New()
	alive := uuid.New()
	gone := uuid.New()
	relations.On("ListTargets", defID, source).Return([]*domain.EntryRelation{
		{DefinitionID: defID, SourceEntryID: source, TargetEntryID: alive, SortOrder: 0},
		{DefinitionID: defID, SourceEntryID: source, TargetEntryID: gone, SortOrder: 1},
	}, nil)
	entries.On("FindByID", alive).Return(&domain.ContentEntry{ID: alive}, nil)
	entries.On("FindByID", gone).Return(nil, gorm.ErrRecordNotFound)

	result, err := svc.ListTargets(defID, source)

	assert.NoError(t, err)
	assert.Len(t, result, 1)
	assert.Equal(t, alive, result[0].ID)
}

func TestDeleteRelationDefinition_NotFound(t *testing.T) {
	svc, relations, _, _ := newRelationServiceWithMocks()

	id := uuid.New()
	relations.On("DeleteDefinition", id).Return(gorm.ErrRecordNotFound)

	err := svc.DeleteDefinition(id)

	assert.ErrorIs(t, err, common.ErrRelationNotFound)
}
