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

// --- Mock ContentTypeRepository ---

type mockContentTypeRepo struct {
	mock.Mock
}

func (m *mockContentTypeRepo) Create(ct *domain.ContentType) error {
	return m.Called(ct).Error(0)
}

func (m *mockContentTypeRepo) FindByID(id uuid.UUID) (*domain.ContentType, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ContentType), args.Error(1)
}

func (m *mockContentTypeRepo) FindByName(name string) (*domain.ContentType, error) {
	args := m.Called(name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ContentType), args.Error(1)
}

func (m *mockContentTypeRepo) List(page, limit int) ([]*domain.ContentType, int64, error) {
	args := m.Called(page, limit)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]*domain.ContentType), args.Get(1).(int64), args.Error(2)
}

func (m *mockContentTypeRepo) Update(ct *domain.ContentType) error {
	return m.Called(ct).Error(0)
}

func (m *mockContentTypeRepo) Delete(id uuid.UUID) error {
	return m.Called(id).Error(0)
}

// --- Tests ---

func validCreateTypeRequest() *domain.CreateContentTypeRequest {
	return &domain.CreateContentTypeRequest{
		Name:        "blog_post",
		DisplayName: "Blog Post",
		Fields: []domain.FieldDefinition{
			{Name: "body", Kind: domain.FieldRichText, Required: true},
			{Name: "category", Kind: domain.FieldSelect, Options: []string{"news", "opinion"}},
		},
	}
}

func TestCreateContentType_Success(t *testing.T) {
	repo := new(mockContentTypeRepo)
	svc := NewContentTypeService(repo)

	repo.On("Create", mock.AnythingOfType("*domain.ContentType")).Return(nil)

	ct, err := svc.Create(validCreateTypeRequest())

	assert.NoError(t, err)
	assert.Equal(t, "blog_post", ct.Name)
	assert.NotEmpty(t, ct.Fields)
	repo.AssertExpectations(t)
}

func TestCreateContentType_InvalidName(t *testing.T) {
	repo := new(mockContentTypeRepo)
	svc := NewContentTypeService(repo)

	for _, name := range []string{"BlogPost", "1post", "blog-post", "a", ""} {
		req := validCreateTypeRequest()
		req.Name = name

		_, err := svc.Create(req)

		assert.ErrorIs(t, err, common.ErrInvalidInput, "name %q should be rejected", name)
	}
	repo.AssertNotCalled(t, "Create", mock.Anything)
}

func TestCreateContentType_DuplicateFieldName(t *testing.T) {
	repo := new(mockContentTypeRepo)
	svc := NewContentTypeService(repo)

	req := validCreateTypeRequest()
	req.Fields = append(req.Fields, domain.FieldDefinition{Name: "body", Kind: domain.FieldText})

	_, err := svc.Create(req)

	assert.ErrorIs(t, err, common.ErrInvalidInput)
}

func TestCreateContentType_UnknownFieldKind(t *testing.T) {
	repo := new(mockContentTypeRepo)
	svc := NewContentTypeService(repo)

	req := validCreateTypeRequest()
	req.Fields[0].Kind = "hologram"

	_, err := svc.Create(req)

	assert.ErrorIs(t, err, common.ErrInvalidInput)
}

func TestCreateContentType_SelectRequiresOptions(t *testing.T) {
	repo := new(mockContentTypeRepo)
	svc := NewContentTypeService(repo)

	req := validCreateTypeRequest()
	req.Fields[1].Options = nil

	_, err := svc.Create(req)

	assert.ErrorIs(t, err, common.ErrInvalidInput)
}

func TestCreateContentType_NameConflict(t *testing.T) {
	repo := new(mockContentTypeRepo)
	svc := NewContentTypeService(repo)

	repo.On("Create", mock.AnythingOfType("*domain.ContentType")).Return(gorm.ErrDuplicatedKey)

	_, err := svc.Create(validCreateTypeRequest())

	assert.ErrorIs(t, err, common.ErrConflict)
}

func TestGetContentType_ByID(t *testing.T) {
	repo := new(mockContentTypeRepo)
	svc := NewContentTypeService(repo)

	id := uuid.New()
	repo.On("FindByID", id).Return(&domain.ContentType{ID: id, Name: "blog_post"}, nil)

	ct, err := svc.Get(id.String())

	assert.NoError(t, err)
	assert.Equal(t, "blog_post", ct.Name)
	repo.AssertNotCalled(t, "FindByName", mock.Anything)
}

func TestGetContentType_ByName(t *testing.T) {
	repo := new(mockContentTypeRepo)
	svc := NewContentTypeService(repo)

	repo.On("FindByName", "blog_post").Return(&domain.ContentType{Name: "blog_post"}, nil)

	ct, err := svc.Get("blog_post")

	assert.NoError(t, err)
	assert.Equal(t, "blog_post", ct.Name)
	repo.AssertNotCalled(t, "FindByID", mock.Anything)
}

func TestGetContentType_NotFound(t *testing.T) {
	repo := new(mockContentTypeRepo)
	svc := NewContentTypeService(repo)

	repo.On("FindByName", "missing").Return(nil, gorm.ErrRecordNotFound)

	_, err := svc.Get("missing")

	assert.ErrorIs(t, err, common.ErrContentTypeNotFound)
}

func TestUpdateContentType_PartialUpdate(t *testing.T) {
	repo := new(mockContentTypeRepo)
	svc := NewContentTypeService(repo)

	id := uuid.New()
	existing := &domain.ContentType{ID: id, Name: "blog_post", DisplayName: "Blog Post"}
	repo.On("FindByID", id).Return(existing, nil)
	repo.On("Update", mock.AnythingOfType("*domain.ContentType")).Return(nil)

	newName := "Article"
	ct, err := svc.Update(id, &domain.UpdateContentTypeRequest{DisplayName: &newName})

	assert.NoError(t, err)
	assert.Equal(t, "Article", ct.DisplayName)
	assert.Equal(t, "blog_post", ct.Name)
	repo.AssertExpectations(t)
}

func TestUpdateContentType_InvalidFields(t *testing.T) {
	repo := new(mockContentTypeRepo)
	svc := NewContentTypeService(repo)

	id := uuid.New()
	repo.On("FindByID", id).Return(&domain.ContentType{ID: id}, nil)

	badFields := []domain.FieldDefinition{{Name: "", Kind: domain.FieldText}}
	_, err := svc.Update(id, &domain.UpdateContentTypeRequest{Fields: &badFields})

	assert.ErrorIs(t, err, common.ErrInvalidInput)
	repo.AssertNotCalled(t, "Update", mock.Anything)
}

func TestDeleteContentType_NotFound(t *testing.T) {
	repo := new(mockContentTypeRepo)
	svc := NewContentTypeService(repo)

	id := uuid.New()
	repo.On("Delete", id).Return(gorm.ErrRecordNotFound)

	err := svc.Delete(id)

	assert.ErrorIs(t, err, common.ErrContentTypeNotFound)
}

func TestListContentTypes_ClampsPagination(t *testing.T) {
	repo := new(mockContentTypeRepo)
	svc := NewContentTypeService(repo)

	repo.On("List", 1, 20).Return([]*domain.ContentType{}, int64(0), nil)

	_, meta, err := svc.List(-3, 1000)

	assert.NoError(t, err)
	assert.Equal(t, 1, meta.Page)
	assert.Equal(t, 20, meta.PerPage)
	repo.AssertExpectations(t)
}
