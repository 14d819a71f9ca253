package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/PT-GSA/ai-cms-backend/internal/common"
	"github.com/PT-GSA/ai-cms-backend/internal/domain"
)

// stubVersionService returns a fixed error from every mutation
type stubVersionService struct {
	err error
}

func (s *stubVersionService) ListVersions(entryID uuid.UUID, page, limit int) ([]*domain.VersionResponse, *common.Meta, error) {
	return nil, nil, s.err
}

func (s *stubVersionService) CreateCheckpoint(entryID uuid.UUID, comment string, createdBy *uuid.UUID) (*domain.ContentEntryVersion, error) {
	return nil, s.err
}

func (s *stubVersionService) GetVersion(entryID uuid.UUID, number int, compareWith string) (*domain.VersionDetailResponse, error) {
	return nil, s.err
}

func (s *stubVersionService) Rollback(entryID uuid.UUID, targetNumber int, createBackup bool, comment string, actor *uuid.UUID) (*domain.ContentEntry, error) {
	return nil, s.err
}

func (s *stubVersionService) DeleteVersion(entryID uuid.UUID, number int) error {
	return s.err
}

func versionRouter(err error) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewVersionHandler(&stubVersionService{err: err})
	r := gin.New()
	r.POST("/api/v1/content-entries/:id/versions", h.CreateCheckpoint)
	r.POST("/api/v1/content-entries/:id/versions/:versionId", h.Rollback)
	return r
}

func TestCreateCheckpoint_VersionNumberConflict(t *testing.T) {
	r := versionRouter(common.ErrConflict)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/v1/content-entries/"+uuid.NewString()+"/versions", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusConflict {
		t.Errorf("expected 409, got %d", w.Code)
	}
}

func TestRollback_VersionNumberConflict(t *testing.T) {
	r := versionRouter(common.ErrConflict)

	w := httptest.NewRecorder()
	body := strings.NewReader(`{"create_backup": false}`)
	req, _ := http.NewRequest("POST", "/api/v1/content-entries/"+uuid.NewString()+"/versions/2", body)
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusConflict {
		t.Errorf("expected 409, got %d", w.Code)
	}
}

func TestRollback_VersionNotFound(t *testing.T) {
	r := versionRouter(common.ErrVersionNotFound)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/v1/content-entries/"+uuid.NewString()+"/versions/9", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}
