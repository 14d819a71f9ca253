package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/PT-GSA/ai-cms-backend/internal/common"
	"github.com/PT-GSA/ai-cms-backend/internal/domain"
	"github.com/PT-GSA/ai-cms-backend/internal/middleware"
	"github.com/PT-GSA/ai-cms-backend/internal/service"
	"github.com/PT-GSA/ai-cms-backend/pkg/ginutil"
)

// VersionHandler handles HTTP requests for entry version history
type VersionHandler struct {
	service service.VersionService
}

// NewVersionHandler creates a new VersionHandler
func NewVersionHandler(service service.VersionService) *VersionHandler {
	return &VersionHandler{service: service}
}

// ListVersions godoc
// @Summary      List entry versions
// @Description  Returns version history for an entry, newest first
// @Tags         versions
// @Produce      json
// @Security     BearerAuth
// @Param        id     path   string  true   "Entry ID"
// @Param        page   query  int     false  "Page number"     default(1)
// @Param        limit  query  int     false  "Items per page"  default(20)
// @Success      200  {object}  common.APIResponse{data=[]domain.VersionResponse}
// @Failure      404  {object}  common.APIResponse
// @Router       /content-entries/{id}/versions [get]
func (h *VersionHandler) ListVersions(c *gin.Context) {
	entryID, err := ginutil.ParamUUID(c, "id")
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid entry ID", err)
		return
	}

	page := ginutil.QueryInt(c, "page", 1)
	limit := ginutil.QueryInt(c, "limit", 20)

	data, meta, err := h.service.ListVersions(entryID, page, limit)
	if errors.Is(err, common.ErrEntryNotFound) {
		common.ErrorResponse(c, http.StatusNotFound, "Entry not found", err)
		return
	}
	if err != nil {
		common.ErrorResponse(c, http.StatusInternalServerError, "Failed to fetch versions", err)
		return
	}

	common.SuccessResponseWithMeta(c, data, meta)
}

// CreateCheckpoint godoc
// @Summary      Create a version checkpoint
// @Description  Snapshots the entry's current state as a new version (requires content:write)
// @Tags         versions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path  string                       true   "Entry ID"
// @Param        request  body  domain.CreateVersionRequest  false  "Optional comment"
// @Success      201  {object}  common.APIResponse{data=domain.ContentEntryVersion}
// @Failure      404  {object}  common.APIResponse
// @Failure      409  {object}  common.APIResponse
// @Router       /content-entries/{id}/versions [post]
func (h *VersionHandler) CreateCheckpoint(c *gin.Context) {
	entryID, err := ginutil.ParamUUID(c, "id")
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid entry ID", err)
		return
	}

	var req domain.CreateVersionRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			common.ErrorResponse(c, http.StatusBadRequest, "Invalid request body", err)
			return
		}
	}

	data, err := h.service.CreateCheckpoint(entryID, req.Comment, middleware.GetUserUUID(c))
	if errors.Is(err, common.ErrEntryNotFound) {
		common.ErrorResponse(c, http.StatusNotFound, "Entry not found", err)
		return
	}
	if errors.Is(err, common.ErrConflict) {
		common.ErrorResponse(c, http.StatusConflict, "Version number conflict, please retry", err)
		return
	}
	if err != nil {
		common.ErrorResponse(c, http.StatusInternalServerError, "Failed to create version", err)
		return
	}

	middleware.CountVersionCheckpoint("manual")
	common.CreatedResponse(c, data)
}

// GetVersion godoc
// @Summary      Get a version with diff
// @Description  Fetches one version and its field-level diff against the live entry or another version
// @Tags         versions
// @Produce      json
// @Security     BearerAuth
// @Param        id            path   string  true   "Entry ID"
// @Param        versionId     path   int     true   "Version number"
// @Param        compare_with  query  string  false  "Version number to diff against, or 'current' (default)"
// @Success      200  {object}  common.APIResponse{data=domain.VersionDetailResponse}
// @Failure      404  {object}  common.APIResponse
// @Router       /content-entries/{id}/versions/{versionId} [get]
func (h *VersionHandler) GetVersion(c *gin.Context) {
	entryID, number, ok := h.versionParams(c)
	if !ok {
		return
	}

	compareWith := c.DefaultQuery("compare_with", service.CompareWithCurrent)

	data, err := h.service.GetVersion(entryID, number, compareWith)
	if errors.Is(err, common.ErrEntryNotFound) || errors.Is(err, common.ErrVersionNotFound) {
		common.ErrorResponse(c, http.StatusNotFound, "Version not found", err)
		return
	}
	if errors.Is(err, common.ErrInvalidInput) {
		common.ErrorResponse(c, http.StatusBadRequest, err.Error(), err)
		return
	}
	if err != nil {
		common.ErrorResponse(c, http.StatusInternalServerError, "Failed to fetch version", err)
		return
	}

	common.SuccessResponse(c, data)
}

// Rollback godoc
// @Summary      Roll back to a version
// @Description  Restores the entry to a version's snapshot. Creates a backup of the current state first unless disabled, then logs the rollback itself as a new version. (requires content:write)
// @Tags         versions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id         path  string                  true   "Entry ID"
// @Param        versionId  path  int                     true   "Version number to restore"
// @Param        request    body  domain.RollbackRequest  false  "Rollback options"
// @Success      200  {object}  common.APIResponse{data=domain.ContentEntry}
// @Failure      404  {object}  common.APIResponse
// @Failure      409  {object}  common.APIResponse
// @Router       /content-entries/{id}/versions/{versionId} [post]
func (h *VersionHandler) Rollback(c *gin.Context) {
	entryID, number, ok := h.versionParams(c)
	if !ok {
		return
	}

	var req domain.RollbackRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			common.ErrorResponse(c, http.StatusBadRequest, "Invalid request body", err)
			return
		}
	}

	createBackup := true
	if req.CreateBackup != nil {
		createBackup = *req.CreateBackup
	}

	data, err := h.service.Rollback(entryID, number, createBackup, req.Comment, middleware.GetUserUUID(c))
	if errors.Is(err, common.ErrEntryNotFound) || errors.Is(err, common.ErrVersionNotFound) {
		common.ErrorResponse(c, http.StatusNotFound, "Version not found", err)
		return
	}
	if errors.Is(err, common.ErrConflict) {
		common.ErrorResponse(c, http.StatusConflict, "Version number conflict, please retry", err)
		return
	}
	if err != nil {
		common.ErrorResponse(c, http.StatusInternalServerError, "Failed to roll back", err)
		return
	}

	middleware.CountRollback()
	common.SuccessResponse(c, data)
}

// DeleteVersion godoc
// @Summary      Delete a version
// @Description  Removes one version from history. The initial version and the three most recent versions cannot be deleted. (requires content:write)
// @Tags         versions
// @Produce      json
// @Security     BearerAuth
// @Param        id         path  string  true  "Entry ID"
// @Param        versionId  path  int     true  "Version number"
// @Success      200  {object}  common.APIResponse
// @Failure      403  {object}  common.APIResponse
// @Failure      404  {object}  common.APIResponse
// @Router       /content-entries/{id}/versions/{versionId} [delete]
func (h *VersionHandler) DeleteVersion(c *gin.Context) {
	entryID, number, ok := h.versionParams(c)
	if !ok {
		return
	}

	if err := h.service.DeleteVersion(entryID, number); err != nil {
		if errors.Is(err, common.ErrVersionNotFound) {
			common.ErrorResponse(c, http.StatusNotFound, "Version not found", err)
			return
		}
		if errors.Is(err, common.ErrVersionProtected) {
			common.ErrorResponse(c, http.StatusForbidden, "This version cannot be deleted", err)
			return
		}
		common.ErrorResponse(c, http.StatusInternalServerError, "Failed to delete version", err)
		return
	}

	common.SuccessResponse(c, gin.H{"deleted": true})
}

func (h *VersionHandler) versionParams(c *gin.Context) (entryID uuid.UUID, number int, ok bool) {
	id, err := ginutil.ParamUUID(c, "id")
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid entry ID", err)
		return id, 0, false
	}

	number, err = strconv.Atoi(c.Param("versionId"))
	if err != nil || number < 1 {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid version number", err)
		return id, 0, false
	}

	return id, number, true
}
