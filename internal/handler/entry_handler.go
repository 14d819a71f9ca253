package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/PT-GSA/ai-cms-backend/internal/common"
	"github.com/PT-GSA/ai-cms-backend/internal/domain"
	"github.com/PT-GSA/ai-cms-backend/internal/middleware"
	"github.com/PT-GSA/ai-cms-backend/internal/service"
	"github.com/PT-GSA/ai-cms-backend/pkg/ginutil"
)

// EntryHandler handles HTTP requests for content entries
type EntryHandler struct {
	service service.EntryService
}

// NewEntryHandler creates a new EntryHandler
func NewEntryHandler(service service.EntryService) *EntryHandler {
	return &EntryHandler{service: service}
}

// ListEntries godoc
// @Summary      List entries of a content type
// @Description  Returns entries of one content type, optionally filtered by status
// @Tags         content-entries
// @Produce      json
// @Param        id      path   string  true   "Content type ID or name"
// @Param        status  query  string  false  "Filter by status (draft/published/archived)"
// @Param        page    query  int     false  "Page number"     default(1)
// @Param        limit   query  int     false  "Items per page"  default(20)
// @Success      200  {object}  common.APIResponse{data=[]domain.ContentEntry}
// @Failure      404  {object}  common.APIResponse
// @Router       /content-types/{id}/entries [get]
func (h *EntryHandler) ListEntries(c *gin.Context) {
	q := domain.EntryListQuery{
		Status: c.Query("status"),
		Page:   ginutil.QueryInt(c, "page", 1),
		Limit:  ginutil.QueryInt(c, "limit", 20),
	}

	data, meta, err := h.service.List(c.Param("id"), q)
	if errors.Is(err, common.ErrContentTypeNotFound) {
		common.ErrorResponse(c, http.StatusNotFound, "Content type not found", err)
		return
	}
	if errors.Is(err, common.ErrInvalidInput) {
		common.ErrorResponse(c, http.StatusBadRequest, err.Error(), err)
		return
	}
	if err != nil {
		common.ErrorResponse(c, http.StatusInternalServerError, "Failed to fetch entries", err)
		return
	}

	common.SuccessResponseWithMeta(c, data, meta)
}

// GetEntry godoc
// @Summary      Get an entry
// @Description  Fetches one content entry by ID
// @Tags         content-entries
// @Produce      json
// @Param        id  path  string  true  "Entry ID"
// @Success      200  {object}  common.APIResponse{data=domain.ContentEntry}
// @Failure      404  {object}  common.APIResponse
// @Router       /content-entries/{id} [get]
func (h *EntryHandler) GetEntry(c *gin.Context) {
	id, err := ginutil.ParamUUID(c, "id")
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid entry ID", err)
		return
	}

	data, err := h.service.Get(id)
	if errors.Is(err, common.ErrEntryNotFound) {
		common.ErrorResponse(c, http.StatusNotFound, "Entry not found", err)
		return
	}
	if err != nil {
		common.ErrorResponse(c, http.StatusInternalServerError, "Failed to fetch entry", err)
		return
	}

	common.SuccessResponse(c, data)
}

// GetEntryBySlug godoc
// @Summary      Get an entry by slug
// @Description  Fetches one entry of a content type by its slug
// @Tags         content-entries
// @Produce      json
// @Param        id    path  string  true  "Content type ID or name"
// @Param        slug  path  string  true  "Entry slug"
// @Success      200  {object}  common.APIResponse{data=domain.ContentEntry}
// @Failure      404  {object}  common.APIResponse
// @Router       /content-types/{id}/entries/slug/{slug} [get]
func (h *EntryHandler) GetEntryBySlug(c *gin.Context) {
	data, err := h.service.GetBySlug(c.Param("id"), c.Param("slug"))
	if errors.Is(err, common.ErrContentTypeNotFound) || errors.Is(err, common.ErrEntryNotFound) {
		common.ErrorResponse(c, http.StatusNotFound, "Entry not found", err)
		return
	}
	if err != nil {
		common.ErrorResponse(c, http.StatusInternalServerError, "Failed to fetch entry", err)
		return
	}

	common.SuccessResponse(c, data)
}

// CreateEntry godoc
// @Summary      Create an entry
// @Description  Creates a new entry under a content type (requires content:write)
// @Tags         content-entries
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path  string                     true  "Content type ID or name"
// @Param        request  body  domain.CreateEntryRequest  true  "Entry data"
// @Success      201  {object}  common.APIResponse{data=domain.ContentEntry}
// @Failure      400  {object}  common.APIResponse
// @Failure      409  {object}  common.APIResponse
// @Router       /content-types/{id}/entries [post]
func (h *EntryHandler) CreateEntry(c *gin.Context) {
	var req domain.CreateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	data, err := h.service.Create(c.Param("id"), &req, middleware.GetUserUUID(c))
	if errors.Is(err, common.ErrContentTypeNotFound) {
		common.ErrorResponse(c, http.StatusNotFound, "Content type not found", err)
		return
	}
	if errors.Is(err, common.ErrInvalidInput) {
		common.ErrorResponse(c, http.StatusBadRequest, err.Error(), err)
		return
	}
	if errors.Is(err, common.ErrSlugTaken) {
		common.ErrorResponse(c, http.StatusConflict, "Slug already in use", err)
		return
	}
	if err != nil {
		common.ErrorResponse(c, http.StatusInternalServerError, "Failed to create entry", err)
		return
	}

	common.CreatedResponse(c, data)
}

// UpdateEntry godoc
// @Summary      Update an entry
// @Description  Updates an entry's title, slug, status or fields (requires content:write)
// @Tags         content-entries
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path  string                     true  "Entry ID"
// @Param        request  body  domain.UpdateEntryRequest  true  "Fields to update"
// @Success      200  {object}  common.APIResponse{data=domain.ContentEntry}
// @Failure      400  {object}  common.APIResponse
// @Failure      404  {object}  common.APIResponse
// @Failure      409  {object}  common.APIResponse
// @Router       /content-entries/{id} [put]
func (h *EntryHandler) UpdateEntry(c *gin.Context) {
	id, err := ginutil.ParamUUID(c, "id")
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid entry ID", err)
		return
	}

	var req domain.UpdateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	data, err := h.service.Update(id, &req)
	if errors.Is(err, common.ErrEntryNotFound) {
		common.ErrorResponse(c, http.StatusNotFound, "Entry not found", err)
		return
	}
	if errors.Is(err, common.ErrInvalidInput) {
		common.ErrorResponse(c, http.StatusBadRequest, err.Error(), err)
		return
	}
	if errors.Is(err, common.ErrSlugTaken) {
		common.ErrorResponse(c, http.StatusConflict, "Slug already in use", err)
		return
	}
	if err != nil {
		common.ErrorResponse(c, http.StatusInternalServerError, "Failed to update entry", err)
		return
	}

	common.SuccessResponse(c, data)
}

// SetEntryStatus godoc
// @Summary      Change entry status
// @Description  Publishes, archives or reverts an entry to draft (requires content:write)
// @Tags         content-entries
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path  string                 true  "Entry ID"
// @Param        request  body  object{status=string}  true  "New status"
// @Success      200  {object}  common.APIResponse{data=domain.ContentEntry}
// @Failure      400  {object}  common.APIResponse
// @Failure      404  {object}  common.APIResponse
// @Router       /content-entries/{id}/status [patch]
func (h *EntryHandler) SetEntryStatus(c *gin.Context) {
	id, err := ginutil.ParamUUID(c, "id")
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid entry ID", err)
		return
	}

	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	data, err := h.service.SetStatus(id, req.Status)
	if errors.Is(err, common.ErrEntryNotFound) {
		common.ErrorResponse(c, http.StatusNotFound, "Entry not found", err)
		return
	}
	if errors.Is(err, common.ErrInvalidInput) {
		common.ErrorResponse(c, http.StatusBadRequest, err.Error(), err)
		return
	}
	if err != nil {
		common.ErrorResponse(c, http.StatusInternalServerError, "Failed to update entry status", err)
		return
	}

	common.SuccessResponse(c, data)
}

// DeleteEntry godoc
// @Summary      Delete an entry
// @Description  Removes an entry, its versions and its relations (requires content:write)
// @Tags         content-entries
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "Entry ID"
// @Success      200  {object}  common.APIResponse
// @Failure      404  {object}  common.APIResponse
// @Router       /content-entries/{id} [delete]
func (h *EntryHandler) DeleteEntry(c *gin.Context) {
	id, err := ginutil.ParamUUID(c, "id")
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid entry ID", err)
		return
	}

	if err := h.service.Delete(id); err != nil {
		if errors.Is(err, common.ErrEntryNotFound) {
			common.ErrorResponse(c, http.StatusNotFound, "Entry not found", err)
			return
		}
		common.ErrorResponse(c, http.StatusInternalServerError, "Failed to delete entry", err)
		return
	}

	common.SuccessResponse(c, gin.H{"deleted": true})
}
