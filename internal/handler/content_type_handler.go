package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/PT-GSA/ai-cms-backend/internal/common"
	"github.com/PT-GSA/ai-cms-backend/internal/domain"
	"github.com/PT-GSA/ai-cms-backend/internal/service"
	"github.com/PT-GSA/ai-cms-backend/pkg/ginutil"
)

// ContentTypeHandler handles HTTP requests for content type definitions
type ContentTypeHandler struct {
	service service.ContentTypeService
}

// NewContentTypeHandler creates a new ContentTypeHandler
func NewContentTypeHandler(service service.ContentTypeService) *ContentTypeHandler {
	return &ContentTypeHandler{service: service}
}

// ListContentTypes godoc
// @Summary      List content types
// @Description  Returns all content type definitions, paginated
// @Tags         content-types
// @Produce      json
// @Param        page   query  int  false  "Page number"       default(1)
// @Param        limit  query  int  false  "Items per page"    default(20)
// @Success      200  {object}  common.APIResponse{data=[]domain.ContentType}
// @Failure      500  {object}  common.APIResponse
// @Router       /content-types [get]
func (h *ContentTypeHandler) ListContentTypes(c *gin.Context) {
	page := ginutil.QueryInt(c, "page", 1)
	limit := ginutil.QueryInt(c, "limit", 20)

	data, meta, err := h.service.List(page, limit)
	if err != nil {
		common.ErrorResponse(c, http.StatusInternalServerError, "Failed to fetch content types", err)
		return
	}

	common.SuccessResponseWithMeta(c, data, meta)
}

// GetContentType godoc
// @Summary      Get a content type
// @Description  Fetches one content type by ID or name
// @Tags         content-types
// @Produce      json
// @Param        id  path  string  true  "Content type ID or name"
// @Success      200  {object}  common.APIResponse{data=domain.ContentType}
// @Failure      404  {object}  common.APIResponse
// @Failure      500  {object}  common.APIResponse
// @Router       /content-types/{id} [get]
func (h *ContentTypeHandler) GetContentType(c *gin.Context) {
	data, err := h.service.Get(c.Param("id"))
	if errors.Is(err, common.ErrContentTypeNotFound) {
		common.ErrorResponse(c, http.StatusNotFound, "Content type not found", err)
		return
	}
	if err != nil {
		common.ErrorResponse(c, http.StatusInternalServerError, "Failed to fetch content type", err)
		return
	}

	common.SuccessResponse(c, data)
}

// CreateContentType godoc
// @Summary      Create a content type
// @Description  Creates a new content type with its field schema (requires types:manage)
// @Tags         content-types
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body  domain.CreateContentTypeRequest  true  "Content type definition"
// @Success      201  {object}  common.APIResponse{data=domain.ContentType}
// @Failure      400  {object}  common.APIResponse
// @Failure      409  {object}  common.APIResponse
// @Router       /content-types [post]
func (h *ContentTypeHandler) CreateContentType(c *gin.Context) {
	var req domain.CreateContentTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	data, err := h.service.Create(&req)
	if errors.Is(err, common.ErrInvalidInput) {
		common.ErrorResponse(c, http.StatusBadRequest, err.Error(), err)
		return
	}
	if errors.Is(err, common.ErrConflict) {
		common.ErrorResponse(c, http.StatusConflict, err.Error(), err)
		return
	}
	if err != nil {
		common.ErrorResponse(c, http.StatusInternalServerError, "Failed to create content type", err)
		return
	}

	common.CreatedResponse(c, data)
}

// UpdateContentType godoc
// @Summary      Update a content type
// @Description  Updates label or field schema of a content type (requires types:manage)
// @Tags         content-types
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path  string                           true  "Content type ID"
// @Param        request  body  domain.UpdateContentTypeRequest  true  "Fields to update"
// @Success      200  {object}  common.APIResponse{data=domain.ContentType}
// @Failure      400  {object}  common.APIResponse
// @Failure      404  {object}  common.APIResponse
// @Router       /content-types/{id} [put]
func (h *ContentTypeHandler) UpdateContentType(c *gin.Context) {
	id, err := ginutil.ParamUUID(c, "id")
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid content type ID", err)
		return
	}

	var req domain.UpdateContentTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	data, err := h.service.Update(id, &req)
	if errors.Is(err, common.ErrContentTypeNotFound) {
		common.ErrorResponse(c, http.StatusNotFound, "Content type not found", err)
		return
	}
	if errors.Is(err, common.ErrInvalidInput) {
		common.ErrorResponse(c, http.StatusBadRequest, err.Error(), err)
		return
	}
	if err != nil {
		common.ErrorResponse(c, http.StatusInternalServerError, "Failed to update content type", err)
		return
	}

	common.SuccessResponse(c, data)
}

// DeleteContentType godoc
// @Summary      Delete a content type
// @Description  Removes a content type and all its entries (requires types:manage)
// @Tags         content-types
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "Content type ID"
// @Success      200  {object}  common.APIResponse
// @Failure      404  {object}  common.APIResponse
// @Router       /content-types/{id} [delete]
func (h *ContentTypeHandler) DeleteContentType(c *gin.Context) {
	id, err := ginutil.ParamUUID(c, "id")
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid content type ID", err)
		return
	}

	if err := h.service.Delete(id); err != nil {
		if errors.Is(err, common.ErrContentTypeNotFound) {
			common.ErrorResponse(c, http.StatusNotFound, "Content type not found", err)
			return
		}
		common.ErrorResponse(c, http.StatusInternalServerError, "Failed to delete content type", err)
		return
	}

	common.SuccessResponse(c, gin.H{"deleted": true})
}
