package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/PT-GSA/ai-cms-backend/internal/common"
	"github.com/PT-GSA/ai-cms-backend/internal/middleware"
	"github.com/PT-GSA/ai-cms-backend/internal/service"
	"github.com/PT-GSA/ai-cms-backend/pkg/ginutil"
)

// MediaHandler handles HTTP requests for media assets
type MediaHandler struct {
	service service.MediaService
}

// NewMediaHandler creates a new MediaHandler
func NewMediaHandler(service service.MediaService) *MediaHandler {
	return &MediaHandler{service: service}
}

// Upload godoc
// @Summary      Upload a media file
// @Description  Uploads a file to object storage and records its metadata (requires media:write)
// @Tags         media
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        file       formData  file  true   "File to upload"
// @Param        max_width  query     int   false  "Resize images wider than this (px)"
// @Success      201  {object}  common.APIResponse{data=domain.Media}
// @Failure      400  {object}  common.APIResponse
// @Router       /media [post]
func (h *MediaHandler) Upload(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "No file provided", err)
		return
	}

	maxWidth := ginutil.QueryInt(c, "max_width", 0)

	data, err := h.service.Upload(c.Request.Context(), file, maxWidth, middleware.GetUserUUID(c))
	if errors.Is(err, common.ErrInvalidInput) {
		common.ErrorResponse(c, http.StatusBadRequest, err.Error(), err)
		return
	}
	if err != nil {
		common.ErrorResponse(c, http.StatusInternalServerError, "Failed to upload file", err)
		return
	}

	common.CreatedResponse(c, data)
}

// ListMedia godoc
// @Summary      List media assets
// @Description  Returns uploaded media, optionally filtered by MIME prefix (e.g. image/)
// @Tags         media
// @Produce      json
// @Security     BearerAuth
// @Param        type   query  string  false  "MIME type prefix filter"
// @Param        page   query  int     false  "Page number"     default(1)
// @Param        limit  query  int     false  "Items per page"  default(20)
// @Success      200  {object}  common.APIResponse{data=[]domain.Media}
// @Router       /media [get]
func (h *MediaHandler) ListMedia(c *gin.Context) {
	page := ginutil.QueryInt(c, "page", 1)
	limit := ginutil.QueryInt(c, "limit", 20)

	data, meta, err := h.service.List(c.Query("type"), page, limit)
	if err != nil {
		common.ErrorResponse(c, http.StatusInternalServerError, "Failed to fetch media", err)
		return
	}

	common.SuccessResponseWithMeta(c, data, meta)
}

// GetMedia godoc
// @Summary      Get a media asset
// @Tags         media
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "Media ID"
// @Success      200  {object}  common.APIResponse{data=domain.Media}
// @Failure      404  {object}  common.APIResponse
// @Router       /media/{id} [get]
func (h *MediaHandler) GetMedia(c *gin.Context) {
	id, err := ginutil.ParamUUID(c, "id")
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid media ID", err)
		return
	}

	data, err := h.service.Get(id)
	if errors.Is(err, common.ErrMediaNotFound) {
		common.ErrorResponse(c, http.StatusNotFound, "Media not found", err)
		return
	}
	if err != nil {
		common.ErrorResponse(c, http.StatusInternalServerError, "Failed to fetch media", err)
		return
	}

	common.SuccessResponse(c, data)
}

// UpdateMedia godoc
// @Summary      Update media metadata
// @Description  Updates alt text of a media asset (requires media:write)
// @Tags         media
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path  string                     true  "Media ID"
// @Param        request  body  domain.UpdateMediaRequest  true  "Metadata to update"
// @Success      200  {object}  common.APIResponse{data=domain.Media}
// @Failure      404  {object}  common.APIResponse
// @Router       /media/{id} [put]
func (h *MediaHandler) UpdateMedia(c *gin.Context) {
	id, err := ginutil.ParamUUID(c, "id")
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid media ID", err)
		return
	}

	var req struct {
		AltText *string `json:"alt_text"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	data, err := h.service.UpdateAltText(id, req.AltText)
	if errors.Is(err, common.ErrMediaNotFound) {
		common.ErrorResponse(c, http.StatusNotFound, "Media not found", err)
		return
	}
	if err != nil {
		common.ErrorResponse(c, http.StatusInternalServerError, "Failed to update media", err)
		return
	}

	common.SuccessResponse(c, data)
}

// DeleteMedia godoc
// @Summary      Delete a media asset
// @Description  Removes the stored object and its metadata (requires media:write)
// @Tags         media
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "Media ID"
// @Success      200  {object}  common.APIResponse
// @Failure      404  {object}  common.APIResponse
// @Router       /media/{id} [delete]
func (h *MediaHandler) DeleteMedia(c *gin.Context) {
	id, err := ginutil.ParamUUID(c, "id")
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid media ID", err)
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, common.ErrMediaNotFound) {
			common.ErrorResponse(c, http.StatusNotFound, "Media not found", err)
			return
		}
		common.ErrorResponse(c, http.StatusInternalServerError, "Failed to delete media", err)
		return
	}

	common.SuccessResponse(c, gin.H{"deleted": true})
}

// PresignedURL godoc
// @Summary      Get a presigned download URL
// @Description  Returns a time-limited direct URL for a media object
// @Tags         media
// @Produce      json
// @Security     BearerAuth
// @Param        id       path   string  true   "Media ID"
// @Param        expires  query  int     false  "Expiry in seconds"  default(900)
// @Success      200  {object}  common.APIResponse
// @Failure      404  {object}  common.APIResponse
// @Router       /media/{id}/presigned-url [get]
func (h *MediaHandler) PresignedURL(c *gin.Context) {
	id, err := ginutil.ParamUUID(c, "id")
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid media ID", err)
		return
	}

	expires := ginutil.QueryInt(c, "expires", 900)
	if expires < 60 || expires > 86400 {
		expires = 900
	}

	url, err := h.service.PresignedURL(c.Request.Context(), id, time.Duration(expires)*time.Second)
	if errors.Is(err, common.ErrMediaNotFound) {
		common.ErrorResponse(c, http.StatusNotFound, "Media not found", err)
		return
	}
	if err != nil {
		common.ErrorResponse(c, http.StatusInternalServerError, "Failed to generate URL", err)
		return
	}

	common.SuccessResponse(c, gin.H{"url": url, "expires_in": expires})
}
