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

// APIKeyHandler handles API key management
type APIKeyHandler struct {
	service service.APIKeyService
}

// NewAPIKeyHandler creates a new APIKeyHandler
func NewAPIKeyHandler(service service.APIKeyService) *APIKeyHandler {
	return &APIKeyHandler{service: service}
}

// CreateAPIKey godoc
// @Summary      Issue an API key
// @Description  Creates a new API key. The plaintext key is returned once and never again. (requires keys:manage)
// @Tags         api-keys
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body  domain.CreateAPIKeyRequest  true  "Key name, scopes and optional expiry"
// @Success      201  {object}  common.APIResponse{data=domain.APIKeyCreatedResponse}
// @Failure      400  {object}  common.APIResponse
// @Router       /api-keys [post]
func (h *APIKeyHandler) CreateAPIKey(c *gin.Context) {
	var req domain.CreateAPIKeyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	data, err := h.service.Create(&req, middleware.GetUserUUID(c))
	if errors.Is(err, common.ErrInvalidInput) {
		common.ErrorResponse(c, http.StatusBadRequest, err.Error(), err)
		return
	}
	if err != nil {
		common.ErrorResponse(c, http.StatusInternalServerError, "Failed to create API key", err)
		return
	}

	common.CreatedResponse(c, data)
}

// ListAPIKeys godoc
// @Summary      List API keys
// @Description  Returns issued keys with prefixes only, never plaintext (requires keys:manage)
// @Tags         api-keys
// @Produce      json
// @Security     BearerAuth
// @Param        page   query  int  false  "Page number"     default(1)
// @Param        limit  query  int  false  "Items per page"  default(20)
// @Success      200  {object}  common.APIResponse{data=[]domain.APIKey}
// @Router       /api-keys [get]
func (h *APIKeyHandler) ListAPIKeys(c *gin.Context) {
	page := ginutil.QueryInt(c, "page", 1)
	limit := ginutil.QueryInt(c, "limit", 20)

	data, meta, err := h.service.List(page, limit)
	if err != nil {
		common.ErrorResponse(c, http.StatusInternalServerError, "Failed to fetch API keys", err)
		return
	}

	common.SuccessResponseWithMeta(c, data, meta)
}

// RevokeAPIKey godoc
// @Summary      Revoke an API key
// @Description  Invalidates a key immediately (requires keys:manage)
// @Tags         api-keys
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "API key ID"
// @Success      200  {object}  common.APIResponse
// @Failure      404  {object}  common.APIResponse
// @Router       /api-keys/{id} [delete]
func (h *APIKeyHandler) RevokeAPIKey(c *gin.Context) {
	id, err := ginutil.ParamUUID(c, "id")
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid API key ID", err)
		return
	}

	if err := h.service.Revoke(id); err != nil {
		if errors.Is(err, common.ErrAPIKeyNotFound) {
			common.ErrorResponse(c, http.StatusNotFound, "API key not found", err)
			return
		}
		common.ErrorResponse(c, http.StatusInternalServerError, "Failed to revoke API key", err)
		return
	}

	common.SuccessResponse(c, gin.H{"revoked": true})
}
