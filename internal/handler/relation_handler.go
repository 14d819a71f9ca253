package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/PT-GSA/ai-cms-backend/internal/common"
	"github.com/PT-GSA/ai-cms-backend/internal/domain"
	"github.com/PT-GSA/ai-cms-backend/internal/service"
	"github.com/PT-GSA/ai-cms-backend/pkg/ginutil"
)

// RelationHandler handles HTTP requests for relation definitions and entry links
type RelationHandler struct {
	service service.RelationService
}

// NewRelationHandler creates a new RelationHandler
func NewRelationHandler(service service.RelationService) *RelationHandler {
	return &RelationHandler{service: service}
}

// ListDefinitions godoc
// @Summary      List relation definitions
// @Tags         relations
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  common.APIResponse{data=[]domain.RelationDefinition}
// @Router       /relations [get]
func (h *RelationHandler) ListDefinitions(c *gin.Context) {
	data, err := h.service.ListDefinitions()
	if err != nil {
		common.ErrorResponse(c, http.StatusInternalServerError, "Failed to fetch relations", err)
		return
	}

	common.SuccessResponse(c, data)
}

// CreateDefinition godoc
// @Summary      Create a relation definition
// @Description  Defines a typed relation between two content types (requires types:manage)
// @Tags         relations
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body  domain.CreateRelationDefinitionRequest  true  "Relation definition"
// @Success      201  {object}  common.APIResponse{data=domain.RelationDefinition}
// @Failure      400  {object}  common.APIResponse
// @Failure      409  {object}  common.APIResponse
// @Router       /relations [post]
func (h *RelationHandler) CreateDefinition(c *gin.Context) {
	var req domain.CreateRelationDefinitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	data, err := h.service.CreateDefinition(&req)
	if errors.Is(err, common.ErrInvalidInput) {
		common.ErrorResponse(c, http.StatusBadRequest, err.Error(), err)
		return
	}
	if errors.Is(err, common.ErrContentTypeNotFound) {
		common.ErrorResponse(c, http.StatusNotFound, "Content type not found", err)
		return
	}
	if errors.Is(err, common.ErrConflict) {
		common.ErrorResponse(c, http.StatusConflict, err.Error(), err)
		return
	}
	if err != nil {
		common.ErrorResponse(c, http.StatusInternalServerError, "Failed to create relation", err)
		return
	}

	common.CreatedResponse(c, data)
}

// GetDefinition godoc
// @Summary      Get a relation definition
// @Tags         relations
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "Relation ID or name"
// @Success      200  {object}  common.APIResponse{data=domain.RelationDefinition}
// @Failure      404  {object}  common.APIResponse
// @Router       /relations/{id} [get]
func (h *RelationHandler) GetDefinition(c *gin.Context) {
	data, err := h.service.GetDefinition(c.Param("id"))
	if errors.Is(err, common.ErrRelationNotFound) {
		common.ErrorResponse(c, http.StatusNotFound, "Relation not found", err)
		return
	}
	if err != nil {
		common.ErrorResponse(c, http.StatusInternalServerError, "Failed to fetch relation", err)
		return
	}

	common.SuccessResponse(c, data)
}

// DeleteDefinition godoc
// @Summary      Delete a relation definition
// @Description  Removes the definition and all links under it (requires types:manage)
// @Tags         relations
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "Relation ID"
// @Success      200  {object}  common.APIResponse
// @Failure      404  {object}  common.APIResponse
// @Router       /relations/{id} [delete]
func (h *RelationHandler) DeleteDefinition(c *gin.Context) {
	id, err := ginutil.ParamUUID(c, "id")
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid relation ID", err)
		return
	}

	if err := h.service.DeleteDefinition(id); err != nil {
		if errors.Is(err, common.ErrRelationNotFound) {
			common.ErrorResponse(c, http.StatusNotFound, "Relation not found", err)
			return
		}
		common.ErrorResponse(c, http.StatusInternalServerError, "Failed to delete relation", err)
		return
	}

	common.SuccessResponse(c, gin.H{"deleted": true})
}

// SetRelations godoc
// @Summary      Set an entry's related entries
// @Description  Replaces the full set of targets linked to a source entry under one relation (requires content:write)
// @Tags         relations
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path  string                      true  "Relation ID"
// @Param        entryId  path  string                      true  "Source entry ID"
// @Param        request  body  domain.SetRelationsRequest  true  "Target entry IDs, in order"
// @Success      200  {object}  common.APIResponse
// @Failure      400  {object}  common.APIResponse
// @Failure      404  {object}  common.APIResponse
// @Router       /relations/{id}/entries/{entryId} [put]
func (h *RelationHandler) SetRelations(c *gin.Context) {
	defID, err := ginutil.ParamUUID(c, "id")
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid relation ID", err)
		return
	}
	entryID, err := ginutil.ParamUUID(c, "entryId")
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid entry ID", err)
		return
	}

	var req domain.SetRelationsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	err = h.service.SetRelations(defID, entryID, req.TargetEntryIDs)
	if errors.Is(err, common.ErrRelationNotFound) || errors.Is(err, common.ErrEntryNotFound) {
		common.ErrorResponse(c, http.StatusNotFound, err.Error(), err)
		return
	}
	if errors.Is(err, common.ErrInvalidInput) {
		common.ErrorResponse(c, http.StatusBadRequest, err.Error(), err)
		return
	}
	if err != nil {
		common.ErrorResponse(c, http.StatusInternalServerError, "Failed to set relations", err)
		return
	}

	common.SuccessResponse(c, gin.H{"updated": true})
}

// ListTargets godoc
// @Summary      List related entries
// @Description  Returns entries linked from a source entry under one relation, in sort order
// @Tags         relations
// @Produce      json
// @Security     BearerAuth
// @Param        id       path  string  true  "Relation ID"
// @Param        entryId  path  string  true  "Source entry ID"
// @Success      200  {object}  common.APIResponse{data=[]domain.ContentEntry}
// @Failure      404  {object}  common.APIResponse
// @Router       /relations/{id}/entries/{entryId} [get]
func (h *RelationHandler) ListTargets(c *gin.Context) {
	h.listLinked(c, h.service.ListTargets)
}

// ListSources godoc
// @Summary      List referencing entries
// @Description  Returns entries that link to a target entry under one relation
// @Tags         relations
// @Produce      json
// @Security     BearerAuth
// @Param        id       path  string  true  "Relation ID"
// @Param        entryId  path  string  true  "Target entry ID"
// @Success      200  {object}  common.APIResponse{data=[]domain.ContentEntry}
// @Failure      404  {object}  common.APIResponse
// @Router       /relations/{id}/entries/{entryId}/sources [get]
func (h *RelationHandler) ListSources(c *gin.Context) {
	h.listLinked(c, h.service.ListSources)
}

func (h *RelationHandler) listLinked(c *gin.Context, list func(defID, entryID uuid.UUID) ([]*domain.ContentEntry, error)) {
	defID, err := ginutil.ParamUUID(c, "id")
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid relation ID", err)
		return
	}
	entryID, err := ginutil.ParamUUID(c, "entryId")
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid entry ID", err)
		return
	}

	data, err := list(defID, entryID)
	if errors.Is(err, common.ErrRelationNotFound) {
		common.ErrorResponse(c, http.StatusNotFound, "Relation not found", err)
		return
	}
	if err != nil {
		common.ErrorResponse(c, http.StatusInternalServerError, "Failed to fetch related entries", err)
		return
	}

	common.SuccessResponse(c, data)
}
