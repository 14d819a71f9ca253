package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/PT-GSA/ai-cms-backend/internal/common"
	"github.com/PT-GSA/ai-cms-backend/internal/service"
	"github.com/PT-GSA/ai-cms-backend/pkg/ginutil"
)

// SearchHandler handles full-text search requests
type SearchHandler struct {
	service service.SearchService
}

// NewSearchHandler creates a new SearchHandler
func NewSearchHandler(service service.SearchService) *SearchHandler {
	return &SearchHandler{service: service}
}

// Search godoc
// @Summary      Search content entries
// @Description  Full-text search over entry titles and fields, ranked by relevance
// @Tags         search
// @Produce      json
// @Param        q       query  string  true   "Search query"
// @Param        type    query  string  false  "Content type ID filter"
// @Param        status  query  string  false  "Status filter"
// @Param        page    query  int     false  "Page number"     default(1)
// @Param        limit   query  int     false  "Items per page"  default(20)
// @Success      200  {object}  common.APIResponse{data=[]domain.ContentEntry}
// @Failure      400  {object}  common.APIResponse
// @Router       /search [get]
func (h *SearchHandler) Search(c *gin.Context) {
	q := service.SearchQuery{
		Query:  c.Query("q"),
		Status: c.Query("status"),
		Page:   ginutil.QueryInt(c, "page", 1),
		Limit:  ginutil.QueryInt(c, "limit", 20),
	}

	if raw := c.Query("type"); raw != "" {
		typeID, err := uuid.Parse(raw)
		if err != nil {
			common.ErrorResponse(c, http.StatusBadRequest, "Invalid content type ID", err)
			return
		}
		q.TypeID = &typeID
	}

	data, meta, err := h.service.Search(q)
	if errors.Is(err, common.ErrInvalidInput) {
		common.ErrorResponse(c, http.StatusBadRequest, err.Error(), err)
		return
	}
	if err != nil {
		common.ErrorResponse(c, http.StatusInternalServerError, "Search failed", err)
		return
	}

	common.SuccessResponseWithMeta(c, data, meta)
}
