package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/PT-GSA/ai-cms-backend/internal/common"
	"github.com/PT-GSA/ai-cms-backend/internal/domain"
	"github.com/PT-GSA/ai-cms-backend/internal/middleware"
	"github.com/PT-GSA/ai-cms-backend/internal/service"
	"github.com/PT-GSA/ai-cms-backend/pkg/ginutil"
)

// AuthHandler handles authentication and user management
type AuthHandler struct {
	service service.AuthService
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(service service.AuthService) *AuthHandler {
	return &AuthHandler{service: service}
}

// Login godoc
// @Summary      Log in
// @Description  Authenticates a user and returns access and refresh tokens
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request  body  domain.LoginRequest  true  "Credentials"
// @Success      200  {object}  common.APIResponse
// @Failure      401  {object}  common.APIResponse
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req domain.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	tokens, user, err := h.service.Login(&req)
	if errors.Is(err, common.ErrInvalidCredentials) {
		common.ErrorResponse(c, http.StatusUnauthorized, "Invalid username or password", err)
		return
	}
	if err != nil {
		common.ErrorResponse(c, http.StatusInternalServerError, "Login failed", err)
		return
	}

	common.SuccessResponse(c, gin.H{"tokens": tokens, "user": user})
}

// Refresh godoc
// @Summary      Refresh tokens
// @Description  Exchanges a refresh token for a new token pair
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request  body  domain.RefreshRequest  true  "Refresh token"
// @Success      200  {object}  common.APIResponse
// @Failure      401  {object}  common.APIResponse
// @Router       /auth/refresh [post]
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req domain.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	tokens, err := h.service.Refresh(req.RefreshToken)
	if errors.Is(err, common.ErrInvalidToken) {
		common.ErrorResponse(c, http.StatusUnauthorized, "Invalid refresh token", err)
		return
	}
	if err != nil {
		common.ErrorResponse(c, http.StatusInternalServerError, "Token refresh failed", err)
		return
	}

	common.SuccessResponse(c, tokens)
}

// Me godoc
// @Summary      Current user
// @Description  Returns the authenticated user's profile
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  common.APIResponse{data=domain.User}
// @Failure      401  {object}  common.APIResponse
// @Router       /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	userID, err := uuid.Parse(middleware.GetUserID(c))
	if err != nil {
		common.ErrorResponse(c, http.StatusUnauthorized, "Authentication required", err)
		return
	}

	user, err := h.service.Me(userID)
	if errors.Is(err, common.ErrUserNotFound) {
		common.ErrorResponse(c, http.StatusNotFound, "User not found", err)
		return
	}
	if err != nil {
		common.ErrorResponse(c, http.StatusInternalServerError, "Failed to fetch user", err)
		return
	}

	common.SuccessResponse(c, user)
}

// CreateUser godoc
// @Summary      Create a user
// @Description  Creates a dashboard user (requires users:manage)
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body  domain.CreateUserRequest  true  "User data"
// @Success      201  {object}  common.APIResponse{data=domain.User}
// @Failure      400  {object}  common.APIResponse
// @Failure      409  {object}  common.APIResponse
// @Router       /users [post]
func (h *AuthHandler) CreateUser(c *gin.Context) {
	var req domain.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	user, err := h.service.CreateUser(&req)
	if errors.Is(err, common.ErrInvalidInput) {
		common.ErrorResponse(c, http.StatusBadRequest, err.Error(), err)
		return
	}
	if errors.Is(err, common.ErrUserAlreadyExists) {
		common.ErrorResponse(c, http.StatusConflict, "Username or email already in use", err)
		return
	}
	if err != nil {
		common.ErrorResponse(c, http.StatusInternalServerError, "Failed to create user", err)
		return
	}

	common.CreatedResponse(c, user)
}

// ListUsers godoc
// @Summary      List users
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        page   query  int  false  "Page number"     default(1)
// @Param        limit  query  int  false  "Items per page"  default(20)
// @Success      200  {object}  common.APIResponse{data=[]domain.User}
// @Router       /users [get]
func (h *AuthHandler) ListUsers(c *gin.Context) {
	page := ginutil.QueryInt(c, "page", 1)
	limit := ginutil.QueryInt(c, "limit", 20)

	users, meta, err := h.service.ListUsers(page, limit)
	if err != nil {
		common.ErrorResponse(c, http.StatusInternalServerError, "Failed to fetch users", err)
		return
	}

	common.SuccessResponseWithMeta(c, users, meta)
}
