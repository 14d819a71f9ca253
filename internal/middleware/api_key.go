package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/PT-GSA/ai-cms-backend/internal/common"
	"github.com/PT-GSA/ai-cms-backend/internal/service"
)

// APIKeyAuth authenticates requests using an API key with the required scope.
// Checks X-API-Key header or api_key query parameter.
func APIKeyAuth(keys service.APIKeyService, requiredScope string) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.GetHeader("X-API-Key")
		if raw == "" {
			raw = c.Query("api_key")
		}
		if raw == "" {
			common.ErrorResponse(c, http.StatusUnauthorized, "API key required", nil)
			c.Abort()
			return
		}

		key, err := keys.Validate(raw)
		if err != nil {
			common.ErrorResponse(c, http.StatusUnauthorized, "Invalid API key", nil)
			c.Abort()
			return
		}

		if requiredScope != "" && !service.HasScope(key, requiredScope) {
			common.ErrorResponse(c, http.StatusForbidden, "API key lacks required scope", nil)
			c.Abort()
			return
		}

		c.Set("apiKeyID", key.ID.String())
		if key.UserID != nil {
			c.Set("userID", key.UserID.String())
		}

		c.Next()
	}
}

// JWTOrAPIKey accepts either a Bearer token or an API key on the same route.
// Bearer wins when both are present.
func JWTOrAPIKey(jwtAuth, apiKeyAuth gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("Authorization") != "" {
			jwtAuth(c)
			return
		}
		apiKeyAuth(c)
	}
}
