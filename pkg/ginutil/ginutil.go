package ginutil

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// QueryInt extracts an integer from query parameters with default value
func QueryInt(c *gin.Context, key string, defaultValue int) int {
	valueStr := c.Query(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

// ParamInt extracts an integer from path parameters
func ParamInt(c *gin.Context, key string) (int, error) {
	return strconv.Atoi(c.Param(key))
}

// ParamUUID extracts a UUID from path parameters
func ParamUUID(c *gin.Context, key string) (uuid.UUID, error) {
	return uuid.Parse(c.Param(key))
}
