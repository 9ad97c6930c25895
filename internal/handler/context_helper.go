package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/barangayhub/portal-api/internal/middleware"
	"github.com/barangayhub/portal-api/internal/models"
)

func claimsFromContext(c *gin.Context) *models.JWTClaims {
	return middleware.CurrentClaims(c)
}

func queryInt(c *gin.Context, key string, fallback int) int {
	raw := c.Query(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}

func pageParams(c *gin.Context) (int, int) {
	return queryInt(c, "page", 1), queryInt(c, "page_size", 20)
}
