package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const usernameCtxKey = "username"

func (h *Handler) identityMiddleware(c *gin.Context) {
	header := c.GetHeader("Authorization")
	if header == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error": "missing Authorization header",
		})
		return
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error": "invalid Authorization header format",
		})
		return
	}

	username, err := h.services.ParseToken(parts[1])
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error": "invalid or expired token",
		})
		return
	}

	// store in Gin context; this is also the ledger file selector
	c.Set(usernameCtxKey, username)
	c.Next()
}

// currentUser returns the authenticated username set by the middleware.
func currentUser(c *gin.Context) string {
	return c.GetString(usernameCtxKey)
}
