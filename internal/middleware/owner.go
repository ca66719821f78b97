package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// OwnerIDKey is the gin context key holding the resolved owner identifier.
const OwnerIDKey = "owner_id"

// Owner resolves the request's owner identifier. It reads the configured
// header and falls back to the configured default, so single-tenant
// deployments work without clients sending any header.
func Owner(header, defaultOwnerID string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ownerID := strings.TrimSpace(c.GetHeader(header))
		if ownerID == "" {
			ownerID = defaultOwnerID
		}
		c.Set(OwnerIDKey, ownerID)
		c.Next()
	}
}

// OwnerID extracts the resolved owner identifier from the context.
func OwnerID(c *gin.Context) string {
	if value, ok := c.Get(OwnerIDKey); ok {
		if ownerID, ok := value.(string); ok {
			return ownerID
		}
	}
	return ""
}
