package middleware

import (
	"net/http"

	"github.com/Caqil/iprofit-admin-sub008/internal/core/domain"
	"github.com/gin-gonic/gin"
)

// RequirePermission creates a Gin middleware that rejects callers whose role
// does not carry the given permission tag. It must run after AuthMiddleware.
func RequirePermission(perm domain.Permission) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := GetLoggerFromCtx(c.Request.Context())

		role, ok := GetUserRoleFromContext(c)
		if !ok {
			logger.Error("Role missing from context; AuthMiddleware not applied?")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		if !role.HasPermission(perm) {
			logger.Warn("Permission denied", "role", string(role), "permission", string(perm))
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Insufficient permissions"})
			return
		}

		c.Next()
	}
}
