package middleware

import (
	"github.com/Caqil/iprofit-admin-sub008/internal/core/domain"
	"github.com/gin-gonic/gin"
)

// userIDKey and userRoleKey hold the authenticated caller's identity in the
// request context. Using a custom type prevents collisions.
const (
	userIDKey   = contextKey("userID")
	userRoleKey = contextKey("userRole")
)

// GetUserIDFromContext retrieves the authenticated user ID from the Gin context.
// It returns the user ID and a boolean indicating if it was found.
func GetUserIDFromContext(c *gin.Context) (string, bool) {
	userID, ok := c.Request.Context().Value(userIDKey).(string)
	return userID, ok
}

// GetUserRoleFromContext retrieves the authenticated user's role from the Gin context.
func GetUserRoleFromContext(c *gin.Context) (domain.UserRole, bool) {
	role, ok := c.Request.Context().Value(userRoleKey).(domain.UserRole)
	return role, ok
}
