package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

// RoleLookup resolves the role string for an email.
type RoleLookup interface {
	RoleOf(ctx context.Context, email string) (string, error)
}

// RequireRole gates a route on the caller's stored role. It must run
// after AuthMiddleware, which establishes the verified email.
func RequireRole(users RoleLookup, role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		email := GetEmail(c)
		if email == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized access"})
			return
		}

		actual, err := users.RoleOf(c.Request.Context(), email)
		if err != nil || actual != role {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error": role + " only actions",
				"role":  actual,
			})
			return
		}
		c.Next()
	}
}
