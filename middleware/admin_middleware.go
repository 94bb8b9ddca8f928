package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// AdminMiddleware creates a middleware that ensures the user has admin role
// This middleware should be used after AuthMiddleware
func AdminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		principal := CurrentPrincipal(c)
		if !principal.IsAuthenticated() {
			c.JSON(http.StatusUnauthorized, gin.H{
				"status":  "error",
				"type":    "unauthorized",
				"message": "Authentication required",
			})
			c.Abort()
			return
		}

		if !principal.IsAdmin() {
			c.JSON(http.StatusForbidden, gin.H{
				"status":  "error",
				"type":    "forbidden",
				"message": "Admin privileges required",
			})
			c.Abort()
			return
		}

		// User is admin, continue
		c.Next()
	}
}
