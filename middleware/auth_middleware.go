package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/project-nexus/dto"
	"github.com/project-nexus/services"
)

const (
	// AccessTokenCookie is set by the login handler
	AccessTokenCookie = "access_token"

	principalKey = "principal"
)

// AuthMiddleware resolves the caller from a Bearer token or the access_token
// cookie. Requests without a token continue as anonymous; a token that fails
// validation is rejected with 401.
func AuthMiddleware(auth *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			c.Set(principalKey, dto.Anonymous())
			c.Next()
			return
		}

		claims, err := auth.ValidateToken(token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"status":  "error",
				"type":    "unauthorized",
				"message": "Invalid or expired token",
			})
			c.Abort()
			return
		}

		principal := auth.Principal(claims)
		c.Set(principalKey, principal)
		c.Set("userId", principal.UserID)
		c.Set("role", string(principal.Role))
		c.Next()
	}
}

// RequireAuth rejects anonymous callers. Use after AuthMiddleware.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !CurrentPrincipal(c).IsAuthenticated() {
			c.JSON(http.StatusUnauthorized, gin.H{
				"status":  "error",
				"type":    "unauthorized",
				"message": "Authentication required",
			})
			c.Abort()
			return
		}
		c.Next()
	}
}

// CurrentPrincipal returns the identity resolved by AuthMiddleware, anonymous if none
func CurrentPrincipal(c *gin.Context) dto.Principal {
	if v, ok := c.Get(principalKey); ok {
		if p, ok := v.(dto.Principal); ok {
			return p
		}
	}
	return dto.Anonymous()
}

func extractToken(c *gin.Context) string {
	if header := c.GetHeader("Authorization"); header != "" {
		scheme, token, found := strings.Cut(header, " ")
		if found && (strings.EqualFold(scheme, "Bearer") || strings.EqualFold(scheme, "JWT")) {
			return strings.TrimSpace(token)
		}
		return ""
	}

	if cookie, err := c.Cookie(AccessTokenCookie); err == nil {
		return cookie
	}
	return ""
}
