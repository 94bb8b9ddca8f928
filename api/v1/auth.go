package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/project-nexus/dto"
	"github.com/project-nexus/middleware"
	"github.com/project-nexus/services"
)

// AuthController handles login, logout and the current-user endpoint
type AuthController struct {
	authService   *services.AuthService
	secureCookies bool
}

func NewAuthController(authService *services.AuthService, secureCookies bool) *AuthController {
	return &AuthController{authService: authService, secureCookies: secureCookies}
}

// RegisterRoutes registers auth routes. The group must already run AuthMiddleware.
func (ac *AuthController) RegisterRoutes(router *gin.RouterGroup) {
	authGroup := router.Group("/auth")
	{
		authGroup.POST("/login", ac.Login)
		authGroup.POST("/logout", ac.Logout)
		authGroup.GET("/me", middleware.RequireAuth(), ac.GetCurrentUser)
	}
}

// Login handles user authentication
func (ac *AuthController) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	authResponse, err := ac.authService.Login(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	maxAge := int(ac.authService.TokenTTL().Seconds())
	c.SetCookie(
		middleware.AccessTokenCookie,
		authResponse.Token,
		maxAge,
		"/",
		"",
		ac.secureCookies,
		true, // httpOnly
	)

	// Also return token in response body for clients that prefer Bearer auth
	respondSuccess(c, http.StatusOK, authResponse)
}

// Logout clears the access token cookie
func (ac *AuthController) Logout(c *gin.Context) {
	c.SetCookie(middleware.AccessTokenCookie, "", -1, "/", "", ac.secureCookies, true)
	respondMessage(c, http.StatusOK, "Logged out successfully", nil)
}

// GetCurrentUser returns the currently authenticated user's profile
func (ac *AuthController) GetCurrentUser(c *gin.Context) {
	principal := middleware.CurrentPrincipal(c)

	user, err := ac.authService.GetUser(c.Request.Context(), principal.UserID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, dto.NewUserResponse(user))
}
