package v1

import (
	"github.com/gin-gonic/gin"
	"github.com/project-nexus/middleware"
	"github.com/project-nexus/services"
	"gorm.io/gorm"
)

// Dependencies are the services the v1 routes are built on
type Dependencies struct {
	DB            *gorm.DB
	Auth          *services.AuthService
	Projects      *services.ProjectService
	Leaderboard   *services.LeaderboardService
	Votes         *services.VoteService
	Ratings       *services.RatingService
	Comments      *services.CommentService
	Criteria      *services.CriteriaService
	RateLimiter   *middleware.RateLimiter
	SecureCookies bool
}

// RegisterRoutes registers all v1 API routes
func RegisterRoutes(router *gin.RouterGroup, deps Dependencies) {
	// Health check endpoint
	router.GET("/health", NewHealthController(deps.DB).HealthCheck)

	// Everything below sees the caller's identity, anonymous when no token is sent
	api := router.Group("")
	api.Use(middleware.AuthMiddleware(deps.Auth))

	// Mutations need a logged-in user and are rate limited per client
	writes := []gin.HandlerFunc{middleware.RequireAuth()}
	if deps.RateLimiter != nil {
		writes = append(writes, deps.RateLimiter.Middleware())
	}

	NewAuthController(deps.Auth, deps.SecureCookies).RegisterRoutes(api)
	NewProjectController(deps.Projects, deps.Leaderboard).RegisterRoutes(api, writes...)
	NewVoteController(deps.Votes).RegisterRoutes(api, writes...)
	NewRatingController(deps.Ratings).RegisterRoutes(api, writes...)
	NewCommentController(deps.Comments).RegisterRoutes(api, writes...)
	NewCriteriaController(deps.Criteria).RegisterRoutes(api)
}

// chain returns middlewares followed by the handler without aliasing the input slice
func chain(middlewares []gin.HandlerFunc, handler gin.HandlerFunc) []gin.HandlerFunc {
	out := make([]gin.HandlerFunc, 0, len(middlewares)+1)
	out = append(out, middlewares...)
	return append(out, handler)
}
