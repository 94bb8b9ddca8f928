package v1

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/project-nexus/apperrors"
	"github.com/project-nexus/dto"
	"github.com/project-nexus/middleware"
	"github.com/project-nexus/services"
)

// ProjectController serves projects, their images, stats and the leaderboard
type ProjectController struct {
	projectService     *services.ProjectService
	leaderboardService *services.LeaderboardService
}

func NewProjectController(projectService *services.ProjectService, leaderboardService *services.LeaderboardService) *ProjectController {
	return &ProjectController{
		projectService:     projectService,
		leaderboardService: leaderboardService,
	}
}

// RegisterRoutes registers project routes. writes wraps every mutating route (auth, rate limit).
func (pc *ProjectController) RegisterRoutes(router *gin.RouterGroup, writes ...gin.HandlerFunc) {
	projectGroup := router.Group("/projects")
	{
		projectGroup.GET("", pc.ListProjects)
		projectGroup.POST("", chain(writes, pc.CreateProject)...)
		projectGroup.GET("/top", pc.GetTop)
		projectGroup.GET("/:id", pc.GetProject)
		projectGroup.GET("/:id/stats", pc.GetProjectStats)
		projectGroup.POST("/:id/images", chain(writes, pc.AddImage)...)
	}
}

// ListProjects godoc
// @Summary List published projects
// @Tags projects
// @Param category query string false "poll, movie, ecommerce, social or job"
// @Param ordering query string false "created_at, -created_at, vote_count or -vote_count"
// @Router /projects [get]
func (pc *ProjectController) ListProjects(c *gin.Context) {
	var filter dto.ProjectFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		respondBindError(c, err)
		return
	}

	projects, err := pc.projectService.ListProjects(c.Request.Context(), middleware.CurrentPrincipal(c), filter)
	if err != nil {
		respondError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, projects)
}

// CreateProject godoc
// @Summary Create a project owned by the caller
// @Tags projects
// @Router /projects [post]
func (pc *ProjectController) CreateProject(c *gin.Context) {
	var req dto.CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	project, err := pc.projectService.CreateProject(c.Request.Context(), middleware.CurrentPrincipal(c), req)
	if err != nil {
		respondError(c, err)
		return
	}

	respondMessage(c, http.StatusCreated, "Project created successfully", project)
}

// GetTop godoc
// @Summary Most voted published projects, cached
// @Tags projects
// @Param limit query int false "number of projects (default 5)"
// @Router /projects/top [get]
func (pc *ProjectController) GetTop(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			respondError(c, apperrors.ValidationError("limit must be a positive integer"))
			return
		}
		limit = n
	}

	top, err := pc.leaderboardService.GetTop(c.Request.Context(), middleware.CurrentPrincipal(c), limit)
	if err != nil {
		respondError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, top)
}

// GetProject godoc
// @Summary Get a published project
// @Tags projects
// @Router /projects/{id} [get]
func (pc *ProjectController) GetProject(c *gin.Context) {
	project, err := pc.projectService.GetProject(c.Request.Context(), middleware.CurrentPrincipal(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, project)
}

// GetProjectStats returns vote_count, average_score and rating_count
func (pc *ProjectController) GetProjectStats(c *gin.Context) {
	stats, err := pc.projectService.GetProjectStats(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, stats)
}

// AddImage attaches an image URL to the caller's project
func (pc *ProjectController) AddImage(c *gin.Context) {
	var req dto.AddImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	image, err := pc.projectService.AddImage(c.Request.Context(), middleware.CurrentPrincipal(c), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}

	respondSuccess(c, http.StatusCreated, image)
}
