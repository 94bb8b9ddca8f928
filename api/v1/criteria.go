package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/project-nexus/dto"
	"github.com/project-nexus/middleware"
	"github.com/project-nexus/services"
)

// CriteriaController exposes the rating rubric
type CriteriaController struct {
	criteriaService *services.CriteriaService
}

func NewCriteriaController(criteriaService *services.CriteriaService) *CriteriaController {
	return &CriteriaController{criteriaService: criteriaService}
}

// RegisterRoutes registers criteria routes; creating criteria is admin only
func (cc *CriteriaController) RegisterRoutes(router *gin.RouterGroup) {
	criteriaGroup := router.Group("/criteria")
	{
		criteriaGroup.GET("", cc.ListCriteria)
		criteriaGroup.POST("", middleware.AdminMiddleware(), cc.CreateCriteria)
	}
}

// ListCriteria godoc
// @Summary List rating criteria
// @Tags criteria
// @Param category query string false "restrict to one category"
// @Router /criteria [get]
func (cc *CriteriaController) ListCriteria(c *gin.Context) {
	criteria, err := cc.criteriaService.ListCriteria(c.Request.Context(), c.Query("category"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, criteria)
}

func (cc *CriteriaController) CreateCriteria(c *gin.Context) {
	var req dto.CreateCriteriaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	criteria, err := cc.criteriaService.CreateCriteria(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	respondSuccess(c, http.StatusCreated, criteria)
}
