package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/project-nexus/dto"
	"github.com/project-nexus/middleware"
	"github.com/project-nexus/services"
)

// RatingController handles per-criteria project ratings
type RatingController struct {
	ratingService *services.RatingService
}

func NewRatingController(ratingService *services.RatingService) *RatingController {
	return &RatingController{ratingService: ratingService}
}

func (rc *RatingController) RegisterRoutes(router *gin.RouterGroup, writes ...gin.HandlerFunc) {
	router.GET("/projects/:id/ratings", rc.ListRatings)
	router.POST("/projects/:id/ratings", chain(writes, rc.SubmitRating)...)
	router.DELETE("/projects/:id/ratings/:ratingId", chain(writes, rc.DeleteRating)...)
}

// SubmitRating godoc
// @Summary Rate one criteria of a project (1-10, once per criteria)
// @Tags ratings
// @Success 201
// @Failure 400 "score out of range or criteria mismatch"
// @Failure 409 "already rated"
// @Router /projects/{id}/ratings [post]
func (rc *RatingController) SubmitRating(c *gin.Context) {
	var req dto.SubmitRatingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	rating, err := rc.ratingService.SubmitRating(c.Request.Context(), middleware.CurrentPrincipal(c), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}

	respondSuccess(c, http.StatusCreated, rating)
}

func (rc *RatingController) ListRatings(c *gin.Context) {
	ratings, err := rc.ratingService.ListRatings(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, ratings)
}

func (rc *RatingController) DeleteRating(c *gin.Context) {
	err := rc.ratingService.DeleteRating(c.Request.Context(), middleware.CurrentPrincipal(c), c.Param("id"), c.Param("ratingId"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondMessage(c, http.StatusOK, "Rating deleted", nil)
}
