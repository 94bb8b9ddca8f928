package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/project-nexus/dto"
	"github.com/project-nexus/middleware"
	"github.com/project-nexus/services"
)

type CommentController struct {
	commentService *services.CommentService
}

func NewCommentController(commentService *services.CommentService) *CommentController {
	return &CommentController{commentService: commentService}
}

func (cc *CommentController) RegisterRoutes(router *gin.RouterGroup, writes ...gin.HandlerFunc) {
	router.GET("/projects/:id/comments", cc.ListComments)
	router.POST("/projects/:id/comments", chain(writes, cc.CreateComment)...)
}

func (cc *CommentController) ListComments(c *gin.Context) {
	comments, err := cc.commentService.ListComments(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, comments)
}

func (cc *CommentController) CreateComment(c *gin.Context) {
	var req dto.CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	comment, err := cc.commentService.CreateComment(c.Request.Context(), middleware.CurrentPrincipal(c), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}

	respondSuccess(c, http.StatusCreated, comment)
}
