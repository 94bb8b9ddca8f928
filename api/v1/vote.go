package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/project-nexus/middleware"
	"github.com/project-nexus/services"
)

// VoteController handles casting and withdrawing votes
type VoteController struct {
	voteService *services.VoteService
}

func NewVoteController(voteService *services.VoteService) *VoteController {
	return &VoteController{voteService: voteService}
}

func (vc *VoteController) RegisterRoutes(router *gin.RouterGroup, writes ...gin.HandlerFunc) {
	router.POST("/projects/:id/vote", chain(writes, vc.CastVote)...)
	router.DELETE("/projects/:id/vote", chain(writes, vc.WithdrawVote)...)
}

// CastVote godoc
// @Summary Vote for a project (once per user)
// @Tags votes
// @Success 201
// @Failure 409 "already voted"
// @Router /projects/{id}/vote [post]
func (vc *VoteController) CastVote(c *gin.Context) {
	resp, err := vc.voteService.CastVote(c.Request.Context(), middleware.CurrentPrincipal(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondMessage(c, http.StatusCreated, "Voted successfully", resp)
}

// WithdrawVote removes the caller's vote
func (vc *VoteController) WithdrawVote(c *gin.Context) {
	resp, err := vc.voteService.WithdrawVote(c.Request.Context(), middleware.CurrentPrincipal(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondMessage(c, http.StatusOK, "Vote withdrawn", resp)
}
