package dto

import (
	"time"

	"github.com/project-nexus/models"
)

// SubmitRatingRequest scores one criteria of a project. Score is a pointer so a
// missing value is distinguishable from an out-of-range zero.
type SubmitRatingRequest struct {
	CriteriaID string `json:"criteria_id" binding:"required"`
	Score      *int   `json:"score" binding:"required"`
}

type RatingResponse struct {
	ID         string    `json:"id"`
	ProjectID  string    `json:"project_id"`
	CriteriaID string    `json:"criteria_id"`
	Score      int       `json:"score"`
	CreatedAt  time.Time `json:"created_at"`
}

func NewRatingResponse(r *models.Rating) RatingResponse {
	return RatingResponse{
		ID:         r.ID,
		ProjectID:  r.ProjectID,
		CriteriaID: r.CriteriaID,
		Score:      r.Score,
		CreatedAt:  r.CreatedAt,
	}
}
