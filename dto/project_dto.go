package dto

import (
	"time"

	"github.com/project-nexus/models"
)

// ProjectFilter represents filter criteria for project listings
type ProjectFilter struct {
	Category string `form:"category"`
	Ordering string `form:"ordering"`
}

// CreateProjectRequest represents the request payload for creating a new project
type CreateProjectRequest struct {
	Name        string `json:"name" binding:"required,max=200"`
	Description string `json:"description"`
	Category    string `json:"category" binding:"required"`
}

// AddImageRequest attaches an already hosted image to a project
type AddImageRequest struct {
	URL     string `json:"url" binding:"required,url"`
	Caption string `json:"caption" binding:"max=200"`
	Order   int    `json:"order" binding:"min=0"`
}

// ImageResponse represents a project image
type ImageResponse struct {
	ID      string `json:"id"`
	URL     string `json:"url"`
	Caption string `json:"caption"`
	Order   int    `json:"order"`
}

// ProjectResponse is the public representation of a project. HasVoted is relative
// to the requesting user and always false for anonymous callers.
type ProjectResponse struct {
	ID          string               `json:"id"`
	Name        string               `json:"name"`
	Description string               `json:"description"`
	Category    models.Category      `json:"category"`
	Creator     *string              `json:"creator"`
	Status      models.ProjectStatus `json:"status"`
	VoteCount   int                  `json:"vote_count"`
	HasVoted    bool                 `json:"has_voted"`
	Images      []ImageResponse      `json:"images"`
	CreatedAt   time.Time            `json:"created_at"`
}

// ProjectStatsResponse carries the derived statistics of a project
type ProjectStatsResponse struct {
	ProjectID    string   `json:"project_id"`
	VoteCount    int      `json:"vote_count"`
	AverageScore *float64 `json:"average_score"`
	RatingCount  int      `json:"rating_count"`
}

// NewProjectResponse maps a project with its relations loaded
func NewProjectResponse(p *models.Project, hasVoted bool) ProjectResponse {
	images := make([]ImageResponse, 0, len(p.Images))
	for _, img := range p.Images {
		images = append(images, NewImageResponse(&img))
	}

	var creator *string
	if p.Creator != nil {
		name := p.Creator.Username
		creator = &name
	}

	return ProjectResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Category:    p.Category,
		Creator:     creator,
		Status:      p.Status,
		VoteCount:   p.VoteCount,
		HasVoted:    hasVoted,
		Images:      images,
		CreatedAt:   p.CreatedAt,
	}
}

func NewImageResponse(img *models.ProjectImage) ImageResponse {
	return ImageResponse{
		ID:      img.ID,
		URL:     img.URL,
		Caption: img.Caption,
		Order:   img.SortOrder,
	}
}

func NewProjectStatsResponse(p *models.Project) ProjectStatsResponse {
	return ProjectStatsResponse{
		ProjectID:    p.ID,
		VoteCount:    p.VoteCount,
		AverageScore: p.AverageScore,
		RatingCount:  p.RatingCount,
	}
}
