package dto

import "github.com/project-nexus/models"

// CreateCriteriaRequest adds a rubric item to a category
type CreateCriteriaRequest struct {
	Category    string `json:"category" binding:"required"`
	Name        string `json:"name" binding:"required,max=100"`
	Description string `json:"description"`
	Weight      int    `json:"weight" binding:"omitempty,min=1"`
	Order       int    `json:"order" binding:"min=0"`
}

type CriteriaResponse struct {
	ID          string          `json:"id"`
	Category    models.Category `json:"category"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Weight      int             `json:"weight"`
	Order       int             `json:"order"`
}

func NewCriteriaResponse(c *models.Criteria) CriteriaResponse {
	return CriteriaResponse{
		ID:          c.ID,
		Category:    c.Category,
		Name:        c.Name,
		Description: c.Description,
		Weight:      c.Weight,
		Order:       c.SortOrder,
	}
}
