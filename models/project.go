package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Category is the kind of showcase a project belongs to. Criteria are shared per category.
type Category string

const (
	CategoryPoll      Category = "poll"
	CategoryMovie     Category = "movie"
	CategoryEcommerce Category = "ecommerce"
	CategorySocial    Category = "social"
	CategoryJob       Category = "job"
)

// Categories lists every valid category in display order
var Categories = []Category{CategoryPoll, CategoryMovie, CategoryEcommerce, CategorySocial, CategoryJob}

// Valid reports whether c is a known category
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// ProjectStatus is the review workflow state of a project
type ProjectStatus string

const (
	StatusDraft       ProjectStatus = "draft"
	StatusPublished   ProjectStatus = "published"
	StatusUnderReview ProjectStatus = "under_review"
	StatusRejected    ProjectStatus = "rejected"
)

// Project is a showcase entry. VoteCount, AverageScore and RatingCount are derived
// from the votes and ratings tables and are only written by the stats aggregator.
type Project struct {
	ID          string        `json:"id" gorm:"primaryKey;type:uuid"`
	Name        string        `json:"name" gorm:"size:200;not null"`
	Description string        `json:"description"`
	Category    Category      `json:"category" gorm:"type:varchar(20);not null;index:idx_project_category_status"`
	Status      ProjectStatus `json:"status" gorm:"type:varchar(20);not null;default:'draft';index:idx_project_category_status"`
	CreatorID   *string       `json:"creator_id" gorm:"type:uuid;index"`
	CreatedAt   time.Time     `json:"created_at" gorm:"index"`
	UpdatedAt   time.Time     `json:"updated_at"`

	// Derived stats
	VoteCount    int      `json:"vote_count" gorm:"not null;default:0;index"`
	AverageScore *float64 `json:"average_score" gorm:"index"`
	RatingCount  int      `json:"rating_count" gorm:"not null;default:0"`

	// Relations
	Creator *User          `json:"creator,omitempty" gorm:"foreignKey:CreatorID;constraint:OnDelete:SET NULL"`
	Images  []ProjectImage `json:"images,omitempty" gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE"`
}

func (p *Project) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// ProjectImage is a screenshot attached to a project. Only the URL is stored.
type ProjectImage struct {
	ID        string    `json:"id" gorm:"primaryKey;type:uuid"`
	ProjectID string    `json:"project_id" gorm:"type:uuid;not null;index"`
	URL       string    `json:"url" gorm:"not null"`
	Caption   string    `json:"caption" gorm:"size:200"`
	SortOrder int       `json:"order" gorm:"not null;default:0"`
	CreatedAt time.Time `json:"created_at"`
}

func (i *ProjectImage) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	return nil
}
