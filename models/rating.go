package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	MinScore = 1
	MaxScore = 10
)

// Rating is a user's score for one criteria of a project.
// At most one per (user, project, criteria).
type Rating struct {
	ID         string    `json:"id" gorm:"primaryKey;type:uuid"`
	UserID     string    `json:"user_id" gorm:"type:uuid;not null;uniqueIndex:idx_rating_user_project_criteria"`
	ProjectID  string    `json:"project_id" gorm:"type:uuid;not null;uniqueIndex:idx_rating_user_project_criteria;index:idx_rating_project_criteria"`
	CriteriaID string    `json:"criteria_id" gorm:"type:uuid;not null;uniqueIndex:idx_rating_user_project_criteria;index:idx_rating_project_criteria"`
	Score      int       `json:"score" gorm:"not null;check:chk_rating_score,score >= 1 AND score <= 10"`
	CreatedAt  time.Time `json:"created_at" gorm:"index"`

	User     User     `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Project  Project  `json:"-" gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE"`
	Criteria Criteria `json:"-" gorm:"foreignKey:CriteriaID;constraint:OnDelete:CASCADE"`
}

func (r *Rating) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}
