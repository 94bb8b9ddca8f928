package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Vote records that a user upvoted a project. At most one per (user, project).
type Vote struct {
	ID        string    `json:"id" gorm:"primaryKey;type:uuid"`
	UserID    string    `json:"user_id" gorm:"type:uuid;not null;uniqueIndex:idx_vote_user_project"`
	ProjectID string    `json:"project_id" gorm:"type:uuid;not null;uniqueIndex:idx_vote_user_project;index"`
	CreatedAt time.Time `json:"created_at"`

	User    User    `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Project Project `json:"-" gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE"`
}

func (v *Vote) BeforeCreate(tx *gorm.DB) error {
	if v.ID == "" {
		v.ID = uuid.NewString()
	}
	return nil
}
