package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Comment is a threaded remark on a project
type Comment struct {
	ID        string    `json:"id" gorm:"primaryKey;type:uuid"`
	UserID    string    `json:"user_id" gorm:"type:uuid;not null"`
	ProjectID string    `json:"project_id" gorm:"type:uuid;not null;index:idx_comment_project_created"`
	ParentID  *string   `json:"parent_id" gorm:"type:uuid"`
	Content   string    `json:"content" gorm:"not null"`
	CreatedAt time.Time `json:"created_at" gorm:"index:idx_comment_project_created"`
	UpdatedAt time.Time `json:"updated_at"`

	User    User     `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Project Project  `json:"-" gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE"`
	Parent  *Comment `json:"-" gorm:"foreignKey:ParentID;constraint:OnDelete:CASCADE"`
}

func (c *Comment) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}
