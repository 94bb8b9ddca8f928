package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Criteria is a rubric item shared by every project of one category
type Criteria struct {
	ID          string    `json:"id" gorm:"primaryKey;type:uuid"`
	Category    Category  `json:"category" gorm:"type:varchar(20);not null;uniqueIndex:idx_criteria_category_name"`
	Name        string    `json:"name" gorm:"size:100;not null;uniqueIndex:idx_criteria_category_name"`
	Description string    `json:"description"`
	Weight      int       `json:"weight" gorm:"not null;default:1"`
	SortOrder   int       `json:"order" gorm:"not null;default:0"`
	CreatedAt   time.Time `json:"created_at"`
}

func (Criteria) TableName() string {
	return "criteria"
}

func (c *Criteria) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.Weight == 0 {
		c.Weight = 1
	}
	return nil
}
