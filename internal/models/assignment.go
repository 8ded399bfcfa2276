package models

import (
	"time"

	"gorm.io/gorm"
)

// Assignment is a named, ordered collection of tasks presented to an
// anonymous learner as one session. Task order is creation order.
type Assignment struct {
	ID   uint   `json:"id" gorm:"primaryKey"`
	Name string `json:"name" gorm:"not null;size:200;index" validate:"required,min=1,max=200"`

	// Display configuration shown on the start screen.
	Tip *string `json:"tip" gorm:"type:text" validate:"omitempty,max=1000"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// Relations
	Tasks []Task `json:"tasks" gorm:"foreignKey:AssignmentID"`

	// Computed fields (not stored)
	TaskCount int `json:"task_count" gorm:"-"`
}

func (Assignment) TableName() string {
	return "assignments"
}
