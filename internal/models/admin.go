package models

import (
	"time"

	"gorm.io/gorm"
)

// Admin is an operator account. Learners never have persistent records;
// only administrators are stored users.
type Admin struct {
	ID           uint   `json:"id" gorm:"primaryKey"`
	Name         string `json:"name" gorm:"not null;size:100" validate:"required"`
	Username     string `json:"username" gorm:"not null;size:100;uniqueIndex" validate:"required,min=3,max=100"`
	PasswordHash string `json:"-" gorm:"not null;size:200"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

func (Admin) TableName() string {
	return "admins"
}
