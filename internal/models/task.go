package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Task is one video-based exercise belonging to exactly one assignment.
// Initial holds the mandatory words of the correct sentence, Alternative the
// distractor words offered in the reorder exercise. The two sets are disjoint
// within a task.
type Task struct {
	ID           uint `json:"id" gorm:"primaryKey"`
	AssignmentID uint `json:"assignment_id" gorm:"not null;index" validate:"required"`

	Question string `json:"question" gorm:"not null;type:text" validate:"required"`
	Example  string `json:"example" gorm:"not null;type:text" validate:"required"`

	Initial     datatypes.JSONSlice[string] `json:"initial" gorm:"not null" validate:"required,min=1"`
	Alternative datatypes.JSONSlice[string] `json:"alternative"`

	VideoURL string `json:"video_url" gorm:"not null;size:500" validate:"required,url"`
	ImageURL string `json:"image_url" gorm:"size:500" validate:"omitempty,url"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

func (Task) TableName() string {
	return "tasks"
}

// HasDisjointWordSets reports whether no word appears in both Initial and
// Alternative. The reorder exercise identifies words by their text, so a
// shared word would make tile origin ambiguous.
func (t *Task) HasDisjointWordSets() bool {
	seen := make(map[string]struct{}, len(t.Initial))
	for _, w := range t.Initial {
		seen[w] = struct{}{}
	}
	for _, w := range t.Alternative {
		if _, ok := seen[w]; ok {
			return false
		}
	}
	return true
}
