package models

import "time"

type LogAction string

const (
	ActionCorrect  LogAction = "correct"
	ActionUnsure   LogAction = "unsure"
	ActionRephrase LogAction = "rephrase"
)

// ValidLogActions lists the closed set of accepted submission actions.
var ValidLogActions = []LogAction{ActionCorrect, ActionUnsure, ActionRephrase}

func (a LogAction) IsValid() bool {
	for _, v := range ValidLogActions {
		if a == v {
			return true
		}
	}
	return false
}

// AnswerLog is an immutable record of one task submission. Question and
// Example are snapshotted at submission time so later task edits do not
// rewrite history. Rows are only ever inserted; repeated submissions for the
// same task produce additional rows.
type AnswerLog struct {
	ID uint `json:"id" gorm:"primaryKey"`

	UserName     string `json:"user_name" gorm:"not null;size:100;index" validate:"required"`
	AssignmentID uint   `json:"assignment_id" gorm:"not null;index" validate:"required"`
	TaskID       uint   `json:"task_id" gorm:"not null;index" validate:"required"`

	Question string    `json:"question" gorm:"not null;type:text"`
	Example  string    `json:"example" gorm:"not null;type:text"`
	Action   LogAction `json:"action" gorm:"not null;size:20" validate:"required,log_action"`
	Answer   string    `json:"answer" gorm:"type:text"`

	UserAgent string    `json:"user_agent" gorm:"size:500"`
	CreatedAt time.Time `json:"created_at" gorm:"index"`

	// Relations
	Assignment Assignment `json:"-" gorm:"foreignKey:AssignmentID" validate:"-"`
}

func (AnswerLog) TableName() string {
	return "answer_logs"
}
