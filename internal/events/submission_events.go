package events

import (
	"time"

	"github.com/xin-yuwen/assignment-service/internal/models"
)

// EventType represents different types of submission events
type EventType string

const (
	// Flow events
	EventSessionStarted  EventType = "session.started"
	EventAnswerSubmitted EventType = "answer.submitted"
	EventRunFinished     EventType = "run.finished"
)

// SubmissionEvent is the base event structure published after flow actions
type SubmissionEvent struct {
	ID        string                 `json:"id"`
	Type      EventType              `json:"type"`
	Timestamp time.Time              `json:"timestamp"`
	Source    string                 `json:"source"`
	Version   string                 `json:"version"`
	Data      interface{}            `json:"data"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

// SessionStartedEvent is emitted when a learner enters a name and starts a run
type SessionStartedEvent struct {
	UserName     string    `json:"user_name"`
	AssignmentID uint      `json:"assignment_id"`
	StartedAt    time.Time `json:"started_at"`
}

// AnswerSubmittedEvent is emitted after every appended answer log row
type AnswerSubmittedEvent struct {
	LogID        uint             `json:"log_id"`
	UserName     string           `json:"user_name"`
	AssignmentID uint             `json:"assignment_id"`
	TaskID       uint             `json:"task_id"`
	Position     int              `json:"position"`
	Action       models.LogAction `json:"action"`
	IsLast       bool             `json:"is_last"`
	SubmittedAt  time.Time        `json:"submitted_at"`
}

// RunFinishedEvent is emitted when the submission at the last position lands
type RunFinishedEvent struct {
	UserName     string    `json:"user_name"`
	AssignmentID uint      `json:"assignment_id"`
	TaskCount    int       `json:"task_count"`
	FinishedAt   time.Time `json:"finished_at"`
}
