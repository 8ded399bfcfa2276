package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/xin-yuwen/assignment-service/internal/models"
	"gorm.io/gorm"
)

// ===== SHARED FILTER STRUCTS =====

type AssignmentFilters struct {
	NameContains string     `json:"name_contains"`
	DateFrom     *time.Time `json:"date_from"`
	DateTo       *time.Time `json:"date_to"`
	Limit        int        `json:"limit"`
	Offset       int        `json:"offset"`
}

type LogFilters struct {
	AssignmentID *uint      `json:"assignment_id"`
	UserName     string     `json:"user_name"`
	DateFrom     *time.Time `json:"date_from"`
	DateTo       *time.Time `json:"date_to"`
	Limit        int        `json:"limit"`
	Offset       int        `json:"offset"`
}

// ===== REPOSITORY INTERFACES =====

// AssignmentRepository covers assignment-level persistence. Deletes are soft;
// deleted assignments are invisible to every read.
type AssignmentRepository interface {
	Create(ctx context.Context, assignment *models.Assignment) error
	GetByID(ctx context.Context, id uint) (*models.Assignment, error)
	// GetByIDWithTasks loads the assignment with its live tasks in creation
	// order. The task slice order defines the sequencing index.
	GetByIDWithTasks(ctx context.Context, id uint) (*models.Assignment, error)
	List(ctx context.Context, filters AssignmentFilters) ([]*models.Assignment, int64, error)
	Update(ctx context.Context, assignment *models.Assignment) error
	Delete(ctx context.Context, id uint) error
}

type TaskRepository interface {
	Create(ctx context.Context, task *models.Task) error
	GetByID(ctx context.Context, id uint) (*models.Task, error)
	ListByAssignment(ctx context.Context, assignmentID uint) ([]*models.Task, error)
	Update(ctx context.Context, task *models.Task) error
	Delete(ctx context.Context, id uint) error
}

// LogRepository is append-only: there is deliberately no update or delete.
type LogRepository interface {
	Create(ctx context.Context, log *models.AnswerLog) error
	List(ctx context.Context, filters LogFilters) ([]*models.AnswerLog, error)
	CountByAssignment(ctx context.Context, assignmentID uint) (int64, error)
}

type AdminRepository interface {
	Create(ctx context.Context, admin *models.Admin) error
	GetByID(ctx context.Context, id uint) (*models.Admin, error)
	GetByUsername(ctx context.Context, username string) (*models.Admin, error)
}

// Repository aggregates all repositories behind one constructor-injected
// dependency.
type Repository interface {
	Assignment() AssignmentRepository
	Task() TaskRepository
	Log() LogRepository
	Admin() AdminRepository
}

// IsNotFoundError reports whether err is the store's missing-row error.
func IsNotFoundError(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
