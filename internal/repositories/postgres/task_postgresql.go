package postgres

import (
	"context"
	"fmt"

	"github.com/xin-yuwen/assignment-service/internal/models"
	"github.com/xin-yuwen/assignment-service/internal/repositories"
	"gorm.io/gorm"
)

type TaskPostgreSQL struct {
	db *gorm.DB
}

func NewTaskPostgreSQL(db *gorm.DB) repositories.TaskRepository {
	return &TaskPostgreSQL{db: db}
}

// Create creates a new task; it joins the end of the assignment's sequence
func (t *TaskPostgreSQL) Create(ctx context.Context, task *models.Task) error {
	return t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// The parent assignment must exist and be live.
		var assignment models.Assignment
		if err := tx.First(&assignment, task.AssignmentID).Error; err != nil {
			return fmt.Errorf("assignment not found: %w", err)
		}

		if err := tx.Create(task).Error; err != nil {
			return fmt.Errorf("failed to create task: %w", err)
		}
		return nil
	})
}

// GetByID retrieves a task by ID
func (t *TaskPostgreSQL) GetByID(ctx context.Context, id uint) (*models.Task, error) {
	var task models.Task
	err := t.db.WithContext(ctx).First(&task, id).Error
	if err != nil {
		return nil, err
	}

	return &task, nil
}

// ListByAssignment retrieves the assignment's live tasks in creation order
func (t *TaskPostgreSQL) ListByAssignment(ctx context.Context, assignmentID uint) ([]*models.Task, error) {
	var tasks []*models.Task
	err := t.db.WithContext(ctx).
		Where("assignment_id = ?", assignmentID).
		Order("created_at ASC, id ASC").
		Find(&tasks).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	return tasks, nil
}

// Update updates a task's content fields
func (t *TaskPostgreSQL) Update(ctx context.Context, task *models.Task) error {
	result := t.db.WithContext(ctx).Model(task).
		Select("Question", "Example", "Initial", "Alternative", "VideoURL", "ImageURL").
		Updates(task)
	if result.Error != nil {
		return fmt.Errorf("failed to update task: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Delete soft-deletes a task; the remaining tasks close ranks in the sequence
func (t *TaskPostgreSQL) Delete(ctx context.Context, id uint) error {
	result := t.db.WithContext(ctx).Delete(&models.Task{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete task: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
