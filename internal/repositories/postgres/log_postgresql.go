package postgres

import (
	"context"
	"fmt"

	"github.com/xin-yuwen/assignment-service/internal/models"
	"github.com/xin-yuwen/assignment-service/internal/repositories"
	"gorm.io/gorm"
)

type LogPostgreSQL struct {
	db *gorm.DB
}

func NewLogPostgreSQL(db *gorm.DB) repositories.LogRepository {
	return &LogPostgreSQL{db: db}
}

// Create appends one answer log row. Logs are never updated or deleted.
func (l *LogPostgreSQL) Create(ctx context.Context, log *models.AnswerLog) error {
	if err := l.db.WithContext(ctx).Create(log).Error; err != nil {
		return fmt.Errorf("failed to append answer log: %w", err)
	}
	return nil
}

// List retrieves logs oldest first, with the owning assignment preloaded for
// export. Unscoped so logs of since-deleted assignments keep their name.
func (l *LogPostgreSQL) List(ctx context.Context, filters repositories.LogFilters) ([]*models.AnswerLog, error) {
	query := l.db.WithContext(ctx).Model(&models.AnswerLog{}).
		Preload("Assignment", func(db *gorm.DB) *gorm.DB {
			return db.Unscoped()
		})

	if filters.AssignmentID != nil {
		query = query.Where("assignment_id = ?", *filters.AssignmentID)
	}
	if filters.UserName != "" {
		query = query.Where("user_name = ?", filters.UserName)
	}
	if filters.DateFrom != nil {
		query = query.Where("created_at >= ?", *filters.DateFrom)
	}
	if filters.DateTo != nil {
		query = query.Where("created_at <= ?", *filters.DateTo)
	}
	if filters.Limit > 0 {
		query = query.Limit(filters.Limit)
	}
	if filters.Offset > 0 {
		query = query.Offset(filters.Offset)
	}

	var logs []*models.AnswerLog
	if err := query.Order("created_at ASC, id ASC").Find(&logs).Error; err != nil {
		return nil, fmt.Errorf("failed to list answer logs: %w", err)
	}

	return logs, nil
}

// CountByAssignment counts the rows recorded for one assignment
func (l *LogPostgreSQL) CountByAssignment(ctx context.Context, assignmentID uint) (int64, error) {
	var count int64
	err := l.db.WithContext(ctx).Model(&models.AnswerLog{}).
		Where("assignment_id = ?", assignmentID).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count answer logs: %w", err)
	}

	return count, nil
}
