package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/xin-yuwen/assignment-service/internal/cache"
	"github.com/xin-yuwen/assignment-service/internal/models"
	"github.com/xin-yuwen/assignment-service/internal/repositories"
	"github.com/xin-yuwen/assignment-service/internal/utils"
)

// assignmentCacheTTL bounds staleness after task edits that bypass the
// invalidation path (e.g. direct DB changes).
const assignmentCacheTTL = 5 * time.Minute

// ResolvedTask is the outcome of mapping a URL position onto an assignment's
// ordered task list.
type ResolvedTask struct {
	Assignment *models.Assignment
	Task       *models.Task
	Position   int
	IsLast     bool
}

// SequencerService maps zero-based URL positions onto the ordered tasks of an
// assignment. Order is creation order; position is carried in the URL, so the
// server keeps no per-learner progress state.
type SequencerService interface {
	// AssignmentWithTasks loads the assignment and its live tasks in order.
	AssignmentWithTasks(ctx context.Context, assignmentID uint) (*models.Assignment, error)

	// Resolve returns the task at the given position. ErrAssignmentNotFound
	// when the assignment is missing or deleted; ErrOutOfRange when the
	// position is negative or past the last task.
	Resolve(ctx context.Context, assignmentID uint, position int) (*ResolvedTask, error)

	// InvalidateAssignment drops the cached task list after an edit.
	InvalidateAssignment(ctx context.Context, assignmentID uint) error
}

type sequencerService struct {
	repo   repositories.Repository
	cache  cache.CacheService
	logger utils.Logger
}

func NewSequencerService(repo repositories.Repository, cacheService cache.CacheService, logger utils.Logger) SequencerService {
	return &sequencerService{
		repo:   repo,
		cache:  cacheService,
		logger: logger,
	}
}

func assignmentCacheKey(assignmentID uint) string {
	return fmt.Sprintf("assignment:%d:tasks", assignmentID)
}

func (s *sequencerService) AssignmentWithTasks(ctx context.Context, assignmentID uint) (*models.Assignment, error) {
	key := assignmentCacheKey(assignmentID)

	var cached models.Assignment
	if err := s.cache.Get(ctx, key, &cached); err == nil {
		return &cached, nil
	} else if !errors.Is(err, cache.ErrCacheMiss) {
		s.logger.WarnContext(ctx, "assignment cache read failed", "assignment_id", assignmentID, "error", err)
	}

	assignment, err := s.repo.Assignment().GetByIDWithTasks(ctx, assignmentID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrAssignmentNotFound
		}
		return nil, fmt.Errorf("failed to load assignment %d: %w", assignmentID, err)
	}

	if err := s.cache.Set(ctx, key, assignment, assignmentCacheTTL); err != nil {
		s.logger.WarnContext(ctx, "assignment cache write failed", "assignment_id", assignmentID, "error", err)
	}

	return assignment, nil
}

func (s *sequencerService) Resolve(ctx context.Context, assignmentID uint, position int) (*ResolvedTask, error) {
	assignment, err := s.AssignmentWithTasks(ctx, assignmentID)
	if err != nil {
		return nil, err
	}

	if position < 0 || position >= len(assignment.Tasks) {
		return nil, ErrOutOfRange
	}

	return &ResolvedTask{
		Assignment: assignment,
		Task:       &assignment.Tasks[position],
		Position:   position,
		IsLast:     position == len(assignment.Tasks)-1,
	}, nil
}

func (s *sequencerService) InvalidateAssignment(ctx context.Context, assignmentID uint) error {
	return s.cache.Delete(ctx, assignmentCacheKey(assignmentID))
}
