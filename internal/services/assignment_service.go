package services

import (
	"context"
	"fmt"

	"github.com/xin-yuwen/assignment-service/internal/models"
	"github.com/xin-yuwen/assignment-service/internal/repositories"
	"github.com/xin-yuwen/assignment-service/internal/utils"
	appvalidator "github.com/xin-yuwen/assignment-service/internal/validator"
)

// CreateAssignmentRequest creates an empty assignment; tasks are added one by
// one afterwards.
type CreateAssignmentRequest struct {
	Name string  `json:"name" validate:"required,min=1,max=200"`
	Tip  *string `json:"tip" validate:"omitempty,max=1000"`
}

type UpdateAssignmentRequest struct {
	Name string  `json:"name" validate:"required,min=1,max=200"`
	Tip  *string `json:"tip" validate:"omitempty,max=1000"`
}

type CreateTaskRequest struct {
	AssignmentID uint     `json:"assignment_id" validate:"required"`
	Question     string   `json:"question" validate:"required"`
	Example      string   `json:"example" validate:"required"`
	Initial      []string `json:"initial" validate:"required,min=1"`
	Alternative  []string `json:"alternative"`
	VideoURL     string   `json:"video_url" validate:"required,url"`
	ImageURL     string   `json:"image_url" validate:"omitempty,url"`
}

type UpdateTaskRequest struct {
	Question    string   `json:"question" validate:"required"`
	Example     string   `json:"example" validate:"required"`
	Initial     []string `json:"initial" validate:"required,min=1"`
	Alternative []string `json:"alternative"`
	VideoURL    string   `json:"video_url" validate:"required,url"`
	ImageURL    string   `json:"image_url" validate:"omitempty,url"`
}

// AssignmentService is the admin-side authoring surface. Task mutations
// invalidate the sequencer's cached task list so learners see edits on their
// next navigation.
type AssignmentService interface {
	CreateAssignment(ctx context.Context, req *CreateAssignmentRequest) (*models.Assignment, error)
	GetAssignment(ctx context.Context, id uint) (*models.Assignment, error)
	GetAssignmentWithTasks(ctx context.Context, id uint) (*models.Assignment, error)
	ListAssignments(ctx context.Context, filters repositories.AssignmentFilters) ([]*models.Assignment, int64, error)
	UpdateAssignment(ctx context.Context, id uint, req *UpdateAssignmentRequest) (*models.Assignment, error)
	DeleteAssignment(ctx context.Context, id uint) error

	CreateTask(ctx context.Context, req *CreateTaskRequest) (*models.Task, error)
	GetTask(ctx context.Context, id uint) (*models.Task, error)
	UpdateTask(ctx context.Context, id uint, req *UpdateTaskRequest) (*models.Task, error)
	DeleteTask(ctx context.Context, id uint) error
}

type assignmentService struct {
	repo      repositories.Repository
	sequencer SequencerService
	validator *appvalidator.Validator
	logger    utils.Logger
}

func NewAssignmentService(
	repo repositories.Repository,
	sequencer SequencerService,
	validator *appvalidator.Validator,
	logger utils.Logger,
) AssignmentService {
	return &assignmentService{
		repo:      repo,
		sequencer: sequencer,
		validator: validator,
		logger:    logger,
	}
}

// ===== ASSIGNMENTS =====

func (s *assignmentService) CreateAssignment(ctx context.Context, req *CreateAssignmentRequest) (*models.Assignment, error) {
	if err := s.validator.ValidateStruct(req); err != nil {
		return nil, err
	}

	assignment := &models.Assignment{
		Name: req.Name,
		Tip:  req.Tip,
	}
	if err := s.repo.Assignment().Create(ctx, assignment); err != nil {
		return nil, fmt.Errorf("failed to create assignment: %w", err)
	}

	s.logger.InfoContext(ctx, "assignment created", "assignment_id", assignment.ID, "name", assignment.Name)
	return assignment, nil
}

func (s *assignmentService) GetAssignment(ctx context.Context, id uint) (*models.Assignment, error) {
	assignment, err := s.repo.Assignment().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrAssignmentNotFound
		}
		return nil, fmt.Errorf("failed to load assignment %d: %w", id, err)
	}
	return assignment, nil
}

func (s *assignmentService) GetAssignmentWithTasks(ctx context.Context, id uint) (*models.Assignment, error) {
	return s.sequencer.AssignmentWithTasks(ctx, id)
}

func (s *assignmentService) ListAssignments(ctx context.Context, filters repositories.AssignmentFilters) ([]*models.Assignment, int64, error) {
	assignments, total, err := s.repo.Assignment().List(ctx, filters)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list assignments: %w", err)
	}
	return assignments, total, nil
}

func (s *assignmentService) UpdateAssignment(ctx context.Context, id uint, req *UpdateAssignmentRequest) (*models.Assignment, error) {
	if err := s.validator.ValidateStruct(req); err != nil {
		return nil, err
	}

	assignment, err := s.GetAssignment(ctx, id)
	if err != nil {
		return nil, err
	}

	assignment.Name = req.Name
	assignment.Tip = req.Tip
	if err := s.repo.Assignment().Update(ctx, assignment); err != nil {
		return nil, fmt.Errorf("failed to update assignment %d: %w", id, err)
	}

	s.invalidate(ctx, id)
	return assignment, nil
}

// DeleteAssignment soft-deletes the assignment. Its answer logs stay; exports
// of historical data keep working.
func (s *assignmentService) DeleteAssignment(ctx context.Context, id uint) error {
	if err := s.repo.Assignment().Delete(ctx, id); err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrAssignmentNotFound
		}
		return fmt.Errorf("failed to delete assignment %d: %w", id, err)
	}

	s.invalidate(ctx, id)
	s.logger.InfoContext(ctx, "assignment deleted", "assignment_id", id)
	return nil
}

// ===== TASKS =====

func (s *assignmentService) CreateTask(ctx context.Context, req *CreateTaskRequest) (*models.Task, error) {
	task := &models.Task{
		AssignmentID: req.AssignmentID,
		Question:     req.Question,
		Example:      req.Example,
		Initial:      req.Initial,
		Alternative:  req.Alternative,
		VideoURL:     req.VideoURL,
		ImageURL:     req.ImageURL,
	}
	if err := s.validator.Validate(task); err != nil {
		return nil, err
	}

	if err := s.repo.Task().Create(ctx, task); err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrAssignmentNotFound
		}
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	s.invalidate(ctx, req.AssignmentID)
	s.logger.InfoContext(ctx, "task created", "task_id", task.ID, "assignment_id", task.AssignmentID)
	return task, nil
}

func (s *assignmentService) GetTask(ctx context.Context, id uint) (*models.Task, error) {
	task, err := s.repo.Task().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to load task %d: %w", id, err)
	}
	return task, nil
}

func (s *assignmentService) UpdateTask(ctx context.Context, id uint, req *UpdateTaskRequest) (*models.Task, error) {
	task, err := s.GetTask(ctx, id)
	if err != nil {
		return nil, err
	}

	task.Question = req.Question
	task.Example = req.Example
	task.Initial = req.Initial
	task.Alternative = req.Alternative
	task.VideoURL = req.VideoURL
	task.ImageURL = req.ImageURL
	if err := s.validator.Validate(task); err != nil {
		return nil, err
	}

	if err := s.repo.Task().Update(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to update task %d: %w", id, err)
	}

	s.invalidate(ctx, task.AssignmentID)
	return task, nil
}

func (s *assignmentService) DeleteTask(ctx context.Context, id uint) error {
	task, err := s.GetTask(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Task().Delete(ctx, id); err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrTaskNotFound
		}
		return fmt.Errorf("failed to delete task %d: %w", id, err)
	}

	s.invalidate(ctx, task.AssignmentID)
	s.logger.InfoContext(ctx, "task deleted", "task_id", id, "assignment_id", task.AssignmentID)
	return nil
}

func (s *assignmentService) invalidate(ctx context.Context, assignmentID uint) {
	if err := s.sequencer.InvalidateAssignment(ctx, assignmentID); err != nil {
		s.logger.WarnContext(ctx, "failed to invalidate assignment cache",
			"assignment_id", assignmentID, "error", err)
	}
}
