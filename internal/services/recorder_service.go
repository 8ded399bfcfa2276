package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/xin-yuwen/assignment-service/internal/events"
	"github.com/xin-yuwen/assignment-service/internal/models"
	"github.com/xin-yuwen/assignment-service/internal/repositories"
	"github.com/xin-yuwen/assignment-service/internal/utils"
	appvalidator "github.com/xin-yuwen/assignment-service/internal/validator"
)

// RecordRequest is one task submission from a learner.
type RecordRequest struct {
	UserName     string           `json:"user_name" validate:"required"`
	AssignmentID uint             `json:"assignment_id" validate:"required"`
	Position     int              `json:"position"`
	Action       models.LogAction `json:"action" validate:"required,log_action"`
	Answer       string           `json:"answer"`
	UserAgent    string           `json:"user_agent"`
}

// RecordResult carries the appended row plus where the learner goes next.
type RecordResult struct {
	Log          *models.AnswerLog
	IsLast       bool
	NextPosition int
}

// RecorderService appends answer logs. The log is the system of record: the
// database write must succeed for the submission to count, while event
// publishing is best-effort.
type RecorderService interface {
	Record(ctx context.Context, req *RecordRequest) (*RecordResult, error)
	StartSession(ctx context.Context, userName string, assignmentID uint)
}

type recorderService struct {
	repo      repositories.Repository
	sequencer SequencerService
	publisher events.EventPublisher
	validator *appvalidator.Validator
	logger    utils.Logger
}

func NewRecorderService(
	repo repositories.Repository,
	sequencer SequencerService,
	publisher events.EventPublisher,
	validator *appvalidator.Validator,
	logger utils.Logger,
) RecorderService {
	return &recorderService{
		repo:      repo,
		sequencer: sequencer,
		publisher: publisher,
		validator: validator,
		logger:    logger,
	}
}

func (s *recorderService) Record(ctx context.Context, req *RecordRequest) (*RecordResult, error) {
	if strings.TrimSpace(req.UserName) == "" {
		return nil, ErrNameRequired
	}
	if !req.Action.IsValid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAction, req.Action)
	}
	// Only the reorder exercise carries an answer sentence.
	if req.Action == models.ActionRephrase && strings.TrimSpace(req.Answer) == "" {
		return nil, ErrAnswerRequired
	}
	if err := s.validator.ValidateStruct(req); err != nil {
		return nil, err
	}

	// A submission against a position that no longer exists is a client
	// error, not a redirect: the POST targets a concrete task.
	resolved, err := s.sequencer.Resolve(ctx, req.AssignmentID, req.Position)
	if err != nil {
		return nil, err
	}

	log := &models.AnswerLog{
		UserName:     req.UserName,
		AssignmentID: req.AssignmentID,
		TaskID:       resolved.Task.ID,
		Question:     resolved.Task.Question,
		Example:      resolved.Task.Example,
		Action:       req.Action,
		Answer:       req.Answer,
		UserAgent:    req.UserAgent,
	}
	if err := s.repo.Log().Create(ctx, log); err != nil {
		return nil, fmt.Errorf("failed to append answer log: %w", err)
	}

	s.publishAnswerSubmitted(ctx, log, resolved)
	if resolved.IsLast {
		s.publishRunFinished(ctx, log, resolved)
	}

	return &RecordResult{
		Log:          log,
		IsLast:       resolved.IsLast,
		NextPosition: resolved.Position + 1,
	}, nil
}

// StartSession emits the session.started event. There is no session row to
// persist, so failures only get logged.
func (s *recorderService) StartSession(ctx context.Context, userName string, assignmentID uint) {
	event := newSubmissionEvent(events.EventSessionStarted, events.SessionStartedEvent{
		UserName:     userName,
		AssignmentID: assignmentID,
		StartedAt:    time.Now(),
	})
	if err := s.publisher.PublishSubmissionEvent(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "failed to publish session started event",
			"assignment_id", assignmentID, "error", err)
	}
}

func (s *recorderService) publishAnswerSubmitted(ctx context.Context, log *models.AnswerLog, resolved *ResolvedTask) {
	event := newSubmissionEvent(events.EventAnswerSubmitted, events.AnswerSubmittedEvent{
		LogID:        log.ID,
		UserName:     log.UserName,
		AssignmentID: log.AssignmentID,
		TaskID:       log.TaskID,
		Position:     resolved.Position,
		Action:       log.Action,
		IsLast:       resolved.IsLast,
		SubmittedAt:  log.CreatedAt,
	})
	if err := s.publisher.PublishSubmissionEvent(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "failed to publish answer submitted event",
			"log_id", log.ID, "error", err)
	}
}

func (s *recorderService) publishRunFinished(ctx context.Context, log *models.AnswerLog, resolved *ResolvedTask) {
	event := newSubmissionEvent(events.EventRunFinished, events.RunFinishedEvent{
		UserName:     log.UserName,
		AssignmentID: log.AssignmentID,
		TaskCount:    len(resolved.Assignment.Tasks),
		FinishedAt:   time.Now(),
	})
	if err := s.publisher.PublishSubmissionEvent(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "failed to publish run finished event",
			"assignment_id", log.AssignmentID, "error", err)
	}
}

func newSubmissionEvent(eventType events.EventType, data interface{}) *events.SubmissionEvent {
	return &events.SubmissionEvent{
		ID:        watermill.NewUUID(),
		Type:      eventType,
		Timestamp: time.Now(),
		Source:    "assignment-service",
		Version:   "1.0",
		Data:      data,
	}
}
