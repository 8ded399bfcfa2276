package validator

import (
	"strings"

	apperrors "github.com/xin-yuwen/assignment-service/internal/errors"
	"github.com/xin-yuwen/assignment-service/internal/models"
)

// TaskValidator handles task-specific business rules that struct tags cannot
// express: word list consistency for the reorder exercise.
type TaskValidator struct{}

// NewTaskValidator creates a new task validator
func NewTaskValidator() *TaskValidator {
	return &TaskValidator{}
}

// Validate checks a complete task object
func (v *TaskValidator) Validate(task *models.Task) apperrors.ValidationErrors {
	var errs apperrors.ValidationErrors

	if err := v.validateWords("initial", task.Initial); err != nil {
		errs = append(errs, *err)
	}
	if err := v.validateWords("alternative", task.Alternative); err != nil {
		errs = append(errs, *err)
	}

	// Initial and alternative must be disjoint: tiles are identified by
	// their text in the reorder exercise.
	if !task.HasDisjointWordSets() {
		errs = append(errs, *apperrors.NewValidationError(
			"alternative", "must not share words with initial", nil))
	}

	return errs
}

func (v *TaskValidator) validateWords(field string, words []string) *apperrors.ValidationError {
	seen := make(map[string]struct{}, len(words))
	for _, w := range words {
		if strings.TrimSpace(w) == "" {
			return apperrors.NewValidationError(field, "must not contain empty words", words)
		}
		if _, ok := seen[w]; ok {
			return apperrors.NewValidationError(field, "must not contain duplicate words", w)
		}
		seen[w] = struct{}{}
	}
	return nil
}
