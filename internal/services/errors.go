package services

import (
	"errors"

	apperrors "github.com/xin-yuwen/assignment-service/internal/errors"
)

// ===== COMMON SERVICE ERRORS =====

var (
	// Generic errors
	ErrBadRequest       = errors.New("bad request")
	ErrNotFound         = errors.New("resource not found")
	ErrForbidden        = errors.New("forbidden - insufficient permissions")
	ErrValidationFailed = errors.New("validation failed")
	ErrInternalError    = errors.New("internal server error")

	// Assignment / task errors
	ErrAssignmentNotFound = errors.New("assignment not found")
	ErrTaskNotFound       = errors.New("task not found")

	// Sequencing errors
	// ErrOutOfRange marks a task position beyond the assignment's task list.
	// Callers redirect to the finished view rather than render an error.
	ErrOutOfRange = errors.New("task position out of range")

	// Recording errors
	ErrInvalidAction  = errors.New("invalid submission action")
	ErrAnswerRequired = errors.New("answer is required for rephrase submissions")
	ErrNameRequired   = errors.New("user name is required")

	// Admin errors
	ErrInvalidCredentials = errors.New("invalid username or password")
)

// ===== CUSTOM ERROR TYPES =====

// Use shared validation errors from errors package
type ValidationError = apperrors.ValidationError
type ValidationErrors = apperrors.ValidationErrors

// NewValidationError creates a new validation error using the shared type
func NewValidationError(field, message string, value interface{}) *ValidationError {
	return apperrors.NewValidationError(field, message, value)
}

// ===== ERROR HELPERS =====

// IsNotFound checks if error represents a "not found" condition
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrAssignmentNotFound) ||
		errors.Is(err, ErrTaskNotFound)
}

// IsOutOfRange checks if error represents a position beyond the task list
func IsOutOfRange(err error) bool {
	return errors.Is(err, ErrOutOfRange)
}

// IsValidation checks if error represents a validation failure
func IsValidation(err error) bool {
	if errors.Is(err, ErrValidationFailed) {
		return true
	}
	var ve apperrors.ValidationErrors
	return errors.As(err, &ve)
}

// IsBadRequest checks if error represents a malformed request
func IsBadRequest(err error) bool {
	return errors.Is(err, ErrBadRequest) ||
		errors.Is(err, ErrInvalidAction) ||
		errors.Is(err, ErrAnswerRequired) ||
		errors.Is(err, ErrNameRequired)
}
