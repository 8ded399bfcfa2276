package validator

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/xin-yuwen/assignment-service/internal/models"
)

// Validator is the main validator instance used across services and handlers
type Validator struct {
	structValidator *validator.Validate
	taskValidator   *TaskValidator
}

// New creates a new centralized validator instance
func New() *Validator {
	structValidator := validator.New()
	registerCustomValidators(structValidator)

	return &Validator{
		structValidator: structValidator,
		taskValidator:   NewTaskValidator(),
	}
}

// ValidateStruct validates struct tags only
func (v *Validator) ValidateStruct(s interface{}) error {
	return v.structValidator.Struct(s)
}

// Validate performs complete validation (struct tags + task business rules
// where applicable)
func (v *Validator) Validate(s interface{}) error {
	if err := v.ValidateStruct(s); err != nil {
		return err
	}

	if t, ok := s.(*models.Task); ok {
		if errors := v.taskValidator.Validate(t); len(errors) > 0 {
			return errors
		}
	}

	return nil
}

// Task returns the task validator
func (v *Validator) Task() *TaskValidator {
	return v.taskValidator
}

// registerCustomValidators registers all custom validation functions
func registerCustomValidators(validate *validator.Validate) {
	validate.RegisterValidation("log_action", validateLogAction)

	// Custom tag name function for better error messages
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

func validateLogAction(fl validator.FieldLevel) bool {
	return models.LogAction(fl.Field().String()).IsValid()
}
