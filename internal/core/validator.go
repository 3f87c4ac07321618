package core

import (
	"log/slog"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"aqitrack/internal/types"
)

// dateOnlyLayout is the accepted wire format for sample dates.
const dateOnlyLayout = "2006-01-02"

// ValidationError describes a single field-level validation failure.
type ValidationError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ValidationResult aggregates the outcome of validating a request struct.
// Warnings are non-blocking; a result with only warnings is still valid.
type ValidationResult struct {
	Errors   []ValidationError
	Warnings []string
}

// IsValid reports whether the result contains no blocking errors.
func (r ValidationResult) IsValid() bool {
	return len(r.Errors) == 0
}

// Validator wraps go-playground/validator and registers domain-specific
// rules for the readings API (date-only strings, month/year ranges).
type Validator struct {
	validate *validator.Validate
	logger   *slog.Logger
}

// NewValidator creates a new Validator and registers custom validation tags.
func NewValidator(logger *slog.Logger) *Validator {
	v := validator.New()

	// Report field names from json tags so client-facing errors match the
	// wire format rather than Go field names.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	// date_only: string must be a calendar date in YYYY-MM-DD form.
	_ = v.RegisterValidation("date_only", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		if s == "" {
			return true // combine with required when the field is mandatory
		}
		_, err := time.Parse(dateOnlyLayout, s)
		return err == nil
	})

	return &Validator{
		validate: v,
		logger:   logger,
	}
}

// ValidateStruct validates s against its struct tags. On failure it returns
// a *types.AppError whose Code reflects the first validation failure and
// whose Details carry the full list under "validation_errors".
func (v *Validator) ValidateStruct(s interface{}) error {
	result := v.ValidateStructWithWarnings(s)
	if result.IsValid() {
		return nil
	}

	first := result.Errors[0]
	return types.NewAppErrorWithDetails(
		types.ErrorCode(first.Code),
		"request validation failed",
		nil,
		map[string]any{
			"validation_errors": result.Errors,
		},
	)
}

// ValidateStructWithWarnings validates s and returns the full result rather
// than collapsing it into an error. Handlers that surface partial-success
// responses use this form.
func (v *Validator) ValidateStructWithWarnings(s interface{}) ValidationResult {
	err := v.validate.Struct(s)
	if err == nil {
		return ValidationResult{}
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		// InvalidValidationError means the input was not a struct at all.
		v.logger.Error("validator received non-struct input", "error", err)
		return ValidationResult{
			Errors: []ValidationError{{
				Field:   "",
				Code:    string(types.ErrCodeInternalUnexpected),
				Message: "invalid validation target",
			}},
		}
	}

	result := ValidationResult{Errors: make([]ValidationError, 0, len(verrs))}
	for _, fe := range verrs {
		result.Errors = append(result.Errors, ValidationError{
			Field:   fe.Field(),
			Code:    tagToErrorCode(fe.Tag()),
			Message: fieldErrorMessage(fe),
		})
	}
	return result
}

// tagToErrorCode maps a validator tag to the domain error code returned to
// clients.
func tagToErrorCode(tag string) string {
	switch tag {
	case "required":
		return string(types.ErrCodeValidationMissingField)
	case "date_only":
		return string(types.ErrCodeValidationInvalidDate)
	case "gt", "gte", "lt", "lte", "min", "max", "ltefield", "gtfield":
		return string(types.ErrCodeValidationInvalidNumber)
	default:
		return string(types.ErrCodeValidationInvalidNumber)
	}
}

// fieldErrorMessage renders a short human-readable message for a single
// field failure.
func fieldErrorMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "date_only":
		return fe.Field() + " must be a date in YYYY-MM-DD format"
	case "gt":
		return fe.Field() + " must be greater than " + fe.Param()
	case "gte":
		return fe.Field() + " must be at least " + fe.Param()
	case "lt":
		return fe.Field() + " must be less than " + fe.Param()
	case "lte":
		return fe.Field() + " must be at most " + fe.Param()
	default:
		return fe.Field() + " failed validation rule " + fe.Tag()
	}
}
