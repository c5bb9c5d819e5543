package apperrors

import "errors"

var (
	ErrNotFound   = errors.New("not found")
	ErrValidation = errors.New("validation failed")
)

// ValidationError reports a rejected input. It matches ErrValidation with errors.Is
// so callers can tell rejected input apart from not-found and internal failures.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// NewValidationError returns a ValidationError for the given field.
func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// IsValidation reports whether err is, or wraps, a validation failure.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}

// ValidationMessage returns the user-facing message of a validation error,
// or the empty string if err is not one.
func ValidationMessage(err error) string {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Message
	}
	if IsValidation(err) {
		return err.Error()
	}
	return ""
}
