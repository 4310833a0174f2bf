package apperrors

import "errors"

// Common errors
var (
	// Resource errors
	ErrResourceNotFound = errors.New("resource not found")
	ErrConflict         = errors.New("conflict")

	// Authentication errors
	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("invalid token")

	// Authorization errors
	ErrPermissionDenied = errors.New("permission denied")

	// Validation errors
	ErrValidationFailed = errors.New("validation failed")
	ErrBadRequest       = errors.New("bad request")
)

// Identity resolution errors
var (
	// ErrStudentNotLinked is the terminal resolution outcome: every matching
	// strategy was exhausted and no student record could be attached to the
	// account. Callers must check for it explicitly; it is not a store fault.
	ErrStudentNotLinked = errors.New("no student record could be linked to this account")

	// ErrEmptyAccountID rejects resolution requests with no account identity.
	ErrEmptyAccountID = errors.New("account id must not be empty")

	// ErrAlreadyLinked reports a conditional link write that found the record
	// taken by another account. The existing link is never overwritten.
	ErrAlreadyLinked = errors.New("student record is already linked to another account")

	// ErrBootstrapNotAllowed reports a bootstrap attempt for a non-student role.
	ErrBootstrapNotAllowed = errors.New("bootstrap creation is only allowed for student accounts")
)

// Student errors
var (
	ErrStudentNotFound = errors.New("student not found")
	ErrNISExists       = errors.New("NIS already exists")
)

// Profile errors
var (
	ErrProfileNotFound = errors.New("profile not found")
)

// CustomError represents application-specific errors with additional context
type CustomError struct {
	Err     error
	Message string
	Details map[string]interface{}
}

// Error implements error interface
func (e *CustomError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

// Unwrap implements errors.Unwrap interface
func (e *CustomError) Unwrap() error {
	return e.Err
}

// NewCustomError creates a CustomError with underlying error
func NewCustomError(err error, message string) *CustomError {
	return &CustomError{
		Err:     err,
		Message: message,
	}
}

// WithDetails adds context details to the error
func (e *CustomError) WithDetails(details map[string]interface{}) *CustomError {
	e.Details = details
	return e
}
