package session

import "fmt"

// Error codes for session operations.
const (
	ErrNotFound   = "SESSION_NOT_FOUND"
	ErrExpired    = "SESSION_EXPIRED"
	ErrInvalid    = "SESSION_INVALID"
	ErrGeneration = "SESSION_GENERATION_FAILED"
	ErrStorage    = "SESSION_STORAGE_ERROR"
)

// Error is a session-layer failure with a stable code.
type Error struct {
	Code    string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// NewNotFoundError reports an unknown session ID.
func NewNotFoundError(id string) *Error {
	return &Error{Code: ErrNotFound, Message: fmt.Sprintf("session not found: %s", id)}
}

// NewExpiredError reports a session past its lifetime.
func NewExpiredError(id string) *Error {
	return &Error{Code: ErrExpired, Message: fmt.Sprintf("session expired: %s", id)}
}

// NewInvalidError reports a malformed session ID.
func NewInvalidError(reason string) *Error {
	return &Error{Code: ErrInvalid, Message: reason}
}

// NewGenerationError reports a failure to mint a session ID.
func NewGenerationError(cause error) *Error {
	return &Error{Code: ErrGeneration, Message: "failed to generate session ID", Cause: cause}
}

// NewStorageError reports a store-level failure during the named operation.
func NewStorageError(operation string, cause error) *Error {
	return &Error{
		Code:    ErrStorage,
		Message: fmt.Sprintf("session storage error during %s", operation),
		Cause:   cause,
	}
}
