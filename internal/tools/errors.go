package tools

import "fmt"

// Kind is the stable error classification tag surfaced to callers for
// programmatic branching.
type Kind string

const (
	KindUnknownTool       Kind = "UNKNOWN_TOOL"
	KindValidation        Kind = "VALIDATION_ERROR"
	KindUpstreamDown      Kind = "UPSTREAM_UNAVAILABLE"
	KindUpstreamMalformed Kind = "UPSTREAM_MALFORMED_RESPONSE"
	KindInternal          Kind = "INTERNAL_FAULT"
	KindProtocolFrame     Kind = "PROTOCOL_FRAME_ERROR"
)

// Error is a classified tool-call failure. Every failure surfaced to a
// caller carries one of the Kind tags above and a human-readable message.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// NewUnknownToolError reports a call naming a tool that is not registered.
func NewUnknownToolError(name string) *Error {
	return &Error{
		Kind:    KindUnknownTool,
		Message: fmt.Sprintf("unknown tool: %s", name),
	}
}

// NewValidationError reports arguments rejected before the handler ran.
func NewValidationError(reason string) *Error {
	return &Error{
		Kind:    KindValidation,
		Message: reason,
	}
}

// NewUpstreamUnavailableError reports an external data source that returned
// a non-success status or could not be reached.
func NewUpstreamUnavailableError(message string, cause error) *Error {
	return &Error{
		Kind:    KindUpstreamDown,
		Message: message,
		Cause:   cause,
	}
}

// NewUpstreamMalformedError reports an external payload that did not parse
// into the expected result shape.
func NewUpstreamMalformedError(message string, cause error) *Error {
	return &Error{
		Kind:    KindUpstreamMalformed,
		Message: message,
		Cause:   cause,
	}
}

// NewInternalError reports any other unexpected handler failure.
func NewInternalError(message string, cause error) *Error {
	return &Error{
		Kind:    KindInternal,
		Message: message,
		Cause:   cause,
	}
}
