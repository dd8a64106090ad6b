// Package domain defines the core domain models for the RCON client.
package domain

import (
	"errors"
	"fmt"
)

// DomainError represents a domain error with a structured error code.
//
// Codes have the form RC-<AREA>-<NUMBER>. Two DomainErrors are the same kind
// when their codes match, so errors.Is(err, ErrConnection) works on any
// wrapped or detailed copy of the sentinel.
type DomainError struct {
	Code    string // Error code (e.g., "RC-CONN-5030")
	Message string // Human-readable message
	Details string // Optional additional details
	Cause   error  // Underlying error (if any)
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	msg := fmt.Sprintf("[%s] %s", e.Code, e.Message)
	if e.Details != "" {
		msg += ": " + e.Details
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying error for errors.Unwrap() support.
func (e *DomainError) Unwrap() error {
	return e.Cause
}

// Is implements errors.Is() support for error comparison.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// NewDomainError creates a new DomainError with the given code and message.
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// WithDetails returns a copy of the error with additional details.
func (e *DomainError) WithDetails(details string) *DomainError {
	return &DomainError{
		Code:    e.Code,
		Message: e.Message,
		Details: details,
		Cause:   e.Cause,
	}
}

// WithDetailsf is WithDetails with fmt.Sprintf formatting.
func (e *DomainError) WithDetailsf(format string, args ...any) *DomainError {
	return e.WithDetails(fmt.Sprintf(format, args...))
}

// WithCause returns a copy of the error wrapping the given cause.
func (e *DomainError) WithCause(cause error) *DomainError {
	return &DomainError{
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
		Cause:   cause,
	}
}

// Wrap wraps an error with this domain error as the cause.
func (e *DomainError) Wrap(cause error) *DomainError {
	return e.WithCause(cause)
}

// IsDomainError checks if an error is a DomainError with the given code.
// If code is empty, it only checks if the error is a DomainError.
func IsDomainError(err error, code string) bool {
	var de *DomainError
	if errors.As(err, &de) {
		if code == "" {
			return true
		}
		return de.Code == code
	}
	return false
}

// GetErrorCode extracts the error code from an error if it's a DomainError.
func GetErrorCode(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}

// Kind returns a short stable name for the error kind, or "" for errors
// that are not DomainErrors. Used as a metric and log label.
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrConnection):
		return "connection"
	case errors.Is(err, ErrProtocol):
		return "protocol"
	case errors.Is(err, ErrAuthentication):
		return "authentication"
	case errors.Is(err, ErrInvalidKey):
		return "invalid_key"
	case errors.Is(err, ErrInvalidState):
		return "invalid_state"
	case errors.Is(err, ErrInvalidArgument):
		return "invalid_argument"
	default:
		return "other"
	}
}

// ============================================================================
// Session errors
// ============================================================================

var (
	// ErrConnection indicates a socket-level failure: refused, reset,
	// broken pipe, DNS failure, timeout or cancellation.
	ErrConnection = NewDomainError("RC-CONN-5030", "connection error")

	// ErrProtocol indicates the server did not follow the protocol,
	// e.g. it closed the connection before sending a key.
	ErrProtocol = NewDomainError("RC-PROT-5020", "protocol error")

	// ErrAuthentication indicates the server rejected the login.
	ErrAuthentication = NewDomainError("RC-AUTH-4010", "authentication failed")

	// ErrInvalidKey indicates a transform was attempted without a key.
	ErrInvalidKey = NewDomainError("RC-KEY-4000", "invalid obfuscation key")

	// ErrInvalidState indicates the operation is not permitted in the
	// session's current state.
	ErrInvalidState = NewDomainError("RC-STATE-4090", "invalid session state")
)

// ============================================================================
// Argument errors
// ============================================================================

var (
	// ErrInvalidArgument indicates an invalid argument.
	ErrInvalidArgument = NewDomainError("RC-ARG-1001", "invalid argument")
)
