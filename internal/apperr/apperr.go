// Package apperr defines the error kinds the workflow engine reports.
//
// Domain failures (not found, invalid transitions, timer conflicts) are
// surfaced to the user as-is. Store failures carry CodeUnavailable and are the
// only kind a caller may retry.
package apperr

import (
	"errors"
	"fmt"
)

// Code is a machine-readable error kind.
type Code string

const (
	CodeNotFound            Code = "NOT_FOUND"
	CodeInvalidArgument     Code = "INVALID_ARGUMENT"
	CodeInvalidTransition   Code = "INVALID_TRANSITION"
	CodeCompletionBlocked   Code = "COMPLETION_BLOCKED"
	CodeTimerAlreadyRunning Code = "TIMER_ALREADY_RUNNING"
	CodeNoRunningTimer      Code = "NO_RUNNING_TIMER"
	CodeUnavailable         Code = "UNAVAILABLE"
)

// Retryable reports whether an operation failing with this code may be
// attempted again with backoff.
func (c Code) Retryable() bool {
	return c == CodeUnavailable
}

// Sentinels for errors.Is. Matching is by code, so any *Error carrying the
// same code matches.
var (
	ErrNotFound            = New(CodeNotFound, "not found")
	ErrInvalidArgument     = New(CodeInvalidArgument, "invalid argument")
	ErrInvalidTransition   = New(CodeInvalidTransition, "invalid status transition")
	ErrCompletionBlocked   = New(CodeCompletionBlocked, "completion blocked by checklist")
	ErrTimerAlreadyRunning = New(CodeTimerAlreadyRunning, "timer already running")
	ErrNoRunningTimer      = New(CodeNoRunningTimer, "no running timer")
	ErrUnavailable         = New(CodeUnavailable, "store unavailable")
)

// Error is the domain error type with structured metadata.
type Error struct {
	Code     Code              // Machine-readable error code
	Message  string            // Human-readable message
	Metadata map[string]string // Extra context, e.g. ids
	Cause    error             // Wrapped underlying error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying cause for error chain traversal.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error by code.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Code == t.Code
	}
	return false
}

// New creates a simple domain error with a code and message.
func New(code Code, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
	}
}

// Newf is New with a formatted message.
func Newf(code Code, format string, args ...any) *Error {
	return New(code, fmt.Sprintf(format, args...))
}

// WithMetadata creates a domain error with metadata.
func WithMetadata(code Code, message string, metadata map[string]string) *Error {
	return &Error{
		Code:     code,
		Message:  message,
		Metadata: metadata,
	}
}

// Wrap creates a domain error that wraps an underlying cause.
func Wrap(code Code, message string, cause error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// NotFound reports a missing entity, e.g. NotFound("task", 42).
func NotFound(entity string, id uint) *Error {
	return WithMetadata(CodeNotFound, fmt.Sprintf("%s #%d not found", entity, id), map[string]string{
		"entity": entity,
		"id":     fmt.Sprint(id),
	})
}

// Unavailable wraps a store failure. An error that already carries a code is
// returned unchanged so domain errors raised inside a transaction keep their
// kind.
func Unavailable(op string, cause error) error {
	if cause == nil {
		return nil
	}
	var e *Error
	if errors.As(cause, &e) {
		return cause
	}
	return Wrap(CodeUnavailable, op, cause)
}

// CodeOf returns the code of the first *Error in err's chain, or "" when
// there is none.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// IsRetryable reports whether err is a store failure safe to retry.
func IsRetryable(err error) bool {
	return CodeOf(err).Retryable()
}
