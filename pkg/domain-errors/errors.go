// Package domainerrors defines the coded errors services return to callers.
//
// Stores report infrastructure facts through pkg/platform/sentinel; services
// translate those facts into a *Error carrying a stable Code that clients can
// switch on. Codes are grouped into categories, which the HTTP layer maps to
// status codes.
package domainerrors

import (
	"errors"
	"fmt"
)

// Code is a stable, addressable identifier for a failure.
type Code string

const (
	CodeBadRequest         Code = "bad_request"
	CodeValidation         Code = "validation_error"
	CodeInvalidInput       Code = "invalid_input"
	CodeInvariantViolation Code = "invariant_violation"
	CodeUnauthorized       Code = "unauthorized"
	CodeForbidden          Code = "forbidden"
	CodeNotFound           Code = "not_found"
	CodeConflict           Code = "conflict"
	CodeInternal           Code = "internal_error"
	CodeTimeout            Code = "timeout"

	// Match engine codes.
	CodeMatchNotFound          Code = "match_not_found"
	CodeTeamNotFound           Code = "team_not_found"
	CodeResultNotFound         Code = "result_not_found"
	CodeNotParticipant         Code = "not_participant"
	CodeNotMatchCreator        Code = "not_match_creator"
	CodeDuplicateSubmission    Code = "duplicate_submission"
	CodeResultAlreadyConfirmed Code = "result_already_confirmed"
	CodeInvalidStateTransition Code = "invalid_state_transition"
	CodeCodeNotYetAvailable    Code = "code_not_yet_available"
	CodeAttendanceWindowClosed Code = "attendance_window_closed"
	CodeInvalidCode            Code = "invalid_code"
	CodeMatchNotScoreable      Code = "match_not_scoreable"
)

// Category groups codes by how a caller should react to them.
type Category string

const (
	CategoryBadRequest   Category = "bad_request"
	CategoryInvalidState Category = "invalid_state"
	CategoryUnauthorized Category = "unauthorized"
	CategoryForbidden    Category = "forbidden"
	CategoryNotFound     Category = "not_found"
	CategoryConflict     Category = "conflict"
	CategoryTimeout      Category = "timeout"
	CategoryInternal     Category = "internal"
)

var categories = map[Code]Category{
	CodeBadRequest:         CategoryBadRequest,
	CodeValidation:         CategoryBadRequest,
	CodeInvalidInput:       CategoryBadRequest,
	CodeInvariantViolation: CategoryBadRequest,
	CodeUnauthorized:       CategoryUnauthorized,
	CodeForbidden:          CategoryForbidden,
	CodeNotFound:           CategoryNotFound,
	CodeConflict:           CategoryConflict,
	CodeInternal:           CategoryInternal,
	CodeTimeout:            CategoryTimeout,

	CodeMatchNotFound:          CategoryNotFound,
	CodeTeamNotFound:           CategoryNotFound,
	CodeResultNotFound:         CategoryNotFound,
	CodeNotParticipant:         CategoryForbidden,
	CodeNotMatchCreator:        CategoryForbidden,
	CodeDuplicateSubmission:    CategoryConflict,
	CodeResultAlreadyConfirmed: CategoryConflict,
	CodeInvalidStateTransition: CategoryInvalidState,
	CodeCodeNotYetAvailable:    CategoryInvalidState,
	CodeAttendanceWindowClosed: CategoryInvalidState,
	CodeInvalidCode:            CategoryBadRequest,
	CodeMatchNotScoreable:      CategoryInvalidState,
}

// Category returns the category of the code. Unknown codes are internal.
func (c Code) Category() Category {
	if cat, ok := categories[c]; ok {
		return cat
	}
	return CategoryInternal
}

// Error is a coded domain error. Err is the optional underlying cause.
type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a coded error.
func New(code Code, msg string) error {
	return &Error{Code: code, Message: msg}
}

// Newf creates a coded error with a formatted message.
func Newf(code Code, format string, args ...any) error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a code and message to an underlying error.
func Wrap(err error, code Code, msg string) error {
	return &Error{Code: code, Message: msg, Err: err}
}

// HasCode reports whether err (or anything it wraps) is a domain error with code.
func HasCode(err error, code Code) bool {
	var de *Error
	for err != nil {
		if !errors.As(err, &de) {
			return false
		}
		if de.Code == code {
			return true
		}
		err = de.Err
	}
	return false
}

// Is is an alias for HasCode that reads better in handler switches.
func Is(err error, code Code) bool {
	return HasCode(err, code)
}

// CodeOf returns the outermost code attached to err, or CodeInternal.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}

// MessageOf returns the outermost domain message attached to err.
func MessageOf(err error) string {
	var de *Error
	if errors.As(err, &de) {
		return de.Message
	}
	return ""
}
