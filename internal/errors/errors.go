// Package errors defines the typed application errors that services return and
// the HTTP layer turns into status codes.
package errors

import (
	"errors"
	"fmt"
)

// ErrorCode names the category of an AppError.
type ErrorCode string

const (
	ErrCodeNotFound     ErrorCode = "not_found"
	ErrCodeConflict     ErrorCode = "conflict"
	ErrCodeValidation   ErrorCode = "validation"
	ErrCodeUnauthorized ErrorCode = "unauthorized"
	ErrCodeForbidden    ErrorCode = "forbidden"
	ErrCodeForeignKey   ErrorCode = "foreign_key"
	ErrCodeInternal     ErrorCode = "internal"
	ErrCodeTimeout      ErrorCode = "timeout"
	ErrCodeCanceled     ErrorCode = "canceled"
)

// AppError is an error with a code and a message that is safe to show to the caller.
// Cause stays internal: it is logged and unwrapped but never rendered.
type AppError struct {
	Code    ErrorCode
	Message string
	// Field names the offending input, when there is one.
	Field string
	Cause error
}

func (e *AppError) Error() string {
	if e.Cause == nil {
		return e.Message
	}
	return e.Message + ": " + e.Cause.Error()
}

func (e *AppError) Unwrap() error { return e.Cause }

func newError(code ErrorCode, msg string) *AppError {
	return &AppError{Code: code, Message: msg}
}

func NotFoundf(format string, args ...any) *AppError {
	return newError(ErrCodeNotFound, fmt.Sprintf(format, args...))
}

func Conflict(msg string) *AppError { return newError(ErrCodeConflict, msg) }

func Conflictf(format string, args ...any) *AppError {
	return newError(ErrCodeConflict, fmt.Sprintf(format, args...))
}

// Validation reports a broken input rule or a business rule such as keeping the last root.
func Validation(msg string) *AppError { return newError(ErrCodeValidation, msg) }

func ValidationField(field, msg string) *AppError {
	return &AppError{Code: ErrCodeValidation, Message: msg, Field: field}
}

func Unauthorized(msg string) *AppError { return newError(ErrCodeUnauthorized, msg) }

func Forbidden(msg string) *AppError { return newError(ErrCodeForbidden, msg) }

// Wrap attaches code and msg to err. A nil err stays nil.
func Wrap(err error, code ErrorCode, msg string) *AppError {
	if err == nil {
		return nil
	}
	return &AppError{Code: code, Message: msg, Cause: err}
}

func asAppError(err error) (*AppError, bool) {
	var appErr *AppError
	ok := errors.As(err, &appErr)
	return appErr, ok
}

// HasCode reports whether any AppError in err's chain carries code.
// Only the outermost AppError is consulted.
func HasCode(err error, code ErrorCode) bool {
	appErr, ok := asAppError(err)
	return ok && appErr.Code == code
}

func IsNotFound(err error) bool     { return HasCode(err, ErrCodeNotFound) }
func IsConflict(err error) bool     { return HasCode(err, ErrCodeConflict) }
func IsValidation(err error) bool   { return HasCode(err, ErrCodeValidation) }
func IsUnauthorized(err error) bool { return HasCode(err, ErrCodeUnauthorized) }
func IsForbidden(err error) bool    { return HasCode(err, ErrCodeForbidden) }
func IsTimeout(err error) bool      { return HasCode(err, ErrCodeTimeout) }

// GetCode returns the code of the outermost AppError, or "".
func GetCode(err error) ErrorCode {
	if appErr, ok := asAppError(err); ok {
		return appErr.Code
	}
	return ""
}

func GetField(err error) string {
	if appErr, ok := asAppError(err); ok {
		return appErr.Field
	}
	return ""
}

// GetMessage returns the caller-facing message: the AppError message without its
// cause, or err.Error() for anything else.
func GetMessage(err error) string {
	if err == nil {
		return ""
	}
	if appErr, ok := asAppError(err); ok {
		return appErr.Message
	}
	return err.Error()
}
