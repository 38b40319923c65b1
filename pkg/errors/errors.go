// Package errors provides the application error model.
package errors

import (
	"fmt"
	"net/http"
)

// ErrorCode is a machine-readable error code.
type ErrorCode string

// Predefined error codes.
const (
	// Generic (1xxx)
	CodeSuccess            ErrorCode = "0"
	CodeUnknown            ErrorCode = "1000"
	CodeInvalidParam       ErrorCode = "1001"
	CodeNotFound           ErrorCode = "1004"
	CodeTooManyRequests    ErrorCode = "1006"
	CodeInternalError      ErrorCode = "1007"
	CodeServiceUnavailable ErrorCode = "1008"

	// Business (4xxx)
	CodeTurnFailed    ErrorCode = "4001"
	CodeImageDisabled ErrorCode = "4002"

	// External collaborators (5xxx)
	CodeTextProviderError   ErrorCode = "5001"
	CodeImageProviderError  ErrorCode = "5002"
	CodeSpeechProviderError ErrorCode = "5003"
	CodeProviderMissingKey  ErrorCode = "5004"
)

// AppError is the application error carried across layers.
type AppError struct {
	Code       ErrorCode `json:"code"`
	Message    string    `json:"message"`
	Detail     string    `json:"detail,omitempty"`
	HTTPStatus int       `json:"-"`
	Err        error     `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error.
func (e *AppError) Unwrap() error {
	return e.Err
}

// WithDetail attaches detail text.
func (e *AppError) WithDetail(detail string) *AppError {
	e.Detail = detail
	return e
}

// WithError attaches the underlying error.
func (e *AppError) WithError(err error) *AppError {
	e.Err = err
	return e
}

// New creates an application error.
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: codeToHTTPStatus(code),
	}
}

// Wrap wraps an error.
func Wrap(err error, code ErrorCode, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: codeToHTTPStatus(code),
		Err:        err,
	}
}

// Upstream creates an error for a failed collaborator call, carrying the
// collaborator's HTTP status hint. Statuses below 400 collapse to 502.
func Upstream(code ErrorCode, status int, message string) *AppError {
	if status < 400 {
		status = http.StatusBadGateway
	}
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: status,
	}
}

// codeToHTTPStatus maps error codes to HTTP statuses.
func codeToHTTPStatus(code ErrorCode) int {
	switch code {
	case CodeSuccess:
		return http.StatusOK
	case CodeInvalidParam:
		return http.StatusBadRequest
	case CodeNotFound:
		return http.StatusNotFound
	case CodeTooManyRequests:
		return http.StatusTooManyRequests
	case CodeServiceUnavailable:
		return http.StatusServiceUnavailable
	case CodeTextProviderError, CodeImageProviderError, CodeSpeechProviderError:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// Predefined errors.
var (
	ErrInvalidParam    = New(CodeInvalidParam, "invalid parameter")
	ErrTooManyRequests = New(CodeTooManyRequests, "too many requests")
	ErrInternalError   = New(CodeInternalError, "internal server error")
	ErrTurnFailed      = New(CodeTurnFailed, "story turn failed")
)

// IsAppError reports whether err is an AppError.
func IsAppError(err error) bool {
	_, ok := err.(*AppError)
	return ok
}

// AsAppError converts err to an AppError, wrapping unknown errors.
func AsAppError(err error) *AppError {
	if appErr, ok := err.(*AppError); ok {
		return appErr
	}
	return Wrap(err, CodeUnknown, "unknown error")
}

// IsTransient reports whether an upstream failure is worth retrying:
// network-level faults (no status recorded) and 5xx statuses.
func IsTransient(err error) bool {
	appErr, ok := err.(*AppError)
	if !ok {
		return true
	}
	return appErr.HTTPStatus >= 500
}
