package errors

import (
	"errors"
	"fmt"
	"net/http"
)

const (
	CodeValidation       = "VALIDATION_ERROR"
	CodePermissionDenied = "PERMISSION_DENIED"
	CodeUploadFailed     = "UPLOAD_FAILED"
	CodeNetwork          = "NETWORK_ERROR"
	CodeTimeout          = "TIMEOUT"
	CodeServer           = "SERVER_ERROR"
	CodeNotFound         = "NOT_FOUND"
	CodeBadRequest       = "BAD_REQUEST"
	CodeUnauthorized     = "UNAUTHORIZED"
	CodeInternal         = "INTERNAL_ERROR"
)

type AppError struct {
	Code    string
	Message string
	Status  int
	Err     error
}

func (e *AppError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func New(code string, message string, status int, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Status:  status,
		Err:     err,
	}
}

func NotFound(resource string, err error) *AppError {
	return &AppError{
		Code:    CodeNotFound,
		Message: fmt.Sprintf("%s not found", resource),
		Status:  http.StatusNotFound,
		Err:     err,
	}
}

func BadRequest(message string, err error) *AppError {
	return &AppError{
		Code:    CodeBadRequest,
		Message: message,
		Status:  http.StatusBadRequest,
		Err:     err,
	}
}

func Unauthorized(message string, err error) *AppError {
	return &AppError{
		Code:    CodeUnauthorized,
		Message: message,
		Status:  http.StatusUnauthorized,
		Err:     err,
	}
}

func Internal(message string, err error) *AppError {
	return &AppError{
		Code:    CodeInternal,
		Message: message,
		Status:  http.StatusInternalServerError,
		Err:     err,
	}
}

// Validation marks input the user can correct. It never triggers a retry and
// never leaves the wizard boundary as anything other than a field message.
func Validation(message string) *AppError {
	return &AppError{
		Code:    CodeValidation,
		Message: message,
		Status:  http.StatusBadRequest,
	}
}

func PermissionDenied(message string, err error) *AppError {
	return &AppError{
		Code:    CodePermissionDenied,
		Message: message,
		Status:  http.StatusForbidden,
		Err:     err,
	}
}

// UploadFailed aggregates an exhausted credential list into one error naming
// the attempt count and the last underlying cause.
func UploadFailed(attempts int, last error) *AppError {
	return &AppError{
		Code:    CodeUploadFailed,
		Message: fmt.Sprintf("upload failed after %d attempts: %v", attempts, last),
		Status:  http.StatusBadGateway,
		Err:     last,
	}
}

func Network(err error) *AppError {
	return &AppError{
		Code:    CodeNetwork,
		Message: "Could not reach the server, check your connection",
		Status:  http.StatusServiceUnavailable,
		Err:     err,
	}
}

func Timeout(err error) *AppError {
	return &AppError{
		Code:    CodeTimeout,
		Message: "The request timed out, please try again",
		Status:  http.StatusGatewayTimeout,
		Err:     err,
	}
}

// Server carries a non-2xx backend response. The message comes from the
// structured error body when present, otherwise the raw status.
func Server(status int, message string, err error) *AppError {
	if message == "" {
		message = fmt.Sprintf("server returned status %d", status)
	}
	return &AppError{
		Code:    CodeServer,
		Message: message,
		Status:  status,
		Err:     err,
	}
}

func Is(err error, code string) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

func CodeOf(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeInternal
}
