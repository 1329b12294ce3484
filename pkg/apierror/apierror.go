package apierror

import (
	"fmt"
	"net/http"
)

const (
	CodeBadRequest        = "BAD_REQUEST"
	CodeValidation        = "VALIDATION_ERROR"
	CodeUnauthorized      = "UNAUTHORIZED"
	CodeForbidden         = "FORBIDDEN"
	CodeNotFound          = "NOT_FOUND"
	CodeDuplicateUsername = "DUPLICATE_USERNAME"
	CodeInternal          = "INTERNAL_ERROR"
)

type APIError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	Details    string `json:"details,omitempty"`
	HTTPStatus int    `json:"-"`
	Cause      error  `json:"-"`
}

func (e *APIError) Error() string {
	if e == nil {
		return ""
	}

	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Details)
	}

	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap exposes the sentinel the error was built from.
func (e *APIError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

func New(code string, message string, details string, status int) *APIError {
	return &APIError{Code: code, Message: message, Details: details, HTTPStatus: status}
}

// Wrap is New with a cause attached for errors.Is matching.
func Wrap(cause error, code string, message string, details string, status int) *APIError {
	return &APIError{Code: code, Message: message, Details: details, HTTPStatus: status, Cause: cause}
}

func BadRequest(message string, details string) *APIError {
	return New(CodeBadRequest, message, details, http.StatusBadRequest)
}

func Validation(cause error, message string, details string) *APIError {
	return Wrap(cause, CodeValidation, message, details, http.StatusBadRequest)
}

func Unauthorized(cause error, message string) *APIError {
	return Wrap(cause, CodeUnauthorized, message, "", http.StatusUnauthorized)
}

func Forbidden(cause error, message string) *APIError {
	return Wrap(cause, CodeForbidden, message, "", http.StatusForbidden)
}

func NotFound(cause error, message string, details string) *APIError {
	return Wrap(cause, CodeNotFound, message, details, http.StatusNotFound)
}

func DuplicateUsername(cause error, username string) *APIError {
	return Wrap(cause, CodeDuplicateUsername, "expected `username` to be unique", username, http.StatusBadRequest)
}
