// Package apperror defines the error kinds surfaced to API clients.
//
// Every kind carries a machine-readable Code. GraphQL resolvers copy the code
// into extensions.code; the REST handlers map it to an HTTP status.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Code is the client-visible error category.
type Code string

const (
	CodeUnauthenticated Code = "UNAUTHENTICATED"
	CodeForbidden       Code = "FORBIDDEN"
	CodeNotFound        Code = "NOT_FOUND"
	CodeBadUserInput    Code = "BAD_USER_INPUT"
	CodeInternal        Code = "INTERNAL_SERVER_ERROR"
)

// AppError is a categorised error. Err is optional and kept for errors.Is.
type AppError struct {
	Code    Code
	Message string
	Field   string
	Err     error
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func Unauthenticated(message string) *AppError {
	return &AppError{Code: CodeUnauthenticated, Message: message}
}

// UnauthenticatedWrap keeps the verification failure reachable via errors.Is.
func UnauthenticatedWrap(message string, err error) *AppError {
	return &AppError{Code: CodeUnauthenticated, Message: message, Err: err}
}

func Forbidden(message string) *AppError {
	return &AppError{Code: CodeForbidden, Message: message}
}

func NotFound(resource, id string) *AppError {
	return &AppError{
		Code:    CodeNotFound,
		Message: fmt.Sprintf("%s not found with id %s", resource, id),
	}
}

func Validation(field, message string) *AppError {
	return &AppError{Code: CodeBadUserInput, Message: message, Field: field}
}

// CodeOf returns the code of the first AppError in err's chain, or
// CodeInternal when there is none.
func CodeOf(err error) Code {
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.Code != "" {
		return appErr.Code
	}
	return CodeInternal
}

// Is reports whether err carries the given code.
func Is(err error, code Code) bool {
	return err != nil && CodeOf(err) == code
}

// HTTPStatus maps a code to the status used by the REST endpoints.
func HTTPStatus(code Code) int {
	switch code {
	case CodeUnauthenticated:
		return http.StatusUnauthorized
	case CodeForbidden:
		return http.StatusForbidden
	case CodeNotFound:
		return http.StatusNotFound
	case CodeBadUserInput:
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
