// Package errors defines the service error taxonomy shared across the
// marketplace core.
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorCode identifies the class of a service error.
type ErrorCode string

const (
	// CodeConfiguration marks a missing or invalid boot-time configuration
	// value (incomplete rate table, absent owner identity). Fatal at startup.
	CodeConfiguration ErrorCode = "CONFIGURATION_ERROR"
	// CodeValidation marks caller input rejected at a service boundary.
	CodeValidation ErrorCode = "VALIDATION_ERROR"
	// CodeUnauthorized marks a missing or invalid caller identity.
	CodeUnauthorized ErrorCode = "UNAUTHORIZED"
	// CodeNotFound marks a missing single record. An empty search result is
	// not an error and never carries this code.
	CodeNotFound ErrorCode = "NOT_FOUND"
	// CodeCollaborator marks a failure of the persistence, storage or
	// identity collaborator. One opaque failure covers a whole multi-step
	// flow; retry policy belongs to the collaborator client.
	CodeCollaborator ErrorCode = "COLLABORATOR_ERROR"
	// CodeInternal marks an unexpected internal failure.
	CodeInternal ErrorCode = "INTERNAL_ERROR"
	// CodeRateLimited marks a caller exceeding the request budget.
	CodeRateLimited ErrorCode = "RATE_LIMITED"
)

// ServiceError carries a coded, HTTP-mappable error with optional detail
// fields and a wrapped cause.
type ServiceError struct {
	Code       ErrorCode              `json:"code"`
	Message    string                 `json:"message"`
	HTTPStatus int                    `json:"-"`
	Details    map[string]interface{} `json:"details,omitempty"`
	cause      error
}

// Error implements the error interface.
func (e *ServiceError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the wrapped cause.
func (e *ServiceError) Unwrap() error { return e.cause }

// WithDetails attaches a detail field and returns the error.
func (e *ServiceError) WithDetails(key string, value interface{}) *ServiceError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// Configuration creates a fatal configuration error.
func Configuration(message string) *ServiceError {
	return &ServiceError{Code: CodeConfiguration, Message: message, HTTPStatus: http.StatusInternalServerError}
}

// Validation creates a caller-input validation error.
func Validation(message string) *ServiceError {
	return &ServiceError{Code: CodeValidation, Message: message, HTTPStatus: http.StatusBadRequest}
}

// Unauthorized creates an authentication error.
func Unauthorized(message string) *ServiceError {
	return &ServiceError{Code: CodeUnauthorized, Message: message, HTTPStatus: http.StatusUnauthorized}
}

// NotFound creates a missing-record error.
func NotFound(message string) *ServiceError {
	return &ServiceError{Code: CodeNotFound, Message: message, HTTPStatus: http.StatusNotFound}
}

// Collaborator wraps a failure of an external collaborator into a single
// opaque error for the whole flow.
func Collaborator(message string, cause error) *ServiceError {
	return &ServiceError{Code: CodeCollaborator, Message: message, HTTPStatus: http.StatusBadGateway, cause: cause}
}

// Internal wraps an unexpected failure.
func Internal(message string, cause error) *ServiceError {
	return &ServiceError{Code: CodeInternal, Message: message, HTTPStatus: http.StatusInternalServerError, cause: cause}
}

// RateLimited creates a throttling error.
func RateLimited(message string) *ServiceError {
	return &ServiceError{Code: CodeRateLimited, Message: message, HTTPStatus: http.StatusTooManyRequests}
}

// GetServiceError extracts a *ServiceError from err's chain, nil when absent.
func GetServiceError(err error) *ServiceError {
	var svcErr *ServiceError
	if errors.As(err, &svcErr) {
		return svcErr
	}
	return nil
}

// IsValidation reports whether err is a validation error.
func IsValidation(err error) bool {
	e := GetServiceError(err)
	return e != nil && e.Code == CodeValidation
}

// IsNotFound reports whether err is a missing-record error.
func IsNotFound(err error) bool {
	e := GetServiceError(err)
	return e != nil && e.Code == CodeNotFound
}

// IsCollaborator reports whether err is a collaborator failure.
func IsCollaborator(err error) bool {
	e := GetServiceError(err)
	return e != nil && e.Code == CodeCollaborator
}
