// Package services provides the business logic layer between the HTTP and CLI
// surfaces and the analysis engine: loading series, running analyses,
// generating recommendations and publishing alerts.
package services

import (
	"errors"
	"net/http"

	"github.com/costwatch/costwatch/internal/analytics"
)

// Service error codes.
const (
	CodeInsufficientData = "INSUFFICIENT_DATA"
	CodeUpstreamFailure  = "UPSTREAM_FAILURE"
	CodeInvalidRequest   = "INVALID_REQUEST"
)

// ServiceError represents a service layer error
type ServiceError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
	Err     error                  `json:"-"`
}

func (e *ServiceError) Error() string {
	return e.Message
}

// Unwrap exposes the underlying analytics error to errors.Is.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// HTTPStatus maps the error code to a response status.
func (e *ServiceError) HTTPStatus() int {
	switch e.Code {
	case CodeInsufficientData:
		return http.StatusUnprocessableEntity
	case CodeUpstreamFailure:
		return http.StatusBadGateway
	case CodeInvalidRequest:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// NewServiceErrorWithDetails creates a new ServiceError with details
func NewServiceErrorWithDetails(code, message string, details map[string]interface{}) *ServiceError {
	return &ServiceError{
		Code:    code,
		Message: message,
		Details: details,
	}
}

// classify wraps an analytics error in the matching ServiceError.
func classify(err error) *ServiceError {
	var se *ServiceError
	if errors.As(err, &se) {
		return se
	}

	code := CodeInvalidRequest
	switch {
	case errors.Is(err, analytics.ErrInsufficientData):
		code = CodeInsufficientData
	case errors.Is(err, analytics.ErrUpstreamFailure):
		code = CodeUpstreamFailure
	}
	return &ServiceError{Code: code, Message: err.Error(), Err: err}
}
