// Package services provides the business logic layer between handlers and the analytics engine.
// Services filter and convert request events, run the engine and record logs and metrics.
package services

import (
	"errors"

	"github.com/soltixdb/analytics/internal/analytics"
)

// ServiceError represents a service layer error
type ServiceError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

func (e *ServiceError) Error() string {
	return e.Message
}

// NewServiceError creates a new ServiceError
func NewServiceError(code, message string) *ServiceError {
	return &ServiceError{
		Code:    code,
		Message: message,
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

// fromEngineError converts an analytics.Error into a ServiceError whose code is
// the error kind. Any other error is returned unchanged.
func fromEngineError(operation string, err error) error {
	var engineErr *analytics.Error
	if !errors.As(err, &engineErr) {
		return err
	}
	return NewServiceErrorWithDetails(string(engineErr.Kind), engineErr.Message, map[string]interface{}{
		"operation": operation,
	})
}
