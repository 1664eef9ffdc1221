package operation

import (
	"errors"
	"fmt"
)

// ErrorCode classifies operation errors.
type ErrorCode int

const (
	// ErrCodeConfiguration indicates a malformed or incomplete template,
	// detected at compile time.
	ErrCodeConfiguration ErrorCode = iota
	// ErrCodeBinding indicates a required parameter had no argument at call time.
	ErrCodeBinding
)

// String returns the error code name.
func (c ErrorCode) String() string {
	switch c {
	case ErrCodeConfiguration:
		return "configuration"
	case ErrCodeBinding:
		return "binding"
	default:
		return "unknown"
	}
}

// Error is a structured compile or binding error.
type Error struct {
	// Code classifies the error.
	Code ErrorCode
	// Operation names the offending operation entry or function.
	Operation string
	// Param is the parameter involved, if any.
	Param string
	// Message describes the error.
	Message string
	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Param != "" {
		return fmt.Sprintf("operation: %s: %s: parameter %q: %s", e.Code, e.Operation, e.Param, e.Message)
	}
	return fmt.Sprintf("operation: %s: %s: %s", e.Code, e.Operation, e.Message)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// NewConfigurationError creates a configuration error for an operation.
func NewConfigurationError(operation, message string, err error) *Error {
	return &Error{
		Code:      ErrCodeConfiguration,
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}

// NewBindingError creates a binding error for a function parameter.
func NewBindingError(function, param, message string, err error) *Error {
	return &Error{
		Code:      ErrCodeBinding,
		Operation: function,
		Param:     param,
		Message:   message,
		Err:       err,
	}
}

// IsConfiguration checks if an error is a configuration error.
func IsConfiguration(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == ErrCodeConfiguration
}

// IsBinding checks if an error is a binding error.
func IsBinding(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == ErrCodeBinding
}
