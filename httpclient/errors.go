package httpclient

import (
	"errors"
	"fmt"
)

// ErrClosed is wrapped by the connection error Send reports after Close.
var ErrClosed = errors.New("transport closed")

// ErrorCode classifies transport errors. Status codes are not errors at
// this layer; the response normalizer classifies them.
type ErrorCode int

const (
	// ErrCodeTimeout indicates the request deadline passed.
	ErrCodeTimeout ErrorCode = iota
	// ErrCodeCanceled indicates the caller canceled the request.
	ErrCodeCanceled
	// ErrCodeConnection indicates a connection failure (refused, DNS, etc).
	ErrCodeConnection
	// ErrCodeEncoding indicates the request body or auth could not be encoded.
	ErrCodeEncoding
	// ErrCodeInvalidRequest indicates a malformed descriptor.
	ErrCodeInvalidRequest
)

// String returns the error code name.
func (c ErrorCode) String() string {
	switch c {
	case ErrCodeTimeout:
		return "timeout"
	case ErrCodeCanceled:
		return "canceled"
	case ErrCodeConnection:
		return "connection"
	case ErrCodeEncoding:
		return "encoding"
	case ErrCodeInvalidRequest:
		return "invalid_request"
	default:
		return "unknown"
	}
}

// Error is a structured transport error.
type Error struct {
	// Code classifies the error.
	Code ErrorCode
	// Method and URI identify the failed request.
	Method string
	URI    string
	// Message describes the error.
	Message string
	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.URI != "" {
		return fmt.Sprintf("httpclient: %s: %s %s: %s", e.Code, e.Method, e.URI, e.Message)
	}
	return fmt.Sprintf("httpclient: %s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

func newError(code ErrorCode, err error) *Error {
	return &Error{Code: code, Message: err.Error(), Err: err}
}

// NewTimeoutError creates a timeout error.
func NewTimeoutError(err error) *Error { return newError(ErrCodeTimeout, err) }

// NewCanceledError creates a cancellation error.
func NewCanceledError(err error) *Error { return newError(ErrCodeCanceled, err) }

// NewConnectionError creates a connection error.
func NewConnectionError(err error) *Error { return newError(ErrCodeConnection, err) }

// NewEncodingError creates an encoding error.
func NewEncodingError(err error) *Error { return newError(ErrCodeEncoding, err) }

// NewInvalidRequestError creates an invalid-request error.
func NewInvalidRequestError(msg string) *Error {
	return &Error{Code: ErrCodeInvalidRequest, Message: msg}
}

func hasCode(err error, code ErrorCode) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == code
}

// IsTimeout checks if an error is a timeout error.
func IsTimeout(err error) bool { return hasCode(err, ErrCodeTimeout) }

// IsCanceled checks if an error is a cancellation error.
func IsCanceled(err error) bool { return hasCode(err, ErrCodeCanceled) }

// IsConnection checks if an error is a connection error.
func IsConnection(err error) bool { return hasCode(err, ErrCodeConnection) }

// IsEncoding checks if an error is an encoding error.
func IsEncoding(err error) bool { return hasCode(err, ErrCodeEncoding) }
