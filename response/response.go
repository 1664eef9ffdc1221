package response

import (
	"errors"
	"fmt"

	"github.com/kbukum/restspec/request"
)

// Callback is the caller's continuation. Exactly one of err and result is
// meaningful: when err is non-nil, result is nil. resp is the raw transport
// response whenever the transport produced one.
type Callback func(err error, result any, resp *request.Response)

// StatusError is synthesized when the transport reports a response with a
// status code of 400 or above and no transport-level error.
type StatusError struct {
	// Message is "HTTP code: <status>".
	Message string `json:"message"`
	// StatusCode is the HTTP status code.
	StatusCode int `json:"statusCode"`
	// Body is the parsed response body, when present.
	Body any `json:"body,omitempty"`
	// Headers are the response headers, when present.
	Headers map[string]string `json:"headers,omitempty"`
}

// Error implements the error interface.
func (e *StatusError) Error() string {
	return e.Message
}

// NewStatusError creates the error delivered for a failing status code.
func NewStatusError(statusCode int, body any, headers map[string]string) *StatusError {
	e := &StatusError{
		Message:    fmt.Sprintf("HTTP code: %d", statusCode),
		StatusCode: statusCode,
	}
	if body != nil {
		e.Body = body
	}
	if headers != nil {
		e.Headers = headers
	}
	return e
}

// Wrap adapts a caller continuation to the transport callback contract.
//
// The outcome is decided in this order:
//  1. no transport error and a response with status >= 400:
//     cb(*StatusError, nil, resp)
//  2. otherwise: cb(transportErr, nil, resp) on failure, cb(nil, body, resp)
//     on success.
//
// A nil cb returns a nil callback so the transport applies its own
// fire-and-forget behavior.
func Wrap(cb Callback) request.Callback {
	if cb == nil {
		return nil
	}
	return func(err error, resp *request.Response, body any) {
		if err == nil && resp != nil && resp.StatusCode >= 400 {
			cb(NewStatusError(resp.StatusCode, body, resp.Headers), nil, resp)
			return
		}
		if err != nil {
			cb(err, nil, resp)
			return
		}
		cb(nil, body, resp)
	}
}

// AsStatusError extracts a StatusError from err.
func AsStatusError(err error) (*StatusError, bool) {
	var e *StatusError
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// IsStatus reports whether err is a StatusError with the given code.
func IsStatus(err error, statusCode int) bool {
	e, ok := AsStatusError(err)
	return ok && e.StatusCode == statusCode
}
