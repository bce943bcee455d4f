package httpclient

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
)

// ErrorCode classifies a failed call.
type ErrorCode string

const (
	// ErrCodeTimeout means the deadline expired before a response arrived.
	ErrCodeTimeout ErrorCode = "timeout"
	// ErrCodeConnection means the request never reached the server (refused, DNS, TLS).
	ErrCodeConnection ErrorCode = "connection"
	// ErrCodeCanceled means the caller's context was canceled.
	ErrCodeCanceled ErrorCode = "canceled"
	// ErrCodeRedirect means the server answered 3xx; redirects are not followed.
	ErrCodeRedirect ErrorCode = "redirect"
	// ErrCodeAuth means 401 or 403.
	ErrCodeAuth ErrorCode = "auth"
	// ErrCodeNotFound means 404.
	ErrCodeNotFound ErrorCode = "not_found"
	// ErrCodeRateLimit means 429.
	ErrCodeRateLimit ErrorCode = "rate_limit"
	// ErrCodeValidation means any other 4xx.
	ErrCodeValidation ErrorCode = "validation"
	// ErrCodeServer means 5xx or an unexpected status.
	ErrCodeServer ErrorCode = "server"
)

// Error is a classified call failure.
type Error struct {
	// StatusCode is the HTTP status code, 0 when no response arrived.
	StatusCode int
	Code       ErrorCode
	Message    string
	// Retryable reports whether repeating the call may succeed. Calls are
	// never retried automatically.
	Retryable bool
	// Body is the response body, nil when no response arrived.
	Body []byte
	Err  error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("httpclient: %s (HTTP %d): %s", e.Code, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("httpclient: %s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// ClassifyStatusCode converts a non-2xx status into an Error. It returns nil
// for 2xx.
func ClassifyStatusCode(statusCode int, body []byte) *Error {
	e := &Error{
		StatusCode: statusCode,
		Message:    fmt.Sprintf("HTTP %d %s", statusCode, http.StatusText(statusCode)),
		Body:       body,
	}

	switch {
	case statusCode >= 200 && statusCode < 300:
		return nil
	case statusCode >= 300 && statusCode < 400:
		e.Code = ErrCodeRedirect
	case statusCode == http.StatusUnauthorized || statusCode == http.StatusForbidden:
		e.Code = ErrCodeAuth
	case statusCode == http.StatusNotFound:
		e.Code = ErrCodeNotFound
	case statusCode == http.StatusTooManyRequests:
		e.Code = ErrCodeRateLimit
		e.Retryable = true
	case statusCode >= 400 && statusCode < 500:
		e.Code = ErrCodeValidation
	case statusCode >= 500:
		e.Code = ErrCodeServer
		e.Retryable = true
	default:
		e.Code = ErrCodeServer
	}
	return e
}

// ClassifyTransportError converts an error returned by the transport, when
// no response was received, into an Error.
func ClassifyTransportError(err error) *Error {
	e := &Error{Message: err.Error(), Err: err}

	var netErr net.Error
	switch {
	case errors.Is(err, context.Canceled):
		e.Code = ErrCodeCanceled
	case errors.Is(err, context.DeadlineExceeded):
		e.Code = ErrCodeTimeout
		e.Retryable = true
	case errors.As(err, &netErr) && netErr.Timeout():
		e.Code = ErrCodeTimeout
		e.Retryable = true
	default:
		e.Code = ErrCodeConnection
		e.Retryable = true
	}
	return e
}

// IsCode reports whether err is an *Error with the given code.
func IsCode(err error, code ErrorCode) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == code
}

// IsTimeout reports whether err is a timeout.
func IsTimeout(err error) bool { return IsCode(err, ErrCodeTimeout) }

// IsRetryable reports whether err is a retryable *Error.
func IsRetryable(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Retryable
}
