package errors

import (
	stderrors "errors"
	"fmt"
)

// AppError is the unified pipeline error type.
type AppError struct {
	// Code is a machine-readable error code.
	Code ErrorCode `json:"code"`
	// Message is a human-readable error message.
	Message string `json:"message"`
	// Retryable indicates if the operation can be retried by the caller.
	Retryable bool `json:"retryable"`
	// Details contains additional context for the error.
	Details map[string]any `json:"details,omitempty"`
	// Cause is the underlying error that caused this error.
	Cause error `json:"-"`
}

// Error returns the string representation of the error.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause of the error.
func (e *AppError) Unwrap() error { return e.Cause }

// WithCause sets the underlying cause of the error and returns the receiver.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithDetail sets a single detail key-value pair and returns the receiver.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// New creates a new AppError with automatic retryable detection.
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:      code,
		Message:   message,
		Retryable: IsRetryableCode(code),
	}
}

// --- Constructors ---

// Configuration reports a call that cannot be submitted as configured.
func Configuration(reason string) *AppError {
	return &AppError{Code: ErrCodeConfiguration, Message: reason}
}

// InvalidBody reports a body value of an unsupported shape.
func InvalidBody(kind string) *AppError {
	return &AppError{
		Code: ErrCodeInvalidBody, Message: fmt.Sprintf("unsupported body of type %s", kind),
		Details: map[string]any{"type": kind},
	}
}

// MissingParam reports a URI placeholder without a parameter value.
func MissingParam(uri, name string) *AppError {
	return &AppError{
		Code: ErrCodeMissingParam, Message: fmt.Sprintf("%s needs the %q param to be supplied", uri, name),
		Details: map[string]any{"uri": uri, "param": name},
	}
}

// InvalidInput reports a field that failed validation.
func InvalidInput(field, reason string) *AppError {
	details := make(map[string]any)
	if field != "" {
		details["field"] = field
	}
	return &AppError{
		Code: ErrCodeInvalidInput, Message: fmt.Sprintf("invalid input: %s", reason),
		Details: details,
	}
}

// Validation creates an AppError from an aggregated validation message.
func Validation(message string) *AppError {
	return &AppError{Code: ErrCodeInvalidInput, Message: message}
}

// SigningFailed wraps a signer failure.
func SigningFailed(cause error) *AppError {
	return &AppError{Code: ErrCodeSigningFailed, Message: "could not sign request", Cause: cause}
}

// Canceled reports a call aborted through its cancellation handle.
func Canceled() *AppError {
	return &AppError{Code: ErrCodeCanceled, Message: "call was cancelled"}
}

// RateLimited reports a call refused by the client-side limiter.
func RateLimited(cause error) *AppError {
	return &AppError{
		Code: ErrCodeRateLimited, Message: "client-side rate limit exceeded",
		Retryable: true, Cause: cause,
	}
}

// Internal wraps an unexpected failure.
func Internal(cause error) *AppError {
	return &AppError{Code: ErrCodeInternal, Message: "unexpected failure", Cause: cause}
}

// --- Inspection ---

// AsAppError converts an error to an AppError if possible.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// IsCode reports whether err is an AppError carrying code.
func IsCode(err error, code ErrorCode) bool {
	appErr, ok := AsAppError(err)
	return ok && appErr.Code == code
}
