package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Pre-submission errors (never retryable)
const (
	// ErrCodeConfiguration indicates the call was set up incorrectly, e.g. no handlers.
	ErrCodeConfiguration ErrorCode = "CONFIGURATION_ERROR"
	// ErrCodeInvalidBody indicates a body value matches no known body kind.
	ErrCodeInvalidBody ErrorCode = "INVALID_BODY"
	// ErrCodeMissingParam indicates a URI placeholder had no matching parameter.
	ErrCodeMissingParam ErrorCode = "MISSING_PARAM"
	// ErrCodeInvalidInput indicates an option or field failed validation.
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
	// ErrCodeSigningFailed indicates the signer could not sign the request.
	ErrCodeSigningFailed ErrorCode = "SIGNING_FAILED"
)

// Runtime errors
const (
	// ErrCodeCanceled indicates the call was cancelled through its handle.
	ErrCodeCanceled ErrorCode = "CANCELED"
	// ErrCodeRateLimited indicates the client-side limiter refused the call.
	ErrCodeRateLimited ErrorCode = "RATE_LIMITED"
	// ErrCodeInternal indicates an unexpected failure, usually a recovered panic.
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

var retryableCodes = map[ErrorCode]bool{
	ErrCodeRateLimited: true,
	ErrCodeInternal:    false,
}

// IsRetryableCode returns true if the error code indicates a retryable error.
func IsRetryableCode(code ErrorCode) bool {
	return retryableCodes[code]
}
