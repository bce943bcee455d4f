package httpclient

import (
	"net/http"
	"time"
)

// Request is the processed-argument bundle handed to the builder. Every
// field except Method and URL is optional.
type Request struct {
	// Method is the HTTP verb.
	Method string
	// URL is the absolute request URL, placeholders already resolved.
	URL string
	// Headers are request headers. Slice values are comma-joined.
	Headers map[string]any
	// Query are URL query parameters. Slice values are comma-joined.
	Query map[string]any
	// Body is the request payload.
	Body Body
	// Cookies are attached to the request with defaults applied.
	Cookies []Cookie
	// Proxy routes this request through a proxy instead of the client default.
	Proxy *Proxy
	// Auth applies transport-level authentication after headers.
	Auth *AuthConfig
	// Timeout overrides the client's default deadline for this request.
	Timeout time.Duration
}

// Response is the result of a completed request.
type Response struct {
	// StatusCode is the HTTP status code.
	StatusCode int
	// Headers are the response headers, first value per key.
	Headers map[string]string
	// Cookies are the cookies set by the response.
	Cookies []*http.Cookie
	// Body is the raw response body.
	Body []byte
	// Duration is the time from submission to the last body byte.
	Duration time.Duration
}

// IsSuccess returns true if the status code is 2xx.
func (r *Response) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Failure is handed to OnFailure. Response is nil when no response was
// received (connection, DNS, timeout).
type Failure struct {
	Response *Response
	Err      *Error
}

// Error implements error so a Failure can be returned where an error is expected.
func (f *Failure) Error() string {
	return f.Err.Error()
}

// Unwrap returns the classified transport error.
func (f *Failure) Unwrap() error {
	return f.Err
}

// flattenHeaders converts multi-value headers to single-value.
func flattenHeaders(h http.Header) map[string]string {
	result := make(map[string]string, len(h))
	for k, v := range h {
		if len(v) > 0 {
			result[k] = v[0]
		}
	}
	return result
}
