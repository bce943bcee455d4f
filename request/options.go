package request

import (
	"time"

	"github.com/kbukum/oauthrest/httpclient"
	"github.com/kbukum/oauthrest/oauth1"
)

// Mode selects blocking or asynchronous execution.
type Mode int

const (
	// Sync waits for the outcome and returns the handler result.
	Sync Mode = iota
	// Async returns a *httpclient.Call immediately.
	Async
)

// String returns the mode name.
func (m Mode) String() string {
	if m == Async {
		return "async"
	}
	return "sync"
}

// Options are the per-call arguments. They are read, never modified.
type Options struct {
	// Params are the logical parameters. Keys may use "-"; values may be
	// scalars or slices.
	Params map[string]any
	// Query are extra query parameters. Params win on key collision.
	Query map[string]any
	// Body is an explicit payload; see httpclient.InferBody for accepted shapes.
	Body any
	// Headers are request headers.
	Headers map[string]any
	// Cookies are attached with defaults applied.
	Cookies []httpclient.Cookie
	// Credentials sign the request. Nil sends it unsigned.
	Credentials *oauth1.Credentials
	// Proxy routes this call through a proxy.
	Proxy *httpclient.Proxy
	// Auth applies transport-level authentication after headers.
	Auth *httpclient.AuthConfig
	// Timeout overrides the client's default deadline.
	Timeout time.Duration

	// Mode selects execution; the zero value is Sync.
	Mode Mode
	// Handlers receive the outcome.
	Handlers *httpclient.Handlers
	// Client overrides the shared client for this call.
	Client *httpclient.Client
}

// Processed is an assembled call.
type Processed struct {
	Request  httpclient.Request
	Mode     Mode
	Handlers *httpclient.Handlers
	Client   *httpclient.Client
}
