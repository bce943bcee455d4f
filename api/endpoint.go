package api

import (
	"context"
	"maps"

	"github.com/kbukum/oauthrest/request"
)

// Endpoint declares one resource of an API: its method, path template and
// default options.
type Endpoint struct {
	Method   string
	Path     string
	Defaults request.Options
}

// EndpointFunc calls a bound endpoint with per-call options.
type EndpointFunc func(ctx context.Context, opts request.Options) (any, error)

// NewEndpoint declares an endpoint.
func NewEndpoint(method, path string, defaults request.Options) Endpoint {
	return Endpoint{Method: method, Path: path, Defaults: defaults}
}

// Bind returns a function that calls the endpoint on a with the per-call
// options merged over the defaults.
func (e Endpoint) Bind(a *API) EndpointFunc {
	return func(ctx context.Context, opts request.Options) (any, error) {
		return a.Request(ctx, e.Method, e.Path, MergeOptions(e.Defaults, opts))
	}
}

// MergeOptions overlays override on base. Maps are merged key by key with
// override winning; every other field is replaced when set in override.
// Neither argument is modified.
func MergeOptions(base, override request.Options) request.Options {
	out := base
	out.Params = mergeMaps(base.Params, override.Params)
	out.Query = mergeMaps(base.Query, override.Query)
	out.Headers = mergeMaps(base.Headers, override.Headers)

	if override.Body != nil {
		out.Body = override.Body
	}
	if override.Cookies != nil {
		out.Cookies = override.Cookies
	}
	if override.Credentials != nil {
		out.Credentials = override.Credentials
	}
	if override.Proxy != nil {
		out.Proxy = override.Proxy
	}
	if override.Auth != nil {
		out.Auth = override.Auth
	}
	if override.Timeout != 0 {
		out.Timeout = override.Timeout
	}
	if override.Mode != request.Sync {
		out.Mode = override.Mode
	}
	if override.Handlers != nil {
		out.Handlers = override.Handlers
	}
	if override.Client != nil {
		out.Client = override.Client
	}
	return out
}

func mergeMaps(base, override map[string]any) map[string]any {
	if base == nil && override == nil {
		return nil
	}
	out := make(map[string]any, len(base)+len(override))
	maps.Copy(out, base)
	maps.Copy(out, override)
	return out
}
