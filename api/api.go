package api

import (
	"context"
	"strings"

	"github.com/kbukum/oauthrest/errors"
	"github.com/kbukum/oauthrest/httpclient"
	"github.com/kbukum/oauthrest/logger"
	"github.com/kbukum/oauthrest/oauth1"
	"github.com/kbukum/oauthrest/request"
)

// API binds a shared client, a signer and per-API defaults.
type API struct {
	client  *httpclient.Client
	signer  oauth1.Signer
	baseURL string
	creds   *oauth1.Credentials
	log     *logger.Logger
}

// Option customizes an API.
type Option func(*API)

// WithBaseURL resolves relative URIs against base.
func WithBaseURL(base string) Option {
	return func(a *API) { a.baseURL = strings.TrimRight(base, "/") }
}

// WithCredentials signs every call that does not carry its own credentials.
func WithCredentials(creds *oauth1.Credentials) Option {
	return func(a *API) { a.creds = creds }
}

// WithLogger sets the logger. The default discards output.
func WithLogger(log *logger.Logger) Option {
	return func(a *API) {
		if log != nil {
			a.log = log
		}
	}
}

// New creates an API. client may be nil when every call supplies its own;
// a nil signer means HMAC-SHA1.
func New(client *httpclient.Client, signer oauth1.Signer, opts ...Option) (*API, error) {
	if signer == nil {
		signer = oauth1.NewHMACSigner()
	}
	a := &API{client: client, signer: signer, log: logger.NewNop()}
	for _, opt := range opts {
		opt(a)
	}
	a.log = a.log.WithComponent("api")

	if a.creds != nil {
		if err := a.creds.Validate(); err != nil {
			return nil, errors.Configuration("invalid default credentials").WithCause(err)
		}
	}
	return a, nil
}

// Request assembles and executes one call. In Sync mode it returns the
// handler result; in Async mode it returns the *httpclient.Call.
func (a *API) Request(ctx context.Context, method, uri string, opts request.Options) (any, error) {
	p, client, err := a.prepare(ctx, method, uri, opts)
	if err != nil {
		return nil, err
	}
	if p.Mode == request.Async {
		call, err := client.ExecuteAsync(ctx, p.Request, p.Handlers)
		if err != nil {
			return nil, err
		}
		return call, nil
	}
	return client.ExecuteBlocking(ctx, p.Request, p.Handlers)
}

// Do executes a call and waits for its handler result, whatever opts.Mode says.
func (a *API) Do(ctx context.Context, method, uri string, opts request.Options) (any, error) {
	opts.Mode = request.Sync
	return a.Request(ctx, method, uri, opts)
}

// Go starts a call and returns its handle, whatever opts.Mode says.
func (a *API) Go(ctx context.Context, method, uri string, opts request.Options) (*httpclient.Call, error) {
	opts.Mode = request.Async
	p, client, err := a.prepare(ctx, method, uri, opts)
	if err != nil {
		return nil, err
	}
	return client.ExecuteAsync(ctx, p.Request, p.Handlers)
}

// Assemble resolves uri against the base URL and assembles the call with
// the default credentials, without sending it.
func (a *API) Assemble(ctx context.Context, method, uri string, opts request.Options) (*request.Processed, error) {
	if opts.Credentials == nil {
		opts.Credentials = a.creds
	}
	return request.Assemble(ctx, a.signer, method, a.resolve(uri), opts)
}

func (a *API) prepare(ctx context.Context, method, uri string, opts request.Options) (*request.Processed, *httpclient.Client, error) {
	p, err := a.Assemble(ctx, method, uri, opts)
	if err != nil {
		return nil, nil, err
	}

	client := p.Client
	if client == nil {
		client = a.client
	}
	if client == nil {
		return nil, nil, errors.Configuration("no client configured")
	}

	a.log.Debug("call assembled", logger.Fields(
		logger.FieldMethod, p.Request.Method,
		logger.FieldURL, p.Request.URL,
		logger.FieldMode, p.Mode.String(),
		"signed", p.Request.Headers[oauth1.HeaderAuthorization] != nil,
	))
	return p, client, nil
}

func (a *API) resolve(uri string) string {
	if a.baseURL == "" || strings.Contains(uri, "://") {
		return uri
	}
	return a.baseURL + "/" + strings.TrimLeft(uri, "/")
}
