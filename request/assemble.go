package request

import (
	"context"
	"net/http"
	"strings"

	"github.com/kbukum/oauthrest/errors"
	"github.com/kbukum/oauthrest/httpclient"
	"github.com/kbukum/oauthrest/oauth1"
	"github.com/kbukum/oauthrest/params"
)

const (
	headerContentType = "Content-Type"
	contentTypeForm   = "application/x-www-form-urlencoded"
)

// Assemble turns a method, a URI template and per-call options into a
// Processed call.
//
// Parameters are canonicalised and merged over Query. The URI template is
// resolved from the canonical parameters; a placeholder without a value is
// a MISSING_PARAM error. With credentials the request is signed over the
// merged parameters and the OAuth header is added. Placement follows the
// method:
//
//   - GET sends the merged parameters in the query string; an explicit
//     body is passed through.
//   - Other methods without a body, HEAD included, send them as a form body.
//   - Other methods with an explicit body send them in the query string.
func Assemble(ctx context.Context, signer oauth1.Signer, method, uriTemplate string, opts Options) (*Processed, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.Canceled().WithCause(err)
	}
	method = strings.ToUpper(strings.TrimSpace(method))
	if method == "" {
		return nil, errors.InvalidInput("method", "must not be empty")
	}

	canonical := params.Transform(opts.Params)
	merged := params.Merge(opts.Query, canonical)

	uri, err := params.SubstituteURI(uriTemplate, canonical)
	if err != nil {
		return nil, err
	}

	headers := make(map[string]any, len(opts.Headers)+2)
	for k, v := range opts.Headers {
		headers[k] = v
	}

	if !opts.Credentials.IsZero() {
		if signer == nil {
			return nil, errors.Configuration("credentials supplied without a signer")
		}
		signed, err := signer.Sign(opts.Credentials, method, uri, merged)
		if err != nil {
			return nil, errors.SigningFailed(err)
		}
		setHeader(headers, oauth1.HeaderAuthorization, oauth1.AuthorizationHeader(signed))
	}

	body, err := httpclient.InferBody(opts.Body)
	if err != nil {
		return nil, err
	}

	req := httpclient.Request{
		Method:  method,
		URL:     uri,
		Headers: headers,
		Cookies: opts.Cookies,
		Proxy:   opts.Proxy,
		Auth:    opts.Auth,
		Timeout: opts.Timeout,
	}

	switch {
	case method == http.MethodGet:
		req.Query = merged
		req.Body = body
	case body.IsZero():
		req.Body = httpclient.FormBody(merged)
		setHeader(headers, headerContentType, contentTypeForm)
	default:
		req.Query = merged
		req.Body = body
	}

	return &Processed{
		Request:  req,
		Mode:     opts.Mode,
		Handlers: opts.Handlers,
		Client:   opts.Client,
	}, nil
}

// setHeader sets key, replacing any entry that differs only in case.
func setHeader(headers map[string]any, key string, value any) {
	for k := range headers {
		if strings.EqualFold(k, key) {
			delete(headers, k)
		}
	}
	headers[key] = value
}
