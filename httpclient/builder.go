package httpclient

import (
	"bytes"
	"context"
	"io"
	"mime"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/kbukum/oauthrest/errors"
	"github.com/kbukum/oauthrest/params"
)

const (
	contentTypeForm = "application/x-www-form-urlencoded"
	contentTypeText = "text/plain; charset=utf-8"
	contentTypeBin  = "application/octet-stream"
)

// BuiltRequest is a request ready for the transport.
type BuiltRequest struct {
	HTTP *http.Request
	// Cookies are the attached cookie records with defaults applied.
	Cookies []Cookie
	// Proxy routes the request; nil uses the client default.
	Proxy *Proxy
	// Timeout is the per-request deadline; zero uses the client default.
	Timeout time.Duration
}

// Build converts a Request into a BuiltRequest. Every optional component of
// the request is a no-op when absent.
func Build(ctx context.Context, req Request) (*BuiltRequest, error) {
	if req.Method == "" {
		return nil, errors.InvalidInput("method", "must not be empty")
	}
	u, err := url.Parse(req.URL)
	if err != nil {
		return nil, errors.InvalidInput("url", err.Error()).WithCause(err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, errors.InvalidInput("url", "must be absolute")
	}
	if req.Timeout < 0 {
		return nil, errors.InvalidInput("timeout", "must not be negative")
	}
	if err := req.Auth.Validate(); err != nil {
		return nil, errors.InvalidInput("auth", err.Error())
	}
	if req.Proxy != nil {
		if err := req.Proxy.Validate(); err != nil {
			return nil, err
		}
	}

	applyQuery(u, req.Query)

	header := make(http.Header, len(req.Headers))
	for _, k := range sortedKeys(req.Headers) {
		header.Set(k, params.Stringify(req.Headers[k]))
	}

	body, contentType, err := encodeBody(req.Body, header.Get("Content-Type"))
	if err != nil {
		return nil, err
	}
	if contentType != "" {
		header.Set("Content-Type", contentType)
	}

	httpReq, err := http.NewRequestWithContext(ctx, strings.ToUpper(req.Method), u.String(), body)
	if err != nil {
		return nil, errors.InvalidInput("request", err.Error()).WithCause(err)
	}
	httpReq.Header = header

	cookies := make([]Cookie, 0, len(req.Cookies))
	for _, c := range req.Cookies {
		if err := c.Validate(); err != nil {
			return nil, err
		}
		c = c.WithDefaults()
		httpReq.AddCookie(c.toHTTP())
		cookies = append(cookies, c)
	}

	req.Auth.apply(httpReq)

	return &BuiltRequest{
		HTTP:    httpReq,
		Cookies: cookies,
		Proxy:   req.Proxy,
		Timeout: req.Timeout,
	}, nil
}

// applyQuery adds query parameters to u. Parameters already in the URL are
// kept; supplied ones replace them on key collision.
func applyQuery(u *url.URL, query map[string]any) {
	if len(query) == 0 {
		return
	}
	q := u.Query()
	for k, v := range query {
		q.Set(k, params.Stringify(v))
	}
	u.RawQuery = q.Encode()
}

// encodeBody renders body and returns the Content-Type to send, or "" to
// leave the caller's header untouched.
func encodeBody(body Body, contentType string) (io.Reader, string, error) {
	if isMultipart(contentType) || body.kind == BodyMultipart {
		if body.kind != BodyMultipart {
			return nil, "", errors.InvalidBody(body.kind.String()).WithDetail("content_type", contentType)
		}
		return encodeParts(body.parts)
	}

	switch body.kind {
	case BodyNone:
		return nil, "", nil

	case BodyForm:
		values := make(url.Values, len(body.form))
		for k, v := range body.form {
			values.Set(k, params.Stringify(v))
		}
		if contentType == "" {
			contentType = contentTypeForm
		}
		return strings.NewReader(values.Encode()), contentType, nil

	case BodyRaw:
		if isForm(contentType) {
			return strings.NewReader(url.QueryEscape(string(body.raw))), "", nil
		}
		if contentType == "" {
			contentType = contentTypeBin
			if body.text {
				contentType = contentTypeText
			}
		}
		return bytes.NewReader(body.raw), contentType, nil

	case BodyStream:
		if body.stream == nil {
			return nil, "", errors.InvalidBody("nil stream")
		}
		return body.stream, "", nil

	default:
		return nil, "", errors.InvalidBody(body.kind.String())
	}
}

func mediaType(contentType string) string {
	if contentType == "" {
		return ""
	}
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(strings.SplitN(contentType, ";", 2)[0]))
	}
	return mt
}

func isMultipart(contentType string) bool {
	return strings.HasPrefix(mediaType(contentType), "multipart/")
}

func isForm(contentType string) bool {
	return mediaType(contentType) == contentTypeForm
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
