package main

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/kbukum/oauthrest/errors"
	"github.com/kbukum/oauthrest/httpclient"
	"github.com/kbukum/oauthrest/oauth1"
	"github.com/kbukum/oauthrest/request"
)

type callOptions struct {
	params   []string
	query    []string
	headers  []string
	data     string
	form     []string
	cookies  []string
	proxy    string
	timeout  time.Duration
	async    bool
	unsigned bool
	include  bool
}

func newCallCmd(root *rootOptions) *cobra.Command {
	opts := &callOptions{}
	cmd := &cobra.Command{
		Use:   "call METHOD URI",
		Short: "Sign and send one request, printing the response body",
		Example: `  oauthrest call GET statuses/user_timeline.json -p screen-name=bob -p count=5
  oauthrest call POST statuses/update.json -p status="hello world"
  oauthrest call POST media/upload.json -F media=@cat.png --async`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(root)
			if err != nil {
				return err
			}
			a, err := startApp(cmd.Context(), cfg, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer func() {
				if cerr := a.close(context.WithoutCancel(cmd.Context())); cerr != nil {
					a.log.Warn("shutdown failed", map[string]any{"error": cerr.Error()})
				}
			}()
			return runCall(cmd.Context(), a, args[0], args[1], opts, cmd.OutOrStdout())
		},
	}
	fs := cmd.Flags()
	fs.StringArrayVarP(&opts.params, "param", "p", nil, "call parameter key=value, signed and placed by method (repeatable)")
	fs.StringArrayVarP(&opts.query, "query", "q", nil, "explicit query parameter key=value (repeatable)")
	fs.StringArrayVarP(&opts.headers, "header", "H", nil, `request header "Name: value" (repeatable)`)
	fs.StringVarP(&opts.data, "data", "d", "", "raw request body; @file reads a file, @- reads stdin")
	fs.StringArrayVarP(&opts.form, "form", "F", nil, "multipart part name=value or name=@file (repeatable)")
	fs.StringArrayVar(&opts.cookies, "cookie", nil, "cookie name=value for the request host (repeatable)")
	fs.StringVar(&opts.proxy, "proxy", "", "proxy URL for this call, e.g. socks5://127.0.0.1:1080")
	fs.DurationVar(&opts.timeout, "timeout", 0, "per-call timeout (default: client.timeout)")
	fs.BoolVar(&opts.async, "async", false, "submit asynchronously and wait on the call handle")
	fs.BoolVar(&opts.unsigned, "unsigned", false, "send without an OAuth Authorization header")
	fs.BoolVarP(&opts.include, "include", "i", false, "print the status line and response headers")
	return cmd
}

// buildOptions turns flags into call options. Handlers are left to the caller.
func (o *callOptions) buildOptions(uri string) (request.Options, error) {
	var out request.Options
	var err error

	if out.Params, err = parsePairs("param", o.params); err != nil {
		return out, err
	}
	if out.Query, err = parsePairs("query", o.query); err != nil {
		return out, err
	}
	if out.Headers, err = parseHeaders(o.headers); err != nil {
		return out, err
	}
	if o.data != "" && len(o.form) > 0 {
		return out, fmt.Errorf("--data and --form are mutually exclusive")
	}
	if len(o.form) > 0 {
		if out.Body, err = parseParts(o.form); err != nil {
			return out, err
		}
	} else if out.Body, err = parseBody(o.data); err != nil {
		return out, err
	}
	if out.Cookies, err = parseCookies(o.cookies, uri); err != nil {
		return out, err
	}
	if out.Proxy, err = parseProxy(o.proxy); err != nil {
		return out, err
	}
	out.Timeout = o.timeout
	if o.unsigned {
		out.Credentials = &oauth1.Credentials{}
	}
	return out, nil
}

// outcomeHandlers hand every outcome back as the call result.
func outcomeHandlers() *httpclient.Handlers {
	return &httpclient.Handlers{
		OnSuccess:   func(r *httpclient.Response) any { return r },
		OnFailure:   func(f *httpclient.Failure) any { return f },
		OnException: func(err error) any { return err },
	}
}

func runCall(ctx context.Context, a *app, method, uri string, opts *callOptions, out io.Writer) error {
	ro, err := opts.buildOptions(uri)
	if err != nil {
		return err
	}

	var result any
	if opts.async {
		result, err = runAsync(ctx, a, method, uri, ro)
	} else {
		ro.Handlers = outcomeHandlers()
		result, err = a.api.Do(ctx, method, uri, ro)
	}
	if err != nil {
		return err
	}

	switch r := result.(type) {
	case *httpclient.Response:
		return writeResponse(out, r, opts.include)
	case *httpclient.Failure:
		if r.Response != nil {
			if werr := writeResponse(out, r.Response, opts.include); werr != nil {
				return werr
			}
		}
		return r
	case error:
		return r
	default:
		return fmt.Errorf("unexpected call result %T", result)
	}
}

// runAsync submits through the call handle and waits for its outcome,
// cancelling the call if ctx ends first.
func runAsync(ctx context.Context, a *app, method, uri string, ro request.Options) (any, error) {
	results := make(chan any, 1)
	handlers := outcomeHandlers()
	ro.Handlers = &httpclient.Handlers{
		OnSuccess:   func(r *httpclient.Response) any { results <- handlers.OnSuccess(r); return nil },
		OnFailure:   func(f *httpclient.Failure) any { results <- handlers.OnFailure(f); return nil },
		OnException: func(err error) any { results <- handlers.OnException(err); return nil },
	}

	call, err := a.api.Go(ctx, method, uri, ro)
	if err != nil {
		return nil, err
	}
	a.log.Debug("call submitted", map[string]any{"call_id": call.ID()})

	select {
	case <-call.Done():
	case <-ctx.Done():
		call.Cancel()
		<-call.Done()
	}

	select {
	case r := <-results:
		return r, nil
	default:
		return nil, errors.Canceled().WithDetail("call_id", call.ID()).WithDetail("state", call.State().String())
	}
}

func writeResponse(w io.Writer, r *httpclient.Response, include bool) error {
	if include {
		fmt.Fprintf(w, "HTTP %d %s\n", r.StatusCode, http.StatusText(r.StatusCode))
		names := make([]string, 0, len(r.Headers))
		for k := range r.Headers {
			names = append(names, k)
		}
		sort.Strings(names)
		for _, k := range names {
			fmt.Fprintf(w, "%s: %s\n", k, r.Headers[k])
		}
		fmt.Fprintln(w)
	}
	if _, err := w.Write(r.Body); err != nil {
		return err
	}
	if n := len(r.Body); n > 0 && r.Body[n-1] != '\n' {
		_, err := fmt.Fprintln(w)
		return err
	}
	return nil
}

// exitCode maps an error to the process status: 2 for an HTTP failure,
// 3 for a configuration or input problem, 1 otherwise.
func exitCode(err error) int {
	var failure *httpclient.Failure
	if stderrors.As(err, &failure) {
		return 2
	}
	if appErr, ok := errors.AsAppError(err); ok {
		switch appErr.Code {
		case errors.ErrCodeConfiguration, errors.ErrCodeInvalidInput, errors.ErrCodeInvalidBody, errors.ErrCodeMissingParam:
			return 3
		}
	}
	return 1
}
