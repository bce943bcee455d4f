package httpclient

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/kbukum/oauthrest/errors"
	"github.com/kbukum/oauthrest/logger"
	"github.com/kbukum/oauthrest/observability"
)

// Handlers receive the outcome of a call. Exactly one of them runs per
// call. A nil handler makes the outcome value itself the result.
type Handlers struct {
	// OnSuccess receives a 2xx response.
	OnSuccess func(*Response) any
	// OnFailure receives transport failures and non-2xx responses.
	OnFailure func(*Failure) any
	// OnException receives unexpected errors during submission or while
	// reading the response.
	OnException func(error) any
}

func (h *Handlers) empty() bool {
	return h == nil || (h.OnSuccess == nil && h.OnFailure == nil && h.OnException == nil)
}

type outcomeKind int

const (
	outcomeSuccess outcomeKind = iota
	outcomeFailure
	outcomeException
	outcomeCancelled
)

func (k outcomeKind) String() string {
	switch k {
	case outcomeSuccess:
		return "success"
	case outcomeFailure:
		return "failure"
	case outcomeException:
		return "exception"
	default:
		return "cancelled"
	}
}

type outcome struct {
	kind     outcomeKind
	response *Response
	failure  *Failure
	err      error
}

func (o outcome) status() int {
	if o.response != nil {
		return o.response.StatusCode
	}
	return 0
}

func (o outcome) cause() error {
	if o.failure != nil {
		return o.failure
	}
	return o.err
}

// ExecuteBlocking submits req, waits for the outcome and returns the result
// of the handler that ran.
//
// Missing handlers, build errors and limiter errors are returned before any
// network I/O. A panic in a handler is recovered and returned as an error.
func (c *Client) ExecuteBlocking(ctx context.Context, req Request, h *Handlers) (any, error) {
	if h.empty() {
		return nil, errors.Configuration("no handlers supplied")
	}
	built, err := Build(ctx, req)
	if err != nil {
		return nil, err
	}
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, errors.RateLimited(err)
		}
	}

	id := uuid.NewString()
	out := c.run(ctx, id, "sync", built)
	return c.dispatch(ctx, id, h, out)
}

// ExecuteAsync submits req on a new goroutine and returns its Call at once.
// The handler runs on that goroutine. Preconditions and build errors are
// returned synchronously; no Call is created for them.
func (c *Client) ExecuteAsync(ctx context.Context, req Request, h *Handlers) (*Call, error) {
	if h.empty() {
		return nil, errors.Configuration("no handlers supplied")
	}
	built, err := Build(ctx, req)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(ctx)
	call := newCall(uuid.NewString(), cancel)

	go c.worker(ctx, call, built, h)
	return call, nil
}

func (c *Client) worker(ctx context.Context, call *Call, built *BuiltRequest, h *Handlers) {
	defer call.finish()
	defer call.cancel()

	out := c.acquireAndRun(ctx, call.id, built)

	if out.kind == outcomeCancelled || (ctx.Err() != nil && out.kind != outcomeSuccess) {
		call.settle(StateCancelled)
		c.metrics.RecordOutcome(ctx, outcomeCancelled.String())
		c.log.Debug("call cancelled", logger.Fields(logger.FieldCallID, call.id))
		return
	}

	final := StateCompleted
	if out.kind != outcomeSuccess {
		final = StateFailed
	}
	if !call.settle(final) {
		c.metrics.RecordOutcome(ctx, outcomeCancelled.String())
		c.log.Debug("call cancelled", logger.Fields(logger.FieldCallID, call.id))
		return
	}

	if _, err := c.dispatch(ctx, call.id, h, out); err != nil {
		c.log.Error("async handler failed", logger.MergeWithError(
			logger.Fields(logger.FieldCallID, call.id), err))
	}
}

// acquireAndRun waits for an in-flight slot and the limiter before running
// the call. Waiting happens on the worker so ExecuteAsync never blocks.
func (c *Client) acquireAndRun(ctx context.Context, id string, built *BuiltRequest) outcome {
	if c.slots != nil {
		select {
		case c.slots <- struct{}{}:
			defer func() { <-c.slots }()
		case <-ctx.Done():
			return outcome{kind: outcomeCancelled, err: ctx.Err()}
		}
	}
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			if ctx.Err() != nil {
				return outcome{kind: outcomeCancelled, err: err}
			}
			return outcome{kind: outcomeException, err: errors.RateLimited(err)}
		}
	}
	return c.run(ctx, id, "async", built)
}

// run submits one built request inside a call span.
func (c *Client) run(ctx context.Context, id, mode string, built *BuiltRequest) outcome {
	method, target := built.HTTP.Method, logger.RedactURL(built.HTTP.URL)
	log := c.log.WithCall(id, method, mode)
	log.Debug("call submitted", logger.Fields(logger.FieldURL, target))

	scope := observability.NewCallScope(id, method, target, mode, c.metrics)
	ctx = scope.Start(ctx)

	out := c.submit(ctx, built)
	scope.End(ctx, out.kind.String(), out.status(), out.cause())

	fields := logger.MergeWithDuration(logger.Fields(
		logger.FieldURL, target,
		logger.FieldOutcome, out.kind.String(),
	), scope.Duration())
	if s := out.status(); s > 0 {
		fields[logger.FieldStatus] = s
	}
	switch out.kind {
	case outcomeSuccess:
		log.Debug("call completed", fields)
	case outcomeFailure:
		log.Warn("call failed", logger.MergeWithError(fields, out.cause()))
	default:
		log.Error("call raised", logger.MergeWithError(fields, out.cause()))
	}
	return out
}

// submit sends the request and classifies the result. It never panics.
func (c *Client) submit(ctx context.Context, built *BuiltRequest) (out outcome) {
	defer func() {
		if r := recover(); r != nil {
			out = outcome{kind: outcomeException, err: errors.Internal(fmt.Errorf("panic during submission: %v", r))}
		}
	}()

	timeout := built.Timeout
	if timeout <= 0 {
		timeout = c.cfg.Timeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req := built.HTTP.WithContext(ctx)
	c.applyDefaults(req)

	start := time.Now()
	resp, err := c.clientFor(built.Proxy).Do(req)
	if err != nil {
		return outcome{kind: outcomeFailure, failure: &Failure{Err: ClassifyTransportError(err)}}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return outcome{kind: outcomeException, err: fmt.Errorf("httpclient: read response body: %w", err)}
	}

	response := &Response{
		StatusCode: resp.StatusCode,
		Headers:    flattenHeaders(resp.Header),
		Cookies:    resp.Cookies(),
		Body:       body,
		Duration:   time.Since(start),
	}
	if response.IsSuccess() {
		return outcome{kind: outcomeSuccess, response: response}
	}
	return outcome{
		kind:     outcomeFailure,
		response: response,
		failure:  &Failure{Response: response, Err: ClassifyStatusCode(resp.StatusCode, body)},
	}
}

func (c *Client) applyDefaults(req *http.Request) {
	for k, v := range c.cfg.Headers {
		if req.Header.Get(k) == "" {
			req.Header.Set(k, v)
		}
	}
	if req.Header.Get("User-Agent") == "" && c.cfg.UserAgent != "" {
		req.Header.Set("User-Agent", c.cfg.UserAgent)
	}
}

// dispatch runs the single handler matching out. A panicking handler is
// recovered and reported as an error; no other handler runs.
func (c *Client) dispatch(ctx context.Context, id string, h *Handlers, out outcome) (result any, err error) {
	c.metrics.RecordOutcome(ctx, out.kind.String())

	defer func() {
		if r := recover(); r != nil {
			err = errors.Internal(fmt.Errorf("%s handler panicked: %v", out.kind, r))
			c.log.Error("handler panicked", logger.MergeWithError(
				logger.Fields(logger.FieldCallID, id, logger.FieldOutcome, out.kind.String()), err))
			result = nil
		}
	}()

	switch out.kind {
	case outcomeSuccess:
		if h.OnSuccess == nil {
			return out.response, nil
		}
		return h.OnSuccess(out.response), nil
	case outcomeFailure:
		if h.OnFailure == nil {
			return out.failure, nil
		}
		return h.OnFailure(out.failure), nil
	default:
		if h.OnException == nil {
			return nil, out.err
		}
		return h.OnException(out.err), nil
	}
}
