package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// CallScope tracks the span and metrics of one call from submission to
// completion.
type CallScope struct {
	CallID    string
	Method    string
	URL       string
	Mode      string
	StartTime time.Time
	Metrics   *Metrics

	span trace.Span
}

// NewCallScope creates a scope. If metrics is nil, metric recording is skipped.
func NewCallScope(callID, method, url, mode string, metrics *Metrics) *CallScope {
	return &CallScope{
		CallID:    callID,
		Method:    method,
		URL:       url,
		Mode:      mode,
		StartTime: time.Now(),
		Metrics:   metrics,
	}
}

type callScopeKey struct{}

// WithCallScope stores a CallScope in the context.
func WithCallScope(ctx context.Context, cs *CallScope) context.Context {
	return context.WithValue(ctx, callScopeKey{}, cs)
}

// CallScopeFromContext retrieves the CallScope from context, or nil.
func CallScopeFromContext(ctx context.Context) *CallScope {
	if cs, ok := ctx.Value(callScopeKey{}).(*CallScope); ok {
		return cs
	}
	return nil
}

// Start opens the call span and records the in-flight metric.
func (cs *CallScope) Start(ctx context.Context) context.Context {
	ctx, span := StartSpan(ctx, SpanCall, trace.WithSpanKind(trace.SpanKindClient))
	span.SetAttributes(
		attribute.String(AttrCallID, cs.CallID),
		attribute.String(AttrCallMode, cs.Mode),
		attribute.String(AttrHTTPMethod, cs.Method),
		attribute.String(AttrHTTPURL, cs.URL),
	)
	cs.span = span
	cs.Metrics.RecordCallStart(ctx)
	return WithCallScope(ctx, cs)
}

// End closes the span and records the call metrics. status is the HTTP
// status code, zero when no response arrived.
func (cs *CallScope) End(ctx context.Context, outcome string, status int, err error) {
	duration := time.Since(cs.StartTime)

	if cs.span != nil {
		if err != nil {
			cs.span.RecordError(err)
			cs.span.SetStatus(codes.Error, err.Error())
			cs.span.SetAttributes(attribute.String(AttrErrorMessage, err.Error()))
		}
		if status > 0 {
			cs.span.SetAttributes(attribute.Int(AttrHTTPStatus, status))
		}
		cs.span.SetAttributes(
			attribute.String(AttrOutcome, outcome),
			attribute.Int64(AttrDurationMs, duration.Milliseconds()),
		)
		cs.span.End()
	}

	cs.Metrics.RecordCallEnd(ctx, cs.Method, cs.Mode, outcome, duration)
}

// Duration returns the elapsed time since the call started.
func (cs *CallScope) Duration() time.Duration {
	return time.Since(cs.StartTime)
}
