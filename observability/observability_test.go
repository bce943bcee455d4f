package observability

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func withRecorder(t *testing.T) *tracetest.InMemoryExporter {
	t.Helper()
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		_ = tp.Shutdown(context.Background())
		otel.SetTracerProvider(prev)
	})
	return exporter
}

func TestDefaultTracerConfig(t *testing.T) {
	cfg := DefaultTracerConfig("test-service")

	if cfg.ServiceName != "test-service" {
		t.Errorf("expected ServiceName 'test-service', got %s", cfg.ServiceName)
	}
	if cfg.Endpoint != "localhost:4318" {
		t.Errorf("expected Endpoint 'localhost:4318', got %s", cfg.Endpoint)
	}
	if cfg.SampleRate != 1.0 {
		t.Errorf("expected SampleRate 1.0, got %f", cfg.SampleRate)
	}
	if !cfg.Insecure {
		t.Error("expected Insecure to be true")
	}
}

func TestTracerConfig_ApplyDefaultsAndValidate(t *testing.T) {
	cfg := TracerConfig{}
	cfg.ApplyDefaults()
	if cfg.Endpoint != "localhost:4318" || cfg.SampleRate != 1.0 {
		t.Errorf("defaults not applied: %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("disabled tracing without service name should be valid: %v", err)
	}

	cfg.Enabled = true
	if err := cfg.Validate(); err == nil {
		t.Error("expected error when enabled without service name")
	}

	cfg.ServiceName = "svc"
	cfg.SampleRate = 1.5
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for sample rate above 1")
	}
}

func TestMeterConfigFrom(t *testing.T) {
	tc := TracerConfig{ServiceName: "svc", Endpoint: "collector:4318", Environment: "prod"}
	mc := MeterConfigFrom(tc)
	if mc.ServiceName != "svc" || mc.Endpoint != "collector:4318" || mc.Environment != "prod" {
		t.Errorf("unexpected meter config: %+v", mc)
	}
	if mc.Interval != 15*time.Second {
		t.Errorf("expected Interval 15s, got %v", mc.Interval)
	}
}

func TestNewMetrics_Noop(t *testing.T) {
	metrics, err := NewMetrics(noop.NewMeterProvider().Meter("test"))
	if err != nil {
		t.Fatalf("unexpected error creating metrics: %v", err)
	}

	ctx := context.Background()
	metrics.RecordCallStart(ctx)
	metrics.RecordCallEnd(ctx, "GET", "sync", "success", 100*time.Millisecond)
	metrics.RecordOutcome(ctx, "success")
}

func TestMetrics_NilIsSafe(t *testing.T) {
	var m *Metrics
	ctx := context.Background()
	m.RecordCallStart(ctx)
	m.RecordCallEnd(ctx, "GET", "sync", "success", time.Millisecond)
	m.RecordOutcome(ctx, "failure")
}

func TestMetrics_RecordsCalls(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	defer func() { _ = mp.Shutdown(context.Background()) }()

	metrics, err := NewMetrics(mp.Meter("test"))
	if err != nil {
		t.Fatalf("NewMetrics: %v", err)
	}

	ctx := context.Background()
	metrics.RecordCallStart(ctx)
	metrics.RecordCallEnd(ctx, "POST", "async", "failure", 20*time.Millisecond)

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(ctx, &rm); err != nil {
		t.Fatalf("Collect: %v", err)
	}

	found := map[string]bool{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			found[m.Name] = true
			if m.Name != "oauthrest.calls" {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			if !ok || len(sum.DataPoints) != 1 {
				t.Fatalf("unexpected calls data: %#v", m.Data)
			}
			if sum.DataPoints[0].Value != 1 {
				t.Errorf("expected 1 call, got %d", sum.DataPoints[0].Value)
			}
			outcome, _ := sum.DataPoints[0].Attributes.Value(attribute.Key("outcome"))
			if outcome.AsString() != "failure" {
				t.Errorf("expected outcome failure, got %q", outcome.AsString())
			}
		}
	}
	for _, name := range []string{"oauthrest.calls", "oauthrest.call.duration", "oauthrest.calls.inflight"} {
		if !found[name] {
			t.Errorf("metric %s not collected", name)
		}
	}
}

func TestCallScope_SpanLifecycle(t *testing.T) {
	exporter := withRecorder(t)

	scope := NewCallScope("call-1", "GET", "https://api.example.com/x", "sync", nil)
	ctx := scope.Start(context.Background())

	if got := CallScopeFromContext(ctx); got != scope {
		t.Fatal("expected scope stored in context")
	}

	scope.End(ctx, "success", 200, nil)

	spans := exporter.GetSpans()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}
	s := spans[0]
	if s.Name != SpanCall {
		t.Errorf("expected span %q, got %q", SpanCall, s.Name)
	}
	attrs := map[attribute.Key]attribute.Value{}
	for _, kv := range s.Attributes {
		attrs[kv.Key] = kv.Value
	}
	if attrs[AttrCallID].AsString() != "call-1" {
		t.Errorf("expected call id attribute, got %v", attrs[AttrCallID])
	}
	if attrs[AttrHTTPStatus].AsInt64() != 200 {
		t.Errorf("expected status 200, got %v", attrs[AttrHTTPStatus])
	}
	if attrs[AttrOutcome].AsString() != "success" {
		t.Errorf("expected outcome success, got %v", attrs[AttrOutcome])
	}
}

func TestCallScope_EndWithError(t *testing.T) {
	exporter := withRecorder(t)

	scope := NewCallScope("call-2", "POST", "https://api.example.com/y", "async", nil)
	ctx := scope.Start(context.Background())
	scope.End(ctx, "exception", 0, errors.New("boom"))

	spans := exporter.GetSpans()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}
	if spans[0].Status.Code != codes.Error {
		t.Errorf("expected error status, got %v", spans[0].Status.Code)
	}
	if len(spans[0].Events) == 0 {
		t.Error("expected recorded error event")
	}
}

func TestCallScopeFromContext_NotSet(t *testing.T) {
	if CallScopeFromContext(context.Background()) != nil {
		t.Error("expected nil scope")
	}
}

func TestCallScope_Duration(t *testing.T) {
	scope := NewCallScope("c", "GET", "u", "sync", nil)
	time.Sleep(5 * time.Millisecond)
	if scope.Duration() < 5*time.Millisecond {
		t.Errorf("expected duration >= 5ms, got %v", scope.Duration())
	}
}

func TestSetSpanAttribute(t *testing.T) {
	withRecorder(t)

	ctx, span := StartSpan(context.Background(), "test-attrs")
	defer span.End()

	SetSpanAttribute(ctx, "string-key", "value")
	SetSpanAttribute(ctx, "int-key", 42)
	SetSpanAttribute(ctx, "int64-key", int64(100))
	SetSpanAttribute(ctx, "float-key", 3.14)
	SetSpanAttribute(ctx, "bool-key", true)
	SetSpanAttribute(ctx, "string-slice-key", []string{"a", "b"})
	SetSpanAttribute(ctx, "unsupported-key", struct{}{})
}

func TestSetSpanError(t *testing.T) {
	exporter := withRecorder(t)

	ctx, span := StartSpan(context.Background(), "test-error")
	SetSpanError(ctx, errors.New("test error"))
	span.End()

	spans := exporter.GetSpans()
	if len(spans) != 1 || len(spans[0].Events) == 0 {
		t.Errorf("expected error event on span, got %+v", spans)
	}
}

func TestSpanHelpers_NoSpan(t *testing.T) {
	ctx := context.Background()
	SetSpanAttribute(ctx, "key", "value")
	SetSpanError(ctx, errors.New("ignored"))
}
