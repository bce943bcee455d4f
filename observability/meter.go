package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/kbukum/oauthrest/logger"
)

// MeterConfig configures the OpenTelemetry meter provider.
type MeterConfig struct {
	// ServiceName is the name of the service.
	ServiceName string
	// ServiceVersion is the version of the service.
	ServiceVersion string
	// Environment is the deployment environment (dev, staging, prod).
	Environment string
	// Endpoint is the OTLP HTTP endpoint host:port (e.g., "localhost:4318").
	Endpoint string
	// Insecure allows insecure connections (for development).
	Insecure bool
	// Interval is the metric export interval.
	Interval time.Duration
}

// DefaultMeterConfig returns sensible defaults for development.
func DefaultMeterConfig(serviceName string) MeterConfig {
	return MeterConfig{
		ServiceName:    serviceName,
		ServiceVersion: "1.0.0",
		Environment:    "development",
		Endpoint:       "localhost:4318",
		Insecure:       true,
		Interval:       15 * time.Second,
	}
}

// MeterConfigFrom derives a meter configuration from the tracing settings so
// both signals go to the same collector.
func MeterConfigFrom(tc TracerConfig) MeterConfig {
	mc := DefaultMeterConfig(tc.ServiceName)
	mc.ServiceVersion = tc.ServiceVersion
	mc.Environment = tc.Environment
	mc.Endpoint = tc.Endpoint
	mc.Insecure = tc.Insecure
	return mc
}

// InitMeter initializes the OpenTelemetry meter provider.
// Returns a MeterProvider that should be shut down on application exit.
func InitMeter(ctx context.Context, config *MeterConfig, log *logger.Logger) (*sdkmetric.MeterProvider, error) {
	opts := []otlpmetrichttp.Option{
		otlpmetrichttp.WithEndpoint(config.Endpoint),
	}
	if config.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}

	exporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating metric exporter: %w", err)
	}

	res, err := newResource(config.ServiceName, config.ServiceVersion, config.Environment)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	readerOpts := []sdkmetric.PeriodicReaderOption{}
	if config.Interval > 0 {
		readerOpts = append(readerOpts, sdkmetric.WithInterval(config.Interval))
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, readerOpts...)),
		sdkmetric.WithResource(res),
	)

	otel.SetMeterProvider(mp)

	if log != nil {
		log.Info("meter initialized", logger.Fields(
			"service", config.ServiceName,
			"endpoint", config.Endpoint,
			"interval", config.Interval.String(),
		))
	}

	return mp, nil
}

// Meter returns a named meter from the global provider.
func Meter(name string) metric.Meter {
	return otel.Meter(name)
}

// Metrics holds the call instruments. A nil *Metrics records nothing.
type Metrics struct {
	calls        metric.Int64Counter
	callDuration metric.Float64Histogram
	inflight     metric.Int64UpDownCounter
	outcomes     metric.Int64Counter
}

// NewMetrics creates the call instruments on the given meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	calls, err := meter.Int64Counter("oauthrest.calls",
		metric.WithDescription("Total number of submitted calls"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating oauthrest.calls counter: %w", err)
	}

	callDuration, err := meter.Float64Histogram("oauthrest.call.duration",
		metric.WithDescription("Duration of calls from submission to completion in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating oauthrest.call.duration histogram: %w", err)
	}

	inflight, err := meter.Int64UpDownCounter("oauthrest.calls.inflight",
		metric.WithDescription("Number of calls currently in flight"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating oauthrest.calls.inflight gauge: %w", err)
	}

	outcomes, err := meter.Int64Counter("oauthrest.handler.outcomes",
		metric.WithDescription("Handler invocations by outcome"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating oauthrest.handler.outcomes counter: %w", err)
	}

	return &Metrics{
		calls:        calls,
		callDuration: callDuration,
		inflight:     inflight,
		outcomes:     outcomes,
	}, nil
}

// RecordCallStart increments the in-flight count.
func (m *Metrics) RecordCallStart(ctx context.Context) {
	if m == nil {
		return
	}
	m.inflight.Add(ctx, 1)
}

// RecordCallEnd decrements the in-flight count and records the finished call.
func (m *Metrics) RecordCallEnd(ctx context.Context, method, mode, outcome string, duration time.Duration) {
	if m == nil {
		return
	}
	m.inflight.Add(ctx, -1)
	m.calls.Add(ctx, 1, metric.WithAttributes(
		attribute.String("method", method),
		attribute.String("mode", mode),
		attribute.String("outcome", outcome),
	))
	m.callDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.String("method", method),
		attribute.String("mode", mode),
	))
}

// RecordOutcome counts one handler invocation.
func (m *Metrics) RecordOutcome(ctx context.Context, outcome string) {
	if m == nil {
		return
	}
	m.outcomes.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
}
