// Package observability wires OpenTelemetry tracing and metrics for signed
// calls.
//
// Tracing:
//
//	tp, err := observability.InitTracer(ctx, observability.DefaultTracerConfig("oauthrest"), log)
//	defer tp.Shutdown(ctx)
//
// Metrics:
//
//	mc := observability.MeterConfigFrom(tracerCfg)
//	mp, err := observability.InitMeter(ctx, &mc, log)
//	defer mp.Shutdown(ctx)
//
//	metrics, err := observability.NewMetrics(observability.Meter("oauthrest"))
//
// Each call is wrapped in a CallScope, which owns the "oauthrest.call" span
// and the in-flight gauge:
//
//	scope := observability.NewCallScope(id, "GET", url, "sync", metrics)
//	ctx = scope.Start(ctx)
//	defer scope.End(ctx, "success", 200, nil)
package observability
