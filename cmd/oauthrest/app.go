package main

import (
	"context"
	stderrors "errors"
	"io"

	"github.com/kbukum/oauthrest/api"
	"github.com/kbukum/oauthrest/component"
	"github.com/kbukum/oauthrest/config"
	"github.com/kbukum/oauthrest/httpclient"
	"github.com/kbukum/oauthrest/logger"
	"github.com/kbukum/oauthrest/observability"
	"github.com/kbukum/oauthrest/ratelimit"
)

// app owns everything one command invocation starts.
type app struct {
	cfg       *config.Config
	log       *logger.Logger
	registry  *component.Registry
	client    *httpclient.Component
	api       *api.API
	shutdowns []func(context.Context) error
}

func loadConfig(opts *rootOptions) (*config.Config, error) {
	var lopts []config.LoaderOption
	if opts.configFile != "" {
		lopts = append(lopts, config.WithConfigFile(opts.configFile))
	}
	if opts.envFile != "" {
		lopts = append(lopts, config.WithEnvFile(opts.envFile))
	}
	cfg, err := config.Load(lopts...)
	if err != nil {
		return nil, err
	}
	if opts.logLevel != "" {
		cfg.Logging.Level = opts.logLevel
		if err := cfg.Logging.Validate(); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// startApp wires telemetry, the limiter and the shared client, and starts
// them through a component registry. Logs go to logOut.
func startApp(ctx context.Context, cfg *config.Config, logOut io.Writer) (*app, error) {
	log := logger.NewWithWriter(&cfg.Logging, cfg.Name, logOut)
	a := &app{
		cfg:      cfg,
		log:      log,
		registry: component.NewRegistry(log),
	}

	clientOpts := []httpclient.Option{httpclient.WithLogger(log)}

	if cfg.Tracing.Enabled {
		metrics, err := a.initTelemetry(ctx)
		if err != nil {
			_ = a.close(ctx)
			return nil, err
		}
		clientOpts = append(clientOpts, httpclient.WithMetrics(metrics))
	}

	limiter, err := ratelimit.New(cfg.Client.RateLimit, log)
	if err != nil {
		_ = a.close(ctx)
		return nil, err
	}
	if limiter != nil {
		clientOpts = append(clientOpts, httpclient.WithLimiter(limiter))
		if c, ok := limiter.(component.Component); ok {
			if err := a.registry.Register(c); err != nil {
				_ = a.close(ctx)
				return nil, err
			}
		}
	}

	a.client = httpclient.NewComponent(cfg.Client.Config, clientOpts...)
	if err := a.registry.Register(a.client); err != nil {
		_ = a.close(ctx)
		return nil, err
	}
	if err := a.registry.StartAll(ctx); err != nil {
		_ = a.close(ctx)
		return nil, err
	}

	a.api, err = api.New(a.client.Client(), nil,
		api.WithBaseURL(cfg.Client.BaseURL),
		api.WithCredentials(cfg.Credentials()),
		api.WithLogger(log),
	)
	if err != nil {
		_ = a.close(ctx)
		return nil, err
	}
	return a, nil
}

func (a *app) initTelemetry(ctx context.Context) (*observability.Metrics, error) {
	tp, err := observability.InitTracer(ctx, a.cfg.Tracing, a.log)
	if err != nil {
		return nil, err
	}
	a.shutdowns = append(a.shutdowns, tp.Shutdown)

	mc := observability.MeterConfigFrom(a.cfg.Tracing)
	mp, err := observability.InitMeter(ctx, &mc, a.log)
	if err != nil {
		return nil, err
	}
	a.shutdowns = append(a.shutdowns, mp.Shutdown)

	return observability.NewMetrics(observability.Meter(config.AppName))
}

// close stops components, then flushes telemetry.
func (a *app) close(ctx context.Context) error {
	errs := []error{a.registry.StopAll(ctx)}
	for i := len(a.shutdowns) - 1; i >= 0; i-- {
		errs = append(errs, a.shutdowns[i](ctx))
	}
	return stderrors.Join(errs...)
}
