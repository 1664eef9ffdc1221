package cli

import (
	"context"
	"errors"

	"github.com/kbukum/restspec/builder"
	"github.com/kbukum/restspec/config"
	"github.com/kbukum/restspec/httpclient"
	"github.com/kbukum/restspec/logger"
	"github.com/kbukum/restspec/observability"
	"github.com/kbukum/restspec/operation"
)

// app is the wired runtime behind every command.
type app struct {
	cfg       AppConfig
	registry  *builder.Registry
	transport *httpclient.Transport
	shutdown  func(context.Context) error
}

func loadApp(ctx context.Context, opts *rootOptions) (*app, error) {
	var cfg AppConfig
	var loaderOpts []config.LoaderOption
	if opts.configFile != "" {
		loaderOpts = append(loaderOpts, config.WithConfigFile(opts.configFile))
	}
	if err := config.LoadConfig(config.DefaultName, &cfg, loaderOpts...); err != nil {
		return nil, err
	}
	if opts.specFile != "" {
		cfg.Spec.File = opts.specFile
	}
	if opts.debug {
		cfg.Debug = true
		cfg.Spec.Debug = true
		cfg.Logging.Level = "debug"
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger.Init(&cfg.Logging)
	log := logger.Get("cli")

	shutdown, err := observability.Setup(ctx, cfg.Observability)
	if err != nil {
		return nil, err
	}
	a := &app{cfg: cfg, shutdown: shutdown}

	var metrics *observability.Metrics
	if cfg.Observability.Enabled {
		if metrics, err = observability.NewMetrics(observability.Meter()); err != nil {
			return nil, a.closeWith(ctx, err)
		}
	}

	a.transport, err = httpclient.New(cfg.HTTP, httpclient.WithMetrics(metrics))
	if err != nil {
		return nil, a.closeWith(ctx, err)
	}
	b, err := builder.New(a.transport, builder.WithDebug(cfg.Spec.Debug), builder.WithMetrics(metrics))
	if err != nil {
		return nil, a.closeWith(ctx, err)
	}

	doc, err := operation.LoadDocument(cfg.Spec.File)
	if err != nil {
		return nil, a.closeWith(ctx, err)
	}
	if a.registry, err = b.Compile(doc); err != nil {
		return nil, a.closeWith(ctx, err)
	}

	log.Debug("spec loaded", logger.Fields(
		"file", cfg.Spec.File,
		"functions", len(a.registry.Names()),
	))
	return a, nil
}

// Close waits for in-flight requests and flushes telemetry.
func (a *app) Close(ctx context.Context) error {
	var errs []error
	if a.transport != nil {
		errs = append(errs, a.transport.Close(ctx))
	}
	if a.shutdown != nil {
		errs = append(errs, a.shutdown(ctx))
	}
	return errors.Join(errs...)
}

func (a *app) closeWith(ctx context.Context, err error) error {
	return errors.Join(err, a.Close(ctx))
}
