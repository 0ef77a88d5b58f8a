// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package main

import (
	"context"
	"net/http"
	"time"

	"github.com/z5labs/armada/app"
	"github.com/z5labs/armada/client"
	"github.com/z5labs/armada/config"
	"github.com/z5labs/armada/discovery"
	"github.com/z5labs/armada/internal/otel"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const defaultTimeout = 30 * time.Second

// Config is the content of the YAML config file.
type Config struct {
	BaseURL         string        `yaml:"base_url"`
	Timeout         time.Duration `yaml:"timeout"`
	RequestIDHeader string        `yaml:"request_id_header"`
	OTel            *config.OTel  `yaml:"otel"`
}

// readConfig resolves the config with precedence flag, environment,
// config file and finally defaults.
func readConfig(ctx context.Context, g *Globals) (Config, error) {
	cfg, err := config.Read(ctx, config.YAMLFile[Config](config.ReaderOf(g.Config)))
	if err != nil {
		return cfg, err
	}

	cfg.BaseURL, err = config.Read(ctx, config.Or(
		present(g.BaseURL),
		config.Env("ARMADA_BASE_URL"),
		present(cfg.BaseURL),
		config.ReaderOf(client.DefaultBaseURL),
	))
	if err != nil {
		return cfg, err
	}

	cfg.Timeout, err = config.Read(ctx, config.Or(
		config.DurationFromString(config.Env("ARMADA_TIMEOUT")),
		present(cfg.Timeout),
		config.ReaderOf(defaultTimeout),
	))
	if err != nil {
		return cfg, err
	}

	if cfg.OTel == nil {
		otelCfg := config.DefaultOTel()
		cfg.OTel = &otelCfg
	}
	return cfg, nil
}

// present is unset for the zero value of T.
func present[T comparable](v T) config.Reader[T] {
	var zero T
	if v == zero {
		return config.EmptyReader[T]()
	}
	return config.ReaderOf(v)
}

func (cfg Config) transport() *http.Client {
	return &http.Client{
		Timeout:   cfg.Timeout,
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}
}

func (cfg Config) clientOptions() []client.Option {
	opts := []client.Option{
		client.BaseURL(cfg.BaseURL),
		client.Transport(cfg.transport()),
	}
	if cfg.RequestIDHeader != "" {
		opts = append(opts, client.RequestIDHeader(cfg.RequestIDHeader))
	}
	return opts
}

// document reads the discovery document from the --discovery file,
// or fetches it from the Fleet service.
func document(ctx context.Context, g *Globals, cfg Config) (*discovery.Document, error) {
	if g.Discovery != "" {
		return discovery.Load(g.Discovery)
	}
	return discovery.Fetch(ctx, cfg.transport(), cfg.BaseURL)
}

func newClient(ctx context.Context, g *Globals, cfg Config) (*client.Client, error) {
	if g.Discovery == "" {
		return client.New(ctx, cfg.clientOptions()...)
	}

	doc, err := discovery.Load(g.Discovery)
	if err != nil {
		return nil, err
	}
	return client.FromDocument(ctx, doc, cfg.clientOptions()...)
}

type buildFunc func(context.Context, *app.HookRegistry, Config) (app.Runtime, error)

// run resolves the config, initializes telemetry and runs the command
// built by f.
func run(g *Globals, f buildFunc) error {
	ctx := context.Background()

	builder := app.WithHooks(func(ctx context.Context, h *app.HookRegistry) (app.Runtime, error) {
		cfg, err := readConfig(ctx, g)
		if err != nil {
			return nil, err
		}

		shutdown, err := otel.Initialize(ctx, *cfg.OTel)
		if err != nil {
			return nil, err
		}
		h.OnPostRun(app.HookFunc(shutdown))

		return f(ctx, h, cfg)
	})

	err := app.Run(ctx, builder)
	app.LogError(ctx, err)
	return err
}
