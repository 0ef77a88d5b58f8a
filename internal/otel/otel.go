// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package otel configures the global OpenTelemetry providers for armada commands.
package otel

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/z5labs/armada/config"
	"github.com/z5labs/armada/internal/detector"

	"go.opentelemetry.io/contrib/instrumentation/runtime"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploggrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploghttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/log/global"
	"go.opentelemetry.io/otel/sdk/log"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
)

// ShutdownFunc flushes and stops every provider set by [Initialize].
type ShutdownFunc func(context.Context) error

type options struct {
	logWriter io.Writer
}

// Option configures [Initialize].
type Option func(*options)

// LogWriter overrides where log records are written when no OTLP log
// exporter is configured. It defaults to [os.Stderr].
func LogWriter(w io.Writer) Option {
	return func(o *options) {
		o.logWriter = w
	}
}

// Initialize sets the global tracer, meter and logger providers.
func Initialize(ctx context.Context, cfg config.OTel, opts ...Option) (ShutdownFunc, error) {
	o := &options{
		logWriter: os.Stderr,
	}
	for _, opt := range opts {
		opt(o)
	}

	r, err := detectResource(ctx, cfg.Resource)
	if err != nil {
		return nil, err
	}

	cc := newConns()
	initers := []initializer{
		traceProviderInitializer{
			cfg:   cfg.Trace,
			r:     r,
			conns: cc,
		},
		meterProviderInitializer{
			cfg:   cfg.Metric,
			r:     r,
			conns: cc,
		},
		logProviderInitializer{
			cfg:   cfg.Log,
			r:     r,
			w:     o.logWriter,
			conns: cc,
		},
	}

	// conns are closed last, after every provider has flushed.
	shutdowns := make([]ShutdownFunc, 1, len(initers)+1)
	shutdowns[0] = cc.Close
	shutdown := func(ctx context.Context) error {
		var errs []error
		for i := len(shutdowns) - 1; i >= 0; i-- {
			errs = append(errs, shutdowns[i](ctx))
		}
		return errors.Join(errs...)
	}

	for _, initer := range initers {
		sd, err := initer.Init(ctx)
		if err != nil {
			return nil, errors.Join(err, shutdown(ctx))
		}
		shutdowns = append(shutdowns, sd)
	}
	return shutdown, nil
}

func detectResource(ctx context.Context, cfg config.Resource) (*resource.Resource, error) {
	return resource.Detect(
		ctx,
		detector.TelemetrySDK(),
		detector.Host(),
		detector.Process(),
		detector.ServiceName(cfg.ServiceName),
		detector.ServiceVersion(cfg.ServiceVersion),
	)
}

type initializer interface {
	Init(context.Context) (ShutdownFunc, error)
}

type traceProviderInitializer struct {
	cfg   config.Trace
	r     *resource.Resource
	conns *conns
}

func (tpi traceProviderInitializer) Init(ctx context.Context) (ShutdownFunc, error) {
	exp, err := initSpanExporter(ctx, tpi.cfg.Exporter, tpi.conns)
	if err != nil {
		return nil, err
	}

	sp, err := initSpanProcessor(tpi.cfg.Processor, exp)
	if err != nil {
		return nil, err
	}

	tp := trace.NewTracerProvider(
		trace.WithSpanProcessor(sp),
		trace.WithSampler(trace.ParentBased(trace.TraceIDRatioBased(tpi.cfg.Sampling.Ratio))),
		trace.WithResource(tpi.r),
	)
	otel.SetTracerProvider(tp)
	return tp.Shutdown, nil
}

type UnknownOTLPConnTypeError struct {
	Type config.OTLPConnType
}

func (e UnknownOTLPConnTypeError) Error() string {
	return fmt.Sprintf("unknown otlp conn type: %q", e.Type)
}

func initSpanExporter(ctx context.Context, cfg config.SpanExporter, cc *conns) (trace.SpanExporter, error) {
	switch cfg.Type {
	case config.OTLPSpanExporterType:
		switch cfg.OTLP.Type {
		case config.OTLPHTTP:
			opts := []otlptracehttp.Option{otlptracehttp.WithEndpoint(cfg.OTLP.Target)}
			if cfg.OTLP.Insecure {
				opts = append(opts, otlptracehttp.WithInsecure())
			}
			return otlptracehttp.New(ctx, opts...)
		case config.OTLPGRPC:
			conn, err := cc.get(cfg.OTLP)
			if err != nil {
				return nil, err
			}
			return otlptracegrpc.New(ctx, otlptracegrpc.WithGRPCConn(conn))
		default:
			return nil, UnknownOTLPConnTypeError{Type: cfg.OTLP.Type}
		}
	default:
		return discard{}, nil
	}
}

type UnknownSpanProcessorTypeError struct {
	Type config.SpanProcessorType
}

func (e UnknownSpanProcessorTypeError) Error() string {
	return fmt.Sprintf("unknown span processor type: %q", e.Type)
}

func initSpanProcessor(cfg config.SpanProcessor, exp trace.SpanExporter) (trace.SpanProcessor, error) {
	switch cfg.Type {
	case config.BatchSpanProcessorType:
		bsp := trace.NewBatchSpanProcessor(
			exp,
			trace.WithBatchTimeout(cfg.Batch.ExportInterval),
			trace.WithMaxExportBatchSize(cfg.Batch.MaxSize),
		)
		return bsp, nil
	default:
		return nil, UnknownSpanProcessorTypeError{
			Type: cfg.Type,
		}
	}
}

type meterProviderInitializer struct {
	cfg   config.Metric
	r     *resource.Resource
	conns *conns
}

func (mpi meterProviderInitializer) Init(ctx context.Context) (ShutdownFunc, error) {
	exp, err := initMetricExporter(ctx, mpi.cfg.Exporter, mpi.conns)
	if err != nil {
		return nil, err
	}

	r, err := initMetricReader(mpi.cfg, exp)
	if err != nil {
		return nil, err
	}

	mp := metric.NewMeterProvider(
		metric.WithReader(r),
		metric.WithResource(mpi.r),
	)
	otel.SetMeterProvider(mp)

	if !mpi.cfg.Runtime {
		return mp.Shutdown, nil
	}

	err = runtime.Start(
		runtime.WithMeterProvider(mp),
		runtime.WithMinimumReadMemStatsInterval(time.Second),
	)
	if err != nil {
		return nil, errors.Join(err, mp.Shutdown(ctx))
	}
	return mp.Shutdown, nil
}

func initMetricExporter(ctx context.Context, cfg config.MetricExporter, cc *conns) (metric.Exporter, error) {
	switch cfg.Type {
	case config.OTLPMetricExporterType:
		switch cfg.OTLP.Type {
		case config.OTLPHTTP:
			opts := []otlpmetrichttp.Option{otlpmetrichttp.WithEndpoint(cfg.OTLP.Target)}
			if cfg.OTLP.Insecure {
				opts = append(opts, otlpmetrichttp.WithInsecure())
			}
			return otlpmetrichttp.New(ctx, opts...)
		case config.OTLPGRPC:
			conn, err := cc.get(cfg.OTLP)
			if err != nil {
				return nil, err
			}
			return otlpmetricgrpc.New(ctx, otlpmetricgrpc.WithGRPCConn(conn))
		default:
			return nil, UnknownOTLPConnTypeError{Type: cfg.OTLP.Type}
		}
	default:
		return discard{}, nil
	}
}

type UnknownMetricReaderTypeError struct {
	Type config.MetricReaderType
}

func (e UnknownMetricReaderTypeError) Error() string {
	return fmt.Sprintf("unknown metric reader type: %q", e.Type)
}

func initMetricReader(cfg config.Metric, exp metric.Exporter) (metric.Reader, error) {
	switch cfg.Reader.Type {
	case config.PeriodicReaderType:
		opts := []metric.PeriodicReaderOption{
			metric.WithInterval(cfg.Reader.Periodic.ExportInterval),
		}
		if cfg.Runtime {
			opts = append(opts, metric.WithProducer(runtime.NewProducer()))
		}
		return metric.NewPeriodicReader(exp, opts...), nil
	default:
		return nil, UnknownMetricReaderTypeError{
			Type: cfg.Reader.Type,
		}
	}
}

type logProviderInitializer struct {
	cfg   config.Log
	r     *resource.Resource
	w     io.Writer
	conns *conns
}

func (lpi logProviderInitializer) Init(ctx context.Context) (ShutdownFunc, error) {
	exp, err := initLogExporter(ctx, lpi.cfg.Exporter, lpi.w, lpi.conns)
	if err != nil {
		return nil, err
	}

	lp, err := initLogProcessor(lpi.cfg.Processor, exp)
	if err != nil {
		return nil, err
	}

	filter, err := newLevelFilter(lp, lpi.cfg.Levels)
	if err != nil {
		return nil, errors.Join(err, lp.Shutdown(ctx))
	}

	provider := log.NewLoggerProvider(
		log.WithProcessor(filter),
		log.WithResource(lpi.r),
	)
	global.SetLoggerProvider(provider)

	return provider.Shutdown, nil
}

func initLogExporter(ctx context.Context, cfg config.LogExporter, w io.Writer, cc *conns) (log.Exporter, error) {
	switch cfg.Type {
	case config.OTLPLogExporterType:
		switch cfg.OTLP.Type {
		case config.OTLPHTTP:
			opts := []otlploghttp.Option{otlploghttp.WithEndpoint(cfg.OTLP.Target)}
			if cfg.OTLP.Insecure {
				opts = append(opts, otlploghttp.WithInsecure())
			}
			return otlploghttp.New(ctx, opts...)
		case config.OTLPGRPC:
			conn, err := cc.get(cfg.OTLP)
			if err != nil {
				return nil, err
			}
			return otlploggrpc.New(ctx, otlploggrpc.WithGRPCConn(conn))
		default:
			return nil, UnknownOTLPConnTypeError{Type: cfg.OTLP.Type}
		}
	default:
		h := slog.NewTextHandler(w, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})
		return newSlogExporter(h, trimScope(armadaScope)), nil
	}
}

type UnknownLogProcessorTypeError struct {
	Type config.LogProcessorType
}

func (e UnknownLogProcessorTypeError) Error() string {
	return fmt.Sprintf("unknown log processor type: %q", e.Type)
}

func initLogProcessor(cfg config.LogProcessor, exp log.Exporter) (log.Processor, error) {
	switch cfg.Type {
	case config.SimpleLogProcessorType:
		return log.NewSimpleProcessor(exp), nil
	case config.BatchLogProcessorType:
		lp := log.NewBatchProcessor(
			exp,
			log.WithExportInterval(cfg.Batch.ExportInterval),
			log.WithExportMaxBatchSize(cfg.Batch.MaxSize),
		)
		return lp, nil
	default:
		return nil, UnknownLogProcessorTypeError{
			Type: cfg.Type,
		}
	}
}
