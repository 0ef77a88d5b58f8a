// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package httpserver runs a [http.Handler] as an [app.Runtime].
package httpserver

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/z5labs/armada"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/sync/errgroup"
)

// Options configure a [Server].
type Options struct {
	errorLogHandler slog.Handler
	shutdownTimeout time.Duration
	operation       string
}

// Option sets a value on [Options].
type Option func(*Options)

// ErrorLog sets the handler for errors reported by the underlying [http.Server].
func ErrorLog(h slog.Handler) Option {
	return func(o *Options) {
		o.errorLogHandler = h
	}
}

// ShutdownTimeout bounds how long in-flight requests are given to
// complete once the server is stopped.
func ShutdownTimeout(d time.Duration) Option {
	return func(o *Options) {
		o.shutdownTimeout = d
	}
}

// Operation names the server spans created for every request.
func Operation(name string) Option {
	return func(o *Options) {
		o.operation = name
	}
}

// Server serves HTTP on a listener until its context is cancelled.
type Server struct {
	ls              net.Listener
	server          *http.Server
	shutdownTimeout time.Duration
	log             *slog.Logger
}

// New initializes a [Server]. Every request is traced with otelhttp.
func New(ls net.Listener, h http.Handler, opts ...Option) *Server {
	o := &Options{
		errorLogHandler: slog.DiscardHandler,
		shutdownTimeout: 10 * time.Second,
		operation:       "armada",
	}
	for _, opt := range opts {
		opt(o)
	}

	return &Server{
		ls: ls,
		server: &http.Server{
			Handler:  otelhttp.NewHandler(h, o.operation),
			ErrorLog: slog.NewLogLogger(o.errorLogHandler, slog.LevelError),
		},
		shutdownTimeout: o.shutdownTimeout,
		log:             armada.Logger("github.com/z5labs/armada/internal/httpserver"),
	}
}

// Addr returns the address the server is listening on.
func (s *Server) Addr() net.Addr {
	return s.ls.Addr()
}

// Run implements the [app.Runtime] interface.
func (s *Server) Run(ctx context.Context) error {
	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		s.log.InfoContext(ctx, "serving http", slog.String("addr", s.ls.Addr().String()))
		return s.server.Serve(s.ls)
	})
	eg.Go(func() error {
		<-egCtx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.shutdownTimeout)
		defer cancel()

		return s.server.Shutdown(shutdownCtx)
	})

	err := eg.Wait()
	if err == nil || errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}
