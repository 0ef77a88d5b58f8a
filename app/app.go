// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package app runs armada commands with signal handling and post-run cleanup.
//
// A command is built by a [Builder] into a [Runtime]. [Run] cancels the
// runtime's context on SIGINT or SIGTERM, which is how long-running
// commands such as the mock Fleet service or the MCP server are stopped.
package app

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/z5labs/armada"
)

// Builder builds a T from the command environment.
type Builder[T any] interface {
	Build(context.Context) (T, error)
}

// BuilderFunc is a function implementing [Builder].
type BuilderFunc[T any] func(context.Context) (T, error)

// Build implements the [Builder] interface.
func (f BuilderFunc[T]) Build(ctx context.Context) (T, error) {
	return f(ctx)
}

// Runtime is anything which runs until it completes or its context is cancelled.
type Runtime interface {
	Run(context.Context) error
}

// RuntimeFunc is a function implementing [Runtime].
type RuntimeFunc func(context.Context) error

// Run implements the [Runtime] interface.
func (f RuntimeFunc) Run(ctx context.Context) error {
	return f(ctx)
}

// Run builds and runs a [Runtime]. The context passed to both is
// cancelled when the process receives SIGINT or SIGTERM.
func Run[T Runtime](ctx context.Context, builder Builder[T]) error {
	sigCtx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	rt, err := builder.Build(sigCtx)
	if err != nil {
		return err
	}

	return rt.Run(sigCtx)
}

// LogError logs err, if any, as the reason a command failed.
func LogError(ctx context.Context, err error) {
	if err == nil {
		return
	}

	log := armada.Logger("github.com/z5labs/armada/app")
	log.ErrorContext(ctx, "command failed", slog.Any("error", err))
}
