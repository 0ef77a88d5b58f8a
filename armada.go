// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package armada builds Fleet API clients at runtime from a service's
// discovery document.
//
// The discovery document describes resources, their methods and the
// parameters each method accepts. The client package turns it into
// a registry of invokable operations:
//
//	c, err := client.New(ctx, client.BaseURL("http://localhost:8080/fleet/v1"))
//	if err != nil {
//	    return err
//	}
//	resp, err := c.Invoke(ctx, "instance_groups", "list", binding.Positional("p1", "z1"))
//
// The codegen package emits a strongly typed client from the same document.
package armada

import (
	"log/slog"

	"go.opentelemetry.io/contrib/bridges/otelslog"
)

// Logger returns a [slog.Logger] which emits records through the
// globally registered OpenTelemetry log provider.
func Logger(name string) *slog.Logger {
	return otelslog.NewLogger(name)
}

// LogHandler returns the [slog.Handler] backing [Logger].
func LogHandler(name string) slog.Handler {
	return otelslog.NewHandler(name)
}
