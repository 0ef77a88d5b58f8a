// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package main

import (
	"context"
	"fmt"
	"io"

	"github.com/z5labs/armada/app"
	"github.com/z5labs/armada/discovery"
	"github.com/z5labs/armada/health"
)

type PingCmd struct{}

func (c *PingCmd) Run(g *Globals, out io.Writer) error {
	return run(g, func(ctx context.Context, _ *app.HookRegistry, cfg Config) (app.Runtime, error) {
		m := health.Discovery(cfg.transport(), cfg.BaseURL)

		return app.RuntimeFunc(func(ctx context.Context) error {
			_, err := m.Healthy(ctx)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(out, "ok", discovery.URL(cfg.BaseURL))
			return err
		}), nil
	})
}
