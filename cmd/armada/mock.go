// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package main

import (
	"context"
	"net"

	"github.com/z5labs/armada/app"
	"github.com/z5labs/armada/discovery"
	"github.com/z5labs/armada/health"
	"github.com/z5labs/armada/internal/httpserver"
	"github.com/z5labs/armada/mock"
)

type MockCmd struct {
	Addr   string `default:"127.0.0.1:8080" help:"Address to listen on."`
	Prefix string `default:"/fleet/v1" help:"Path prefix routes are served under."`
}

func (c *MockCmd) Run(g *Globals) error {
	return run(g, func(ctx context.Context, _ *app.HookRegistry, cfg Config) (app.Runtime, error) {
		doc := mock.FleetDocument()
		if g.Discovery != "" {
			var err error
			doc, err = discovery.Load(g.Discovery)
			if err != nil {
				return nil, err
			}
		}

		var lc net.ListenConfig
		ls, err := lc.Listen(ctx, "tcp", c.Addr)
		if err != nil {
			return nil, err
		}

		var ready health.Binary
		srv := httpserver.New(
			ls,
			mock.NewServer(doc, mock.Prefix(c.Prefix), mock.Readiness(&ready)),
			httpserver.Operation("mock"),
		)

		return app.RuntimeFunc(func(ctx context.Context) error {
			ready.MarkHealthy()
			return srv.Run(ctx)
		}), nil
	})
}
