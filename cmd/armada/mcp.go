// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package main

import (
	"context"

	"github.com/z5labs/armada/app"
	"github.com/z5labs/armada/mcpserver"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type MCPCmd struct {
	Name string `default:"armada" help:"Server name reported to clients."`
}

func (c *MCPCmd) Run(g *Globals) error {
	return run(g, func(ctx context.Context, _ *app.HookRegistry, cfg Config) (app.Runtime, error) {
		fleet, err := newClient(ctx, g, cfg)
		if err != nil {
			return nil, err
		}

		server := mcpserver.New(fleet, &mcp.Implementation{
			Name:    c.Name,
			Version: Version(),
		})

		return app.RuntimeFunc(func(ctx context.Context) error {
			return server.Run(ctx, &mcp.StdioTransport{})
		}), nil
	})
}
