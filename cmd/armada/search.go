// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/z5labs/armada/app"
	"github.com/z5labs/armada/catalog"
)

type SearchCmd struct {
	Query []string `arg:"" optional:"" help:"Words to search for. Lists every operation when empty."`
	Limit int      `short:"n" default:"10" help:"Maximum number of results."`
}

func (c *SearchCmd) Run(g *Globals, out io.Writer) error {
	return run(g, func(ctx context.Context, h *app.HookRegistry, cfg Config) (app.Runtime, error) {
		fleet, err := newClient(ctx, g, cfg)
		if err != nil {
			return nil, err
		}

		cat, err := catalog.New(ctx, fleet)
		if err != nil {
			return nil, err
		}
		h.OnPostRun(func(context.Context) error {
			return cat.Close()
		})

		return app.RuntimeFunc(func(ctx context.Context) error {
			return c.search(ctx, out, cat)
		}), nil
	})
}

func (c *SearchCmd) search(ctx context.Context, out io.Writer, cat *catalog.Catalog) error {
	hits, err := cat.Search(ctx, strings.Join(c.Query, " "), c.Limit)
	if err != nil {
		return err
	}

	for _, hit := range hits {
		op := hit.Operation
		_, err = fmt.Fprintf(out, "%s\t%s %s\n", catalog.ID(op), op.HTTPMethod(), op.Description())
		if err != nil {
			return err
		}
	}
	return nil
}
