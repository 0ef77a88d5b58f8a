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
	"text/tabwriter"

	"github.com/z5labs/armada/app"
	"github.com/z5labs/armada/client"
)

type ResourcesCmd struct{}

func (c *ResourcesCmd) Run(g *Globals, out io.Writer) error {
	return run(g, func(ctx context.Context, _ *app.HookRegistry, cfg Config) (app.Runtime, error) {
		fleet, err := newClient(ctx, g, cfg)
		if err != nil {
			return nil, err
		}

		return app.RuntimeFunc(func(ctx context.Context) error {
			return listResources(out, fleet)
		}), nil
	})
}

func listResources(out io.Writer, fleet *client.Client) (err error) {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	defer func() {
		ferr := tw.Flush()
		if err == nil {
			err = ferr
		}
	}()

	_, err = fmt.Fprintln(tw, "RESOURCE\tOPERATION\tMETHOD\tPARAMETERS")
	if err != nil {
		return err
	}
	for _, r := range fleet.Resources() {
		for _, op := range r.Operations() {
			_, err = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
				r.Name(),
				op.Name(),
				op.HTTPMethod(),
				strings.Join(op.ParameterOrder(), ","),
			)
			if err != nil {
				return err
			}
		}
	}
	return nil
}
