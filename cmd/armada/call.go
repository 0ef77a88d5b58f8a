// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package main

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/z5labs/armada/app"
	"github.com/z5labs/armada/binding"
	"github.com/z5labs/armada/client"
	"github.com/z5labs/armada/internal/try"
)

// StatusError is returned by the call command for non-2xx responses.
type StatusError struct {
	Status     string
	StatusCode int
}

func (e StatusError) Error() string {
	return fmt.Sprintf("unexpected response: %s", e.Status)
}

type CallCmd struct {
	Resource  string            `arg:"" help:"Resource name, normalized or as published."`
	Operation string            `arg:"" help:"Operation name, normalized or as published."`
	Args      []string          `arg:"" optional:"" help:"Positional arguments in the operation's parameter order."`
	Param     map[string]string `short:"p" help:"Named argument, repeatable." placeholder:"NAME=VALUE"`
	DryRun    bool              `name:"dry-run" help:"Print the request instead of sending it."`
}

func (c *CallCmd) Run(g *Globals, out io.Writer) error {
	return run(g, func(ctx context.Context, _ *app.HookRegistry, cfg Config) (app.Runtime, error) {
		fleet, err := newClient(ctx, g, cfg)
		if err != nil {
			return nil, err
		}

		return app.RuntimeFunc(func(ctx context.Context) error {
			return c.call(ctx, out, fleet)
		}), nil
	})
}

func (c *CallCmd) args() binding.Args {
	var args binding.Args
	if len(c.Args) > 0 {
		args.Positional = make([]any, len(c.Args))
		for i, a := range c.Args {
			args.Positional[i] = a
		}
	}
	for name, v := range c.Param {
		args = args.With(name, v)
	}
	return args
}

func (c *CallCmd) call(ctx context.Context, out io.Writer, fleet *client.Client) (err error) {
	r, ok := fleet.Resource(c.Resource)
	if !ok {
		return client.ResourceNotFoundError{Resource: c.Resource}
	}
	op, ok := r.Operation(c.Operation)
	if !ok {
		return client.OperationNotFoundError{Resource: r.Name(), Operation: c.Operation}
	}

	if c.DryRun {
		req, err := op.Request(ctx, c.args())
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(out, req.Method, req.URL)
		return err
	}

	resp, err := op.Invoke(ctx, c.args())
	if err != nil {
		return err
	}
	defer try.Close(&err, resp.Body)

	_, err = io.Copy(out, resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return StatusError{Status: resp.Status, StatusCode: resp.StatusCode}
	}
	return nil
}
