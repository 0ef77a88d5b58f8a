// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/z5labs/armada/app"
	"github.com/z5labs/armada/codegen"
	"github.com/z5labs/armada/discovery"
)

type GenCmd struct {
	Out     string `short:"o" type:"path" default:"fleet" help:"Directory the generated package is written to."`
	Package string `default:"fleet" help:"Name of the generated Go package."`
}

func (c *GenCmd) Run(g *Globals, out io.Writer) error {
	return run(g, func(ctx context.Context, _ *app.HookRegistry, cfg Config) (app.Runtime, error) {
		doc, err := document(ctx, g, cfg)
		if err != nil {
			return nil, err
		}

		source := g.Discovery
		if source == "" {
			source = discovery.URL(cfg.BaseURL)
		}

		files, err := codegen.Generate(doc, codegen.Config{
			Package: c.Package,
			Source:  source,
		})
		if err != nil {
			return nil, err
		}

		return app.RuntimeFunc(func(ctx context.Context) error {
			return c.write(out, files)
		}), nil
	})
}

func (c *GenCmd) write(out io.Writer, files []codegen.File) error {
	err := os.MkdirAll(c.Out, 0o755)
	if err != nil {
		return err
	}

	for _, f := range files {
		name := filepath.Join(c.Out, f.Name)
		err = os.WriteFile(name, f.Content, 0o644)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(out, name)
		if err != nil {
			return err
		}
	}
	return nil
}
