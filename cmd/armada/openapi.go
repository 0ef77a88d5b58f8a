// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package main

import (
	"context"
	"encoding/json"
	"io"
	"os"

	"github.com/z5labs/armada/app"
	"github.com/z5labs/armada/internal/try"
	"github.com/z5labs/armada/openapi"

	"github.com/swaggest/openapi-go/openapi3"
	"gopkg.in/yaml.v3"
)

type OpenAPICmd struct {
	Out    string `short:"o" type:"path" help:"Write the specification to a file instead of stdout."`
	Format string `short:"f" enum:"json,yaml" default:"yaml" help:"Output format (${enum})."`
	Title  string `default:"Fleet" help:"Title of the specification."`
}

func (c *OpenAPICmd) Run(g *Globals, out io.Writer) error {
	return run(g, func(ctx context.Context, _ *app.HookRegistry, cfg Config) (app.Runtime, error) {
		doc, err := document(ctx, g, cfg)
		if err != nil {
			return nil, err
		}

		spec, err := openapi.Build(doc, openapi.Title(c.Title), openapi.Server(cfg.BaseURL))
		if err != nil {
			return nil, err
		}

		return app.RuntimeFunc(func(ctx context.Context) error {
			return c.write(out, spec)
		}), nil
	})
}

func (c *OpenAPICmd) write(out io.Writer, spec *openapi3.Spec) (err error) {
	if c.Out != "" {
		var f *os.File
		f, err = os.Create(c.Out)
		if err != nil {
			return err
		}
		defer try.Close(&err, f)
		out = f
	}

	return encodeSpec(out, c.Format, spec)
}

func encodeSpec(w io.Writer, format string, spec *openapi3.Spec) error {
	b, err := json.Marshal(spec)
	if err != nil {
		return err
	}

	if format == "json" {
		var v any
		err = json.Unmarshal(b, &v)
		if err != nil {
			return err
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}

	var node yaml.Node
	err = yaml.Unmarshal(b, &node)
	if err != nil {
		return err
	}
	blockStyle(&node)

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	err = enc.Encode(&node)
	if err != nil {
		return err
	}
	return enc.Close()
}

// blockStyle drops the flow and quoting styles a node picks up when
// decoded from JSON.
func blockStyle(n *yaml.Node) {
	n.Style = 0
	for _, c := range n.Content {
		blockStyle(c)
	}
}
