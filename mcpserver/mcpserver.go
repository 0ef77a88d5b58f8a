// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package mcpserver exposes the operations of a [client.Client] as
// Model Context Protocol tools.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sort"

	"github.com/z5labs/armada"
	"github.com/z5labs/armada/binding"
	"github.com/z5labs/armada/client"
	"github.com/z5labs/armada/discovery"
	"github.com/z5labs/armada/internal/try"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/swaggest/jsonschema-go"
)

// ToolName returns the name an operation is registered under,
// e.g. "instance_groups_list".
func ToolName(op *client.Operation) string {
	return op.Resource() + "_" + op.Name()
}

// New registers one tool per operation of c on a new [mcp.Server].
//
// Tool arguments are bound by name. The tool result carries the response
// body as text and is flagged as an error for binding failures, transport
// failures and non-2xx responses.
func New(c *client.Client, impl *mcp.Implementation) *mcp.Server {
	server := mcp.NewServer(impl, nil)
	log := armada.Logger("github.com/z5labs/armada/mcpserver")

	for _, r := range c.Resources() {
		for _, op := range r.Operations() {
			server.AddTool(tool(op), handler(log, op))
		}
	}
	return server
}

func tool(op *client.Operation) *mcp.Tool {
	params := op.Parameters()

	names := make([]string, 0, len(params))
	for name := range params {
		names = append(names, name)
	}
	sort.Strings(names)

	input := (&jsonschema.Schema{}).WithType(jsonschema.Object.Type())
	input.Properties = make(map[string]jsonschema.SchemaOrBool, len(params))
	for _, name := range names {
		p := params[name]

		input.WithPropertiesItem(name, property(p).ToSchemaOrBool())
		if p.Required {
			input.Required = append(input.Required, name)
		}
	}

	description := op.Description()
	if description == "" {
		description = fmt.Sprintf("%s %s", op.HTTPMethod(), op.Endpoint())
	}

	return &mcp.Tool{
		Name:        ToolName(op),
		Description: description,
		InputSchema: input,
	}
}

func property(p discovery.Parameter) *jsonschema.Schema {
	typ := jsonType(p.Type)

	prop := (&jsonschema.Schema{}).WithType(typ.Type())
	if typ == jsonschema.Array {
		str := (&jsonschema.Schema{}).WithType(jsonschema.String.Type())
		prop.WithItems(*(&jsonschema.Items{}).WithSchemaOrBool(str.ToSchemaOrBool()))
	}
	if p.Description != "" {
		prop.WithDescription(p.Description)
	}
	return prop
}

func jsonType(typ string) jsonschema.SimpleType {
	switch typ {
	case "integer":
		return jsonschema.Integer
	case "number":
		return jsonschema.Number
	case "boolean":
		return jsonschema.Boolean
	case "array":
		return jsonschema.Array
	default:
		return jsonschema.String
	}
}

func handler(log *slog.Logger, op *client.Operation) mcp.ToolHandler {
	return func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args map[string]any
		if len(req.Params.Arguments) > 0 {
			err := json.Unmarshal(req.Params.Arguments, &args)
			if err != nil {
				return errorResult(fmt.Errorf("invalid arguments: %w", err)), nil
			}
		}

		resp, err := op.Invoke(ctx, binding.Named(args))
		if err != nil {
			log.WarnContext(
				ctx,
				"failed to invoke operation",
				slog.String("tool", req.Params.Name),
				slog.Any("error", err),
			)
			return errorResult(err), nil
		}

		body, err := readBody(resp)
		if err != nil {
			return errorResult(err), nil
		}

		result := &mcp.CallToolResult{
			Content: []mcp.Content{
				&mcp.TextContent{Text: string(body)},
			},
		}
		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			result.IsError = true
			result.Content = append([]mcp.Content{
				&mcp.TextContent{Text: resp.Status},
			}, result.Content...)
		}
		return result, nil
	}
}

func readBody(resp *http.Response) (b []byte, err error) {
	defer try.Close(&err, resp.Body)

	return io.ReadAll(resp.Body)
}

func errorResult(err error) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{
			&mcp.TextContent{Text: err.Error()},
		},
	}
}
