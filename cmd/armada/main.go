// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Command armada invokes, documents and generates clients for Fleet services
// described by a discovery document.
package main

import (
	"io"
	"os"

	"github.com/alecthomas/kong"
)

// Globals are the flags shared by every command.
type Globals struct {
	Config    string `help:"Path to a YAML config file." short:"c" type:"path" env:"ARMADA_CONFIG"`
	BaseURL   string `help:"Base URL of the Fleet service. Overrides ARMADA_BASE_URL and the config file." name:"base-url"`
	Discovery string `help:"Read the discovery document from a file instead of fetching it." type:"path"`
}

type CLI struct {
	Globals

	Resources ResourcesCmd `cmd:"" help:"List resources and their operations."`
	Call      CallCmd      `cmd:"" help:"Invoke an operation and print the response body."`
	Search    SearchCmd    `cmd:"" help:"Search operations by name, description and parameters."`
	OpenAPI   OpenAPICmd   `cmd:"" name:"openapi" help:"Export the discovery document as an OpenAPI 3.0 specification."`
	Gen       GenCmd       `cmd:"" help:"Generate a typed Go client."`
	MCP       MCPCmd       `cmd:"" name:"mcp" help:"Serve every operation as a Model Context Protocol tool over stdio."`
	Mock      MockCmd      `cmd:"" help:"Serve a fake Fleet service backed by a discovery document."`
	Ping      PingCmd      `cmd:"" help:"Check that the Fleet discovery document can be retrieved."`
	Version   VersionCmd   `cmd:"" help:"Print version information."`
}

func main() {
	cli := &CLI{}
	ctx := kong.Parse(cli,
		kong.Name("armada"),
		kong.Description("Dynamic client for Fleet services."),
		kong.UsageOnError(),
		kong.BindTo(os.Stdout, (*io.Writer)(nil)),
	)
	err := ctx.Run(&cli.Globals)
	ctx.FatalIfErrorf(err)
}
