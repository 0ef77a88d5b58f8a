// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package codegen generates a strongly typed Go client from a discovery document.
//
// The generated package wraps a [client.Client]. Every resource becomes a
// type, every method a Go method on that type taking a params struct whose
// fields are bound with [binding.StructArgs].
package codegen

import (
	"bytes"
	"embed"
	"fmt"
	"sort"
	"strings"
	"text/template"

	"github.com/z5labs/armada/discovery"
	"github.com/z5labs/armada/naming"

	"github.com/sourcegraph/conc/pool"
	"golang.org/x/tools/imports"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var templates = template.Must(
	template.New("").
		Funcs(template.FuncMap{
			"comment": comment,
			"quote":   func(s string) string { return fmt.Sprintf("%q", s) },
		}).
		ParseFS(templateFS, "templates/*.tmpl"),
)

// Config configures [Generate].
type Config struct {
	// Package is the name of the generated Go package.
	Package string

	// Source is recorded in the generated header, e.g. the discovery URL.
	Source string
}

// File is a generated Go source file.
type File struct {
	Name    string
	Content []byte
}

// RenderError is returned when a generated file can not be rendered or formatted.
type RenderError struct {
	File  string
	Cause error
}

func (e RenderError) Error() string {
	return fmt.Sprintf("failed to render %s: %v", e.File, e.Cause)
}

func (e RenderError) Unwrap() error {
	return e.Cause
}

// Generate renders one file for the client and one per resource.
// Files are returned ordered by name.
func Generate(doc *discovery.Document, cfg Config) ([]File, error) {
	err := doc.Validate()
	if err != nil {
		return nil, err
	}
	if cfg.Package == "" {
		cfg.Package = "fleet"
	}

	pkg := newPackage(doc, cfg)

	p := pool.NewWithResults[File]().WithErrors()
	p.Go(func() (File, error) {
		return render("client.go", "client.go.tmpl", pkg)
	})
	for _, r := range pkg.Resources {
		p.Go(func() (File, error) {
			return render(r.FileName, "resource.go.tmpl", resourceFile{
				Package:  pkg,
				Resource: r,
			})
		})
	}

	files, err := p.Wait()
	if err != nil {
		return nil, err
	}
	sort.Slice(files, func(i, j int) bool {
		return files[i].Name < files[j].Name
	})
	return files, nil
}

func render(name, tmpl string, data any) (File, error) {
	var buf bytes.Buffer
	err := templates.ExecuteTemplate(&buf, tmpl, data)
	if err != nil {
		return File{}, RenderError{File: name, Cause: err}
	}

	src, err := imports.Process(name, buf.Bytes(), &imports.Options{
		Comments:  true,
		TabIndent: true,
		TabWidth:  8,
	})
	if err != nil {
		return File{}, RenderError{File: name, Cause: err}
	}
	return File{Name: name, Content: src}, nil
}

type packageData struct {
	Name      string
	Source    string
	Version   string
	Resources []resourceData
}

type resourceFile struct {
	Package  packageData
	Resource resourceData
}

type resourceData struct {
	WireName   string
	TypeName   string
	FileName   string
	Operations []operationData
}

type operationData struct {
	WireName    string
	MethodName  string
	ParamsType  string
	HTTPMethod  string
	Path        string
	Description string
	Fields      []fieldData
}

type fieldData struct {
	Name        string
	WireName    string
	Type        string
	Tag         string
	Description string
}

func newPackage(doc *discovery.Document, cfg Config) packageData {
	pkg := packageData{
		Name:    cfg.Package,
		Source:  cfg.Source,
		Version: doc.Version,
	}

	for _, wire := range discovery.SortedKeys(doc.Resources) {
		methods := doc.Resources[wire].Methods

		r := resourceData{
			WireName: wire,
			TypeName: resourceType(wire),
			FileName: resourceFileName(wire),
		}
		for _, methodWire := range discovery.SortedKeys(methods) {
			r.Operations = append(r.Operations, newOperation(r.TypeName, methodWire, methods[methodWire]))
		}
		pkg.Resources = append(pkg.Resources, r)
	}
	return pkg
}

// reserved are identifiers the client file already declares at package
// level or on Client.
var reserved = map[string]bool{
	"Client":  true,
	"New":     true,
	"Wrap":    true,
	"Untyped": true,
}

// resourceFileName names the file of a resource, leaving client.go to the Client.
func resourceFileName(wire string) string {
	name := naming.Normalize(wire)
	if name == "client" {
		name += "_resource"
	}
	return name + ".go"
}

// resourceType names the type, and Client field, of a resource.
func resourceType(wire string) string {
	name := naming.Exported(wire)
	if reserved[name] {
		return name + "Resource"
	}
	return name
}

func newOperation(resourceType, wire string, m discovery.Method) operationData {
	op := operationData{
		WireName:    wire,
		MethodName:  naming.Exported(wire),
		HTTPMethod:  m.HTTPMethod,
		Path:        m.Path,
		Description: m.Description,
	}
	op.ParamsType = resourceType + op.MethodName + "Params"

	for _, name := range m.OrderedParameters() {
		p := m.Parameters[name]
		op.Fields = append(op.Fields, fieldData{
			Name:        naming.Exported(name),
			WireName:    name,
			Type:        goType(p),
			Tag:         tag(name, p),
			Description: p.Description,
		})
	}
	return op
}

// goType maps a parameter onto a field type. Required numbers and booleans
// are pointers so their zero value can still be sent.
func goType(p discovery.Parameter) string {
	switch p.Type {
	case "integer":
		return pointerIf(p.Required, "int64")
	case "number":
		return pointerIf(p.Required, "float64")
	case "boolean":
		return pointerIf(p.Required, "bool")
	case "array":
		return "[]string"
	default:
		return "string"
	}
}

func pointerIf(required bool, typ string) string {
	if required {
		return "*" + typ
	}
	return typ
}

func tag(name string, p discovery.Parameter) string {
	if p.Required {
		return fmt.Sprintf("`param:%q validate:\"required\"`", name)
	}
	return fmt.Sprintf("`param:%q`", name+",omitempty")
}

// comment formats free text as a Go line comment, indented by prefix.
func comment(prefix, text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}

	var sb strings.Builder
	for i, line := range strings.Split(text, "\n") {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(prefix)
		sb.WriteString(strings.TrimRight("// "+strings.TrimSpace(line), " "))
	}
	return sb.String()
}
