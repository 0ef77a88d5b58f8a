// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package openapi describes a discovery document as an OpenAPI 3.0 specification.
package openapi

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/z5labs/armada/discovery"
	"github.com/z5labs/armada/naming"

	"github.com/swaggest/openapi-go/openapi3"
	"github.com/z5labs/sdk-go/ptr"
)

// Options configure the generated specification.
type Options struct {
	title   string
	servers []string
}

// Option sets a value on [Options].
type Option func(*Options)

// Title overrides the title of the specification. It defaults to "Fleet".
func Title(title string) Option {
	return func(o *Options) {
		o.title = title
	}
}

// Server adds a server URL operation paths are relative to.
func Server(url string) Option {
	return func(o *Options) {
		o.servers = append(o.servers, strings.TrimSuffix(url, "/"))
	}
}

// Build converts doc into an OpenAPI 3.0 specification.
//
// Every method becomes an operation with the ID "<resource>.<method>",
// using normalized names, and is tagged with its resource.
func Build(doc *discovery.Document, opts ...Option) (*openapi3.Spec, error) {
	o := &Options{
		title: "Fleet",
	}
	for _, opt := range opts {
		opt(o)
	}

	spec := &openapi3.Spec{
		Openapi: "3.0.3",
		Info: openapi3.Info{
			Title:   o.title,
			Version: doc.Version,
		},
	}
	for _, url := range o.servers {
		spec.Servers = append(spec.Servers, openapi3.Server{URL: url})
	}

	for _, resourceName := range discovery.SortedKeys(doc.Resources) {
		methods := doc.Resources[resourceName].Methods
		for _, methodName := range discovery.SortedKeys(methods) {
			m := methods[methodName]

			op := operation(resourceName, methodName, m)
			path := "/" + strings.TrimPrefix(m.Path, "/")

			err := spec.AddOperation(strings.ToLower(m.HTTPMethod), path, op)
			if err != nil {
				return nil, fmt.Errorf("%s.%s: %w", resourceName, methodName, err)
			}
		}
	}
	return spec, nil
}

func operation(resourceName, methodName string, m discovery.Method) openapi3.Operation {
	resource := naming.Normalize(resourceName)

	op := openapi3.Operation{
		ID:   ptr.Ref(resource + "." + naming.Normalize(methodName)),
		Tags: []string{resource},
		Responses: openapi3.Responses{
			Default: &openapi3.ResponseOrRef{
				Response: &openapi3.Response{
					Description: http.StatusText(http.StatusOK),
				},
			},
		},
	}
	if m.Description != "" {
		op.Description = ptr.Ref(m.Description)
	}

	for _, name := range m.OrderedParameters() {
		op.Parameters = append(op.Parameters, openapi3.ParameterOrRef{
			Parameter: parameter(name, m.Parameters[name]),
		})
	}
	return op
}

func parameter(name string, p discovery.Parameter) *openapi3.Parameter {
	in := openapi3.ParameterInQuery
	if p.Location == discovery.LocationPath {
		in = openapi3.ParameterInPath
	}

	param := &openapi3.Parameter{
		Name:   name,
		In:     in,
		Schema: schema(p.Type),
	}
	if p.Required || p.Location == discovery.LocationPath {
		param.Required = ptr.Ref(true)
	}
	if p.Description != "" {
		param.Description = ptr.Ref(p.Description)
	}
	return param
}

func schema(typ string) *openapi3.SchemaOrRef {
	t := schemaType(typ)
	s := &openapi3.Schema{
		Type: &t,
	}
	if t == openapi3.SchemaTypeArray {
		items := openapi3.SchemaTypeString
		s.Items = &openapi3.SchemaOrRef{
			Schema: &openapi3.Schema{
				Type: &items,
			},
		}
	}
	return &openapi3.SchemaOrRef{Schema: s}
}

func schemaType(typ string) openapi3.SchemaType {
	switch typ {
	case "integer":
		return openapi3.SchemaTypeInteger
	case "number":
		return openapi3.SchemaTypeNumber
	case "boolean":
		return openapi3.SchemaTypeBoolean
	case "array":
		return openapi3.SchemaTypeArray
	default:
		return openapi3.SchemaTypeString
	}
}
