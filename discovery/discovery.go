// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package discovery models the discovery document published by a Fleet service
// and provides the means to retrieve it.
package discovery

import (
	"fmt"
	"slices"
	"sort"
)

// Location describes where a parameter is carried in an HTTP request.
type Location string

const (
	LocationPath  Location = "path"
	LocationQuery Location = "query"
)

// Document is the root of a discovery document.
type Document struct {
	Version   string              `json:"version"`
	Resources map[string]Resource `json:"resources"`
}

// Resource groups the methods available on a single resource.
type Resource struct {
	Methods map[string]Method `json:"methods"`
}

// Method is the contract of a single HTTP operation.
type Method struct {
	HTTPMethod     string               `json:"httpMethod"`
	Path           string               `json:"path"`
	Description    string               `json:"description,omitempty"`
	Parameters     map[string]Parameter `json:"parameters"`
	ParameterOrder []string             `json:"parameterOrder,omitempty"`
}

// Parameter describes a single parameter of a [Method].
type Parameter struct {
	Location    Location `json:"location"`
	Required    bool     `json:"required,omitempty"`
	Type        string   `json:"type,omitempty"`
	Description string   `json:"description,omitempty"`
}

// SchemaError is returned when a discovery document is malformed or
// missing required fields.
type SchemaError struct {
	Field  string
	Reason string
	Cause  error
}

func (e SchemaError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("invalid discovery document: %s: %s: %v", e.Field, e.Reason, e.Cause)
	}
	return fmt.Sprintf("invalid discovery document: %s: %s", e.Field, e.Reason)
}

func (e SchemaError) Unwrap() error {
	return e.Cause
}

// Validate checks that all fields required for synthesizing operations
// are present.
func (d *Document) Validate() error {
	if d.Resources == nil {
		return SchemaError{Field: "resources", Reason: "missing"}
	}

	for _, resourceName := range SortedKeys(d.Resources) {
		resource := d.Resources[resourceName]
		field := "resources." + resourceName
		if resource.Methods == nil {
			return SchemaError{Field: field + ".methods", Reason: "missing"}
		}

		for _, methodName := range SortedKeys(resource.Methods) {
			err := resource.Methods[methodName].validate(field + ".methods." + methodName)
			if err != nil {
				return err
			}
		}
	}
	return nil
}

func (m Method) validate(field string) error {
	if m.HTTPMethod == "" {
		return SchemaError{Field: field + ".httpMethod", Reason: "missing"}
	}
	if m.Path == "" {
		return SchemaError{Field: field + ".path", Reason: "missing"}
	}
	if m.Parameters == nil {
		return SchemaError{Field: field + ".parameters", Reason: "missing"}
	}

	for name, param := range m.Parameters {
		switch param.Location {
		case LocationPath, LocationQuery:
		default:
			return SchemaError{
				Field:  field + ".parameters." + name + ".location",
				Reason: fmt.Sprintf("unsupported location %q", param.Location),
			}
		}
	}

	for i, name := range m.ParameterOrder {
		if _, ok := m.Parameters[name]; !ok {
			return SchemaError{
				Field:  fmt.Sprintf("%s.parameterOrder[%d]", field, i),
				Reason: fmt.Sprintf("unknown parameter %q", name),
			}
		}
		if slices.Contains(m.ParameterOrder[:i], name) {
			return SchemaError{
				Field:  fmt.Sprintf("%s.parameterOrder[%d]", field, i),
				Reason: fmt.Sprintf("duplicate parameter %q", name),
			}
		}
	}
	return nil
}

// PathParameters returns the names of all path located parameters in lexical order.
func (m Method) PathParameters() []string {
	return m.parametersIn(LocationPath)
}

// QueryParameters returns the names of all query located parameters in lexical order.
func (m Method) QueryParameters() []string {
	return m.parametersIn(LocationQuery)
}

func (m Method) parametersIn(loc Location) []string {
	var names []string
	for name, param := range m.Parameters {
		if param.Location == loc {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// OrderedParameters returns every parameter name, starting with those
// in ParameterOrder followed by the rest in lexical order.
func (m Method) OrderedParameters() []string {
	names := make([]string, 0, len(m.Parameters))
	names = append(names, m.ParameterOrder...)
	for _, name := range SortedKeys(m.Parameters) {
		if slices.Contains(m.ParameterOrder, name) {
			continue
		}
		names = append(names, name)
	}
	return names
}

// SortedKeys returns the keys of m in lexical order.
func SortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
