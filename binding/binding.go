// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package binding reconciles caller supplied arguments with the parameters
// declared by a discovered method.
//
// Callers may supply arguments positionally, following the method's
// parameterOrder, and/or by name. Names may be given either in their
// normalized form (see [naming.Normalize]) or as they appear on the wire.
// The result of binding is always keyed by wire name.
package binding

import (
	"fmt"
	"strings"

	"github.com/z5labs/armada/discovery"
	"github.com/z5labs/armada/naming"
)

// Args are the arguments supplied to a single operation invocation.
type Args struct {
	// Positional arguments are matched against the method's parameterOrder.
	Positional []any

	// Named arguments are keyed by normalized or wire parameter name.
	// Names which the method does not declare are passed through unchanged.
	Named map[string]any
}

// Positional is a convenience for constructing [Args] from positional values.
func Positional(vs ...any) Args {
	return Args{Positional: vs}
}

// Named is a convenience for constructing [Args] from named values.
func Named(m map[string]any) Args {
	return Args{Named: m}
}

// With returns a copy of args with the named argument set.
func (args Args) With(name string, v any) Args {
	named := make(map[string]any, len(args.Named)+1)
	for k, x := range args.Named {
		named[k] = x
	}
	named[name] = v

	return Args{
		Positional: args.Positional,
		Named:      named,
	}
}

// ArityError is returned when the number of positional arguments does not
// equal the number of parameters in a method's parameterOrder.
type ArityError struct {
	Required int
	Given    int
}

func (e ArityError) Error() string {
	verdict := "too few"
	if e.Given > e.Required {
		verdict = "too many"
	}
	return fmt.Sprintf(
		"requires %d positional %s, %d given: %s",
		e.Required,
		plural(e.Required, "argument", "arguments"),
		e.Given,
		verdict,
	)
}

// MissingRequiredParameterError is returned when one or more required
// parameters have no value after binding.
type MissingRequiredParameterError struct {
	Parameters []string
}

func (e MissingRequiredParameterError) Error() string {
	if len(e.Parameters) == 1 {
		return "missing required parameter: " + e.Parameters[0]
	}
	return fmt.Sprintf(
		"missing %d required parameters: %s",
		len(e.Parameters),
		strings.Join(e.Parameters, ", "),
	)
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

// Binder binds [Args] against a single method contract.
// A Binder is immutable and safe for concurrent use.
type Binder struct {
	params   map[string]discovery.Parameter
	order    []string
	required []string

	idToWire map[string]string
	wireToID map[string]string
}

// NewBinder derives the name mappings for the given method.
func NewBinder(m discovery.Method) *Binder {
	b := &Binder{
		params:   make(map[string]discovery.Parameter, len(m.Parameters)),
		order:    append([]string(nil), m.ParameterOrder...),
		idToWire: make(map[string]string, len(m.Parameters)),
		wireToID: make(map[string]string, len(m.Parameters)),
	}

	for _, name := range m.OrderedParameters() {
		param := m.Parameters[name]
		b.params[name] = param

		id := naming.Normalize(name)
		b.idToWire[id] = name
		b.wireToID[name] = id

		if param.Required {
			b.required = append(b.required, name)
		}
	}
	return b
}

// Identifier returns the normalized identifier for a wire parameter name.
func (b *Binder) Identifier(wire string) (string, bool) {
	id, ok := b.wireToID[wire]
	return id, ok
}

// WireName resolves a normalized identifier or wire name to the
// declared wire name.
func (b *Binder) WireName(name string) (string, bool) {
	if _, ok := b.params[name]; ok {
		return name, true
	}
	wire, ok := b.idToWire[naming.Normalize(name)]
	return wire, ok
}

// Bind produces the wire keyed parameter mapping for args.
//
// An [ArityError] is returned if positional arguments are given and their
// count does not match the parameterOrder. A [MissingRequiredParameterError]
// naming every unbound required parameter is returned if any remain.
func (b *Binder) Bind(args Args) (map[string]any, error) {
	bound := make(map[string]any, len(args.Named)+len(args.Positional))
	for name, v := range args.Named {
		if v == nil {
			continue
		}
		if _, declared := b.params[name]; declared {
			continue
		}
		wire, ok := b.idToWire[naming.Normalize(name)]
		if !ok {
			wire = name
		}
		bound[wire] = v
	}
	// wire names take precedence over their normalized form
	for name, v := range args.Named {
		if _, declared := b.params[name]; declared && v != nil {
			bound[name] = v
		}
	}

	if len(args.Positional) > 0 {
		if len(args.Positional) != len(b.order) {
			return nil, ArityError{
				Required: len(b.order),
				Given:    len(args.Positional),
			}
		}

		for i, name := range b.order {
			if args.Positional[i] == nil {
				continue
			}
			bound[name] = args.Positional[i]
		}
	}

	var missing []string
	for _, name := range b.required {
		if _, ok := bound[name]; ok {
			continue
		}
		missing = append(missing, name)
	}
	if len(missing) > 0 {
		return nil, MissingRequiredParameterError{Parameters: missing}
	}

	return bound, nil
}

// Split separates bound parameters into those carried in the URL path and
// those sent as the query string. Only declared path parameters are placed
// in the path; everything else is sent as a query parameter.
func (b *Binder) Split(bound map[string]any) (path, query map[string]any) {
	path = make(map[string]any)
	query = make(map[string]any)
	for name, v := range bound {
		param, ok := b.params[name]
		if ok && param.Location == discovery.LocationPath {
			path[name] = v
			continue
		}
		query[name] = v
	}
	return path, query
}
