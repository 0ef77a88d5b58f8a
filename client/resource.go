// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package client

import (
	"context"
	"net/http"

	"github.com/z5labs/armada/binding"
	"github.com/z5labs/armada/discovery"
	"github.com/z5labs/armada/naming"
)

// Resource groups the operations synthesized for a single resource
// of the discovery document.
type Resource struct {
	name       string
	wireName   string
	operations []*Operation
	byName     map[string]*Operation
}

func synthesizeResource(baseURL, wireName string, desc discovery.Resource, rt *runtime) *Resource {
	r := &Resource{
		name:     naming.Normalize(wireName),
		wireName: wireName,
		byName:   make(map[string]*Operation, len(desc.Methods)),
	}

	for _, methodName := range discovery.SortedKeys(desc.Methods) {
		op := synthesizeOperation(baseURL, r.name, methodName, desc.Methods[methodName], rt)
		r.operations = append(r.operations, op)
		r.byName[op.name] = op
	}
	return r
}

// Name returns the normalized resource name.
func (r *Resource) Name() string {
	return r.name
}

// WireName returns the resource name as declared by the discovery document.
func (r *Resource) WireName() string {
	return r.wireName
}

// Operations returns every operation ordered by wire name.
func (r *Resource) Operations() []*Operation {
	return append([]*Operation(nil), r.operations...)
}

// Operation looks up an operation by name. The name is normalized
// before lookup so wire names are accepted as well.
func (r *Resource) Operation(name string) (*Operation, bool) {
	op, ok := r.byName[naming.Normalize(name)]
	return op, ok
}

// Invoke dispatches the named operation.
func (r *Resource) Invoke(ctx context.Context, operation string, args binding.Args) (*http.Response, error) {
	op, ok := r.Operation(operation)
	if !ok {
		return nil, OperationNotFoundError{Resource: r.name, Operation: operation}
	}
	return op.Invoke(ctx, args)
}
