// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package client

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"net/http"
	"net/url"
	"reflect"
	"sort"
	"strings"

	"github.com/z5labs/armada/binding"
	"github.com/z5labs/armada/discovery"
	"github.com/z5labs/armada/naming"
	"github.com/z5labs/armada/urltemplate"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Operation is a single invokable method of a [Resource]. It holds
// everything needed to turn arguments into an HTTP request and is
// immutable once synthesized.
type Operation struct {
	resource   string
	name       string
	wireName   string
	httpMethod string
	endpoint   string
	contract   discovery.Method
	binder     *binding.Binder
	rt         *runtime
}

func synthesizeOperation(baseURL, resource, wireName string, contract discovery.Method, rt *runtime) *Operation {
	return &Operation{
		resource:   resource,
		name:       naming.Normalize(wireName),
		wireName:   wireName,
		httpMethod: strings.ToUpper(contract.HTTPMethod),
		endpoint:   baseURL + "/" + contract.Path,
		contract:   contract,
		binder:     binding.NewBinder(contract),
		rt:         rt,
	}
}

// Name returns the normalized operation name.
func (op *Operation) Name() string {
	return op.name
}

// WireName returns the operation name as declared by the discovery document.
func (op *Operation) WireName() string {
	return op.wireName
}

// Resource returns the normalized name of the owning resource.
func (op *Operation) Resource() string {
	return op.resource
}

// HTTPMethod returns the HTTP verb the operation is dispatched with.
func (op *Operation) HTTPMethod() string {
	return op.httpMethod
}

// Endpoint returns the unexpanded URL template of the operation.
func (op *Operation) Endpoint() string {
	return op.endpoint
}

// Description returns the free text description from the discovery document.
func (op *Operation) Description() string {
	return op.contract.Description
}

// ParameterOrder returns the wire names of the parameters accepted positionally.
func (op *Operation) ParameterOrder() []string {
	return append([]string(nil), op.contract.ParameterOrder...)
}

// Parameters returns the parameters declared for the operation keyed by wire name.
func (op *Operation) Parameters() map[string]discovery.Parameter {
	return maps.Clone(op.contract.Parameters)
}

// Identifier returns the normalized identifier of a wire parameter name.
func (op *Operation) Identifier(wire string) string {
	id, ok := op.binder.Identifier(wire)
	if !ok {
		return naming.Normalize(wire)
	}
	return id
}

// Request binds args and builds the HTTP request [Operation.Invoke] would dispatch.
//
// Binding errors ([binding.ArityError], [binding.MissingRequiredParameterError])
// and expansion errors ([urltemplate.MissingTemplateVariableError]) are returned
// before any request is built.
func (op *Operation) Request(ctx context.Context, args binding.Args) (*http.Request, error) {
	bound, err := op.binder.Bind(args)
	if err != nil {
		return nil, fmt.Errorf("%s.%s: %w", op.resource, op.name, err)
	}

	pathParams, queryParams := op.binder.Split(bound)

	rawURL, err := urltemplate.Expand(op.endpoint, pathParams)
	if err != nil {
		return nil, fmt.Errorf("%s.%s: %w", op.resource, op.name, err)
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("%s.%s: %w", op.resource, op.name, err)
	}
	if len(queryParams) > 0 {
		q := u.Query()
		for _, name := range sortedNames(queryParams) {
			for _, v := range queryValues(queryParams[name]) {
				q.Add(name, v)
			}
		}
		u.RawQuery = q.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, op.httpMethod, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("%s.%s: %w", op.resource, op.name, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if op.rt.requestIDHeader != "" {
		req.Header.Set(op.rt.requestIDHeader, uuid.NewString())
	}
	return req, nil
}

// Invoke binds args, expands the endpoint and dispatches the request
// using the configured transport.
//
// The response, or transport error, is returned as is. Status codes are
// not interpreted and no retries are attempted.
func (op *Operation) Invoke(ctx context.Context, args binding.Args) (resp *http.Response, err error) {
	spanCtx, span := op.rt.tracer.Start(
		ctx,
		"Operation.Invoke",
		trace.WithAttributes(
			attribute.String("armada.resource", op.resource),
			attribute.String("armada.operation", op.name),
		),
	)
	defer span.End()
	defer func() {
		op.rt.record(spanCtx, op, err)
		if err == nil {
			return
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}()

	req, err := op.Request(spanCtx, args)
	if err != nil {
		return nil, err
	}

	op.rt.log.DebugContext(
		spanCtx,
		"dispatching request",
		slog.String("armada.resource", op.resource),
		slog.String("armada.operation", op.name),
		slog.String("http.method", req.Method),
		slog.String("url", req.URL.String()),
	)

	return op.rt.transport.Do(req)
}

func sortedNames(m map[string]any) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func queryValues(v any) []string {
	switch x := v.(type) {
	case string:
		return []string{x}
	case []string:
		return x
	case []byte:
		return []string{string(x)}
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return []string{fmt.Sprint(v)}
	}
	vs := make([]string, rv.Len())
	for i := range vs {
		vs[i] = fmt.Sprint(rv.Index(i).Interface())
	}
	return vs
}
