// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package client synthesizes invokable operations from a discovery document.
//
// A [Client] fetches the discovery document once, during [New], and groups the
// synthesized [Operation]s under their owning [Resource]. Resource, operation
// and parameter names are exposed in their normalized form, see [naming.Normalize].
//
// After construction a Client is immutable and safe for concurrent use as long
// as the underlying transport is.
package client

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/z5labs/armada"
	"github.com/z5labs/armada/binding"
	"github.com/z5labs/armada/discovery"
	"github.com/z5labs/armada/naming"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// DefaultBaseURL is used when no [BaseURL] option is given.
const DefaultBaseURL = "http://localhost:8080/fleet/v1"

const instrumentationName = "github.com/z5labs/armada/client"

// Doer performs HTTP requests on behalf of a [Client].
// Retries, authentication and connection pooling are its responsibility.
type Doer = discovery.Doer

// Options are the configurable values of a [Client].
type Options struct {
	baseURL         string
	transport       Doer
	requestIDHeader string
}

// Option sets a value on [Options].
type Option func(*Options)

// BaseURL sets the URL the discovery document is fetched from and
// every operation endpoint is relative to.
func BaseURL(url string) Option {
	return func(o *Options) {
		o.baseURL = strings.TrimSuffix(url, "/")
	}
}

// Transport overrides the [Doer] used for fetching the discovery document
// and dispatching operations. The default is an [http.Client] instrumented
// with OpenTelemetry.
func Transport(d Doer) Option {
	return func(o *Options) {
		o.transport = d
	}
}

// RequestIDHeader sets a header which will carry a freshly generated
// UUID on every dispatched request.
func RequestIDHeader(name string) Option {
	return func(o *Options) {
		o.requestIDHeader = name
	}
}

// Client is the root of the resource registry.
type Client struct {
	baseURL   string
	version   string
	resources []*Resource
	byName    map[string]*Resource
}

// New fetches the discovery document published under the configured base URL
// and synthesizes every operation it describes.
//
// Failing to fetch the document results in a [discovery.FetchError] and a
// malformed document results in a [discovery.SchemaError]. A Client is never
// partially constructed.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	o := newOptions(opts...)

	spanCtx, span := otel.Tracer(instrumentationName).Start(ctx, "client.New")
	defer span.End()

	doc, err := discovery.Fetch(spanCtx, o.transport, o.baseURL)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	c, err := build(spanCtx, doc, o)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return c, nil
}

// FromDocument synthesizes a [Client] from an already retrieved
// discovery document.
func FromDocument(ctx context.Context, doc *discovery.Document, opts ...Option) (*Client, error) {
	err := doc.Validate()
	if err != nil {
		return nil, err
	}
	return build(ctx, doc, newOptions(opts...))
}

func newOptions(opts ...Option) *Options {
	o := &Options{
		baseURL: DefaultBaseURL,
		transport: &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

func build(ctx context.Context, doc *discovery.Document, o *Options) (*Client, error) {
	invocations, err := otel.Meter(instrumentationName).Int64Counter(
		"armada.client.invocations",
		metric.WithDescription("Number of operation invocations."),
		metric.WithUnit("{invocation}"),
	)
	if err != nil {
		return nil, err
	}

	rt := &runtime{
		tracer:          otel.Tracer(instrumentationName),
		log:             armada.Logger(instrumentationName),
		invocations:     invocations,
		transport:       o.transport,
		requestIDHeader: o.requestIDHeader,
	}

	c := &Client{
		baseURL: o.baseURL,
		version: doc.Version,
		byName:  make(map[string]*Resource, len(doc.Resources)),
	}

	var operations int
	for _, wireName := range discovery.SortedKeys(doc.Resources) {
		r := synthesizeResource(o.baseURL, wireName, doc.Resources[wireName], rt)
		c.resources = append(c.resources, r)
		c.byName[r.name] = r
		operations += len(r.operations)
	}

	rt.log.DebugContext(
		ctx,
		"synthesized operations from discovery document",
		slog.String("base_url", c.baseURL),
		slog.String("version", c.version),
		slog.Int("resources", len(c.resources)),
		slog.Int("operations", operations),
	)
	return c, nil
}

// Version returns the version declared by the discovery document.
func (c *Client) Version() string {
	return c.version
}

// BaseURL returns the URL every operation endpoint is relative to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Resources returns every resource ordered by wire name.
func (c *Client) Resources() []*Resource {
	return append([]*Resource(nil), c.resources...)
}

// Resource looks up a resource by name. The name is normalized
// before lookup so wire names are accepted as well.
func (c *Client) Resource(name string) (*Resource, bool) {
	r, ok := c.byName[naming.Normalize(name)]
	return r, ok
}

// Invoke dispatches the named operation of the named resource.
func (c *Client) Invoke(ctx context.Context, resource, operation string, args binding.Args) (*http.Response, error) {
	r, ok := c.Resource(resource)
	if !ok {
		return nil, ResourceNotFoundError{Resource: resource}
	}
	return r.Invoke(ctx, operation, args)
}

type runtime struct {
	tracer          trace.Tracer
	log             *slog.Logger
	invocations     metric.Int64Counter
	transport       Doer
	requestIDHeader string
}

func (rt *runtime) record(ctx context.Context, op *Operation, err error) {
	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	rt.invocations.Add(ctx, 1, metric.WithAttributes(
		attribute.String("armada.resource", op.resource),
		attribute.String("armada.operation", op.name),
		attribute.String("armada.outcome", outcome),
	))
}
