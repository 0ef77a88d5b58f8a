// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package mock provides a fake Fleet service driven by a discovery document.
//
// The fake serves the discovery document itself, a route for every method it
// describes and liveness/readiness probes. Every method call is recorded and
// answered with a JSON echo of the path and query parameters it received.
package mock

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/z5labs/armada"
	"github.com/z5labs/armada/discovery"
	"github.com/z5labs/armada/health"

	"github.com/go-chi/chi/v5"
)

// Request is a method call received by the [Server].
type Request struct {
	Resource   string
	Operation  string
	Method     string
	Path       string
	PathParams map[string]string
	Query      url.Values
	Header     http.Header
}

// Echo is the response body of every method call.
type Echo struct {
	Resource   string              `json:"resource"`
	Operation  string              `json:"operation"`
	PathParams map[string]string   `json:"pathParams"`
	Query      map[string][]string `json:"query"`
}

// Options configure a [Server].
type Options struct {
	prefix    string
	readiness health.Monitor
	liveness  health.Monitor
}

// Option sets a value on [Options].
type Option func(*Options)

// Prefix mounts the discovery document and every method route under
// the given path, e.g. "/fleet/v1".
func Prefix(p string) Option {
	return func(o *Options) {
		o.prefix = "/" + strings.Trim(p, "/")
	}
}

// Readiness overrides the [health.Monitor] backing GET /health/readiness.
func Readiness(m health.Monitor) Option {
	return func(o *Options) {
		o.readiness = m
	}
}

// Liveness overrides the [health.Monitor] backing GET /health/liveness.
func Liveness(m health.Monitor) Option {
	return func(o *Options) {
		o.liveness = m
	}
}

// Server is a [http.Handler] faking a Fleet service.
type Server struct {
	router *chi.Mux
	log    *slog.Logger

	mu       sync.Mutex
	requests []Request
}

// NewServer initializes a [Server] for the given document.
func NewServer(doc *discovery.Document, opts ...Option) *Server {
	healthy := &health.Binary{}
	healthy.MarkHealthy()

	o := &Options{
		readiness: healthy,
		liveness:  healthy,
	}
	for _, opt := range opts {
		opt(o)
	}

	s := &Server{
		router: chi.NewMux(),
		log:    armada.Logger("github.com/z5labs/armada/mock"),
	}

	s.router.Get("/health/readiness", health.Handler(o.readiness))
	s.router.Get("/health/liveness", health.Handler(o.liveness))

	routes := func(r chi.Router) {
		r.Get("/discovery", s.serveDiscovery(doc))

		for _, resourceName := range discovery.SortedKeys(doc.Resources) {
			methods := doc.Resources[resourceName].Methods
			for _, methodName := range discovery.SortedKeys(methods) {
				m := methods[methodName]
				r.Method(m.HTTPMethod, "/"+strings.TrimPrefix(m.Path, "/"), s.serveMethod(resourceName, methodName, m))
			}
		}
	}
	if o.prefix == "" || o.prefix == "/" {
		routes(s.router)
	} else {
		s.router.Route(o.prefix, routes)
	}

	return s
}

// ServeHTTP implements the [http.Handler] interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Requests returns every method call received so far.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]Request(nil), s.requests...)
}

// Reset forgets all recorded method calls.
func (s *Server) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.requests = nil
}

func (s *Server) serveDiscovery(doc *discovery.Document) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.writeJSON(w, r, doc)
	}
}

func (s *Server) serveMethod(resource, operation string, m discovery.Method) http.HandlerFunc {
	pathParams := m.PathParameters()

	return func(w http.ResponseWriter, r *http.Request) {
		params := make(map[string]string, len(pathParams))
		for _, name := range pathParams {
			params[name] = chi.URLParam(r, name)
		}

		query := r.URL.Query()

		s.mu.Lock()
		s.requests = append(s.requests, Request{
			Resource:   resource,
			Operation:  operation,
			Method:     r.Method,
			Path:       r.URL.Path,
			PathParams: params,
			Query:      query,
			Header:     r.Header.Clone(),
		})
		s.mu.Unlock()

		s.writeJSON(w, r, Echo{
			Resource:   resource,
			Operation:  operation,
			PathParams: params,
			Query:      query,
		})
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, r *http.Request, v any) {
	w.Header().Set("Content-Type", "application/json")
	err := json.NewEncoder(w).Encode(v)
	if err == nil {
		return
	}
	s.log.ErrorContext(
		r.Context(),
		"failed to encode response body",
		slog.Any("error", err),
	)
}
