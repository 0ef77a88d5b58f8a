// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/z5labs/armada/binding"
	"github.com/z5labs/armada/discovery"
	"github.com/z5labs/armada/mock"
	"github.com/z5labs/armada/urltemplate"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type doerFunc func(*http.Request) (*http.Response, error)

func (f doerFunc) Do(r *http.Request) (*http.Response, error) {
	return f(r)
}

func newFleet(t *testing.T, opts ...Option) (*Client, *mock.Server) {
	t.Helper()

	fleet := mock.NewServer(mock.FleetDocument(), mock.Prefix("/fleet/v1"))
	srv := httptest.NewServer(fleet)
	t.Cleanup(srv.Close)

	opts = append([]Option{BaseURL(srv.URL + "/fleet/v1")}, opts...)
	c, err := New(context.Background(), opts...)
	require.NoError(t, err)
	return c, fleet
}

func TestNew(t *testing.T) {
	t.Run("will synthesize every resource and operation", func(t *testing.T) {
		t.Run("if the discovery document is valid", func(t *testing.T) {
			c, _ := newFleet(t)

			assert.Equal(t, "v1", c.Version())

			var names []string
			for _, r := range c.Resources() {
				names = append(names, r.Name())
			}
			assert.Equal(t, []string{"instance_groups", "zones"}, names)

			r, ok := c.Resource("instance_groups")
			require.True(t, ok)
			assert.Equal(t, "instanceGroups", r.WireName())

			var ops []string
			for _, op := range r.Operations() {
				ops = append(ops, op.Name())
			}
			assert.Equal(t, []string{"delete", "get", "insert", "list", "list_instances"}, ops)
		})

		t.Run("if the resource is looked up by its wire name", func(t *testing.T) {
			c, _ := newFleet(t)

			r, ok := c.Resource("instanceGroups")
			require.True(t, ok)
			assert.Equal(t, "instance_groups", r.Name())
		})
	})

	t.Run("will not dispatch anything", func(t *testing.T) {
		t.Run("if only the client is constructed", func(t *testing.T) {
			_, fleet := newFleet(t)

			assert.Empty(t, fleet.Requests())
		})
	})

	t.Run("will return a discovery.FetchError", func(t *testing.T) {
		t.Run("if the discovery endpoint responds with a non-2xx status", func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			}))
			defer srv.Close()

			_, err := New(context.Background(), BaseURL(srv.URL))

			var ferr discovery.FetchError
			require.ErrorAs(t, err, &ferr)
			assert.Equal(t, http.StatusInternalServerError, ferr.StatusCode)
		})

		t.Run("if the transport fails", func(t *testing.T) {
			transportErr := errors.New("connection refused")
			doer := doerFunc(func(r *http.Request) (*http.Response, error) {
				return nil, transportErr
			})

			_, err := New(context.Background(), Transport(doer))

			var ferr discovery.FetchError
			require.ErrorAs(t, err, &ferr)
			assert.ErrorIs(t, err, transportErr)
		})
	})

	t.Run("will return a discovery.SchemaError", func(t *testing.T) {
		t.Run("if the discovery document has no resources", func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.Write([]byte(`{"version": "v1"}`))
			}))
			defer srv.Close()

			_, err := New(context.Background(), BaseURL(srv.URL))

			var serr discovery.SchemaError
			require.ErrorAs(t, err, &serr)
			assert.Equal(t, "resources", serr.Field)
		})
	})
}

func TestClient_Invoke(t *testing.T) {
	t.Run("will dispatch the expanded endpoint", func(t *testing.T) {
		t.Run("if the required path parameters are given by name", func(t *testing.T) {
			c, fleet := newFleet(t)

			resp, err := c.Invoke(context.Background(), "instance_groups", "list", binding.Named(map[string]any{
				"project": "p1",
				"zone":    "z1",
			}))
			require.NoError(t, err)
			defer resp.Body.Close()
			assert.Equal(t, http.StatusOK, resp.StatusCode)

			reqs := fleet.Requests()
			require.Len(t, reqs, 1)
			assert.Equal(t, http.MethodGet, reqs[0].Method)
			assert.Equal(t, "/fleet/v1/projects/p1/zones/z1/instanceGroups", reqs[0].Path)
			assert.Empty(t, reqs[0].Query)
			assert.Equal(t, "application/json", reqs[0].Header.Get("Content-Type"))
		})

		t.Run("if the path parameters are given positionally", func(t *testing.T) {
			c, fleet := newFleet(t)

			resp, err := c.Invoke(context.Background(), "instance_groups", "get", binding.Positional("p1", "z1", "ig-1"))
			require.NoError(t, err)
			defer resp.Body.Close()

			var echo mock.Echo
			err = json.NewDecoder(resp.Body).Decode(&echo)
			require.NoError(t, err)
			assert.Equal(t, "instanceGroups", echo.Resource)
			assert.Equal(t, "get", echo.Operation)
			assert.Equal(t, map[string]string{
				"project":       "p1",
				"zone":          "z1",
				"instanceGroup": "ig-1",
			}, echo.PathParams)

			reqs := fleet.Requests()
			require.Len(t, reqs, 1)
			assert.Equal(t, "/fleet/v1/projects/p1/zones/z1/instanceGroups/ig-1", reqs[0].Path)
		})

		t.Run("if the operation name is given in its wire form", func(t *testing.T) {
			c, fleet := newFleet(t)

			resp, err := c.Invoke(context.Background(), "instanceGroups", "listInstances", binding.Positional("p1", "z1", "ig-1"))
			require.NoError(t, err)
			defer resp.Body.Close()

			reqs := fleet.Requests()
			require.Len(t, reqs, 1)
			assert.Equal(t, "listInstances", reqs[0].Operation)
		})
	})

	t.Run("will never put path parameters in the query", func(t *testing.T) {
		t.Run("if they are given by their normalized identifier", func(t *testing.T) {
			c, fleet := newFleet(t)

			resp, err := c.Invoke(context.Background(), "instance_groups", "get", binding.Named(map[string]any{
				"project":        "p1",
				"zone":           "z1",
				"instance_group": "ig-1",
			}))
			require.NoError(t, err)
			defer resp.Body.Close()

			reqs := fleet.Requests()
			require.Len(t, reqs, 1)
			assert.Equal(t, "/fleet/v1/projects/p1/zones/z1/instanceGroups/ig-1", reqs[0].Path)
			assert.Empty(t, reqs[0].Query)
		})

		t.Run("if query parameters are given alongside them", func(t *testing.T) {
			c, fleet := newFleet(t)

			args := binding.Positional("p1", "z1").
				With("max_results", 10).
				With("filter", "name eq web-*")

			resp, err := c.Invoke(context.Background(), "instance_groups", "list", args)
			require.NoError(t, err)
			defer resp.Body.Close()

			reqs := fleet.Requests()
			require.Len(t, reqs, 1)
			assert.Equal(t, "/fleet/v1/projects/p1/zones/z1/instanceGroups", reqs[0].Path)
			assert.Equal(t, "10", reqs[0].Query.Get("maxResults"))
			assert.Equal(t, "name eq web-*", reqs[0].Query.Get("filter"))
			assert.False(t, reqs[0].Query.Has("project"))
			assert.False(t, reqs[0].Query.Has("zone"))
		})
	})

	t.Run("will pass undeclared named arguments through as query parameters", func(t *testing.T) {
		t.Run("if they do not map to a path parameter", func(t *testing.T) {
			c, fleet := newFleet(t)

			args := binding.Positional("p1").With("returnPartialSuccess", true)

			resp, err := c.Invoke(context.Background(), "zones", "list", args)
			require.NoError(t, err)
			defer resp.Body.Close()

			reqs := fleet.Requests()
			require.Len(t, reqs, 1)
			assert.Equal(t, "true", reqs[0].Query.Get("returnPartialSuccess"))
		})
	})

	t.Run("will send one query value per list element", func(t *testing.T) {
		t.Run("if a list argument does not hold strings", func(t *testing.T) {
			c, fleet := newFleet(t)

			args := binding.Positional("p1", "z1").With("ids", []int{1, 2})

			resp, err := c.Invoke(context.Background(), "instance_groups", "list", args)
			require.NoError(t, err)
			defer resp.Body.Close()

			reqs := fleet.Requests()
			require.Len(t, reqs, 1)
			assert.Equal(t, []string{"1", "2"}, reqs[0].Query["ids"])
		})
	})

	t.Run("will set a request id header", func(t *testing.T) {
		t.Run("if the RequestIDHeader option is given", func(t *testing.T) {
			c, fleet := newFleet(t, RequestIDHeader("X-Request-Id"))

			resp, err := c.Invoke(context.Background(), "zones", "get", binding.Positional("p1", "z1"))
			require.NoError(t, err)
			defer resp.Body.Close()

			reqs := fleet.Requests()
			require.Len(t, reqs, 1)
			_, err = uuid.Parse(reqs[0].Header.Get("X-Request-Id"))
			assert.NoError(t, err)
		})
	})

	t.Run("will return a ResourceNotFoundError", func(t *testing.T) {
		t.Run("if the resource does not exist", func(t *testing.T) {
			c, fleet := newFleet(t)

			_, err := c.Invoke(context.Background(), "networks", "list", binding.Args{})

			var rerr ResourceNotFoundError
			require.ErrorAs(t, err, &rerr)
			assert.Equal(t, "networks", rerr.Resource)
			assert.Empty(t, fleet.Requests())
		})
	})

	t.Run("will return an OperationNotFoundError", func(t *testing.T) {
		t.Run("if the resource has no such operation", func(t *testing.T) {
			c, fleet := newFleet(t)

			_, err := c.Invoke(context.Background(), "zones", "delete", binding.Args{})

			var oerr OperationNotFoundError
			require.ErrorAs(t, err, &oerr)
			assert.Equal(t, "zones", oerr.Resource)
			assert.Equal(t, "delete", oerr.Operation)
			assert.Empty(t, fleet.Requests())
		})
	})

	t.Run("will return a binding.ArityError", func(t *testing.T) {
		t.Run("if too few positional arguments are given", func(t *testing.T) {
			c, fleet := newFleet(t)

			_, err := c.Invoke(context.Background(), "instance_groups", "list", binding.Positional("p1"))

			var aerr binding.ArityError
			require.ErrorAs(t, err, &aerr)
			assert.Equal(t, 2, aerr.Required)
			assert.Equal(t, 1, aerr.Given)
			assert.Empty(t, fleet.Requests())
		})
	})

	t.Run("will return a binding.MissingRequiredParameterError", func(t *testing.T) {
		t.Run("if a required parameter is not bound", func(t *testing.T) {
			c, fleet := newFleet(t)

			_, err := c.Invoke(context.Background(), "instance_groups", "list", binding.Named(map[string]any{
				"project": "p1",
			}))

			var merr binding.MissingRequiredParameterError
			require.ErrorAs(t, err, &merr)
			assert.Equal(t, []string{"zone"}, merr.Parameters)
			assert.Empty(t, fleet.Requests())
		})
	})
}

func TestOperation_Invoke(t *testing.T) {
	t.Run("will return a urltemplate.MissingTemplateVariableError", func(t *testing.T) {
		t.Run("if a template variable is not declared as a path parameter", func(t *testing.T) {
			doc := &discovery.Document{
				Version: "v1",
				Resources: map[string]discovery.Resource{
					"disks": {
						Methods: map[string]discovery.Method{
							"get": {
								HTTPMethod: http.MethodGet,
								Path:       "projects/{project}/disks/{disk}",
								Parameters: map[string]discovery.Parameter{
									"project": {Location: discovery.LocationPath, Required: true, Type: "string"},
								},
							},
						},
					},
				},
			}

			var calls int
			doer := doerFunc(func(r *http.Request) (*http.Response, error) {
				calls++
				return &http.Response{StatusCode: http.StatusOK, Body: http.NoBody}, nil
			})

			c, err := FromDocument(context.Background(), doc, Transport(doer))
			require.NoError(t, err)

			_, err = c.Invoke(context.Background(), "disks", "get", binding.Named(map[string]any{
				"project": "p1",
			}))

			var terr urltemplate.MissingTemplateVariableError
			require.ErrorAs(t, err, &terr)
			assert.Equal(t, []string{"disk"}, terr.Variables)
			assert.Zero(t, calls)
		})
	})

	t.Run("will return the transport error unmodified", func(t *testing.T) {
		t.Run("if the transport fails to dispatch the request", func(t *testing.T) {
			transportErr := errors.New("connection reset by peer")
			doer := doerFunc(func(r *http.Request) (*http.Response, error) {
				return nil, transportErr
			})

			c, err := FromDocument(context.Background(), mock.FleetDocument(), Transport(doer))
			require.NoError(t, err)

			r, ok := c.Resource("zones")
			require.True(t, ok)

			op, ok := r.Operation("get")
			require.True(t, ok)

			_, err = op.Invoke(context.Background(), binding.Positional("p1", "z1"))
			assert.Equal(t, transportErr, err)
		})
	})

	t.Run("will return the response as is", func(t *testing.T) {
		t.Run("if the service responds with an error status", func(t *testing.T) {
			doer := doerFunc(func(r *http.Request) (*http.Response, error) {
				return &http.Response{StatusCode: http.StatusNotFound, Body: http.NoBody}, nil
			})

			c, err := FromDocument(context.Background(), mock.FleetDocument(), Transport(doer))
			require.NoError(t, err)

			resp, err := c.Invoke(context.Background(), "zones", "get", binding.Positional("p1", "z1"))
			require.NoError(t, err)
			assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		})
	})
}

func TestOperation_Request(t *testing.T) {
	t.Run("will upper case the http method", func(t *testing.T) {
		t.Run("if the discovery document declares it in lower case", func(t *testing.T) {
			doc := &discovery.Document{
				Version: "v1",
				Resources: map[string]discovery.Resource{
					"zones": {
						Methods: map[string]discovery.Method{
							"list": {
								HTTPMethod: "get",
								Path:       "projects/{project}/zones",
								Parameters: map[string]discovery.Parameter{
									"project": {Location: discovery.LocationPath, Required: true, Type: "string"},
								},
								ParameterOrder: []string{"project"},
							},
						},
					},
				},
			}

			var method string
			doer := doerFunc(func(r *http.Request) (*http.Response, error) {
				method = r.Method
				return &http.Response{StatusCode: http.StatusOK, Body: http.NoBody}, nil
			})

			c, err := FromDocument(context.Background(), doc, Transport(doer))
			require.NoError(t, err)

			_, err = c.Invoke(context.Background(), "zones", "list", binding.Positional("p1"))
			require.NoError(t, err)
			assert.Equal(t, http.MethodGet, method)
		})
	})

	t.Run("will build a request against the endpoint template", func(t *testing.T) {
		t.Run("if all path parameters are bound", func(t *testing.T) {
			c, err := FromDocument(context.Background(), mock.FleetDocument(), BaseURL("https://fleet.example.com/fleet/v1/"))
			require.NoError(t, err)

			r, _ := c.Resource("instance_groups")
			op, ok := r.Operation("insert")
			require.True(t, ok)

			assert.Equal(t, "https://fleet.example.com/fleet/v1/projects/{project}/zones/{zone}/instanceGroups", op.Endpoint())
			assert.Equal(t, http.MethodPost, op.HTTPMethod())
			assert.Equal(t, []string{"project", "zone", "name"}, op.ParameterOrder())

			req, err := op.Request(context.Background(), binding.Positional("p1", "z1", "web"))
			require.NoError(t, err)
			assert.Equal(t, http.MethodPost, req.Method)
			assert.Equal(t, "https://fleet.example.com/fleet/v1/projects/p1/zones/z1/instanceGroups?name=web", req.URL.String())
		})
	})
}
