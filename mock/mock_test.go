// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package mock

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/z5labs/armada/discovery"
	"github.com/z5labs/armada/health"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServer(t *testing.T) {
	t.Run("will serve the discovery document", func(t *testing.T) {
		t.Run("if it is requested under the configured prefix", func(t *testing.T) {
			srv := httptest.NewServer(NewServer(FleetDocument(), Prefix("fleet/v1/")))
			defer srv.Close()

			resp, err := http.Get(discovery.URL(srv.URL + "/fleet/v1"))
			require.NoError(t, err)
			defer resp.Body.Close()
			require.Equal(t, http.StatusOK, resp.StatusCode)

			doc, err := discovery.Decode(resp.Body)
			require.NoError(t, err)
			assert.Equal(t, FleetDocument(), doc)
		})

		t.Run("if no prefix is configured", func(t *testing.T) {
			srv := httptest.NewServer(NewServer(FleetDocument()))
			defer srv.Close()

			resp, err := http.Get(srv.URL + "/discovery")
			require.NoError(t, err)
			defer resp.Body.Close()
			assert.Equal(t, http.StatusOK, resp.StatusCode)
		})
	})

	t.Run("will echo and record method calls", func(t *testing.T) {
		t.Run("if the route matches a declared method", func(t *testing.T) {
			s := NewServer(FleetDocument(), Prefix("/fleet/v1"))

			w := httptest.NewRecorder()
			r := httptest.NewRequest(http.MethodDelete, "/fleet/v1/projects/p1/zones/z1/instanceGroups/ig-1?requestId=abc", nil)
			s.ServeHTTP(w, r)
			require.Equal(t, http.StatusOK, w.Code)

			var echo Echo
			err := json.NewDecoder(w.Body).Decode(&echo)
			require.NoError(t, err)
			assert.Equal(t, "instanceGroups", echo.Resource)
			assert.Equal(t, "delete", echo.Operation)
			assert.Equal(t, map[string]string{"project": "p1", "zone": "z1", "instanceGroup": "ig-1"}, echo.PathParams)
			assert.Equal(t, []string{"abc"}, echo.Query["requestId"])

			reqs := s.Requests()
			require.Len(t, reqs, 1)
			assert.Equal(t, http.MethodDelete, reqs[0].Method)
			assert.Equal(t, "abc", reqs[0].Query.Get("requestId"))

			s.Reset()
			assert.Empty(t, s.Requests())
		})
	})

	t.Run("will respond with 405", func(t *testing.T) {
		t.Run("if the path exists but the verb is not declared", func(t *testing.T) {
			s := NewServer(FleetDocument(), Prefix("/fleet/v1"))

			w := httptest.NewRecorder()
			s.ServeHTTP(w, httptest.NewRequest(http.MethodPut, "/fleet/v1/projects/p1/zones", nil))

			assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
			assert.Empty(t, s.Requests())
		})
	})

	t.Run("will report readiness", func(t *testing.T) {
		t.Run("if the readiness monitor is healthy", func(t *testing.T) {
			s := NewServer(FleetDocument())

			w := httptest.NewRecorder()
			s.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health/readiness", nil))

			assert.Equal(t, http.StatusOK, w.Code)
		})

		t.Run("if a custom readiness monitor is unhealthy", func(t *testing.T) {
			var ready health.Binary
			s := NewServer(FleetDocument(), Readiness(&ready))

			w := httptest.NewRecorder()
			s.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health/readiness", nil))
			assert.Equal(t, http.StatusServiceUnavailable, w.Code)

			ready.MarkHealthy()

			w = httptest.NewRecorder()
			s.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health/readiness", nil))
			assert.Equal(t, http.StatusOK, w.Code)
		})
	})
}
