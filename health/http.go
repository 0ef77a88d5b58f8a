// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package health

import (
	"log/slog"
	"net/http"

	"github.com/z5labs/armada"
)

var log = armada.Logger("github.com/z5labs/armada/health")

// Handler reports the state of m over HTTP.
//
// It responds with 200 OK when m is healthy and 503 Service Unavailable
// when m is unhealthy or fails to report its state.
func Handler(m Monitor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		healthy, err := m.Healthy(r.Context())
		if err != nil {
			log.WarnContext(r.Context(), "failed to check health", slog.Any("error", err))
		}
		if !healthy || err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	}
}
