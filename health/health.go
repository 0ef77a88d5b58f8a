// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package health reports whether a Fleet service, or the fake one served
// by package mock, is able to take requests.
package health

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync/atomic"

	"github.com/z5labs/armada/discovery"
	"github.com/z5labs/armada/internal/try"
)

// Monitor represents anything which can report its current state of health.
type Monitor interface {
	Healthy(context.Context) (bool, error)
}

// MonitorFunc is a function implementing [Monitor].
type MonitorFunc func(context.Context) (bool, error)

// Healthy implements the [Monitor] interface.
func (f MonitorFunc) Healthy(ctx context.Context) (bool, error) {
	return f(ctx)
}

// Binary is a [Monitor] which is either healthy or not.
// The zero value is unhealthy.
type Binary struct {
	healthy atomic.Bool
}

func (b *Binary) MarkUnhealthy() {
	b.healthy.Store(false)
}

func (b *Binary) MarkHealthy() {
	b.healthy.Store(true)
}

// Healthy implements the [Monitor] interface.
func (b *Binary) Healthy(ctx context.Context) (bool, error) {
	return b.healthy.Load(), nil
}

// All is healthy when every one of ms is. It stops at the first
// unhealthy or failing [Monitor].
func All(ms ...Monitor) Monitor {
	return MonitorFunc(func(ctx context.Context) (bool, error) {
		for _, m := range ms {
			healthy, err := m.Healthy(ctx)
			if !healthy || err != nil {
				return false, err
			}
		}
		return true, nil
	})
}

// Any is healthy when at least one of ms is. Errors are only
// reported, joined, when none of ms is healthy.
func Any(ms ...Monitor) Monitor {
	return MonitorFunc(func(ctx context.Context) (bool, error) {
		var errs []error
		for _, m := range ms {
			healthy, err := m.Healthy(ctx)
			if err != nil {
				errs = append(errs, err)
				continue
			}
			if healthy {
				return true, nil
			}
		}
		return false, errors.Join(errs...)
	})
}

// StatusError is reported by [Endpoint] when the endpoint answers
// with a non-2xx status.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e StatusError) Error() string {
	return fmt.Sprintf("%s responded with status code: %d", e.URL, e.StatusCode)
}

// Endpoint is healthy when a GET of url succeeds with a 2xx status.
func Endpoint(doer discovery.Doer, url string) Monitor {
	return MonitorFunc(func(ctx context.Context) (healthy bool, err error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return false, err
		}

		resp, err := doer.Do(req)
		if err != nil {
			return false, err
		}
		defer try.Close(&err, resp.Body)

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return false, StatusError{URL: url, StatusCode: resp.StatusCode}
		}
		return true, nil
	})
}

// Discovery is healthy when the discovery document of the Fleet service
// at baseURL can be retrieved.
func Discovery(doer discovery.Doer, baseURL string) Monitor {
	return Endpoint(doer, discovery.URL(baseURL))
}
