// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package discovery

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/z5labs/armada/internal/try"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// Doer performs HTTP requests. [*http.Client] implements it.
type Doer interface {
	Do(*http.Request) (*http.Response, error)
}

// FetchError is returned when the discovery endpoint can not be reached
// or responds with a non-success status.
type FetchError struct {
	URL        string
	StatusCode int
	Cause      error
}

func (e FetchError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("failed to fetch discovery document from %s: %v", e.URL, e.Cause)
	}
	return fmt.Sprintf("failed to fetch discovery document from %s: unexpected status code: %d", e.URL, e.StatusCode)
}

func (e FetchError) Unwrap() error {
	return e.Cause
}

// URL returns the location of the discovery document for the given base URL.
func URL(baseURL string) string {
	return strings.TrimSuffix(baseURL, "/") + "/discovery"
}

// Fetch retrieves, decodes and validates the discovery document
// published at {baseURL}/discovery.
func Fetch(ctx context.Context, doer Doer, baseURL string) (doc *Document, err error) {
	spanCtx, span := otel.Tracer("github.com/z5labs/armada/discovery").Start(ctx, "discovery.Fetch")
	defer span.End()
	defer func() {
		if err == nil {
			return
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}()

	url := URL(baseURL)
	span.SetAttributes(attribute.String("discovery.url", url))

	req, err := http.NewRequestWithContext(spanCtx, http.MethodGet, url, nil)
	if err != nil {
		return nil, FetchError{URL: url, Cause: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := doer.Do(req)
	if err != nil {
		return nil, FetchError{URL: url, Cause: err}
	}
	defer try.Close(&err, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, FetchError{URL: url, StatusCode: resp.StatusCode}
	}

	return Decode(resp.Body)
}

// Decode reads a discovery document from r and validates it.
func Decode(r io.Reader) (*Document, error) {
	var doc Document
	err := json.NewDecoder(r).Decode(&doc)
	if err != nil {
		return nil, SchemaError{Field: "$", Reason: "malformed json", Cause: err}
	}

	err = doc.Validate()
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

// Load reads a discovery document from the file at path.
func Load(path string) (doc *Document, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer try.Close(&err, f)

	return Decode(f)
}
