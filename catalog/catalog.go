// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package catalog provides full text search over the operations of a [client.Client].
package catalog

import (
	"context"
	"log/slog"
	"strings"

	"github.com/z5labs/armada"
	"github.com/z5labs/armada/client"
	"github.com/z5labs/armada/discovery"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search/query"
)

// DefaultLimit is used by [Catalog.Search] when a non-positive limit is given.
const DefaultLimit = 10

// Hit is a single search result.
type Hit struct {
	Operation *client.Operation
	Score     float64
}

// Catalog is an in-memory search index of operations.
type Catalog struct {
	index      bleve.Index
	operations map[string]*client.Operation
	log        *slog.Logger
}

// New indexes every operation of c.
func New(ctx context.Context, c *client.Client) (*Catalog, error) {
	index, err := bleve.NewMemOnly(bleve.NewIndexMapping())
	if err != nil {
		return nil, err
	}

	cat := &Catalog{
		index:      index,
		operations: make(map[string]*client.Operation),
		log:        armada.Logger("github.com/z5labs/armada/catalog"),
	}

	batch := index.NewBatch()
	for _, r := range c.Resources() {
		for _, op := range r.Operations() {
			id := ID(op)
			cat.operations[id] = op

			err := batch.Index(id, document(op))
			if err != nil {
				return nil, err
			}
		}
	}

	err = index.Batch(batch)
	if err != nil {
		return nil, err
	}

	cat.log.DebugContext(ctx, "indexed operations", slog.Int("operations", len(cat.operations)))
	return cat, nil
}

// ID returns the identifier an operation is indexed under.
func ID(op *client.Operation) string {
	return op.Resource() + "." + op.Name()
}

func document(op *client.Operation) map[string]any {
	params := op.Parameters()

	var paramWords, paramDocs []string
	for _, wire := range discovery.SortedKeys(params) {
		paramWords = append(paramWords, words(op.Identifier(wire)))
		if desc := params[wire].Description; desc != "" {
			paramDocs = append(paramDocs, desc)
		}
	}

	return map[string]any{
		"resource":    words(op.Resource()),
		"operation":   words(op.Name()),
		"method":      op.HTTPMethod(),
		"description": op.Description(),
		"parameters":  strings.Join(paramWords, " "),
		"details":     strings.Join(paramDocs, " "),
	}
}

func words(identifier string) string {
	return strings.ReplaceAll(identifier, "_", " ")
}

// Search returns at most limit operations matching text, best match first.
// An empty text matches every operation.
func (c *Catalog) Search(ctx context.Context, text string, limit int) ([]Hit, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}

	var q query.Query = bleve.NewMatchAllQuery()
	if strings.TrimSpace(text) != "" {
		q = bleve.NewMatchQuery(text)
	}

	req := bleve.NewSearchRequestOptions(q, limit, 0, false)
	req.SortBy([]string{"-_score", "_id"})

	res, err := c.index.SearchInContext(ctx, req)
	if err != nil {
		return nil, err
	}

	hits := make([]Hit, 0, len(res.Hits))
	for _, match := range res.Hits {
		op, ok := c.operations[match.ID]
		if !ok {
			continue
		}
		hits = append(hits, Hit{
			Operation: op,
			Score:     match.Score,
		})
	}
	return hits, nil
}

// Close releases the underlying index.
func (c *Catalog) Close() error {
	return c.index.Close()
}
