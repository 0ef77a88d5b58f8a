// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package otel

import (
	"context"

	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.opentelemetry.io/otel/sdk/trace"
)

// discard drops spans and metrics. It is the exporter of the trace and
// meter providers when none is configured.
type discard struct{}

var (
	_ trace.SpanExporter = discard{}
	_ metric.Exporter    = discard{}
)

func (discard) ExportSpans(context.Context, []trace.ReadOnlySpan) error { return nil }

func (discard) Export(context.Context, *metricdata.ResourceMetrics) error { return nil }

func (discard) Aggregation(kind metric.InstrumentKind) metric.Aggregation {
	return metric.DefaultAggregationSelector(kind)
}

func (discard) Temporality(kind metric.InstrumentKind) metricdata.Temporality {
	return metric.DefaultTemporalitySelector(kind)
}

func (discard) ForceFlush(context.Context) error { return nil }

func (discard) Shutdown(context.Context) error { return nil }
