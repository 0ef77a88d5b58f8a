// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package otel

import (
	"context"
	"log/slog"
	"strings"
	"sync/atomic"

	"go.opentelemetry.io/otel/log"
	sdklog "go.opentelemetry.io/otel/sdk/log"
)

// armadaScope is trimmed from instrumentation scope names so stderr
// shows "client" instead of the full import path.
const armadaScope = "github.com/z5labs/armada/"

// slogExporter writes log records to a [slog.Handler], typically
// a text handler on stderr for interactive commands.
type slogExporter struct {
	handler    slog.Handler
	scopeKey   string
	scopeTrim  string
	traceGroup string

	closed atomic.Bool
}

type slogExporterOption func(*slogExporter)

// scopeAttr sets the attribute key the instrumentation scope is written
// under. An empty key leaves the scope out.
func scopeAttr(key string) slogExporterOption {
	return func(se *slogExporter) {
		se.scopeKey = key
	}
}

// trimScope removes prefix from instrumentation scope names.
func trimScope(prefix string) slogExporterOption {
	return func(se *slogExporter) {
		se.scopeTrim = prefix
	}
}

func newSlogExporter(h slog.Handler, opts ...slogExporterOption) *slogExporter {
	se := &slogExporter{
		handler:    h,
		scopeKey:   "logger",
		traceGroup: "otel",
	}
	for _, opt := range opts {
		opt(se)
	}
	return se
}

// Export implements log.Exporter. Records exported after Shutdown are dropped.
func (se *slogExporter) Export(ctx context.Context, records []sdklog.Record) error {
	if se.closed.Load() {
		return nil
	}

	for _, record := range records {
		level := slogLevel(record.Severity())
		if !se.handler.Enabled(ctx, level) {
			continue
		}

		sr := slog.NewRecord(record.Timestamp(), level, record.Body().AsString(), 0)
		sr.AddAttrs(se.attrs(record)...)

		err := se.handler.Handle(ctx, sr)
		if err != nil {
			return err
		}
	}
	return nil
}

func (se *slogExporter) attrs(record sdklog.Record) []slog.Attr {
	attrs := make([]slog.Attr, 0, record.AttributesLen()+2)

	scope := strings.TrimPrefix(record.InstrumentationScope().Name, se.scopeTrim)
	if se.scopeKey != "" && scope != "" {
		attrs = append(attrs, slog.String(se.scopeKey, scope))
	}

	record.WalkAttributes(func(kv log.KeyValue) bool {
		if kv.Value.Kind() == log.KindEmpty {
			return true
		}
		attrs = append(attrs, slog.Attr{Key: kv.Key, Value: slogValue(kv.Value)})
		return true
	})

	if record.TraceID().IsValid() {
		attrs = append(attrs, slog.Group(
			se.traceGroup,
			slog.String("trace.id", record.TraceID().String()),
			slog.String("span.id", record.SpanID().String()),
		))
	}
	return attrs
}

// slogLevel maps OTel severities onto slog levels, which are spaced
// four apart where OTel severities are spaced by one.
func slogLevel(sev log.Severity) slog.Level {
	switch {
	case sev == log.SeverityUndefined:
		return slog.LevelInfo
	case sev < log.SeverityDebug:
		return slog.LevelDebug - 1
	case sev < log.SeverityInfo:
		return slog.LevelDebug + slog.Level(sev-log.SeverityDebug)
	case sev < log.SeverityWarn:
		return slog.LevelInfo + slog.Level(sev-log.SeverityInfo)
	case sev < log.SeverityError:
		return slog.LevelWarn + slog.Level(sev-log.SeverityWarn)
	default:
		return slog.LevelError + slog.Level(sev-log.SeverityError)
	}
}

func slogValue(v log.Value) slog.Value {
	switch v.Kind() {
	case log.KindBool:
		return slog.BoolValue(v.AsBool())
	case log.KindInt64:
		return slog.Int64Value(v.AsInt64())
	case log.KindFloat64:
		return slog.Float64Value(v.AsFloat64())
	case log.KindString:
		return slog.StringValue(v.AsString())
	case log.KindBytes:
		return slog.StringValue(string(v.AsBytes()))
	case log.KindMap:
		var attrs []slog.Attr
		for _, kv := range v.AsMap() {
			attrs = append(attrs, slog.Attr{Key: kv.Key, Value: slogValue(kv.Value)})
		}
		return slog.GroupValue(attrs...)
	case log.KindSlice:
		var vals []any
		for _, e := range v.AsSlice() {
			vals = append(vals, slogValue(e).Any())
		}
		return slog.AnyValue(vals)
	default:
		return slog.StringValue(v.String())
	}
}

// ForceFlush implements log.Exporter.
func (se *slogExporter) ForceFlush(ctx context.Context) error {
	return nil
}

// Shutdown implements log.Exporter.
func (se *slogExporter) Shutdown(ctx context.Context) error {
	se.closed.Store(true)
	return nil
}
