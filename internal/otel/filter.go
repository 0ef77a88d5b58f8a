// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package otel

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"go.opentelemetry.io/otel/log"
	sdklog "go.opentelemetry.io/otel/sdk/log"
)

// UnknownLogLevelError is returned by [Initialize] when a configured
// log level can not be parsed.
type UnknownLogLevelError struct {
	Logger string
	Level  string
}

func (e UnknownLogLevelError) Error() string {
	return fmt.Sprintf("unknown log level for logger %q: %q", e.Logger, e.Level)
}

type levelRule struct {
	logger string
	min    log.Severity
}

// levelFilter drops records below the minimum severity configured for
// their logger. A logger name also covers every logger below it in the
// package path, so "github.com/z5labs/armada" covers
// "github.com/z5labs/armada/client". Loggers without a rule are not filtered.
type levelFilter struct {
	sdklog.Processor

	// longest logger name first
	rules []levelRule
}

func newLevelFilter(next sdklog.Processor, levels map[string]string) (*levelFilter, error) {
	rules := make([]levelRule, 0, len(levels))
	for logger, level := range levels {
		sev, err := parseLevel(level)
		if err != nil {
			return nil, UnknownLogLevelError{Logger: logger, Level: level}
		}
		rules = append(rules, levelRule{logger: logger, min: sev})
	}
	sort.Slice(rules, func(i, j int) bool {
		return len(rules[i].logger) > len(rules[j].logger)
	})

	return &levelFilter{
		Processor: next,
		rules:     rules,
	}, nil
}

// parseLevel accepts the slog level names, case-insensitively and with
// offsets like "warn+2", plus "warning".
func parseLevel(s string) (log.Severity, error) {
	if strings.EqualFold(s, "warning") {
		s = "warn"
	}

	var level slog.Level
	err := level.UnmarshalText([]byte(s))
	if err != nil {
		return 0, err
	}
	return severity(level), nil
}

// severity maps a slog level onto the OpenTelemetry severity range the
// same way the otelslog bridge does.
func severity(level slog.Level) log.Severity {
	return log.Severity(level + 9)
}

func (f *levelFilter) OnEmit(ctx context.Context, record *sdklog.Record) error {
	if !f.allows(record.InstrumentationScope().Name, record.Severity()) {
		return nil
	}
	return f.Processor.OnEmit(ctx, record)
}

func (f *levelFilter) allows(logger string, sev log.Severity) bool {
	for _, rule := range f.rules {
		if logger == rule.logger || strings.HasPrefix(logger, rule.logger+"/") {
			return sev >= rule.min
		}
	}
	return true
}
