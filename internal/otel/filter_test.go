// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package otel

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/log"
	"go.opentelemetry.io/otel/sdk/instrumentation"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	"go.opentelemetry.io/otel/sdk/log/logtest"
)

type recordingProcessor struct {
	loggers  []string
	shutdown bool
	flushed  bool
}

func (p *recordingProcessor) OnEmit(ctx context.Context, record *sdklog.Record) error {
	p.loggers = append(p.loggers, record.InstrumentationScope().Name)
	return nil
}

func (p *recordingProcessor) Shutdown(ctx context.Context) error {
	p.shutdown = true
	return nil
}

func (p *recordingProcessor) ForceFlush(ctx context.Context) error {
	p.flushed = true
	return nil
}

func emit(t *testing.T, f *levelFilter, logger string, sev log.Severity) {
	t.Helper()

	factory := logtest.RecordFactory{
		Severity:             sev,
		InstrumentationScope: &instrumentation.Scope{Name: logger},
	}
	record := factory.NewRecord()
	require.NoError(t, f.OnEmit(context.Background(), &record))
}

func TestParseLevel(t *testing.T) {
	testCases := []struct {
		Level    string
		Severity log.Severity
	}{
		{Level: "debug", Severity: log.SeverityDebug},
		{Level: "INFO", Severity: log.SeverityInfo},
		{Level: "warn", Severity: log.SeverityWarn},
		{Level: "Warning", Severity: log.SeverityWarn},
		{Level: "error", Severity: log.SeverityError},
		{Level: "info+2", Severity: log.SeverityInfo3},
	}

	for _, testCase := range testCases {
		t.Run("will parse "+testCase.Level, func(t *testing.T) {
			sev, err := parseLevel(testCase.Level)
			require.NoError(t, err)
			assert.Equal(t, testCase.Severity, sev)
		})
	}

	t.Run("will return an error", func(t *testing.T) {
		t.Run("if the level is not a slog level name", func(t *testing.T) {
			_, err := parseLevel("verbose")
			require.Error(t, err)
		})
	})
}

func TestNewLevelFilter(t *testing.T) {
	t.Run("will return an UnknownLogLevelError", func(t *testing.T) {
		t.Run("if a configured level can not be parsed", func(t *testing.T) {
			_, err := newLevelFilter(&recordingProcessor{}, map[string]string{
				"github.com/z5labs/armada/client": "loud",
			})

			var uerr UnknownLogLevelError
			require.ErrorAs(t, err, &uerr)
			assert.Equal(t, "github.com/z5labs/armada/client", uerr.Logger)
			assert.Equal(t, "loud", uerr.Level)
			assert.NotEmpty(t, uerr.Error())
		})
	})
}

func TestLevelFilter_OnEmit(t *testing.T) {
	t.Run("will drop records below the minimum level", func(t *testing.T) {
		t.Run("if the logger has a rule", func(t *testing.T) {
			next := &recordingProcessor{}
			f, err := newLevelFilter(next, map[string]string{
				"github.com/z5labs/armada/client": "warn",
			})
			require.NoError(t, err)

			emit(t, f, "github.com/z5labs/armada/client", log.SeverityInfo)
			emit(t, f, "github.com/z5labs/armada/client", log.SeverityWarn)
			emit(t, f, "github.com/z5labs/armada/client", log.SeverityError)

			assert.Len(t, next.loggers, 2)
		})
	})

	t.Run("will apply a rule to nested loggers", func(t *testing.T) {
		t.Run("if the logger is below the rule in the package path", func(t *testing.T) {
			next := &recordingProcessor{}
			f, err := newLevelFilter(next, map[string]string{
				"github.com/z5labs/armada": "error",
			})
			require.NoError(t, err)

			emit(t, f, "github.com/z5labs/armada/catalog", log.SeverityWarn)

			assert.Empty(t, next.loggers)
		})
	})

	t.Run("will not treat a shared name prefix as nesting", func(t *testing.T) {
		t.Run("if the logger only starts with the rule's name", func(t *testing.T) {
			next := &recordingProcessor{}
			f, err := newLevelFilter(next, map[string]string{
				"github.com/z5labs/armada": "error",
			})
			require.NoError(t, err)

			emit(t, f, "github.com/z5labs/armadactl", log.SeverityDebug)

			assert.Equal(t, []string{"github.com/z5labs/armadactl"}, next.loggers)
		})
	})

	t.Run("will prefer the most specific rule", func(t *testing.T) {
		t.Run("if several rules cover the logger", func(t *testing.T) {
			next := &recordingProcessor{}
			f, err := newLevelFilter(next, map[string]string{
				"github.com/z5labs/armada":         "error",
				"github.com/z5labs/armada/mock":    "debug",
				"github.com/z5labs/armada/mock/v2": "error",
			})
			require.NoError(t, err)

			emit(t, f, "github.com/z5labs/armada/mock", log.SeverityDebug)
			emit(t, f, "github.com/z5labs/armada/client", log.SeverityInfo)

			assert.Equal(t, []string{"github.com/z5labs/armada/mock"}, next.loggers)
		})
	})

	t.Run("will pass every record through", func(t *testing.T) {
		t.Run("if no rules are configured", func(t *testing.T) {
			next := &recordingProcessor{}
			f, err := newLevelFilter(next, nil)
			require.NoError(t, err)

			emit(t, f, "github.com/z5labs/armada/client", log.SeverityTrace)

			assert.Len(t, next.loggers, 1)
		})
	})
}

func TestLevelFilter_Shutdown(t *testing.T) {
	t.Run("will shut down and flush the next processor", func(t *testing.T) {
		t.Run("if the filter is shut down after a flush", func(t *testing.T) {
			next := &recordingProcessor{}
			f, err := newLevelFilter(next, nil)
			require.NoError(t, err)

			require.NoError(t, f.ForceFlush(context.Background()))
			require.NoError(t, f.Shutdown(context.Background()))

			assert.True(t, next.flushed)
			assert.True(t, next.shutdown)
		})
	})
}
