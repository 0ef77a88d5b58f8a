// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOr(t *testing.T) {
	t.Run("will return the first set value", func(t *testing.T) {
		t.Run("if an earlier reader has no value", func(t *testing.T) {
			v, err := Read(context.Background(), Or(EmptyReader[string](), ReaderOf("b"), ReaderOf("c")))
			require.NoError(t, err)
			assert.Equal(t, "b", v)
		})
	})

	t.Run("will return an error", func(t *testing.T) {
		t.Run("if a reader fails before a value is found", func(t *testing.T) {
			readErr := errors.New("failed to read")
			failing := ReaderFunc[string](func(ctx context.Context) (Value[string], error) {
				return Value[string]{}, readErr
			})

			_, err := Read(context.Background(), Or(failing, ReaderOf("b")))
			assert.ErrorIs(t, err, readErr)
		})
	})
}

func TestEnv(t *testing.T) {
	t.Run("will be unset", func(t *testing.T) {
		t.Run("if the variable is not present", func(t *testing.T) {
			v, err := Env("ARMADA_CONFIG_TEST_NOT_PRESENT").Read(context.Background())
			require.NoError(t, err)

			_, ok := v.Value()
			assert.False(t, ok)
		})
	})

	t.Run("will be set", func(t *testing.T) {
		t.Run("if the variable is present", func(t *testing.T) {
			t.Setenv("ARMADA_CONFIG_TEST_PRESENT", "")

			v, err := Env("ARMADA_CONFIG_TEST_PRESENT").Read(context.Background())
			require.NoError(t, err)

			s, ok := v.Value()
			assert.True(t, ok)
			assert.Empty(t, s)
		})
	})
}

func TestDurationFromString(t *testing.T) {
	t.Run("will return a ParseError", func(t *testing.T) {
		t.Run("if the value is not a duration", func(t *testing.T) {
			_, err := Read(context.Background(), DurationFromString(ReaderOf("soon")))

			var perr ParseError
			require.ErrorAs(t, err, &perr)
			assert.Equal(t, "soon", perr.Value)
			assert.Equal(t, "duration", perr.Type)
		})
	})

	t.Run("will fall back to the default", func(t *testing.T) {
		t.Run("if the value is unset", func(t *testing.T) {
			v := MustOr(context.Background(), time.Second, DurationFromString(EmptyReader[string]()))
			assert.Equal(t, time.Second, v)
		})
	})
}

func TestBoolFromString(t *testing.T) {
	t.Run("will parse the value", func(t *testing.T) {
		t.Run("if it is a valid bool", func(t *testing.T) {
			v, err := Read(context.Background(), BoolFromString(ReaderOf("true")))
			require.NoError(t, err)
			assert.True(t, v)
		})
	})
}

func TestYAMLFile(t *testing.T) {
	type fileConfig struct {
		OTel OTel `yaml:"otel"`
	}

	t.Run("will decode the file", func(t *testing.T) {
		t.Run("if the path points to a YAML document", func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			err := os.WriteFile(path, []byte(`otel:
  resource:
    service_name: fleet-cli
  trace:
    sampling:
      ratio: 0.5
  log:
    levels:
      github.com/z5labs/armada/client: debug
`), 0o600)
			require.NoError(t, err)

			cfg, err := Read(context.Background(), YAMLFile[fileConfig](ReaderOf(path)))
			require.NoError(t, err)
			assert.Equal(t, "fleet-cli", cfg.OTel.Resource.ServiceName)
			assert.Equal(t, 0.5, cfg.OTel.Trace.Sampling.Ratio)
			assert.Equal(t, "debug", cfg.OTel.Log.Levels["github.com/z5labs/armada/client"])
		})
	})

	t.Run("will be unset", func(t *testing.T) {
		t.Run("if the path is empty", func(t *testing.T) {
			v, err := YAMLFile[fileConfig](ReaderOf("")).Read(context.Background())
			require.NoError(t, err)

			_, ok := v.Value()
			assert.False(t, ok)
		})
	})

	t.Run("will return an error", func(t *testing.T) {
		t.Run("if the file does not exist", func(t *testing.T) {
			_, err := Read(context.Background(), YAMLFile[fileConfig](ReaderOf(filepath.Join(t.TempDir(), "missing.yaml"))))
			assert.ErrorIs(t, err, os.ErrNotExist)
		})
	})
}
