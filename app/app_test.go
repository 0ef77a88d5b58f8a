// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package app

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun(t *testing.T) {
	t.Run("will not run the runtime", func(t *testing.T) {
		t.Run("if the builder fails", func(t *testing.T) {
			buildErr := errors.New("failed to fetch discovery document")

			builder := BuilderFunc[Runtime](func(ctx context.Context) (Runtime, error) {
				return nil, buildErr
			})

			err := Run(context.Background(), builder)
			require.ErrorIs(t, err, buildErr)
		})
	})

	t.Run("will return the runtime error", func(t *testing.T) {
		t.Run("if the runtime fails", func(t *testing.T) {
			runErr := errors.New("unexpected response")

			builder := BuilderFunc[RuntimeFunc](func(ctx context.Context) (RuntimeFunc, error) {
				return func(ctx context.Context) error {
					return runErr
				}, nil
			})

			err := Run(context.Background(), builder)
			require.ErrorIs(t, err, runErr)
		})
	})

	t.Run("will pass a live context to the runtime", func(t *testing.T) {
		t.Run("if no signal has been received", func(t *testing.T) {
			var ctxErr error
			builder := BuilderFunc[RuntimeFunc](func(ctx context.Context) (RuntimeFunc, error) {
				return func(ctx context.Context) error {
					ctxErr = ctx.Err()
					return nil
				}, nil
			})

			err := Run(context.Background(), builder)
			require.NoError(t, err)
			assert.NoError(t, ctxErr)
		})
	})
}

func TestLogError(t *testing.T) {
	t.Run("will not panic", func(t *testing.T) {
		t.Run("if there is no error", func(t *testing.T) {
			assert.NotPanics(t, func() {
				LogError(context.Background(), nil)
			})
		})
	})
}
