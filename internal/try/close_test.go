// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package try

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

type closerFunc func() error

func (f closerFunc) Close() error {
	return f()
}

func TestClose(t *testing.T) {
	t.Run("will leave err untouched", func(t *testing.T) {
		t.Run("if close succeeds", func(t *testing.T) {
			var err error
			Close(&err, closerFunc(func() error { return nil }))
			assert.NoError(t, err)
		})
	})

	t.Run("will set err", func(t *testing.T) {
		t.Run("if close fails and err is nil", func(t *testing.T) {
			closeErr := errors.New("close failed")

			var err error
			Close(&err, closerFunc(func() error { return closeErr }))
			assert.Equal(t, closeErr, err)
		})
	})

	t.Run("will join errors", func(t *testing.T) {
		t.Run("if close fails and err is already set", func(t *testing.T) {
			readErr := errors.New("read failed")
			closeErr := errors.New("close failed")

			err := readErr
			Close(&err, closerFunc(func() error { return closeErr }))
			assert.ErrorIs(t, err, readErr)
			assert.ErrorIs(t, err, closeErr)
		})
	})
}
