// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package config provides composable readers for configuration values.
//
// A [Reader] produces a [Value] which may or may not be set. Readers are
// combined to express precedence, e.g. an environment variable falling back
// to a value from a YAML file falling back to a default.
package config

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/z5labs/armada/internal/try"

	"gopkg.in/yaml.v3"
)

// Value is a possibly unset configuration value.
type Value[T any] struct {
	v   T
	set bool
}

// ValueOf returns a set [Value] holding v.
func ValueOf[T any](v T) Value[T] {
	return Value[T]{v: v, set: true}
}

// Value returns the held value and whether it was set.
func (v Value[T]) Value() (T, bool) {
	return v.v, v.set
}

// Reader reads a single configuration value.
type Reader[T any] interface {
	Read(context.Context) (Value[T], error)
}

// ReaderFunc is a function implementing [Reader].
type ReaderFunc[T any] func(context.Context) (Value[T], error)

// Read implements the [Reader] interface.
func (f ReaderFunc[T]) Read(ctx context.Context) (Value[T], error) {
	return f(ctx)
}

// Read reads r and returns its value. An unset value is returned
// as the zero value of T.
func Read[T any](ctx context.Context, r Reader[T]) (T, error) {
	v, err := r.Read(ctx)
	if err != nil {
		var zero T
		return zero, err
	}
	x, _ := v.Value()
	return x, nil
}

// MustOr reads r and returns or if r fails or its value is unset.
func MustOr[T any](ctx context.Context, or T, r Reader[T]) T {
	v, err := r.Read(ctx)
	if err != nil {
		return or
	}
	x, ok := v.Value()
	if !ok {
		return or
	}
	return x
}

// EmptyReader returns a [Reader] which never has a value.
func EmptyReader[T any]() Reader[T] {
	return ReaderFunc[T](func(ctx context.Context) (Value[T], error) {
		return Value[T]{}, nil
	})
}

// ReaderOf returns a [Reader] which always has the value v.
func ReaderOf[T any](v T) Reader[T] {
	return ReaderFunc[T](func(ctx context.Context) (Value[T], error) {
		return ValueOf(v), nil
	})
}

// Env reads the environment variable name. The value is unset
// when the variable is not present.
func Env(name string) Reader[string] {
	return ReaderFunc[string](func(ctx context.Context) (Value[string], error) {
		v, ok := os.LookupEnv(name)
		if !ok {
			return Value[string]{}, nil
		}
		return ValueOf(v), nil
	})
}

// Default falls back to v when r has no value.
func Default[T any](v T, r Reader[T]) Reader[T] {
	return Or(r, ReaderOf(v))
}

// Or returns the value of the first reader which has one.
func Or[T any](rs ...Reader[T]) Reader[T] {
	return ReaderFunc[T](func(ctx context.Context) (Value[T], error) {
		for _, r := range rs {
			v, err := r.Read(ctx)
			if err != nil {
				return Value[T]{}, err
			}
			if _, ok := v.Value(); ok {
				return v, nil
			}
		}
		return Value[T]{}, nil
	})
}

// Map converts the value of r with f. Unset values are not converted.
func Map[A, B any](r Reader[A], f func(context.Context, A) (B, error)) Reader[B] {
	return ReaderFunc[B](func(ctx context.Context) (Value[B], error) {
		v, err := r.Read(ctx)
		if err != nil {
			return Value[B]{}, err
		}
		a, ok := v.Value()
		if !ok {
			return Value[B]{}, nil
		}
		b, err := f(ctx, a)
		if err != nil {
			return Value[B]{}, err
		}
		return ValueOf(b), nil
	})
}

// ParseError is returned when a string value can not be converted.
type ParseError struct {
	Value string
	Type  string
	Cause error
}

func (e ParseError) Error() string {
	return fmt.Sprintf("failed to parse %q as %s: %v", e.Value, e.Type, e.Cause)
}

func (e ParseError) Unwrap() error {
	return e.Cause
}

func parse[T any](typ string, f func(string) (T, error)) func(context.Context, string) (T, error) {
	return func(_ context.Context, s string) (T, error) {
		v, err := f(s)
		if err != nil {
			return v, ParseError{Value: s, Type: typ, Cause: err}
		}
		return v, nil
	}
}

// BoolFromString parses the value of r with [strconv.ParseBool].
func BoolFromString(r Reader[string]) Reader[bool] {
	return Map(r, parse("bool", strconv.ParseBool))
}

// Int64FromString parses the value of r as a base 10 integer.
func Int64FromString(r Reader[string]) Reader[int64] {
	return Map(r, parse("int64", func(s string) (int64, error) {
		return strconv.ParseInt(s, 10, 64)
	}))
}

// Float64FromString parses the value of r as a float.
func Float64FromString(r Reader[string]) Reader[float64] {
	return Map(r, parse("float64", func(s string) (float64, error) {
		return strconv.ParseFloat(s, 64)
	}))
}

// DurationFromString parses the value of r with [time.ParseDuration].
func DurationFromString(r Reader[string]) Reader[time.Duration] {
	return Map(r, parse("duration", time.ParseDuration))
}

// UnmarshalJSON decodes the JSON read from r into a T.
func UnmarshalJSON[T any, R io.Reader](r Reader[R]) Reader[T] {
	return Map(r, func(_ context.Context, src R) (T, error) {
		var v T
		err := json.NewDecoder(src).Decode(&v)
		return v, err
	})
}

// UnmarshalYAML decodes the YAML read from r into a T.
func UnmarshalYAML[T any, R io.Reader](r Reader[R]) Reader[T] {
	return Map(r, func(_ context.Context, src R) (T, error) {
		var v T
		err := yaml.NewDecoder(src).Decode(&v)
		if err == io.EOF {
			return v, nil
		}
		return v, err
	})
}

// YAMLFile decodes the YAML file at the path read from r into a T.
// The value is unset when r has no value or an empty one.
func YAMLFile[T any](r Reader[string]) Reader[T] {
	return ReaderFunc[T](func(ctx context.Context) (v Value[T], err error) {
		path, err := Read(ctx, r)
		if err != nil || path == "" {
			return Value[T]{}, err
		}

		f, err := os.Open(path)
		if err != nil {
			return Value[T]{}, err
		}
		defer try.Close(&err, f)

		return UnmarshalYAML[T](ReaderOf(f)).Read(ctx)
	})
}
