// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package binding

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/schema"
)

// StructTag is the struct tag used by [StructArgs] to name parameters.
const StructTag = "param"

var (
	validate      = validator.New()
	schemaEncoder = schema.NewEncoder()
)

func init() {
	schemaEncoder.SetAliasTag(StructTag)
}

// InvalidArgsError is returned by [StructArgs] when the given struct
// fails validation.
type InvalidArgsError struct {
	Cause error
}

func (e InvalidArgsError) Error() string {
	return fmt.Sprintf("invalid arguments: %v", e.Cause)
}

func (e InvalidArgsError) Unwrap() error {
	return e.Cause
}

// StructArgs converts a tagged struct into named [Args].
//
// The struct is first validated using its `validate` tags and then encoded
// using its `param` tags. Fields tagged with omitempty are left unbound
// when they hold their zero value.
//
//	type ListInstanceGroups struct {
//	    Project string `param:"project" validate:"required"`
//	    Zone    string `param:"zone" validate:"required"`
//	    Filter  string `param:"filter,omitempty"`
//	}
func StructArgs(v any) (Args, error) {
	err := validate.Struct(v)
	if err != nil {
		return Args{}, InvalidArgsError{Cause: err}
	}

	values := make(map[string][]string)
	err = schemaEncoder.Encode(v, values)
	if err != nil {
		return Args{}, err
	}

	named := make(map[string]any, len(values))
	for name, vs := range values {
		switch len(vs) {
		case 0:
		case 1:
			named[name] = vs[0]
		default:
			named[name] = vs
		}
	}
	return Args{Named: named}, nil
}
