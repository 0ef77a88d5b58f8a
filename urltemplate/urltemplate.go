// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package urltemplate expands RFC 6570 URL templates.
package urltemplate

import (
	"fmt"
	"reflect"
	"slices"
	"strings"

	"github.com/yosida95/uritemplate/v3"
)

// MissingTemplateVariableError is returned when a template references
// variables which were not given a value.
type MissingTemplateVariableError struct {
	Template  string
	Variables []string
}

func (e MissingTemplateVariableError) Error() string {
	return fmt.Sprintf("missing value for url template variable(s) %s in: %s", strings.Join(e.Variables, ", "), e.Template)
}

// InvalidTemplateError is returned when a template can not be parsed.
type InvalidTemplateError struct {
	Template string
	Cause    error
}

func (e InvalidTemplateError) Error() string {
	return fmt.Sprintf("invalid url template %q: %v", e.Template, e.Cause)
}

func (e InvalidTemplateError) Unwrap() error {
	return e.Cause
}

// Variables returns the names of all variables referenced by the template.
func Variables(template string) ([]string, error) {
	tmpl, err := uritemplate.New(template)
	if err != nil {
		return nil, InvalidTemplateError{Template: template, Cause: err}
	}
	return tmpl.Varnames(), nil
}

// Expand substitutes the variables referenced by template with their values
// in vars. Values in vars which the template does not reference are ignored.
//
// Every variable referenced by the template must be present in vars, otherwise
// a [MissingTemplateVariableError] listing all missing variables is returned.
//
// Slice values are expanded as lists, all other values are formatted with [fmt.Sprint].
func Expand(template string, vars map[string]any) (string, error) {
	tmpl, err := uritemplate.New(template)
	if err != nil {
		return "", InvalidTemplateError{Template: template, Cause: err}
	}

	var missing []string
	values := make(uritemplate.Values, len(vars))
	for _, name := range tmpl.Varnames() {
		v, ok := vars[name]
		if !ok || v == nil {
			if !slices.Contains(missing, name) {
				missing = append(missing, name)
			}
			continue
		}
		values.Set(name, templateValue(v))
	}
	if len(missing) > 0 {
		return "", MissingTemplateVariableError{
			Template:  template,
			Variables: missing,
		}
	}

	return tmpl.Expand(values)
}

func templateValue(v any) uritemplate.Value {
	switch x := v.(type) {
	case string:
		return uritemplate.String(x)
	case []string:
		return uritemplate.List(x...)
	case []byte:
		return uritemplate.String(string(x))
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return uritemplate.String(fmt.Sprint(v))
	}
	ss := make([]string, rv.Len())
	for i := range ss {
		ss[i] = fmt.Sprint(rv.Index(i).Interface())
	}
	return uritemplate.List(ss...)
}
