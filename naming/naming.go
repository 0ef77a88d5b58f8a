// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package naming converts the mixed case identifiers found on the wire into
// the identifiers exposed by armada.
package naming

import (
	"strings"
	"unicode"
)

// Normalize converts a mixed case or CamelCase identifier into lowercase words
// joined by underscores.
//
// A word boundary is placed wherever a lowercase letter or digit is followed by
// an uppercase letter, or an uppercase letter is followed by an uppercase letter
// which itself starts a lowercase run. This keeps acronyms together:
//
//	instanceGroup  -> instance_group
//	XMLHttpRequest -> xml_http_request
//	zone           -> zone
//
// Normalize is idempotent.
func Normalize(name string) string {
	rs := []rune(name)

	var sb strings.Builder
	sb.Grow(len(name) + 4)
	for i, r := range rs {
		if i > 0 && unicode.IsUpper(r) && boundary(rs, i) {
			sb.WriteByte('_')
		}
		sb.WriteRune(unicode.ToLower(r))
	}
	return sb.String()
}

func boundary(rs []rune, i int) bool {
	prev := rs[i-1]
	if unicode.IsLower(prev) || unicode.IsDigit(prev) {
		return true
	}
	if !unicode.IsUpper(prev) {
		return false
	}
	return i+1 < len(rs) && unicode.IsLower(rs[i+1])
}

var initialisms = map[string]string{
	"api":  "API",
	"http": "HTTP",
	"id":   "ID",
	"ip":   "IP",
	"json": "JSON",
	"uri":  "URI",
	"url":  "URL",
	"uuid": "UUID",
	"xml":  "XML",
}

// Exported converts a wire identifier into an exported Go identifier.
// Common initialisms are kept upper case.
//
//	instanceGroups -> InstanceGroups
//	projectId      -> ProjectID
func Exported(name string) string {
	words := strings.FieldsFunc(Normalize(name), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	var sb strings.Builder
	for _, w := range words {
		if up, ok := initialisms[w]; ok {
			sb.WriteString(up)
			continue
		}
		rs := []rune(w)
		rs[0] = unicode.ToUpper(rs[0])
		sb.WriteString(string(rs))
	}

	s := sb.String()
	if s == "" {
		return "X"
	}
	if unicode.IsDigit([]rune(s)[0]) {
		return "X" + s
	}
	return s
}
