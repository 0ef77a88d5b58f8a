// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package client

import "fmt"

// ResourceNotFoundError is returned when invoking an operation on a
// resource the discovery document does not describe.
type ResourceNotFoundError struct {
	Resource string
}

func (e ResourceNotFoundError) Error() string {
	return fmt.Sprintf("resource not found: %s", e.Resource)
}

// OperationNotFoundError is returned when invoking an operation
// the resource does not expose.
type OperationNotFoundError struct {
	Resource  string
	Operation string
}

func (e OperationNotFoundError) Error() string {
	return fmt.Sprintf("operation not found: %s.%s", e.Resource, e.Operation)
}
