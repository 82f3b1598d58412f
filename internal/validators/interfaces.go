// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package validators checks user supplied items before they enter the local
// store and document paths before they reach the server file store.
//
// A Validator accepts a value and optionally a list of field names; with no
// fields every rule of the value's type is applied.
package validators

import "context"

// Validator validates arbitrary input values.
type Validator interface {

	// Validate validates the provided input and optionally
	// restricts validation to specific named fields.
	Validate(context.Context, any, ...string) error
}
