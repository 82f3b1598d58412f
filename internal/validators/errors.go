// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package validators

import "errors"

var (
	ErrUnsupportedType = errors.New("unsupported type for validation")
	ErrUnknownField    = errors.New("unknown field for validation")

	ErrEmptyURL       = errors.New("link url is required")
	ErrInvalidURL     = errors.New("invalid link url")
	ErrEmptyName      = errors.New("name is required")
	ErrEmptyText      = errors.New("note text is required")
	ErrEmptyTags      = errors.New("at least one tag is required")
	ErrInvalidTagName = errors.New("invalid tag name")

	ErrEmptyPath       = errors.New("path is required")
	ErrPathTraversal   = errors.New("path must not leave the store root")
	ErrInvalidPathChar = errors.New("path contains invalid characters")
	ErrNotDocumentPath = errors.New("path does not name a document")
)
