// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package validators

import (
	"context"
	"path"
	"strings"
)

const (
	// FieldDocument additionally requires the path to name a .json document.
	FieldDocument = "document"
	FieldSegments = "segments"
)

// PathValidator checks slash separated store paths.
type PathValidator struct {
}

func NewPathValidator() Validator {
	return &PathValidator{}
}

func (v *PathValidator) Validate(ctx context.Context, obj any, fields ...string) error {
	var p string
	switch value := obj.(type) {
	case string:
		p = value
	case *string:
		p = *value
	default:
		return ErrUnsupportedType
	}

	if strings.Trim(p, "/") == "" {
		return ErrEmptyPath
	}
	if len(fields) == 0 {
		fields = []string{FieldSegments}
	}

	for _, f := range fields {
		switch f {
		case FieldSegments:
			if strings.ContainsAny(p, "\\\x00") {
				return ErrInvalidPathChar
			}
			for _, segment := range strings.Split(p, "/") {
				if segment == ".." || segment == "." {
					return ErrPathTraversal
				}
			}
		case FieldDocument:
			if path.Ext(p) != ".json" || path.Base(p) == ".json" {
				return ErrNotDocumentPath
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}
