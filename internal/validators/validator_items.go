// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package validators

import (
	"context"
	"net/url"
	"strings"

	"github.com/MKhiriev/go-link-keeper/models"
)

const (
	FieldURL  = "url"
	FieldName = "name"
	FieldText = "text"
	FieldTags = "tags"
)

type ItemValidator struct {
}

func NewItemValidator() Validator {
	return &ItemValidator{}
}

func (v *ItemValidator) Validate(ctx context.Context, obj any, fields ...string) error {
	switch value := obj.(type) {
	case models.Link:
		return v.validateLink(value, fields...)
	case *models.Link:
		return v.validateLink(*value, fields...)

	case models.Note:
		return v.validateNote(value, fields...)
	case *models.Note:
		return v.validateNote(*value, fields...)

	case models.Favorite:
		return v.validateFavorite(value, fields...)
	case *models.Favorite:
		return v.validateFavorite(*value, fields...)

	default:
		return ErrUnsupportedType
	}
}

func (v *ItemValidator) validateLink(link models.Link, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldURL, FieldTags}
	}

	for _, f := range fields {
		switch f {
		case FieldURL:
			if strings.TrimSpace(link.URL) == "" {
				return ErrEmptyURL
			}
			u, err := url.Parse(link.URL)
			if err != nil || u.Scheme == "" || u.Host == "" {
				return ErrInvalidURL
			}
		case FieldName:
			if strings.TrimSpace(link.Name) == "" {
				return ErrEmptyName
			}
		case FieldTags:
			if err := validateTags(link.Tags, false); err != nil {
				return err
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

func (v *ItemValidator) validateNote(note models.Note, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldText, FieldTags}
	}

	for _, f := range fields {
		switch f {
		case FieldText:
			if strings.TrimSpace(note.Text) == "" {
				return ErrEmptyText
			}
		case FieldTags:
			if err := validateTags(note.Tags, false); err != nil {
				return err
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

// A favorite is a saved tag filter, so it needs at least one tag.
func (v *ItemValidator) validateFavorite(favorite models.Favorite, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldName, FieldTags}
	}

	for _, f := range fields {
		switch f {
		case FieldName:
			if strings.TrimSpace(favorite.Name) == "" {
				return ErrEmptyName
			}
		case FieldTags:
			if err := validateTags(favorite.Tags, true); err != nil {
				return err
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

func validateTags(tags models.Tags, required bool) error {
	if required && len(tags.Normalize()) == 0 {
		return ErrEmptyTags
	}
	for _, tag := range tags {
		if strings.ContainsAny(tag, ",\n\r\t") {
			return ErrInvalidTagName
		}
	}
	return nil
}
