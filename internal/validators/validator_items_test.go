// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package validators

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-link-keeper/models"
)

func TestNewItemValidator(t *testing.T) {
	v := NewItemValidator()
	require.NotNil(t, v)
}

func TestItemValidator_Link(t *testing.T) {
	tests := []struct {
		name    string
		link    models.Link
		fields  []string
		wantErr error
	}{
		{name: "valid", link: models.Link{URL: "https://go.dev/doc", Tags: models.Tags{"go"}}},
		{name: "no name is fine", link: models.Link{URL: "https://go.dev"}},
		{name: "empty url", link: models.Link{URL: "  "}, wantErr: ErrEmptyURL},
		{name: "relative url", link: models.Link{URL: "go.dev/doc"}, wantErr: ErrInvalidURL},
		{name: "bad tag", link: models.Link{URL: "https://go.dev", Tags: models.Tags{"a,b"}}, wantErr: ErrInvalidTagName},
		{name: "name requested", link: models.Link{URL: "https://go.dev"}, fields: []string{FieldName}, wantErr: ErrEmptyName},
		{name: "unknown field", link: models.Link{URL: "https://go.dev"}, fields: []string{"color"}, wantErr: ErrUnknownField},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewItemValidator().Validate(context.Background(), tt.link, tt.fields...)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestItemValidator_Pointers(t *testing.T) {
	v := NewItemValidator()
	assert.NoError(t, v.Validate(context.Background(), &models.Link{URL: "https://go.dev"}))
	assert.ErrorIs(t, v.Validate(context.Background(), &models.Note{}), ErrEmptyText)
	assert.ErrorIs(t, v.Validate(context.Background(), &models.Favorite{Name: "x"}), ErrEmptyTags)
}

func TestItemValidator_Note(t *testing.T) {
	v := NewItemValidator()
	assert.NoError(t, v.Validate(context.Background(), models.Note{Text: "read later"}))
	assert.ErrorIs(t, v.Validate(context.Background(), models.Note{Text: "\n"}), ErrEmptyText)
}

func TestItemValidator_Favorite(t *testing.T) {
	v := NewItemValidator()
	assert.NoError(t, v.Validate(context.Background(), models.Favorite{Name: "golang", Tags: models.Tags{"go"}}))
	assert.ErrorIs(t, v.Validate(context.Background(), models.Favorite{Tags: models.Tags{"go"}}), ErrEmptyName)
	assert.ErrorIs(t, v.Validate(context.Background(), models.Favorite{Name: "x", Tags: models.Tags{" ", ""}}), ErrEmptyTags)
}

func TestItemValidator_UnsupportedType(t *testing.T) {
	assert.ErrorIs(t, NewItemValidator().Validate(context.Background(), 42), ErrUnsupportedType)
}
