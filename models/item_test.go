// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTags_Equal(t *testing.T) {
	tests := []struct {
		name string
		a, b Tags
		want bool
	}{
		{name: "both empty", a: nil, b: Tags{}, want: true},
		{name: "same order", a: Tags{"go", "sync"}, b: Tags{"go", "sync"}, want: true},
		{name: "order ignored", a: Tags{"go", "sync"}, b: Tags{"sync", "go"}, want: true},
		{name: "repeats ignored", a: Tags{"go", "go"}, b: Tags{"go"}, want: true},
		{name: "case sensitive", a: Tags{"Go"}, b: Tags{"go"}, want: false},
		{name: "missing tag", a: Tags{"go", "sync"}, b: Tags{"go"}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.a.Equal(tt.b))
			assert.Equal(t, tt.want, tt.b.Equal(tt.a))
		})
	}
}

func TestTags_Normalize(t *testing.T) {
	got := Tags{" go ", "", "sync", "go", "  "}.Normalize()
	assert.Equal(t, Tags{"go", "sync"}, got)
}

func TestFavorite_Equal(t *testing.T) {
	base := Favorite{Name: "reading", AndGate: true, Tags: Tags{"a", "b"}}

	assert.True(t, base.Equal(Favorite{Name: "reading", AndGate: true, Tags: Tags{"b", "a"}}))
	assert.False(t, base.Equal(Favorite{Name: "reading", AndGate: false, Tags: Tags{"a", "b"}}))
	assert.False(t, base.Equal(Favorite{Name: "Reading", AndGate: true, Tags: Tags{"a", "b"}}))
	assert.Equal(t, "reading", base.NaturalKey())
}

func TestLink_Equal(t *testing.T) {
	base := Link{URL: "https://go.dev", Name: "Go", Tags: Tags{"lang"}}

	assert.True(t, base.Equal(Link{URL: "https://go.dev", Name: "Go", Tags: Tags{"lang"}}))
	assert.False(t, base.Equal(Link{URL: "https://go.dev", Name: "Go", Disabled: true, Tags: Tags{"lang"}}))
	assert.False(t, base.Equal(Link{URL: "https://go.dev", Name: "Go", Tags: Tags{"lang", "web"}}))
	assert.Equal(t, "https://go.dev", base.NaturalKey())
}

func TestNote_EqualAndKey(t *testing.T) {
	base := Note{Text: "read later", LinkID: "l1", Tags: Tags{"x"}}

	assert.True(t, base.Equal(Note{Text: "read later", LinkID: "l1", Tags: Tags{"x"}}))
	assert.False(t, base.Equal(Note{Text: "read later", Tags: Tags{"x"}}))
	assert.Empty(t, base.NaturalKey())
}
