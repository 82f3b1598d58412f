// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"strings"
	"time"

	mapset "github.com/deckarep/golang-set/v2"
)

// Content is the constraint satisfied by every synchronized item body.
//
// NaturalKey returns the non-id field used to detect duplicates; an empty key
// means the type has no natural key and never collides. Equal is the single
// canonical content comparison shared by reconciliation and conflict
// resolution.
type Content[C any] interface {
	NaturalKey() string
	Equal(other C) bool
}

// LinkRelated is implemented by content attached to a link.
type LinkRelated interface {
	RelatedLink() string
}

// Record is one local or remote item: stable id, timestamps, content and
// reconciliation state.
type Record[C Content[C]] struct {
	ID      string
	Created time.Time
	Updated time.Time
	Content C
	State   SyncState
}

// Tags is an unordered set of tag names. Comparison ignores order and
// repeated names and is case-sensitive.
type Tags []string

// Equal compares two tag lists as sets.
func (t Tags) Equal(other Tags) bool {
	return mapset.NewSet[string](t...).Equal(mapset.NewSet[string](other...))
}

// Normalize trims names and drops empty and repeated ones, keeping the first
// occurrence order.
func (t Tags) Normalize() Tags {
	seen := mapset.NewThreadUnsafeSet[string]()
	out := make(Tags, 0, len(t))
	for _, name := range t {
		name = strings.TrimSpace(name)
		if name == "" || !seen.Add(name) {
			continue
		}
		out = append(out, name)
	}
	return out
}

// Link is a bookmarked URL.
type Link struct {
	URL      string
	Name     string
	Disabled bool
	Tags     Tags
}

// NaturalKey implements Content. Two links pointing to the same URL are the
// same conceptual item.
func (l Link) NaturalKey() string { return l.URL }

// Equal implements Content.
func (l Link) Equal(other Link) bool {
	return l.URL == other.URL &&
		l.Name == other.Name &&
		l.Disabled == other.Disabled &&
		l.Tags.Equal(other.Tags)
}

// Note is free text, optionally attached to a link.
type Note struct {
	Text   string
	LinkID string
	Tags   Tags
}

// NaturalKey implements Content. Notes have no natural key.
func (n Note) NaturalKey() string { return "" }

// RelatedLink returns the id of the link the note is attached to.
func (n Note) RelatedLink() string { return n.LinkID }

// Equal implements Content.
func (n Note) Equal(other Note) bool {
	return n.Text == other.Text &&
		n.LinkID == other.LinkID &&
		n.Tags.Equal(other.Tags)
}

// Favorite is a saved tag filter.
type Favorite struct {
	Name    string
	AndGate bool
	Tags    Tags
}

// NaturalKey implements Content.
func (f Favorite) NaturalKey() string { return f.Name }

// Equal implements Content.
func (f Favorite) Equal(other Favorite) bool {
	return f.Name == other.Name &&
		f.AndGate == other.AndGate &&
		f.Tags.Equal(other.Tags)
}
