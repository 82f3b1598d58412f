// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"fmt"
	"time"

	"github.com/goccy/go-json"
)

// DocumentVersion is the container version written by this build.
const DocumentVersion = 1

// documentEnvelope is the versioned container stored for every item on the
// remote side. Exactly one of the item members is set.
type documentEnvelope struct {
	Version  int          `json:"version"`
	Favorite *favoriteDoc `json:"favorite,omitempty"`
	Link     *linkDoc     `json:"link,omitempty"`
	Note     *noteDoc     `json:"note,omitempty"`
}

type docHeader struct {
	ID      string `json:"id"`
	Created int64  `json:"created"`
	Updated int64  `json:"updated"`
}

type tagDoc struct {
	Name string `json:"name"`
}

type favoriteDoc struct {
	docHeader
	Name    string   `json:"name"`
	AndGate bool     `json:"and_gate"`
	Tags    []tagDoc `json:"tags,omitempty"`
}

type linkDoc struct {
	docHeader
	Link     string   `json:"link"`
	Name     string   `json:"name,omitempty"`
	Disabled bool     `json:"disabled"`
	Tags     []tagDoc `json:"tags,omitempty"`
}

type noteDoc struct {
	docHeader
	Note   string   `json:"note"`
	LinkID string   `json:"link_id,omitempty"`
	Tags   []tagDoc `json:"tags,omitempty"`
}

// CollectionOf returns the collection holding items of content type C.
func CollectionOf[C Content[C]]() Collection {
	var zero C
	switch any(zero).(type) {
	case Favorite:
		return CollectionFavorites
	case Link:
		return CollectionLinks
	case Note:
		return CollectionNotes
	}
	panic(fmt.Sprintf("models: no collection for content type %T", zero))
}

// EncodeDocument serializes a record into its remote document. Sync state is
// local bookkeeping and never leaves the device.
func EncodeDocument[C Content[C]](rec Record[C]) ([]byte, error) {
	header := docHeader{
		ID:      rec.ID,
		Created: toMillis(rec.Created),
		Updated: toMillis(rec.Updated),
	}
	env := documentEnvelope{Version: DocumentVersion}

	switch c := any(rec.Content).(type) {
	case Favorite:
		env.Favorite = &favoriteDoc{docHeader: header, Name: c.Name, AndGate: c.AndGate, Tags: toTagDocs(c.Tags)}
	case Link:
		env.Link = &linkDoc{docHeader: header, Link: c.URL, Name: c.Name, Disabled: c.Disabled, Tags: toTagDocs(c.Tags)}
	case Note:
		env.Note = &noteDoc{docHeader: header, Note: c.Text, LinkID: c.LinkID, Tags: toTagDocs(c.Tags)}
	default:
		return nil, fmt.Errorf("encode document: unsupported content %T", c)
	}

	data, err := json.Marshal(env)
	if err != nil {
		return nil, fmt.Errorf("encode document %s: %w", rec.ID, err)
	}
	return data, nil
}

// DecodeDocument parses a remote document downloaded under id. The returned
// record has an empty SyncState; callers stamp it with the remote tag.
func DecodeDocument[C Content[C]](id string, data []byte) (Record[C], error) {
	var rec Record[C]
	if len(data) == 0 {
		return rec, fmt.Errorf("decode document %s: %w", id, ErrDocumentEmpty)
	}

	var env documentEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return rec, fmt.Errorf("decode document %s: %w", id, err)
	}
	if env.Version != DocumentVersion {
		return rec, fmt.Errorf("decode document %s: %w: %d", id, ErrDocumentVersion, env.Version)
	}

	var (
		header  docHeader
		content any
	)
	switch any(rec.Content).(type) {
	case Favorite:
		if env.Favorite == nil {
			return rec, fmt.Errorf("decode document %s: %w", id, ErrDocumentEmpty)
		}
		header = env.Favorite.docHeader
		content = Favorite{Name: env.Favorite.Name, AndGate: env.Favorite.AndGate, Tags: fromTagDocs(env.Favorite.Tags)}
	case Link:
		if env.Link == nil {
			return rec, fmt.Errorf("decode document %s: %w", id, ErrDocumentEmpty)
		}
		header = env.Link.docHeader
		content = Link{URL: env.Link.Link, Name: env.Link.Name, Disabled: env.Link.Disabled, Tags: fromTagDocs(env.Link.Tags)}
	case Note:
		if env.Note == nil {
			return rec, fmt.Errorf("decode document %s: %w", id, ErrDocumentEmpty)
		}
		header = env.Note.docHeader
		content = Note{Text: env.Note.Note, LinkID: env.Note.LinkID, Tags: fromTagDocs(env.Note.Tags)}
	}

	if header.ID != id {
		return rec, fmt.Errorf("decode document %s: %w: got %q", id, ErrDocumentIDMismatch, header.ID)
	}

	rec.ID = header.ID
	rec.Created = fromMillis(header.Created)
	rec.Updated = fromMillis(header.Updated)
	rec.Content = content.(C)
	return rec, nil
}

func toTagDocs(tags Tags) []tagDoc {
	if len(tags) == 0 {
		return nil
	}
	out := make([]tagDoc, 0, len(tags))
	for _, t := range tags.Normalize() {
		out = append(out, tagDoc{Name: t})
	}
	return out
}

func fromTagDocs(docs []tagDoc) Tags {
	if len(docs) == 0 {
		return nil
	}
	tags := make(Tags, 0, len(docs))
	for _, d := range docs {
		tags = append(tags, d.Name)
	}
	return tags.Normalize()
}

func toMillis(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixMilli()
}

func fromMillis(ms int64) time.Time {
	if ms == 0 {
		return time.Time{}
	}
	return time.UnixMilli(ms).UTC()
}
