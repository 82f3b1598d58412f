// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"fmt"
	"path"
	"strings"
)

// Collection names one of the three independently synchronized item sets.
// The name doubles as the remote directory name and the local table name.
type Collection string

const (
	CollectionFavorites Collection = "favorites"
	CollectionLinks     Collection = "links"
	CollectionNotes     Collection = "notes"
)

// Collections lists all collections in the order they are synchronized.
var Collections = []Collection{CollectionFavorites, CollectionLinks, CollectionNotes}

// ParseCollection converts a user supplied name into a Collection.
func ParseCollection(name string) (Collection, error) {
	c := Collection(strings.ToLower(strings.TrimSpace(name)))
	for _, known := range Collections {
		if c == known {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownCollection, name)
}

func (c Collection) String() string { return string(c) }

const documentExt = ".json"

// RemoteDir returns the remote directory of the collection below syncDir.
func (c Collection) RemoteDir(syncDir string) string {
	return path.Join("/", syncDir, string(c))
}

// RemotePath returns the remote document path of an item.
func (c Collection) RemotePath(syncDir, id string) string {
	return path.Join(c.RemoteDir(syncDir), id+documentExt)
}

// IDFromFileName extracts the item id from a remote file name, reporting false
// for entries that are not item documents.
func IDFromFileName(name string) (string, bool) {
	name = path.Base(name)
	if !strings.HasSuffix(name, documentExt) {
		return "", false
	}
	id := strings.TrimSuffix(name, documentExt)
	return id, id != ""
}
