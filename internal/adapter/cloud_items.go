// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-link-keeper/models"
)

// CloudItems is the remote view of one collection: a [RemoteStore] directory
// whose files are versioned item documents named <id>.json.
type CloudItems[C models.Content[C]] struct {
	remote     RemoteStore
	syncDir    string
	collection models.Collection
}

// NewCloudItems binds remote to the directory of C's collection below
// syncDir.
func NewCloudItems[C models.Content[C]](remote RemoteStore, syncDir string) *CloudItems[C] {
	return &CloudItems[C]{
		remote:     remote,
		syncDir:    syncDir,
		collection: models.CollectionOf[C](),
	}
}

func (c *CloudItems[C]) Collection() models.Collection {
	return c.collection
}

// DirectoryTag returns the change tag of the collection directory, empty
// when the directory does not exist yet.
func (c *CloudItems[C]) DirectoryTag(ctx context.Context) (string, error) {
	return c.remote.GetDirectoryTag(ctx, c.collection.RemoteDir(c.syncDir))
}

// List returns the directory tag and the tag of every item document, keyed
// by item id. Files that are not item documents are skipped.
func (c *CloudItems[C]) List(ctx context.Context) (models.DirectoryListing, error) {
	listing, err := c.remote.ListDirectory(ctx, c.collection.RemoteDir(c.syncDir))
	if err != nil {
		return models.DirectoryListing{}, err
	}

	items := make(map[string]string, len(listing.Entries))
	for name, eTag := range listing.Entries {
		if id, ok := models.IDFromFileName(name); ok {
			items[id] = eTag
		}
	}
	return models.DirectoryListing{ETag: listing.ETag, Entries: items}, nil
}

// Download fetches and decodes the document of id. Undecodable documents and
// documents holding another id fail with [ErrIntegrity].
func (c *CloudItems[C]) Download(ctx context.Context, id string) (models.Record[C], string, error) {
	file, err := c.remote.Download(ctx, c.collection.RemotePath(c.syncDir, id))
	if err != nil {
		return models.Record[C]{}, "", err
	}

	rec, err := models.DecodeDocument[C](id, file.Body)
	if err != nil {
		return models.Record[C]{}, "", fmt.Errorf("%w: %w", ErrIntegrity, err)
	}
	return rec, file.ETag, nil
}

// Upload encodes rec and stores it, conditionally when ifMatch is set.
func (c *CloudItems[C]) Upload(ctx context.Context, rec models.Record[C], ifMatch string) (string, error) {
	body, err := models.EncodeDocument(rec)
	if err != nil {
		return "", err
	}
	return c.remote.Upload(ctx, c.collection.RemotePath(c.syncDir, rec.ID), body, ifMatch)
}

func (c *CloudItems[C]) Delete(ctx context.Context, id string) error {
	return c.remote.Delete(ctx, c.collection.RemotePath(c.syncDir, id))
}

func (c *CloudItems[C]) Exists(ctx context.Context, id string) (bool, error) {
	return c.remote.Exists(ctx, c.collection.RemotePath(c.syncDir, id))
}
