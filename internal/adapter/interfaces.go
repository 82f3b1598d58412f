// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package adapter provides the remote side of synchronization: a store of
// JSON documents addressed by path, each carrying an ETag, grouped into
// directories that carry a change tag of their own.
//
// [RemoteStore] decouples the sync engine from the concrete backend. The
// package ships an HTTP implementation talking to the bundled file-store
// server ([NewHTTPRemoteStore]) and an S3 implementation
// ([NewS3RemoteStore]). [CloudItems] layers the per-collection document
// codec on top of a RemoteStore.
//
// Backend failures are mapped to the sentinels in errors.go so callers can
// tell [ErrNotFound] from [ErrTransport] with [errors.Is].
package adapter

import (
	"context"

	"github.com/MKhiriev/go-link-keeper/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/remote_store_mock.go -package=mock

// RemoteStore is the remote document store.
type RemoteStore interface {
	// ListDirectory returns the directory tag and the tag of every file in
	// dir. A missing directory yields an empty listing with an empty tag.
	ListDirectory(ctx context.Context, dir string) (models.DirectoryListing, error)

	// GetDirectoryTag returns the change tag of dir without listing it. A
	// missing directory yields an empty tag.
	GetDirectoryTag(ctx context.Context, dir string) (string, error)

	// Download fetches the file at path. Returns [ErrNotFound] when absent.
	Download(ctx context.Context, path string) (models.RemoteFile, error)

	// Upload stores body at path and returns the new tag. A non-empty ifMatch
	// makes the write conditional: it fails with [ErrContentConflict] when the
	// stored tag differs.
	Upload(ctx context.Context, path string, body []byte, ifMatch string) (string, error)

	// Delete removes the file at path. A missing file is not an error.
	Delete(ctx context.Context, path string) error

	// Exists reports whether a file is stored at path.
	Exists(ctx context.Context, path string) (bool, error)
}
