// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"

	"github.com/MKhiriev/go-link-keeper/models"
)

// FileService is the server side view of the document store.
type FileService interface {
	Get(ctx context.Context, path string) (models.RemoteFile, error)
	// Put stores body and returns its new tag. A non-empty ifMatch must equal
	// the stored tag.
	Put(ctx context.Context, path string, body []byte, ifMatch string) (string, error)
	Delete(ctx context.Context, path string) error
	ListDirectory(ctx context.Context, dir string) (models.DirectoryListing, error)
	DirectoryTag(ctx context.Context, dir string) (string, error)
}

// FileServiceWrapper defines middleware composition for FileService.
// Implementations wrap an existing FileService to add behavior such as
// validating.
type FileServiceWrapper interface {
	Wrap(FileService) FileService
}

type AppInfoService interface {
	GetAppVersion(ctx context.Context) string
}
