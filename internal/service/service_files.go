// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"

	"github.com/MKhiriev/go-link-keeper/internal/logger"
	"github.com/MKhiriev/go-link-keeper/internal/store"
	"github.com/MKhiriev/go-link-keeper/models"
)

type fileService struct {
	fileStorage store.FileStorage

	logger *logger.Logger
}

func NewFileService(fileStorage store.FileStorage, logger *logger.Logger) FileService {
	return &fileService{
		fileStorage: fileStorage,
		logger:      logger,
	}
}

func (f *fileService) Get(ctx context.Context, path string) (models.RemoteFile, error) {
	return f.fileStorage.Get(ctx, path)
}

func (f *fileService) Put(ctx context.Context, path string, body []byte, ifMatch string) (string, error) {
	return f.fileStorage.Put(ctx, path, body, ifMatch)
}

func (f *fileService) Delete(ctx context.Context, path string) error {
	return f.fileStorage.Delete(ctx, path)
}

func (f *fileService) ListDirectory(ctx context.Context, dir string) (models.DirectoryListing, error) {
	return f.fileStorage.List(ctx, dir)
}

func (f *fileService) DirectoryTag(ctx context.Context, dir string) (string, error) {
	return f.fileStorage.DirectoryTag(ctx, dir)
}
