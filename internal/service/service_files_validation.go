// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-link-keeper/internal/validators"
	"github.com/MKhiriev/go-link-keeper/models"
)

type FileValidationService struct {
	inner     FileService
	validator validators.Validator
}

func NewFileValidationService() FileServiceWrapper {
	return &FileValidationService{
		validator: validators.NewPathValidator(),
	}
}

func (v *FileValidationService) Get(ctx context.Context, path string) (models.RemoteFile, error) {
	if err := v.validateFile(ctx, path); err != nil {
		return models.RemoteFile{}, err
	}
	return v.inner.Get(ctx, path)
}

func (v *FileValidationService) Put(ctx context.Context, path string, body []byte, ifMatch string) (string, error) {
	if err := v.validateFile(ctx, path); err != nil {
		return "", err
	}
	if len(body) == 0 {
		return "", fmt.Errorf("%w: empty body", ErrInvalidInput)
	}
	return v.inner.Put(ctx, path, body, ifMatch)
}

func (v *FileValidationService) Delete(ctx context.Context, path string) error {
	if err := v.validateFile(ctx, path); err != nil {
		return err
	}
	return v.inner.Delete(ctx, path)
}

func (v *FileValidationService) ListDirectory(ctx context.Context, dir string) (models.DirectoryListing, error) {
	if err := v.validateDir(ctx, dir); err != nil {
		return models.DirectoryListing{}, err
	}
	return v.inner.ListDirectory(ctx, dir)
}

func (v *FileValidationService) DirectoryTag(ctx context.Context, dir string) (string, error) {
	if err := v.validateDir(ctx, dir); err != nil {
		return "", err
	}
	return v.inner.DirectoryTag(ctx, dir)
}

func (v *FileValidationService) validateFile(ctx context.Context, path string) error {
	if err := v.validator.Validate(ctx, path, validators.FieldSegments, validators.FieldDocument); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidPath, err)
	}
	return nil
}

func (v *FileValidationService) validateDir(ctx context.Context, dir string) error {
	if err := v.validator.Validate(ctx, dir); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidPath, err)
	}
	return nil
}

func (v *FileValidationService) Wrap(wrapped FileService) FileService {
	v.inner = wrapped
	return v
}
