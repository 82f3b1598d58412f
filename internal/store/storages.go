// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"fmt"

	"github.com/MKhiriev/go-link-keeper/internal/config"
	"github.com/MKhiriev/go-link-keeper/internal/logger"
)

// Storages groups the server-side storages.
type Storages struct {
	FileStorage FileStorage
}

// NewStorages opens the server's document store.
func NewStorages(cfg *config.ServerConfig, logger *logger.Logger) (*Storages, error) {
	logger.Info().Str("path", cfg.FilesPath).Msg("creating new storages...")

	files, err := NewBoltFileStorage(cfg.FilesPath, logger)
	if err != nil {
		return nil, fmt.Errorf("file storage error: %w", err)
	}

	return &Storages{FileStorage: files}, nil
}

func (s *Storages) Close() error {
	return s.FileStorage.Close()
}
