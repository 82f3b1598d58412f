// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import "strings"

// validate checks the invariants shared by both binaries.
func (cfg *StructuredConfig) validate() error {
	if cfg.App.LogRetentionDays < 0 {
		return ErrInvalidAppConfigs
	}

	if cfg.Workers.PoolSize < 0 || cfg.Adapter.RetryCount < 0 {
		return ErrInvalidWorkerConfigs
	}

	return nil
}

func (cfg *ClientConfig) validate() error {
	if cfg.Storage.DB.DSN == "" || strings.Contains(cfg.Storage.DB.DSN, "memory") {
		return ErrInvalidStorageConfigs
	}

	switch cfg.Adapter.Kind {
	case AdapterKindHTTP:
		if cfg.Adapter.HTTPAddress == "" || cfg.Adapter.RequestTimeout == 0 {
			return ErrInvalidAdapterConfigs
		}
	case AdapterKindS3:
		if cfg.Adapter.S3.Bucket == "" {
			return ErrInvalidAdapterConfigs
		}
	default:
		return ErrInvalidAdapterConfigs
	}

	if cfg.Workers.SyncInterval <= 0 || cfg.Workers.PoolSize < 1 {
		return ErrInvalidWorkerConfigs
	}

	if cfg.App.SyncDirectory == "" || strings.Contains(cfg.App.SyncDirectory, "..") {
		return ErrInvalidAppConfigs
	}

	return nil
}

func (cfg *ServerConfig) validate() error {
	if cfg.HTTPAddress == "" || cfg.RequestTimeout == 0 {
		return ErrInvalidServerConfigs
	}

	if cfg.FilesPath == "" {
		return ErrInvalidStorageConfigs
	}

	return nil
}
