// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"fmt"
	"time"
)

// ClientApp holds client-side sync settings derived from the shared
// structured config.
type ClientApp struct {
	SyncDirectory    string
	AccountName      string
	LogRetentionDays int
	UploadToEmpty    bool
	ProtectLocal     bool
	TokenSignKey     string
	TokenIssuer      string
	TokenDuration    time.Duration
	LogDir           string
}

// ClientAdapter holds the settings of the remote store used by the client.
type ClientAdapter struct {
	// Kind is AdapterKindHTTP or AdapterKindS3.
	Kind           string
	HTTPAddress    string
	RequestTimeout time.Duration
	RetryCount     int
	S3             S3
}

// ClientDB contains local database settings for the client.
type ClientDB struct {
	// DSN is the SQLite database file path.
	DSN string
}

// ClientStorage groups client storage backend settings.
type ClientStorage struct {
	DB ClientDB
}

// ClientWorkers contains client background worker settings.
type ClientWorkers struct {
	SyncInterval time.Duration
	PoolSize     int
}

// ClientConfig is the top-level client configuration assembled from
// [StructuredConfig].
type ClientConfig struct {
	App     ClientApp
	Adapter ClientAdapter
	Storage ClientStorage
	Workers ClientWorkers

	// Args are the positional arguments (the client subcommand and its
	// operands).
	Args []string
}

// GetClientConfig builds and validates a client-specific config view from the
// merged structured configuration.
func GetClientConfig(args []string) (*ClientConfig, error) {
	cfg, err := GetStructuredConfig(args)
	if err != nil {
		return nil, fmt.Errorf("error get structured config: %w", err)
	}

	clientCfg := &ClientConfig{
		App: ClientApp{
			SyncDirectory:    cfg.App.SyncDirectory,
			AccountName:      cfg.App.AccountName,
			LogRetentionDays: cfg.App.LogRetentionDays,
			UploadToEmpty:    cfg.App.UploadToEmpty,
			ProtectLocal:     cfg.App.ProtectLocal,
			TokenSignKey:     cfg.App.TokenSignKey,
			TokenIssuer:      cfg.App.TokenIssuer,
			TokenDuration:    cfg.App.TokenDuration,
			LogDir:           cfg.App.LogDir,
		},
		Adapter: ClientAdapter{
			Kind:           cfg.Adapter.Kind,
			HTTPAddress:    cfg.Adapter.HTTPAddress,
			RequestTimeout: cfg.Adapter.RequestTimeout,
			RetryCount:     cfg.Adapter.RetryCount,
			S3:             cfg.Adapter.S3,
		},
		Storage: ClientStorage{
			DB: ClientDB{DSN: cfg.Storage.DB.DSN},
		},
		Workers: ClientWorkers{
			SyncInterval: cfg.Workers.SyncInterval,
			PoolSize:     cfg.Workers.PoolSize,
		},
		Args: cfg.Args,
	}

	return clientCfg, clientCfg.validate()
}
