// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import "time"

const (
	DefaultSyncDirectory    = ".laano_sync"
	DefaultLogRetentionDays = 30
	DefaultSyncInterval     = 5 * time.Minute
	DefaultPoolSize         = 4
	DefaultRequestTimeout   = 30 * time.Second
	DefaultRetryCount       = 2
	DefaultTokenDuration    = 15 * time.Minute
	DefaultTokenIssuer      = "go-link-keeper"

	AdapterKindHTTP = "http"
	AdapterKindS3   = "s3"
)

// defaults is the lowest-priority configuration source.
func defaults() *StructuredConfig {
	return &StructuredConfig{
		App: App{
			SyncDirectory:    DefaultSyncDirectory,
			LogRetentionDays: DefaultLogRetentionDays,
			TokenIssuer:      DefaultTokenIssuer,
			TokenDuration:    DefaultTokenDuration,
		},
		Server: Server{
			RequestTimeout: DefaultRequestTimeout,
		},
		Adapter: Adapter{
			Kind:           AdapterKindHTTP,
			RequestTimeout: DefaultRequestTimeout,
			RetryCount:     DefaultRetryCount,
		},
		Workers: Workers{
			SyncInterval: DefaultSyncInterval,
			PoolSize:     DefaultPoolSize,
		},
	}
}
