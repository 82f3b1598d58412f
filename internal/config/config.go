// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"time"
)

// StructuredConfig is the top-level configuration container shared by the
// sync client and the file-store server. It is populated by merging values
// from environment variables, command-line flags, an optional JSON or YAML
// file and built-in defaults.
//
// Struct tags:
//   - envPrefix: prefix applied to all nested env tag lookups (caarlos0/env).
//   - env: direct environment variable name for scalar fields.
type StructuredConfig struct {
	// App holds synchronization behaviour and request-signing settings.
	App App `envPrefix:"APP_"`

	// Storage holds the local SQLite database and the server's file store.
	Storage Storage `envPrefix:"STORAGE_"`

	// Server holds the listen address of the file-store server.
	Server Server `envPrefix:"SERVER_"`

	// Adapter selects and configures the remote store the client talks to.
	Adapter Adapter `envPrefix:"ADAPTER_"`

	// Workers holds background sync scheduling settings.
	Workers Workers `envPrefix:"WORKERS_"`

	// JSONFilePath is the optional path to a configuration file. Files ending
	// in .yaml or .yml are parsed as YAML, everything else as JSON.
	// Populated via the CONFIG environment variable or the -c / -config flag.
	JSONFilePath string `env:"CONFIG"`

	// Args holds the positional command-line arguments left after flags.
	Args []string `env:"-"`
}

// App holds application-level settings.
type App struct {
	// SyncDirectory is the remote root under which every collection keeps
	// its directory (e.g. ".laano_sync").
	// Env: APP_SYNC_DIRECTORY
	SyncDirectory string `env:"SYNC_DIRECTORY"`

	// AccountName identifies the account in signed requests and in the lock
	// file guarding concurrent runs.
	// Env: APP_ACCOUNT
	AccountName string `env:"ACCOUNT"`

	// LogRetentionDays is how long sync runs and per-item journal rows are
	// kept before pruning.
	// Env: APP_LOG_RETENTION_DAYS
	LogRetentionDays int `env:"LOG_RETENTION_DAYS"`

	// UploadToEmpty re-uploads every synced record when a collection's
	// remote directory turns out empty.
	// Env: APP_UPLOAD_TO_EMPTY
	UploadToEmpty bool `env:"UPLOAD_TO_EMPTY"`

	// ProtectLocal turns "remote deleted a synced record" into a conflict
	// instead of a local purge.
	// Env: APP_PROTECT_LOCAL
	ProtectLocal bool `env:"PROTECT_LOCAL"`

	// TokenSignKey is the shared HS256 key used to sign and verify requests
	// to the file-store server. Empty disables request authentication.
	// Env: APP_TOKEN_SIGN_KEY
	TokenSignKey string `env:"TOKEN_SIGN_KEY"`

	// TokenIssuer is the "iss" claim expected on every signed request.
	// Env: APP_TOKEN_ISSUER
	TokenIssuer string `env:"TOKEN_ISSUER"`

	// TokenDuration is the lifetime of a signed request token.
	// Env: APP_TOKEN_DURATION
	TokenDuration time.Duration `env:"TOKEN_DURATION"`

	// LogDir is where the client writes its rotating log file.
	// Env: APP_LOG_DIR
	LogDir string `env:"LOG_DIR"`
}

// Storage groups the configuration for all storage backends.
type Storage struct {
	// DB holds the client's local SQLite database settings.
	DB DB `envPrefix:"DB_"`

	// Files holds the server's embedded file store settings.
	Files Files `envPrefix:"FILES_"`
}

// DB holds connection settings for the local SQLite database.
type DB struct {
	// DSN is the SQLite database file path (e.g. "linkkeeper.db").
	// Env: STORAGE_DB_DATABASE_URI
	DSN string `env:"DATABASE_URI"`
}

// Files holds settings of the server's bbolt-backed file store.
type Files struct {
	// Path is the bbolt database file holding remote documents.
	// Env: STORAGE_FILES_PATH
	Path string `env:"PATH"`
}

// Server holds network and timeout settings for the file-store server.
type Server struct {
	// HTTPAddress is the TCP address the server listens on, "host:port".
	// Env: SERVER_ADDRESS
	HTTPAddress string `env:"ADDRESS"`

	// RequestTimeout bounds the handling time of a single request.
	// Env: SERVER_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`
}

// Adapter configures the remote store used by the client.
type Adapter struct {
	// Kind selects the remote implementation: "http" or "s3".
	// Env: ADAPTER_KIND
	Kind string `env:"KIND"`

	// HTTPAddress is the base URL of the file-store server.
	// Env: ADAPTER_ADDRESS
	HTTPAddress string `env:"ADDRESS"`

	// RequestTimeout bounds a single remote call.
	// Env: ADAPTER_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`

	// RetryCount is the number of transport-level retries per remote call.
	// Env: ADAPTER_RETRY_COUNT
	RetryCount int `env:"RETRY_COUNT"`

	// S3 configures the S3-compatible remote.
	S3 S3 `envPrefix:"S3_"`
}

// S3 holds the bucket and credentials of an S3-compatible remote.
type S3 struct {
	Bucket    string `env:"BUCKET"`
	Region    string `env:"REGION"`
	Endpoint  string `env:"ENDPOINT"`
	AccessKey string `env:"ACCESS_KEY"`
	SecretKey string `env:"SECRET_KEY"`
}

// Workers holds configuration for background sync processing.
type Workers struct {
	// SyncInterval is the period of the background sync job.
	// Env: WORKERS_SYNC_INTERVAL
	SyncInterval time.Duration `env:"SYNC_INTERVAL"`

	// PoolSize bounds the number of items reconciled concurrently within one
	// collection pass.
	// Env: WORKERS_POOL_SIZE
	PoolSize int `env:"POOL_SIZE"`
}

// GetStructuredConfig loads and merges the configuration from all sources.
// For every field the first non-zero value wins, in this order:
//  1. Environment variables
//  2. Command-line flags
//  3. Configuration file (path resolved from sources 1 and 2)
//  4. Built-in defaults
func GetStructuredConfig(args []string) (*StructuredConfig, error) {
	return newConfigBuilder().
		withEnv().
		withFlags(args).
		withFile().
		withDefaults().
		build()
}
