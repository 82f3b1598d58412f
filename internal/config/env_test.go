// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEnv_AllFields(t *testing.T) {
	// Arrange
	envVars := map[string]string{
		"CONFIG": "/path/to/config.yaml",

		"APP_SYNC_DIRECTORY":     ".sync",
		"APP_ACCOUNT":            "alice",
		"APP_LOG_RETENTION_DAYS": "7",
		"APP_UPLOAD_TO_EMPTY":    "true",
		"APP_PROTECT_LOCAL":      "true",
		"APP_TOKEN_SIGN_KEY":     "jwt_secret",
		"APP_TOKEN_ISSUER":       "test_issuer",
		"APP_TOKEN_DURATION":     "1h",
		"APP_LOG_DIR":            "/var/log/lk",

		"SERVER_ADDRESS":         "localhost:8080",
		"SERVER_REQUEST_TIMEOUT": "30s",

		"STORAGE_DB_DATABASE_URI": "/tmp/links.db",
		"STORAGE_FILES_PATH":      "/var/data/files.bolt",

		"ADAPTER_KIND":            "s3",
		"ADAPTER_ADDRESS":         "http://localhost:8080",
		"ADAPTER_REQUEST_TIMEOUT": "10s",
		"ADAPTER_RETRY_COUNT":     "5",
		"ADAPTER_S3_BUCKET":       "links",
		"ADAPTER_S3_REGION":       "eu-west-1",

		"WORKERS_SYNC_INTERVAL": "2m",
		"WORKERS_POOL_SIZE":     "8",
	}
	setEnvVars(t, envVars)

	// Act
	cfg := &StructuredConfig{}
	err := parseEnv(cfg)

	// Assert
	require.NoError(t, err)

	assert.Equal(t, "/path/to/config.yaml", cfg.JSONFilePath)

	assert.Equal(t, ".sync", cfg.App.SyncDirectory)
	assert.Equal(t, "alice", cfg.App.AccountName)
	assert.Equal(t, 7, cfg.App.LogRetentionDays)
	assert.True(t, cfg.App.UploadToEmpty)
	assert.True(t, cfg.App.ProtectLocal)
	assert.Equal(t, "jwt_secret", cfg.App.TokenSignKey)
	assert.Equal(t, "test_issuer", cfg.App.TokenIssuer)
	assert.Equal(t, time.Hour, cfg.App.TokenDuration)
	assert.Equal(t, "/var/log/lk", cfg.App.LogDir)

	assert.Equal(t, "localhost:8080", cfg.Server.HTTPAddress)
	assert.Equal(t, 30*time.Second, cfg.Server.RequestTimeout)

	assert.Equal(t, "/tmp/links.db", cfg.Storage.DB.DSN)
	assert.Equal(t, "/var/data/files.bolt", cfg.Storage.Files.Path)

	assert.Equal(t, "s3", cfg.Adapter.Kind)
	assert.Equal(t, "http://localhost:8080", cfg.Adapter.HTTPAddress)
	assert.Equal(t, 10*time.Second, cfg.Adapter.RequestTimeout)
	assert.Equal(t, 5, cfg.Adapter.RetryCount)
	assert.Equal(t, "links", cfg.Adapter.S3.Bucket)
	assert.Equal(t, "eu-west-1", cfg.Adapter.S3.Region)

	assert.Equal(t, 2*time.Minute, cfg.Workers.SyncInterval)
	assert.Equal(t, 8, cfg.Workers.PoolSize)
}

func TestParseEnv_PartialFields(t *testing.T) {
	// Arrange
	setEnvVars(t, map[string]string{
		"APP_TOKEN_SIGN_KEY": "jwt_secret",
		"SERVER_ADDRESS":     "localhost:8080",
	})

	// Act
	cfg := &StructuredConfig{}
	err := parseEnv(cfg)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "jwt_secret", cfg.App.TokenSignKey)
	assert.Equal(t, "localhost:8080", cfg.Server.HTTPAddress)
	assert.Empty(t, cfg.App.SyncDirectory)
	assert.Zero(t, cfg.Workers.PoolSize)
	assert.Empty(t, cfg.Storage.DB.DSN)
}

func TestParseEnv_InvalidDuration(t *testing.T) {
	setEnvVars(t, map[string]string{"WORKERS_SYNC_INTERVAL": "soon"})

	err := parseEnv(&StructuredConfig{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error getting env configs")
}

func TestParseEnv_InvalidInt(t *testing.T) {
	setEnvVars(t, map[string]string{"WORKERS_POOL_SIZE": "many"})

	err := parseEnv(&StructuredConfig{})
	require.Error(t, err)
}

func TestParseEnvFrom_IgnoresProcessEnvironment(t *testing.T) {
	setEnvVars(t, map[string]string{"ADAPTER_S3_BUCKET": "from-process"})

	cfg := &StructuredConfig{}
	err := parseEnvFrom(cfg, map[string]string{
		"ADAPTER_S3_BUCKET":   "links",
		"ADAPTER_S3_ENDPOINT": "http://minio:9000",
	})

	require.NoError(t, err)
	assert.Equal(t, "links", cfg.Adapter.S3.Bucket)
	assert.Equal(t, "http://minio:9000", cfg.Adapter.S3.Endpoint)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func setEnvVars(t *testing.T, vars map[string]string) {
	t.Helper()
	clearEnvVars(t)
	for k, v := range vars {
		require.NoError(t, os.Setenv(k, v))
		t.Cleanup(func() { _ = os.Unsetenv(k) })
	}
}

func clearEnvVars(t *testing.T) {
	t.Helper()
	keys := []string{
		"CONFIG",

		"APP_SYNC_DIRECTORY",
		"APP_ACCOUNT",
		"APP_LOG_RETENTION_DAYS",
		"APP_UPLOAD_TO_EMPTY",
		"APP_PROTECT_LOCAL",
		"APP_TOKEN_SIGN_KEY",
		"APP_TOKEN_ISSUER",
		"APP_TOKEN_DURATION",
		"APP_LOG_DIR",

		"SERVER_ADDRESS",
		"SERVER_REQUEST_TIMEOUT",

		"STORAGE_DB_DATABASE_URI",
		"STORAGE_FILES_PATH",

		"ADAPTER_KIND",
		"ADAPTER_ADDRESS",
		"ADAPTER_REQUEST_TIMEOUT",
		"ADAPTER_RETRY_COUNT",
		"ADAPTER_S3_BUCKET",
		"ADAPTER_S3_REGION",
		"ADAPTER_S3_ENDPOINT",
		"ADAPTER_S3_ACCESS_KEY",
		"ADAPTER_S3_SECRET_KEY",

		"WORKERS_SYNC_INTERVAL",
		"WORKERS_POOL_SIZE",
	}
	for _, k := range keys {
		prev, ok := os.LookupEnv(k)
		require.NoError(t, os.Unsetenv(k))
		if ok {
			t.Cleanup(func() { _ = os.Setenv(k, prev) })
		}
	}
}
