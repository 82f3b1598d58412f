// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// StructuredFileConfig is the on-disk form of the configuration file. The
// same struct is decoded from JSON and YAML.
type StructuredFileConfig struct {
	App struct {
		SyncDirectory    string   `json:"sync_directory" yaml:"sync_directory"`
		AccountName      string   `json:"account" yaml:"account"`
		LogRetentionDays int      `json:"log_retention_days" yaml:"log_retention_days"`
		UploadToEmpty    bool     `json:"upload_to_empty" yaml:"upload_to_empty"`
		ProtectLocal     bool     `json:"protect_local" yaml:"protect_local"`
		TokenSignKey     string   `json:"token_sign_key" yaml:"token_sign_key"`
		TokenIssuer      string   `json:"token_issuer" yaml:"token_issuer"`
		TokenDuration    Duration `json:"token_duration" yaml:"token_duration"`
		LogDir           string   `json:"log_dir" yaml:"log_dir"`
	} `json:"app,omitempty" yaml:"app,omitempty"`

	Storage struct {
		DB struct {
			DSN string `json:"dsn" yaml:"dsn"`
		} `json:"db,omitempty" yaml:"db,omitempty"`

		Files struct {
			Path string `json:"path" yaml:"path"`
		} `json:"files,omitempty" yaml:"files,omitempty"`
	} `json:"storage,omitempty" yaml:"storage,omitempty"`

	Server struct {
		HTTPAddress    string   `json:"http_address" yaml:"http_address"`
		RequestTimeout Duration `json:"request_timeout" yaml:"request_timeout"`
	} `json:"server,omitempty" yaml:"server,omitempty"`

	Adapter struct {
		Kind           string   `json:"kind" yaml:"kind"`
		HTTPAddress    string   `json:"http_address" yaml:"http_address"`
		RequestTimeout Duration `json:"request_timeout" yaml:"request_timeout"`
		RetryCount     int      `json:"retry_count" yaml:"retry_count"`
		S3             struct {
			Bucket    string `json:"bucket" yaml:"bucket"`
			Region    string `json:"region" yaml:"region"`
			Endpoint  string `json:"endpoint" yaml:"endpoint"`
			AccessKey string `json:"access_key" yaml:"access_key"`
			SecretKey string `json:"secret_key" yaml:"secret_key"`
		} `json:"s3,omitempty" yaml:"s3,omitempty"`
	} `json:"adapter,omitempty" yaml:"adapter,omitempty"`

	Workers struct {
		SyncInterval Duration `json:"sync_interval" yaml:"sync_interval"`
		PoolSize     int      `json:"pool_size" yaml:"pool_size"`
	} `json:"workers,omitempty" yaml:"workers,omitempty"`
}

func parseJSON(jsonFilePath string) (*StructuredConfig, error) {
	jsonFile, err := os.Open(jsonFilePath)
	if err != nil {
		return nil, fmt.Errorf("error reading a json file: %w", err)
	}
	defer jsonFile.Close()

	var fileCfg StructuredFileConfig
	if err := json.NewDecoder(jsonFile).Decode(&fileCfg); err != nil {
		return nil, fmt.Errorf("error decoding json configs: %w", err)
	}

	return fileCfg.toStructured(), nil
}

func (f *StructuredFileConfig) toStructured() *StructuredConfig {
	return &StructuredConfig{
		App: App{
			SyncDirectory:    f.App.SyncDirectory,
			AccountName:      f.App.AccountName,
			LogRetentionDays: f.App.LogRetentionDays,
			UploadToEmpty:    f.App.UploadToEmpty,
			ProtectLocal:     f.App.ProtectLocal,
			TokenSignKey:     f.App.TokenSignKey,
			TokenIssuer:      f.App.TokenIssuer,
			TokenDuration:    time.Duration(f.App.TokenDuration),
			LogDir:           f.App.LogDir,
		},
		Storage: Storage{
			DB:    DB{DSN: f.Storage.DB.DSN},
			Files: Files{Path: f.Storage.Files.Path},
		},
		Server: Server{
			HTTPAddress:    f.Server.HTTPAddress,
			RequestTimeout: time.Duration(f.Server.RequestTimeout),
		},
		Adapter: Adapter{
			Kind:           f.Adapter.Kind,
			HTTPAddress:    f.Adapter.HTTPAddress,
			RequestTimeout: time.Duration(f.Adapter.RequestTimeout),
			RetryCount:     f.Adapter.RetryCount,
			S3: S3{
				Bucket:    f.Adapter.S3.Bucket,
				Region:    f.Adapter.S3.Region,
				Endpoint:  f.Adapter.S3.Endpoint,
				AccessKey: f.Adapter.S3.AccessKey,
				SecretKey: f.Adapter.S3.SecretKey,
			},
		},
		Workers: Workers{
			SyncInterval: time.Duration(f.Workers.SyncInterval),
			PoolSize:     f.Workers.PoolSize,
		},
	}
}

// Duration is a wrapper around time.Duration that decodes from strings like
// "1h" or "30s" in both JSON and YAML files.
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		tmp, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		*d = Duration(tmp)
		return nil
	default:
		return json.Unmarshal(b, (*time.Duration)(d))
	}
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}
