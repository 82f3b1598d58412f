// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"net"
	"strconv"
	"strings"
	"time"
)

// NetAddress holds structured network address data for host and port.
// It implements the flag.Value interface.
type NetAddress struct {
	Host string
	Port int
}

// ParseFlags parses args (usually os.Args[1:]) into a configuration. The
// positional arguments left after the flags end up in StructuredConfig.Args.
//
// Flags:
//
//	-a file-store server listen address in format [host]:[port]
//	-remote remote file-store base URL used by the client
//	-remote-kind remote implementation: http or s3
//	-d local database file
//	-f server file store path
//	-c/-config configuration file path (JSON or YAML)
//	-sync-dir remote sync directory
//	-account account name
//	-retention-days sync log retention in days
//	-upload-to-empty re-upload everything when the remote is empty
//	-protect-local keep remotely deleted synced records as conflicts
//	-token-sign-key request signing key
//	-token-issuer request token issuer
//	-token-duration request token lifetime (e.g., "15m")
//	-request-timeout request timeout (e.g., "30s", "1m")
//	-sync-interval background sync period (e.g., "5m")
//	-pool-size items reconciled concurrently per collection
//	-log-dir client log directory
//	-s3-bucket, -s3-region, -s3-endpoint S3 remote settings
func ParseFlags(args []string) (*StructuredConfig, error) {
	fs := flag.NewFlagSet("linkkeeper", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var serverAddress NetAddress
	var remoteAddress, remoteKind string
	var databaseDSN, filesPath, jsonConfigPath string
	var syncDir, account, logDir string
	var retentionDays, poolSize int
	var uploadToEmpty, protectLocal bool
	var tokenSignKey, tokenIssuer string
	var tokenDuration, requestTimeout, syncInterval time.Duration
	var s3Bucket, s3Region, s3Endpoint string

	fs.Var(&serverAddress, "a", "Net address host:port")
	fs.StringVar(&remoteAddress, "remote", "", "Remote file-store base URL")
	fs.StringVar(&remoteKind, "remote-kind", "", "Remote kind: http or s3")
	fs.StringVar(&databaseDSN, "d", "", "Local database file")
	fs.StringVar(&filesPath, "f", "", "Server file store path")
	fs.StringVar(&jsonConfigPath, "c", "", "Config file path")
	fs.StringVar(&jsonConfigPath, "config", "", "Config file path (alias)")
	fs.StringVar(&syncDir, "sync-dir", "", "Remote sync directory")
	fs.StringVar(&account, "account", "", "Account name")
	fs.IntVar(&retentionDays, "retention-days", 0, "Sync log retention in days")
	fs.BoolVar(&uploadToEmpty, "upload-to-empty", false, "Re-upload all records when the remote is empty")
	fs.BoolVar(&protectLocal, "protect-local", false, "Keep remotely deleted synced records as conflicts")
	fs.StringVar(&tokenSignKey, "token-sign-key", "", "Request signing key")
	fs.StringVar(&tokenIssuer, "token-issuer", "", "Request token issuer")
	fs.DurationVar(&tokenDuration, "token-duration", 0, "Request token lifetime (e.g., 15m)")
	fs.DurationVar(&requestTimeout, "request-timeout", 0, "Request timeout (e.g., 30s, 1m)")
	fs.DurationVar(&syncInterval, "sync-interval", 0, "Background sync period (e.g., 5m)")
	fs.IntVar(&poolSize, "pool-size", 0, "Items reconciled concurrently per collection")
	fs.StringVar(&logDir, "log-dir", "", "Client log directory")
	fs.StringVar(&s3Bucket, "s3-bucket", "", "S3 bucket")
	fs.StringVar(&s3Region, "s3-region", "", "S3 region")
	fs.StringVar(&s3Endpoint, "s3-endpoint", "", "S3 endpoint for S3-compatible stores")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("error parsing flags: %w", err)
	}

	return &StructuredConfig{
		App: App{
			SyncDirectory:    syncDir,
			AccountName:      account,
			LogRetentionDays: retentionDays,
			UploadToEmpty:    uploadToEmpty,
			ProtectLocal:     protectLocal,
			TokenSignKey:     tokenSignKey,
			TokenIssuer:      tokenIssuer,
			TokenDuration:    tokenDuration,
			LogDir:           logDir,
		},
		Storage: Storage{
			DB:    DB{DSN: databaseDSN},
			Files: Files{Path: filesPath},
		},
		Server: Server{
			HTTPAddress:    serverAddress.String(),
			RequestTimeout: requestTimeout,
		},
		Adapter: Adapter{
			Kind:           remoteKind,
			HTTPAddress:    remoteAddress,
			RequestTimeout: requestTimeout,
			S3: S3{
				Bucket:   s3Bucket,
				Region:   s3Region,
				Endpoint: s3Endpoint,
			},
		},
		Workers: Workers{
			SyncInterval: syncInterval,
			PoolSize:     poolSize,
		},
		JSONFilePath: jsonConfigPath,
		Args:         fs.Args(),
	}, nil
}

// String returns a canonical host:port string for a NetAddress.
// If neither Host nor Port are set, it returns an empty string.
func (a *NetAddress) String() string {
	if a.Host == "" && a.Port == 0 {
		return ""
	}

	return a.Host + ":" + strconv.Itoa(a.Port)
}

// Set parses the input string of form host:port and populates the NetAddress.
// It validates the port range, checks IP correctness unless host is
// "localhost" or empty, and returns an error if the format or values are
// invalid.
func (a *NetAddress) Set(s string) error {
	hostAndPort := strings.Split(s, ":")
	if len(hostAndPort) != 2 {
		return errors.New("need address in a form `host:port`")
	}

	host := hostAndPort[0]
	port, err := strconv.Atoi(hostAndPort[1])
	if err != nil {
		return err
	}

	if port < 1 {
		return errors.New("port number is a positive integer")
	}

	if host != "localhost" && host != "" {
		ip := net.ParseIP(host)
		if ip == nil {
			return errors.New("incorrect IP-address provided")
		}
	}

	a.Host = host
	a.Port = port
	return nil
}
