// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package config provides configuration loading, merging, and validation
// for the link keeper client and the file-store server.
//
// Configuration is assembled from multiple sources. For every field the
// first non-zero value wins, in this order:
//  1. Environment variables
//  2. Command-line flags
//  3. JSON or YAML config file
//  4. Built-in defaults
//
// The entry points are [GetClientConfig] and [GetServerConfig].
package config
