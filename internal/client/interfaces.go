// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package client

import "context"

// Client defines the lifecycle contract of the command line client.
type Client interface {
	// Run executes the configured command and blocks until it is done or
	// ctx is cancelled.
	Run(ctx context.Context) error
	Close() error
}
