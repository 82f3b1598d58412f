// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package workers runs the client's background workers: the periodic sync
// job and the notification feed of the watch command.
package workers

import "context"

// Worker is a background worker. Run must not block; Stop blocks until the
// worker has exited.
type Worker interface {
	Run(ctx context.Context)
	Stop()
}
