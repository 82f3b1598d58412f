// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package server

// Server defines the lifecycle of the transport server.
type Server interface {
	// RunServer starts serving requests and blocks until a stop signal.
	RunServer()

	// Shutdown gracefully stops the server and frees associated resources.
	Shutdown()
}
