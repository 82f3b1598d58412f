// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package client implements the linkkeeper command line client.
//
// It wires the local store, the remote adapter and the sync services into a
// single process and dispatches one command per invocation.
package client
