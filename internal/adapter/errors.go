// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import "errors"

var (
	// ErrNotFound is returned when the remote file or directory does not
	// exist.
	ErrNotFound = errors.New("remote: not found")
	// ErrTransport covers every failure to reach the remote or to get a usable
	// answer from it. Such failures are retried on the next run.
	ErrTransport = errors.New("remote: transport failure")
	// ErrContentConflict is returned when the remote rejected a conditional
	// write because the stored tag changed.
	ErrContentConflict = errors.New("remote: content conflict")
	// ErrIntegrity is returned for downloaded documents that cannot be
	// trusted: empty, undecodable or stored under a different id.
	ErrIntegrity = errors.New("remote: integrity failure")
	// ErrUnauthorized is returned when the remote refused the request
	// credentials. It is always wrapped together with ErrTransport.
	ErrUnauthorized = errors.New("remote: unauthorized")
	// ErrUnknownAdapterKind is returned by NewRemoteStore for unsupported
	// adapter kinds.
	ErrUnknownAdapterKind = errors.New("unknown adapter kind")
)
