// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "errors"

var (
	// ErrInvalidSyncState is returned by SyncState.Validate.
	ErrInvalidSyncState = errors.New("invalid sync state")
	// ErrUnknownCollection is returned for names outside of Collections.
	ErrUnknownCollection = errors.New("unknown collection")

	// ErrDocumentVersion is returned when a remote document carries a
	// container version this build does not understand.
	ErrDocumentVersion = errors.New("unsupported document version")
	// ErrDocumentEmpty is returned for documents without an item body.
	ErrDocumentEmpty = errors.New("empty document")
	// ErrDocumentIDMismatch is returned when the id inside a document differs
	// from the id it was downloaded under.
	ErrDocumentIDMismatch = errors.New("document id mismatch")
)
