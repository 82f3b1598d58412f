// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import "errors"

var (
	ErrVersionIsNotSpecified = errors.New("version is not specified")

	// ErrSyncInProgress is returned by Run when another run, in this or
	// another process, holds the local store.
	ErrSyncInProgress = errors.New("sync is already in progress")

	// ErrNotConflicted is returned by a resolution action when the record was
	// resolved or purged since the session was opened.
	ErrNotConflicted = errors.New("item is no longer conflicted")
	// ErrActionNotAllowed is returned when an action is invoked while it is
	// disabled for the current pane states.
	ErrActionNotAllowed = errors.New("action is not allowed in the current state")
	ErrUnknownAction    = errors.New("unknown resolution action")
	ErrSessionClosed    = errors.New("resolution session is closed")

	ErrInvalidPath  = errors.New("invalid path")
	ErrInvalidInput = errors.New("invalid input")
)
