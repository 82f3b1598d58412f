// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import "errors"

// Sentinel errors returned by repository methods to signal well-known failure
// conditions. Callers should use [errors.Is] to match against these values.
var (
	// ErrItemNotFound is returned when a lookup by id or natural key matches
	// no local record.
	ErrItemNotFound = errors.New("item was not found")

	// ErrDuplicateNaturalKey is returned when an insert or content update
	// collides with another record holding the same natural key.
	ErrDuplicateNaturalKey = errors.New("natural key already exists")

	// ErrItemNotSaved is returned when an INSERT completes without error but
	// affects no rows.
	ErrItemNotSaved = errors.New("item was not saved")

	// ErrFileNotFound is returned by the server file storage for unknown
	// paths.
	ErrFileNotFound = errors.New("file was not found")

	// ErrDirectoryNotFound is returned by the server file storage for
	// directories that hold no files.
	ErrDirectoryNotFound = errors.New("directory was not found")

	// ErrETagMismatch is returned when a conditional write carries a tag
	// that differs from the stored one.
	ErrETagMismatch = errors.New("etag mismatch")
)

// Low-level database operation errors. These are returned (or wrapped) by
// repository methods when a SQL-level operation fails before any domain logic
// can be applied.
var (
	// ErrBuildingSQLQuery is returned when constructing a SQL query fails.
	ErrBuildingSQLQuery = errors.New("error building sql query")

	// ErrExecutingQuery is returned when executing a SELECT fails.
	ErrExecutingQuery = errors.New("error executing sql query")

	// ErrBeginningTransaction is returned when the driver cannot start a
	// transaction.
	ErrBeginningTransaction = errors.New("failed to begin transaction")

	// ErrCommitingTransaction is returned when committing a transaction
	// fails. The transaction is considered rolled back at this point.
	ErrCommitingTransaction = errors.New("failed to commit transaction")

	// ErrExecutingStatement is returned when an INSERT, UPDATE or DELETE
	// fails.
	ErrExecutingStatement = errors.New("failed to executing statement")

	// ErrScanningRow is returned when scanning a single result row fails.
	ErrScanningRow = errors.New("failed to scan row")

	// ErrScanningRows is returned when iterating a result set fails midway.
	ErrScanningRows = errors.New("failed to scan rows")

	// ErrEncodingContent is returned when item content cannot be encoded to
	// or decoded from its stored form.
	ErrEncodingContent = errors.New("failed to encode item content")
)
