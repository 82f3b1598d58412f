// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"time"

	"github.com/MKhiriev/go-link-keeper/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/store_mock.go -package=mock

// ItemRepository is the local store of one collection.
type ItemRepository[C models.Content[C]] interface {
	// List returns every record of the collection, conflicted and tombstoned
	// ones included.
	List(ctx context.Context) ([]models.Record[C], error)
	ListIDs(ctx context.Context) ([]string, error)
	// Get fails with ErrItemNotFound.
	Get(ctx context.Context, id string) (models.Record[C], error)
	// Insert fails with ErrDuplicateNaturalKey when another non-duplicated
	// record holds the same natural key.
	Insert(ctx context.Context, rec models.Record[C]) error
	UpdateContent(ctx context.Context, id string, content C, updated time.Time) error
	UpdateState(ctx context.Context, id string, state models.SyncState) error
	// Delete purges the record. Deleting a missing record is not an error.
	Delete(ctx context.Context, id string) error
	// FindByNaturalKey returns the main record holding key, never a
	// duplicated one. Fails with ErrItemNotFound.
	FindByNaturalKey(ctx context.Context, key string) (models.Record[C], error)
}

// Refresher drops cached copies of local records.
type Refresher interface {
	Refresh(ctx context.Context, id string)
	Purge()
}

// SyncLogRepository keeps the append-only history of sync runs.
type SyncLogRepository interface {
	// AppendRun stores the run and its per-item entries and returns the run id.
	AppendRun(ctx context.Context, run models.SyncRunResult) (int64, error)
	// Prune removes runs and entries started before the given time.
	Prune(ctx context.Context, before time.Time) (int64, error)
	RecentRuns(ctx context.Context, limit int) ([]models.SyncRunResult, error)
	RunEntries(ctx context.Context, runID int64) ([]models.SyncLogEntry, error)
}

// SyncMetaRepository holds per-collection directory tags and the summary of
// the last run.
type SyncMetaRepository interface {
	// DirectoryTag returns the last persisted directory tag, empty if none.
	DirectoryTag(ctx context.Context, collection models.Collection) (string, error)
	SetDirectoryTag(ctx context.Context, collection models.Collection, eTag string) error
	LastSync(ctx context.Context) (models.LastSync, error)
	SetLastSync(ctx context.Context, last models.LastSync) error
}

// FileStorage is the server side document store.
type FileStorage interface {
	// Put stores body under path. A non-empty ifMatch must equal the current
	// tag, otherwise ErrETagMismatch is returned.
	Put(ctx context.Context, path string, body []byte, ifMatch string) (string, error)
	Get(ctx context.Context, path string) (models.RemoteFile, error)
	// Delete removes the file. Missing files are not an error.
	Delete(ctx context.Context, path string) error
	List(ctx context.Context, dir string) (models.DirectoryListing, error)
	DirectoryTag(ctx context.Context, dir string) (string, error)
	Close() error
}

// ErrorClassificator inspects driver errors.
type ErrorClassificator interface {
	Classify(err error) ErrorClassification
	IsUniqueViolation(err error) bool
}
