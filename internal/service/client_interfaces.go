// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"time"

	"github.com/MKhiriev/go-link-keeper/models"
)

// CloudStore is the remote side of one collection. It is satisfied by
// adapter.CloudItems.
type CloudStore[C models.Content[C]] interface {
	Collection() models.Collection
	// DirectoryTag returns the change tag of the collection directory, empty
	// when the directory does not exist.
	DirectoryTag(ctx context.Context) (string, error)
	// List returns the directory tag and the remote tag of every item.
	List(ctx context.Context) (models.DirectoryListing, error)
	// Download returns the remote record and the tag it was read at.
	Download(ctx context.Context, id string) (models.Record[C], string, error)
	// Upload stores rec, conditionally when ifMatch is set, and returns the
	// new tag.
	Upload(ctx context.Context, rec models.Record[C], ifMatch string) (string, error)
	Delete(ctx context.Context, id string) error
	Exists(ctx context.Context, id string) (bool, error)
}

// NotificationSink receives one notification per item changed by a sync
// pass or a conflict resolution.
type NotificationSink interface {
	Notify(ctx context.Context, n models.Notification)
}

// CollectionSummary counts the records of one collection that keep the
// collection from being in sync.
type CollectionSummary struct {
	Collection    models.Collection
	Total         int
	Pending       int
	Conflicted    int
	ConflictedIDs []string
}

// CollectionSyncer reconciles a single collection.
type CollectionSyncer interface {
	Collection() models.Collection
	// Reconcile runs one pass. Failures are reported in the returned stats,
	// never as an error: an aborted pass has Aborted set and Err filled.
	Reconcile(ctx context.Context) models.RunStats
	Summary(ctx context.Context) (CollectionSummary, error)
}

// Orchestrator runs all collections as a single sync run.
type Orchestrator interface {
	// Run reconciles favorites, links and notes in that order, then stores
	// the run in the sync log. It fails with ErrSyncInProgress when the
	// local store is locked by another run.
	Run(ctx context.Context) (models.SyncRunResult, error)
	Summaries(ctx context.Context) ([]CollectionSummary, error)
	RecentRuns(ctx context.Context, limit int) ([]models.SyncRunResult, error)
	LastSync(ctx context.Context) (models.LastSync, error)
}

// SyncJob defines the contract for a background worker that periodically
// calls Orchestrator.Run.
type SyncJob interface {
	// Start runs one sync immediately, then every interval, defaulting to 5
	// minutes if interval is zero or negative. Any previously running job is
	// stopped before the new one begins.
	Start(ctx context.Context, interval time.Duration)

	// Stop signals the background goroutine to exit and blocks until it has
	// fully terminated.
	Stop()
}

// ConflictSession drives the resolution of one conflicted item.
type ConflictSession interface {
	State() ConflictState
	// Invoke runs a user action and returns the resulting state. The session
	// is finished or cancelled after any terminal action.
	Invoke(ctx context.Context, action Action) (ConflictState, error)
}

// ConflictResolver opens resolution sessions on conflicted items.
type ConflictResolver interface {
	// Open loads both panes of the item and returns the session.
	Open(ctx context.Context, collection models.Collection, id string) (ConflictSession, error)
	// Resolve opens a session and invokes action on it.
	Resolve(ctx context.Context, collection models.Collection, id string, action Action) (ConflictState, error)
}

// ItemEditor makes local edits that the next sync pass pushes to the remote.
type ItemEditor interface {
	AddLink(ctx context.Context, link models.Link) (string, error)
	AddNote(ctx context.Context, note models.Note) (string, error)
	AddFavorite(ctx context.Context, favorite models.Favorite) (string, error)
	// Edit* replace the content of a record that is neither conflicted nor
	// deleted and queue it for upload.
	EditLink(ctx context.Context, id string, link models.Link) error
	EditNote(ctx context.Context, id string, note models.Note) error
	EditFavorite(ctx context.Context, id string, favorite models.Favorite) error
	// Remove turns the record into a tombstone, or purges it when it never
	// reached the remote.
	Remove(ctx context.Context, collection models.Collection, id string) error
}
