// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// ItemResult is the outcome recorded for a single item during a pass.
type ItemResult string

const (
	ResultUploaded   ItemResult = "UPLOADED"
	ResultDownloaded ItemResult = "DOWNLOADED"
	ResultDeleted    ItemResult = "DELETED"
	ResultSynced     ItemResult = "SYNCED"
	ResultConflict   ItemResult = "CONFLICT"
	ResultError      ItemResult = "ERROR"
	// ResultRelated marks the link a synced note is attached to.
	ResultRelated    ItemResult = "RELATED"
)

// SyncLogEntry is one row of the per-item sync journal.
type SyncLogEntry struct {
	Started    time.Time  `db:"started"`
	Collection Collection `db:"collection"`
	ItemID     string     `db:"item_id"`
	Result     ItemResult `db:"result"`
}

// RunStats summarizes one reconciliation pass over one collection.
type RunStats struct {
	Collection Collection

	Uploaded   int
	Downloaded int
	Created    int
	Updated    int
	Deleted    int
	Conflicted int
	Failures   int

	// ShortCircuited is set when the directory tag was unchanged and the
	// remote listing was not fetched.
	ShortCircuited bool
	// Aborted is set when the pass could not start: the directory tag, the
	// remote listing or the local listing could not be read.
	Aborted bool
	// Err holds the abort reason.
	Err error `json:"-"`

	Entries []SyncLogEntry `json:"-"`
}

// Changed reports whether the pass modified anything locally or remotely.
func (s RunStats) Changed() bool {
	return s.Uploaded+s.Downloaded+s.Created+s.Updated+s.Deleted+s.Conflicted > 0
}

// Add folds other into s. Entries are concatenated.
func (s RunStats) Add(other RunStats) RunStats {
	s.Uploaded += other.Uploaded
	s.Downloaded += other.Downloaded
	s.Created += other.Created
	s.Updated += other.Updated
	s.Deleted += other.Deleted
	s.Conflicted += other.Conflicted
	s.Failures += other.Failures
	s.Entries = append(s.Entries, other.Entries...)
	return s
}

// SyncStatus is the status of the most recent orchestrated run, as shown by
// external status displays.
type SyncStatus string

const (
	SyncStatusUnknown  SyncStatus = ""
	SyncStatusSynced   SyncStatus = "SYNCED"
	SyncStatusUnsynced SyncStatus = "UNSYNCED"
	SyncStatusConflict SyncStatus = "CONFLICT"
	SyncStatusError    SyncStatus = "ERROR"
)

// SyncRunResult is the append-only record of one orchestrated run.
type SyncRunResult struct {
	ID           int64
	Started      time.Time
	Finished     time.Time
	Collections  map[Collection]RunStats
	FailureCount int
	Status       SyncStatus
}

// Aborted reports whether any collection pass was aborted.
func (r SyncRunResult) Aborted() bool {
	for _, stats := range r.Collections {
		if stats.Aborted {
			return true
		}
	}
	return false
}

// Entries returns the journal entries of all collections in sync order.
func (r SyncRunResult) Entries() []SyncLogEntry {
	var entries []SyncLogEntry
	for _, c := range Collections {
		entries = append(entries, r.Collections[c].Entries...)
	}
	return entries
}

// LastSync is the persisted summary of the most recent run.
type LastSync struct {
	Finished time.Time
	Status   SyncStatus
}
