// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "fmt"

// Status is the reconciliation status of a single local record.
type Status string

const (
	// StatusNew marks a record created locally and never handed to the remote.
	StatusNew Status = "NEW"
	// StatusUnsynced marks a record whose local content changed since the last
	// confirmed remote tag, or was never confirmed at all.
	StatusUnsynced Status = "UNSYNCED"
	// StatusSynced marks a record whose content equals the remote document
	// identified by the stored ETag.
	StatusSynced Status = "SYNCED"
	// StatusDeleted is a local tombstone kept until the remote side is
	// confirmed deleted.
	StatusDeleted Status = "DELETED"
	// StatusConflicted freezes the record until the conflict is resolved.
	StatusConflicted Status = "CONFLICTED"
)

// Valid reports whether s is one of the five known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusNew, StatusUnsynced, StatusSynced, StatusDeleted, StatusConflicted:
		return true
	}
	return false
}

// SyncState describes where a record stands relative to the remote store.
//
// ETag is empty while the record has never been confirmed by the remote.
// Deleted and Duplicated only carry meaning together with StatusConflicted:
// Deleted remembers that the local side is a tombstone, Duplicated marks a
// record whose natural key collides with another ("main") local record.
type SyncState struct {
	Status     Status
	ETag       string
	Deleted    bool
	Duplicated bool
}

// NewState returns a state for a freshly created record.
func NewState() SyncState {
	return SyncState{Status: StatusNew}
}

// UnsyncedState returns a state for a locally edited record, keeping the last
// known tag so the engine can tell "edited" from "never uploaded".
func UnsyncedState(eTag string) SyncState {
	return SyncState{Status: StatusUnsynced, ETag: eTag}
}

// SyncedState returns a state confirmed against the given remote tag.
func SyncedState(eTag string) SyncState {
	return SyncState{Status: StatusSynced, ETag: eTag}
}

// DeletedState returns a tombstone state keeping the last known tag.
func DeletedState(eTag string) SyncState {
	return SyncState{Status: StatusDeleted, ETag: eTag}
}

// ConflictedState freezes the record. The tag is kept so that resolution can
// still compare against it.
func ConflictedState(eTag string, deleted bool) SyncState {
	return SyncState{Status: StatusConflicted, ETag: eTag, Deleted: deleted}
}

// DuplicatedState marks a downloaded record that collided with an existing
// record on its natural key.
func DuplicatedState(eTag string) SyncState {
	return SyncState{Status: StatusConflicted, ETag: eTag, Duplicated: true}
}

// HasETag reports whether the record was ever confirmed by the remote.
func (s SyncState) HasETag() bool {
	return s.ETag != ""
}

// IsConflicted reports whether the record is frozen for manual resolution.
func (s SyncState) IsConflicted() bool {
	return s.Status == StatusConflicted
}

// IsPending reports whether the record carries local changes the remote has
// not seen yet.
func (s SyncState) IsPending() bool {
	switch s.Status {
	case StatusNew, StatusUnsynced, StatusDeleted:
		return true
	}
	return false
}

// IsTombstone reports whether the local side wants the record gone, either as
// a plain tombstone or as a conflicted one.
func (s SyncState) IsTombstone() bool {
	return s.Status == StatusDeleted || (s.Status == StatusConflicted && s.Deleted)
}

// Validate checks the invariants of a state.
func (s SyncState) Validate() error {
	if !s.Status.Valid() {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidSyncState, s.Status)
	}
	if s.Status == StatusSynced && s.ETag == "" {
		return fmt.Errorf("%w: synced state without etag", ErrInvalidSyncState)
	}
	if s.Status == StatusNew && s.ETag != "" {
		return fmt.Errorf("%w: new state with etag", ErrInvalidSyncState)
	}
	if s.Status != StatusConflicted && (s.Deleted || s.Duplicated) {
		return fmt.Errorf("%w: deleted/duplicated flags outside of conflicted state", ErrInvalidSyncState)
	}
	return nil
}

func (s SyncState) String() string {
	switch {
	case s.Duplicated:
		return fmt.Sprintf("%s(duplicated) etag=%q", s.Status, s.ETag)
	case s.Deleted:
		return fmt.Sprintf("%s(deleted) etag=%q", s.Status, s.ETag)
	}
	return fmt.Sprintf("%s etag=%q", s.Status, s.ETag)
}
