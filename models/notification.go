// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// NotificationKind tells subscribers what happened to an item.
type NotificationKind string

const (
	NotificationCreated NotificationKind = "created"
	NotificationUpdated NotificationKind = "updated"
	NotificationDeleted NotificationKind = "deleted"
)

// Notification is emitted once per item transitioned by a sync pass or a
// conflict resolution.
type Notification struct {
	Collection Collection       `json:"collection"`
	ID         string           `json:"id"`
	Kind       NotificationKind `json:"kind"`
}
