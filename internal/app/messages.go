// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package app contains the user facing strings of the linkkeeper command
// line client.
package app

const Usage = `usage: linkkeeper [flags] <command> [args]

commands:
  watch                         sync every interval until interrupted (default)
  sync                          run one sync pass over all collections
  status                        show the last sync and pending counts
  conflicts                     list conflicted items per collection
  resolve <collection> <id> <local-delete|cloud-delete|upload|download>
                                resolve one conflicted item
  log [-n N]                    show recent sync runs
  add-link [-name N] [-tags a,b] [-disabled] <url>
  add-note [-link ID] [-tags a,b] <text...>
  add-favorite [-and] -tags a,b <name>
  edit-link [-name N] [-tags a,b] [-disabled] <id> <url>
  edit-note [-link ID] [-tags a,b] <id> <text...>
  edit-favorite [-and] -tags a,b <id> <name>
                                replace the content of an item
  rm <collection> <id>          delete an item locally, remotely on next sync
`

const (
	// MsgSyncInProgress is printed when another process holds the local
	// store lock.
	MsgSyncInProgress = "another sync is running, try again later"

	// MsgNoConflicts is printed by the conflicts command when every
	// collection is conflict free.
	MsgNoConflicts = "no conflicts"

	// MsgNoRuns is printed by the log command on an empty sync log.
	MsgNoRuns = "no sync runs recorded"

	// MsgNeverSynced is printed by the status command before the first run.
	MsgNeverSynced = "never synced"

	MsgWatching = "watching for changes, press Ctrl+C to stop"
	MsgRemoved  = "removed"
	MsgUpdated  = "updated"
)
