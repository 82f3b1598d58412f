// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

const (
	getDirectoryTag = `SELECT dir_etag FROM sync_meta WHERE collection = ?;`

	upsertDirectoryTag = `
		INSERT INTO sync_meta (collection, dir_etag)
		VALUES (?, ?)
		ON CONFLICT (collection) DO UPDATE SET dir_etag = excluded.dir_etag;`

	getLastSync = `SELECT finished, status FROM last_sync WHERE id = 1;`

	upsertLastSync = `
		INSERT INTO last_sync (id, finished, status)
		VALUES (1, ?, ?)
		ON CONFLICT (id) DO UPDATE SET finished = excluded.finished, status = excluded.status;`

	insertSyncRun = `
		INSERT INTO sync_runs (started, finished, failure_count, status, collections)
		VALUES (:started, :finished, :failure_count, :status, :collections);`

	insertSyncLogEntry = `
		INSERT INTO sync_log (run_id, started, collection, item_id, result)
		VALUES (:run_id, :started, :collection, :item_id, :result);`

	selectRecentRuns = `
		SELECT id, started, finished, failure_count, status, collections
		FROM sync_runs
		ORDER BY started DESC, id DESC
		LIMIT ?;`

	selectRunEntries = `
		SELECT started, collection, item_id, result
		FROM sync_log
		WHERE run_id = ?
		ORDER BY id;`

	pruneSyncLog  = `DELETE FROM sync_log WHERE started < ?;`
	pruneSyncRuns = `DELETE FROM sync_runs WHERE started < ?;`
)
