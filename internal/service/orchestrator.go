// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofrs/flock"

	"github.com/MKhiriev/go-link-keeper/internal/config"
	"github.com/MKhiriev/go-link-keeper/internal/logger"
	"github.com/MKhiriev/go-link-keeper/internal/store"
	"github.com/MKhiriev/go-link-keeper/models"
)

// LockFileSuffix is appended to the local database path to name the file
// that keeps two processes from syncing the same store.
const LockFileSuffix = ".lock"

type syncOrchestrator struct {
	syncers   []CollectionSyncer
	syncLog   store.SyncLogRepository
	syncMeta  store.SyncMetaRepository
	lock      *flock.Flock
	retention time.Duration

	logger *logger.Logger
	now    func() time.Time
}

// NewOrchestrator runs syncers in the given order. An empty lockPath
// disables the cross-process lock.
func NewOrchestrator(
	syncers []CollectionSyncer,
	syncLog store.SyncLogRepository,
	syncMeta store.SyncMetaRepository,
	lockPath string,
	retentionDays int,
	logger *logger.Logger,
) Orchestrator {
	if retentionDays <= 0 {
		retentionDays = config.DefaultLogRetentionDays
	}
	o := &syncOrchestrator{
		syncers:   syncers,
		syncLog:   syncLog,
		syncMeta:  syncMeta,
		retention: time.Duration(retentionDays) * 24 * time.Hour,
		logger:    logger,
		now:       time.Now,
	}
	if lockPath != "" {
		o.lock = flock.New(lockPath)
	}
	return o
}

func (o *syncOrchestrator) Run(ctx context.Context) (models.SyncRunResult, error) {
	unlock, err := o.acquire()
	if err != nil {
		return models.SyncRunResult{}, err
	}
	defer unlock()

	started := o.now()
	if pruned, err := o.syncLog.Prune(ctx, started.Add(-o.retention)); err != nil {
		o.logger.Warn().Err(err).Str("func", "syncOrchestrator.Run").Msg("sync log was not pruned")
	} else if pruned > 0 {
		o.logger.Debug().Int64("rows", pruned).Msg("sync log pruned")
	}

	result := models.SyncRunResult{
		Started:     started,
		Collections: make(map[models.Collection]models.RunStats, len(o.syncers)),
	}
	for _, syncer := range o.syncers {
		stats := syncer.Reconcile(ctx)
		result.Collections[syncer.Collection()] = stats
		result.FailureCount += stats.Failures

		o.logger.Info().
			Str("collection", syncer.Collection().String()).
			Int("uploaded", stats.Uploaded).
			Int("downloaded", stats.Downloaded).
			Int("deleted", stats.Deleted).
			Int("conflicted", stats.Conflicted).
			Int("failures", stats.Failures).
			Bool("short_circuited", stats.ShortCircuited).
			Bool("aborted", stats.Aborted).
			Msg("collection reconciled")
	}
	result.Finished = o.now()
	result.Status = o.status(ctx, result)

	id, err := o.syncLog.AppendRun(ctx, result)
	if err != nil {
		o.logger.Err(err).Str("func", "syncOrchestrator.Run").Msg("error storing sync run")
		err = fmt.Errorf("store sync run: %w", err)
	}
	result.ID = id

	if metaErr := o.syncMeta.SetLastSync(ctx, models.LastSync{Finished: result.Finished, Status: result.Status}); metaErr != nil {
		o.logger.Err(metaErr).Str("func", "syncOrchestrator.Run").Msg("error storing last sync")
		err = errors.Join(err, fmt.Errorf("store last sync: %w", metaErr))
	}

	return result, err
}

func (o *syncOrchestrator) acquire() (func(), error) {
	if o.lock == nil {
		return func() {}, nil
	}
	locked, err := o.lock.TryLock()
	if err != nil {
		o.logger.Err(err).Str("func", "syncOrchestrator.acquire").Str("path", o.lock.Path()).Msg("error locking local store")
		return nil, fmt.Errorf("lock local store: %w", err)
	}
	if !locked {
		return nil, ErrSyncInProgress
	}
	return func() {
		if err := o.lock.Unlock(); err != nil {
			o.logger.Err(err).Str("func", "syncOrchestrator.acquire").Msg("error unlocking local store")
		}
	}, nil
}

// status ranks the run: ERROR over CONFLICT over UNSYNCED over SYNCED.
func (o *syncOrchestrator) status(ctx context.Context, result models.SyncRunResult) models.SyncStatus {
	if result.FailureCount > 0 || result.Aborted() {
		return models.SyncStatusError
	}

	summaries, err := o.Summaries(ctx)
	if err != nil {
		return models.SyncStatusError
	}

	status := models.SyncStatusSynced
	for _, s := range summaries {
		if s.Conflicted > 0 {
			return models.SyncStatusConflict
		}
		if s.Pending > 0 {
			status = models.SyncStatusUnsynced
		}
	}
	return status
}

func (o *syncOrchestrator) Summaries(ctx context.Context) ([]CollectionSummary, error) {
	summaries := make([]CollectionSummary, 0, len(o.syncers))
	for _, syncer := range o.syncers {
		s, err := syncer.Summary(ctx)
		if err != nil {
			return nil, fmt.Errorf("summary of %s: %w", syncer.Collection(), err)
		}
		summaries = append(summaries, s)
	}
	return summaries, nil
}

func (o *syncOrchestrator) RecentRuns(ctx context.Context, limit int) ([]models.SyncRunResult, error) {
	return o.syncLog.RecentRuns(ctx, limit)
}

func (o *syncOrchestrator) LastSync(ctx context.Context) (models.LastSync, error) {
	return o.syncMeta.LastSync(ctx)
}
