// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/jmoiron/sqlx"

	"github.com/MKhiriev/go-link-keeper/internal/logger"
	"github.com/MKhiriev/go-link-keeper/models"
)

type syncRunRow struct {
	ID           int64     `db:"id"`
	Started      time.Time `db:"started"`
	Finished     time.Time `db:"finished"`
	FailureCount int       `db:"failure_count"`
	Status       string    `db:"status"`
	Collections  string    `db:"collections"`
}

type syncLogRow struct {
	RunID int64 `db:"run_id"`
	models.SyncLogEntry
}

// syncLogRepository keeps sync runs and their per-item journal in SQLite
// through sqlx named statements.
type syncLogRepository struct {
	db     *sqlx.DB
	logger *logger.Logger
}

func NewSyncLogRepository(db *DB, logger *logger.Logger) SyncLogRepository {
	return &syncLogRepository{
		db:     sqlx.NewDb(db.DB, "sqlite3"),
		logger: logger,
	}
}

func (s *syncLogRepository) AppendRun(ctx context.Context, run models.SyncRunResult) (int64, error) {
	log := logger.FromContext(ctx)

	collections, err := json.Marshal(run.Collections)
	if err != nil {
		return 0, fmt.Errorf("error encoding run stats: %w", err)
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		log.Err(err).Str("func", "syncLogRepository.AppendRun").Msg("failed to begin transaction")
		return 0, fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}
	defer tx.Rollback()

	res, err := tx.NamedExecContext(ctx, insertSyncRun, syncRunRow{
		Started:      run.Started.UTC(),
		Finished:     run.Finished.UTC(),
		FailureCount: run.FailureCount,
		Status:       string(run.Status),
		Collections:  string(collections),
	})
	if err != nil {
		log.Err(err).Str("func", "syncLogRepository.AppendRun").Msg("failed to insert sync run")
		return 0, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	runID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	for _, entry := range run.Entries() {
		entry.Started = entry.Started.UTC()
		if _, err = tx.NamedExecContext(ctx, insertSyncLogEntry, syncLogRow{RunID: runID, SyncLogEntry: entry}); err != nil {
			log.Err(err).
				Str("func", "syncLogRepository.AppendRun").
				Int64("run_id", runID).
				Str("item_id", entry.ItemID).
				Msg("failed to insert sync log entry")
			return 0, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
		}
	}

	if err = tx.Commit(); err != nil {
		log.Err(err).Str("func", "syncLogRepository.AppendRun").Msg("failed to commit sync run")
		return 0, fmt.Errorf("%w: %w", ErrCommitingTransaction, err)
	}

	return runID, nil
}

func (s *syncLogRepository) Prune(ctx context.Context, before time.Time) (int64, error) {
	log := logger.FromContext(ctx)

	var pruned int64
	for _, query := range []string{pruneSyncLog, pruneSyncRuns} {
		res, err := s.db.ExecContext(ctx, query, before.UTC())
		if err != nil {
			log.Err(err).Str("func", "syncLogRepository.Prune").Time("before", before).Msg("failed to prune sync log")
			return pruned, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
		}
		n, _ := res.RowsAffected()
		pruned += n
	}

	return pruned, nil
}

func (s *syncLogRepository) RecentRuns(ctx context.Context, limit int) ([]models.SyncRunResult, error) {
	log := logger.FromContext(ctx)

	var rows []syncRunRow
	if err := s.db.SelectContext(ctx, &rows, selectRecentRuns, limit); err != nil {
		log.Err(err).Str("func", "syncLogRepository.RecentRuns").Msg("failed to select sync runs")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	runs := make([]models.SyncRunResult, 0, len(rows))
	for _, row := range rows {
		run := models.SyncRunResult{
			ID:           row.ID,
			Started:      row.Started,
			Finished:     row.Finished,
			FailureCount: row.FailureCount,
			Status:       models.SyncStatus(row.Status),
		}
		if err := json.Unmarshal([]byte(row.Collections), &run.Collections); err != nil {
			return nil, fmt.Errorf("error decoding run stats (id=%d): %w", row.ID, err)
		}
		runs = append(runs, run)
	}

	return runs, nil
}

func (s *syncLogRepository) RunEntries(ctx context.Context, runID int64) ([]models.SyncLogEntry, error) {
	log := logger.FromContext(ctx)

	var entries []models.SyncLogEntry
	if err := s.db.SelectContext(ctx, &entries, selectRunEntries, runID); err != nil {
		log.Err(err).Str("func", "syncLogRepository.RunEntries").Int64("run_id", runID).Msg("failed to select sync log entries")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return entries, nil
}
