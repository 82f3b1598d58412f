// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-link-keeper/internal/logger"
	"github.com/MKhiriev/go-link-keeper/models"
)

type syncMetaRepository struct {
	*DB
	logger *logger.Logger
}

func NewSyncMetaRepository(db *DB, logger *logger.Logger) SyncMetaRepository {
	return &syncMetaRepository{
		DB:     db,
		logger: logger,
	}
}

func (s *syncMetaRepository) DirectoryTag(ctx context.Context, collection models.Collection) (string, error) {
	log := logger.FromContext(ctx)

	var eTag string
	err := s.DB.QueryRowContext(ctx, getDirectoryTag, collection.String()).Scan(&eTag)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		log.Err(err).
			Str("func", "syncMetaRepository.DirectoryTag").
			Str("collection", collection.String()).
			Msg("failed to read directory tag")
		return "", fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return eTag, nil
}

func (s *syncMetaRepository) SetDirectoryTag(ctx context.Context, collection models.Collection, eTag string) error {
	log := logger.FromContext(ctx)

	if _, err := s.DB.ExecContext(ctx, upsertDirectoryTag, collection.String(), eTag); err != nil {
		log.Err(err).
			Str("func", "syncMetaRepository.SetDirectoryTag").
			Str("collection", collection.String()).
			Msg("failed to store directory tag")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return nil
}

func (s *syncMetaRepository) LastSync(ctx context.Context) (models.LastSync, error) {
	log := logger.FromContext(ctx)

	var (
		last   models.LastSync
		status string
	)
	err := s.DB.QueryRowContext(ctx, getLastSync).Scan(&last.Finished, &status)
	if errors.Is(err, sql.ErrNoRows) {
		return models.LastSync{}, nil
	}
	if err != nil {
		log.Err(err).Str("func", "syncMetaRepository.LastSync").Msg("failed to read last sync")
		return models.LastSync{}, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	last.Status = models.SyncStatus(status)

	return last, nil
}

func (s *syncMetaRepository) SetLastSync(ctx context.Context, last models.LastSync) error {
	log := logger.FromContext(ctx)

	if _, err := s.DB.ExecContext(ctx, upsertLastSync, last.Finished.UTC(), string(last.Status)); err != nil {
		log.Err(err).
			Str("func", "syncMetaRepository.SetLastSync").
			Str("status", string(last.Status)).
			Msg("failed to store last sync")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return nil
}
