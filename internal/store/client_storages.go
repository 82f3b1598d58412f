// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-link-keeper/internal/config"
	"github.com/MKhiriev/go-link-keeper/internal/logger"
	"github.com/MKhiriev/go-link-keeper/models"
)

// ClientStorages groups all client-side repositories into a single value that
// can be passed around the service layer.
type ClientStorages struct {
	Favorites CachedItemRepository[models.Favorite]
	Links     CachedItemRepository[models.Link]
	Notes     CachedItemRepository[models.Note]

	SyncLog  SyncLogRepository
	SyncMeta SyncMetaRepository

	db *DB
}

// NewClientStorages opens the SQLite file named by cfg.DB.DSN (creating it if
// needed), runs pending migrations and wires every repository.
func NewClientStorages(ctx context.Context, cfg config.ClientStorage, logger *logger.Logger) (*ClientStorages, error) {
	logger.Info().Msg("creating new storages...")

	db, err := NewConnectSQLite(ctx, cfg.DB, logger)
	if err != nil {
		return nil, fmt.Errorf("sqlite connection error: %w", err)
	}

	if err := db.Migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	storages, err := newClientStorages(db, logger)
	if err != nil {
		db.Close()
		return nil, err
	}

	return storages, nil
}

func newClientStorages(db *DB, logger *logger.Logger) (*ClientStorages, error) {
	favorites, err := NewCachedItemRepository(NewItemRepository[models.Favorite](db, logger), DefaultCacheSize)
	if err != nil {
		return nil, err
	}
	links, err := NewCachedItemRepository(NewItemRepository[models.Link](db, logger), DefaultCacheSize)
	if err != nil {
		return nil, err
	}
	notes, err := NewCachedItemRepository(NewItemRepository[models.Note](db, logger), DefaultCacheSize)
	if err != nil {
		return nil, err
	}

	return &ClientStorages{
		Favorites: favorites,
		Links:     links,
		Notes:     notes,
		SyncLog:   NewSyncLogRepository(db, logger),
		SyncMeta:  NewSyncMetaRepository(db, logger),
		db:        db,
	}, nil
}

// Refresher returns the cache refresher of a collection.
func (s *ClientStorages) Refresher(collection models.Collection) Refresher {
	switch collection {
	case models.CollectionFavorites:
		return s.Favorites
	case models.CollectionLinks:
		return s.Links
	case models.CollectionNotes:
		return s.Notes
	}
	return nil
}

func (s *ClientStorages) Close() error {
	return s.db.Close()
}
