// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"github.com/MKhiriev/go-link-keeper/internal/adapter"
	"github.com/MKhiriev/go-link-keeper/internal/config"
	"github.com/MKhiriev/go-link-keeper/internal/logger"
	"github.com/MKhiriev/go-link-keeper/internal/store"
	"github.com/MKhiriev/go-link-keeper/models"
)

type ClientServices struct {
	Orchestrator  Orchestrator
	SyncJob       SyncJob
	Conflicts     ConflictResolver
	Editor        ItemEditor
	Notifications *NotificationHub
}

func NewClientServices(storages *store.ClientStorages, remote adapter.RemoteStore, cfg *config.ClientConfig, logger *logger.Logger) *ClientServices {
	hub := NewNotificationHub(map[models.Collection]store.Refresher{
		models.CollectionFavorites: storages.Favorites,
		models.CollectionLinks:     storages.Links,
		models.CollectionNotes:     storages.Notes,
	}, DefaultSubscriberBuffer, logger)

	opts := ReconcileOptions{
		UploadToEmpty: cfg.App.UploadToEmpty,
		ProtectLocal:  cfg.App.ProtectLocal,
		PoolSize:      cfg.Workers.PoolSize,
	}
	syncDir := cfg.App.SyncDirectory

	favorites := adapter.NewCloudItems[models.Favorite](remote, syncDir)
	links := adapter.NewCloudItems[models.Link](remote, syncDir)
	notes := adapter.NewCloudItems[models.Note](remote, syncDir)

	syncers := []CollectionSyncer{
		NewReconciler[models.Favorite](storages.Favorites, favorites, storages.SyncMeta, hub, opts, logger),
		NewReconciler[models.Link](storages.Links, links, storages.SyncMeta, hub, opts, logger),
		NewReconciler[models.Note](storages.Notes, notes, storages.SyncMeta, hub, opts, logger),
	}

	orchestrator := NewOrchestrator(
		syncers,
		storages.SyncLog,
		storages.SyncMeta,
		cfg.Storage.DB.DSN+LockFileSuffix,
		cfg.App.LogRetentionDays,
		logger,
	)

	return &ClientServices{
		Orchestrator: orchestrator,
		SyncJob:      NewSyncJob(orchestrator, logger),
		Conflicts: NewConflictService(
			NewConflictSessions[models.Favorite](storages.Favorites, storages.Favorites, favorites, hub, logger),
			NewConflictSessions[models.Link](storages.Links, storages.Links, links, hub, logger),
			NewConflictSessions[models.Note](storages.Notes, storages.Notes, notes, hub, logger),
		),
		Editor:        NewItemEditor(storages.Favorites, storages.Links, storages.Notes, hub, nil, logger),
		Notifications: hub,
	}
}
