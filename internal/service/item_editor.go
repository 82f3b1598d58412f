// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/go-link-keeper/internal/logger"
	"github.com/MKhiriev/go-link-keeper/internal/store"
	"github.com/MKhiriev/go-link-keeper/internal/utils"
	"github.com/MKhiriev/go-link-keeper/internal/validators"
	"github.com/MKhiriev/go-link-keeper/models"
)

// IDGenerator issues ids for new local records.
type IDGenerator interface {
	Generate() string
}

// collectionEditor edits the local records of one collection.
type collectionEditor[C models.Content[C]] struct {
	collection models.Collection
	local      store.ItemRepository[C]
	sink       NotificationSink
	ids        IDGenerator
	validator  validators.Validator

	logger *logger.Logger
	now    func() time.Time
}

func newCollectionEditor[C models.Content[C]](
	collection models.Collection,
	local store.ItemRepository[C],
	sink NotificationSink,
	ids IDGenerator,
	logger *logger.Logger,
) *collectionEditor[C] {
	return &collectionEditor[C]{
		collection: collection,
		local:      local,
		sink:       sink,
		ids:        ids,
		validator:  validators.NewItemValidator(),
		logger:     logger.WithCollection(collection.String()),
		now:        time.Now,
	}
}

func (e *collectionEditor[C]) add(ctx context.Context, content C) (string, error) {
	if err := e.validator.Validate(ctx, content); err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	now := e.now().UTC()
	rec := models.Record[C]{
		ID:      e.ids.Generate(),
		Created: now,
		Updated: now,
		Content: content,
		State:   models.NewState(),
	}
	if err := e.local.Insert(ctx, rec); err != nil {
		e.logger.Err(err).Str("func", "collectionEditor.add").Str("id", rec.ID).Msg("error inserting record")
		return "", err
	}

	e.notify(ctx, rec.ID, models.NotificationCreated)
	return rec.ID, nil
}

// edit replaces the content of a live record and marks it for upload.
// A record the remote never saw stays NEW.
func (e *collectionEditor[C]) edit(ctx context.Context, id string, content C) error {
	rec, err := e.local.Get(ctx, id)
	if err != nil {
		return err
	}
	switch {
	case rec.State.IsConflicted():
		return fmt.Errorf("%w: %s is conflicted", ErrActionNotAllowed, id)
	case rec.State.Status == models.StatusDeleted:
		return fmt.Errorf("%w: %s is deleted", ErrActionNotAllowed, id)
	}
	if err = e.validator.Validate(ctx, content); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	if err = e.local.UpdateContent(ctx, id, content, e.now().UTC()); err != nil {
		if errors.Is(err, store.ErrDuplicateNaturalKey) {
			return fmt.Errorf("%w: %w", ErrInvalidInput, err)
		}
		e.logger.Err(err).Str("func", "collectionEditor.edit").Str("id", id).Msg("error updating record content")
		return err
	}

	state := models.NewState()
	if rec.State.HasETag() {
		state = models.UnsyncedState(rec.State.ETag)
	}
	if err = e.local.UpdateState(ctx, id, state); err != nil {
		e.logger.Err(err).Str("func", "collectionEditor.edit").Str("id", id).Msg("error updating record state")
		return err
	}

	e.notify(ctx, id, models.NotificationUpdated)
	return nil
}

// remove tombstones records the remote has seen and purges the rest.
// Conflicted records are left for resolution.
func (e *collectionEditor[C]) remove(ctx context.Context, id string) error {
	rec, err := e.local.Get(ctx, id)
	if err != nil {
		return err
	}

	switch {
	case rec.State.IsConflicted():
		return fmt.Errorf("%w: %s is conflicted", ErrActionNotAllowed, id)
	case rec.State.Status == models.StatusDeleted:
		return nil
	case !rec.State.HasETag():
		err = e.local.Delete(ctx, id)
	default:
		err = e.local.UpdateState(ctx, id, models.DeletedState(rec.State.ETag))
	}
	if err != nil {
		e.logger.Err(err).Str("func", "collectionEditor.remove").Str("id", id).Msg("error removing record")
		return err
	}

	e.notify(ctx, id, models.NotificationDeleted)
	return nil
}

func (e *collectionEditor[C]) notify(ctx context.Context, id string, kind models.NotificationKind) {
	if e.sink == nil {
		return
	}
	e.sink.Notify(ctx, models.Notification{Collection: e.collection, ID: id, Kind: kind})
}

type itemEditor struct {
	favorites *collectionEditor[models.Favorite]
	links     *collectionEditor[models.Link]
	notes     *collectionEditor[models.Note]
}

// NewItemEditor creates records in state NEW. A nil ids falls back to
// time-ordered uuids.
func NewItemEditor(
	favorites store.ItemRepository[models.Favorite],
	links store.ItemRepository[models.Link],
	notes store.ItemRepository[models.Note],
	sink NotificationSink,
	ids IDGenerator,
	logger *logger.Logger,
) ItemEditor {
	if ids == nil {
		ids = utils.NewUUIDGenerator()
	}
	return &itemEditor{
		favorites: newCollectionEditor(models.CollectionFavorites, favorites, sink, ids, logger),
		links:     newCollectionEditor(models.CollectionLinks, links, sink, ids, logger),
		notes:     newCollectionEditor(models.CollectionNotes, notes, sink, ids, logger),
	}
}

func (e *itemEditor) AddLink(ctx context.Context, link models.Link) (string, error) {
	link.Tags = link.Tags.Normalize()
	return e.links.add(ctx, link)
}

func (e *itemEditor) AddNote(ctx context.Context, note models.Note) (string, error) {
	note.Tags = note.Tags.Normalize()
	if err := e.checkLink(ctx, note.LinkID); err != nil {
		return "", err
	}
	return e.notes.add(ctx, note)
}

// checkLink accepts an empty id or the id of a stored link.
func (e *itemEditor) checkLink(ctx context.Context, linkID string) error {
	if linkID == "" {
		return nil
	}
	if _, err := e.links.local.Get(ctx, linkID); err != nil {
		if errors.Is(err, store.ErrItemNotFound) {
			return fmt.Errorf("%w: unknown link %s", ErrInvalidInput, linkID)
		}
		return err
	}
	return nil
}

func (e *itemEditor) AddFavorite(ctx context.Context, favorite models.Favorite) (string, error) {
	favorite.Tags = favorite.Tags.Normalize()
	return e.favorites.add(ctx, favorite)
}

func (e *itemEditor) EditLink(ctx context.Context, id string, link models.Link) error {
	link.Tags = link.Tags.Normalize()
	return e.links.edit(ctx, id, link)
}

func (e *itemEditor) EditNote(ctx context.Context, id string, note models.Note) error {
	note.Tags = note.Tags.Normalize()
	if err := e.checkLink(ctx, note.LinkID); err != nil {
		return err
	}
	return e.notes.edit(ctx, id, note)
}

func (e *itemEditor) EditFavorite(ctx context.Context, id string, favorite models.Favorite) error {
	favorite.Tags = favorite.Tags.Normalize()
	return e.favorites.edit(ctx, id, favorite)
}

func (e *itemEditor) Remove(ctx context.Context, collection models.Collection, id string) error {
	switch collection {
	case models.CollectionFavorites:
		return e.favorites.remove(ctx, id)
	case models.CollectionLinks:
		return e.links.remove(ctx, id)
	case models.CollectionNotes:
		return e.notes.remove(ctx, id)
	}
	return fmt.Errorf("%w: %q", models.ErrUnknownCollection, collection)
}
