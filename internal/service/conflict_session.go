// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/MKhiriev/go-link-keeper/internal/adapter"
	"github.com/MKhiriev/go-link-keeper/internal/logger"
	"github.com/MKhiriev/go-link-keeper/internal/store"
	"github.com/MKhiriev/go-link-keeper/models"
)

// ConflictSessions opens resolution sessions on the items of one collection.
type ConflictSessions[C models.Content[C]] struct {
	collection models.Collection
	local      store.ItemRepository[C]
	refresher  store.Refresher
	cloud      CloudStore[C]
	sink       NotificationSink
	logger     *logger.Logger
}

func NewConflictSessions[C models.Content[C]](
	local store.ItemRepository[C],
	refresher store.Refresher,
	cloud CloudStore[C],
	sink NotificationSink,
	logger *logger.Logger,
) *ConflictSessions[C] {
	collection := cloud.Collection()
	return &ConflictSessions[C]{
		collection: collection,
		local:      local,
		refresher:  refresher,
		cloud:      cloud,
		sink:       sink,
		logger:     logger.WithCollection(collection.String()),
	}
}

func (c *ConflictSessions[C]) Collection() models.Collection {
	return c.collection
}

// Open starts a session on id and waits until both panes are loaded, or the
// session ended on its own.
func (c *ConflictSessions[C]) Open(ctx context.Context, id string) (ConflictSession, error) {
	s := &conflictSession[C]{
		ConflictSessions: c,
		logger:           &logger.Logger{Logger: c.logger.With().Str("id", id).Logger()},
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	state, effects := NewConflictState(id)
	s.state = state
	s.run(ctx, effects)

	if s.state.Phase == PhaseCancelled {
		return s, s.state.Err
	}
	return s, nil
}

// conflictSession executes the effects of the conflict machine against the
// local and remote stores.
type conflictSession[C models.Content[C]] struct {
	*ConflictSessions[C]
	logger *logger.Logger

	mu        sync.Mutex
	state     ConflictState
	record    models.Record[C]
	main      models.Record[C]
	remote    models.Record[C]
	remoteTag string
}

func (s *conflictSession[C]) State() ConflictState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *conflictSession[C]) Invoke(ctx context.Context, action Action) (ConflictState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.Phase.Done() {
		return s.state, ErrSessionClosed
	}

	state, effects := Transition(s.state, ActionInvoked{Action: action})
	s.state = state
	if len(effects) == 0 {
		return s.state, s.state.Err
	}
	s.run(ctx, effects)

	if s.state.Phase == PhaseCancelled {
		return s.state, s.state.Err
	}
	return s.state, nil
}

// run performs effects until the machine asks for no more. Effects of one
// step run concurrently; their events are applied in effect order.
func (s *conflictSession[C]) run(ctx context.Context, effects []ConflictEffect) {
	for len(effects) > 0 {
		events := make([]ConflictEvent, len(effects))

		var g errgroup.Group
		for i, effect := range effects {
			g.Go(func() error {
				events[i] = s.perform(ctx, effect)
				return nil
			})
		}
		_ = g.Wait()

		effects = nil
		for _, ev := range events {
			if ev == nil {
				continue
			}
			var next []ConflictEffect
			s.state, next = Transition(s.state, ev)
			effects = append(effects, next...)
		}
	}
}

func (s *conflictSession[C]) perform(ctx context.Context, effect ConflictEffect) ConflictEvent {
	switch effect := effect.(type) {
	case LoadLocal:
		return s.loadLocal(ctx)
	case LoadCloud:
		return s.loadCloud(ctx)
	case RefreshCache:
		s.refresh(ctx)
		return nil
	case AutoResolveDuplicate:
		return ActionCompleted{Err: s.autoResolveDuplicate(ctx)}
	case RunAction:
		return ActionCompleted{Err: s.execute(ctx, effect.Action)}
	}
	return nil
}

func (s *conflictSession[C]) loadLocal(ctx context.Context) ConflictEvent {
	rec, err := s.local.Get(ctx, s.state.ID)
	if errors.Is(err, store.ErrItemNotFound) {
		return LocalLoaded{}
	}
	if err != nil {
		s.logger.Err(err).Str("func", "conflictSession.loadLocal").Msg("error reading local record")
		return LocalLoaded{Err: err}
	}
	s.record = rec

	ev := LocalLoaded{Found: true, State: rec.State}
	if !rec.State.Duplicated {
		return ev
	}

	main, err := s.local.FindByNaturalKey(ctx, rec.Content.NaturalKey())
	switch {
	case errors.Is(err, store.ErrItemNotFound):
		return ev
	case err != nil:
		s.logger.Err(err).Str("func", "conflictSession.loadLocal").Msg("error reading main record")
		return LocalLoaded{Err: err}
	}
	s.main = main
	ev.MainFound, ev.MainID = true, main.ID
	return ev
}

func (s *conflictSession[C]) loadCloud(ctx context.Context) ConflictEvent {
	remote, tag, err := s.cloud.Download(ctx, s.state.ID)
	if errors.Is(err, adapter.ErrNotFound) {
		return CloudLoaded{}
	}
	if err != nil {
		s.logger.Err(err).Str("func", "conflictSession.loadCloud").Msg("error downloading remote copy")
		return CloudError{Err: err}
	}
	s.remote, s.remoteTag = remote, tag
	return CloudLoaded{Found: true}
}

func (s *conflictSession[C]) refresh(ctx context.Context) {
	if s.refresher == nil {
		return
	}
	s.refresher.Refresh(ctx, s.state.ID)
	if s.main.ID != "" {
		s.refresher.Refresh(ctx, s.main.ID)
	}
}

// autoResolveDuplicate accepts a duplicate that has no main record left to
// collide with.
func (s *conflictSession[C]) autoResolveDuplicate(ctx context.Context) error {
	s.logger.Warn().Msg("duplicate without main record, accepting it")
	if err := s.local.UpdateState(ctx, s.state.ID, models.SyncedState(s.record.State.ETag)); err != nil {
		s.logger.Err(err).Str("func", "conflictSession.autoResolveDuplicate").Msg("error updating state")
		return fmt.Errorf("update state: %w", err)
	}
	s.notify(ctx, s.state.ID, models.NotificationUpdated)
	return nil
}

// execute carries out a terminal action. The local record is reloaded from the
// database first: a sync pass or another process may have resolved it.
func (s *conflictSession[C]) execute(ctx context.Context, action Action) error {
	if s.refresher != nil {
		s.refresher.Refresh(ctx, s.state.ID)
	}
	current, err := s.local.Get(ctx, s.state.ID)
	if errors.Is(err, store.ErrItemNotFound) {
		return ErrNotConflicted
	}
	if err != nil {
		return fmt.Errorf("re-read local record: %w", err)
	}
	if !current.State.IsConflicted() {
		return ErrNotConflicted
	}

	switch action {
	case ActionLocalDelete, ActionCloudDelete:
		if current.State.Duplicated {
			err = s.deleteDuplicate(ctx, current)
		} else {
			err = s.deleteBoth(ctx, current.ID)
		}
	case ActionUpload:
		err = s.upload(ctx, current)
	case ActionDownload:
		err = s.download(ctx, current.ID)
	default:
		err = fmt.Errorf("%w: %s", ErrUnknownAction, action)
	}
	if err != nil {
		s.logger.Err(err).Str("func", "conflictSession.execute").Str("action", string(action)).Msg("resolution failed")
		return err
	}

	s.logger.Info().Str("action", string(action)).Msg("conflict resolved")
	return nil
}

func (s *conflictSession[C]) deleteBoth(ctx context.Context, id string) error {
	if err := s.cloud.Delete(ctx, id); err != nil && !errors.Is(err, adapter.ErrNotFound) {
		return fmt.Errorf("delete remote: %w", err)
	}
	if err := s.local.Delete(ctx, id); err != nil {
		return fmt.Errorf("purge local: %w", err)
	}
	s.notify(ctx, id, models.NotificationDeleted)
	return nil
}

// deleteDuplicate removes the duplicate on both sides and stamps the main
// record SYNCED with the duplicate's last known tag.
func (s *conflictSession[C]) deleteDuplicate(ctx context.Context, dup models.Record[C]) error {
	if err := s.deleteBoth(ctx, dup.ID); err != nil {
		return err
	}

	main, err := s.local.FindByNaturalKey(ctx, dup.Content.NaturalKey())
	if errors.Is(err, store.ErrItemNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("find main record: %w", err)
	}
	if err := s.local.UpdateState(ctx, main.ID, models.SyncedState(dup.State.ETag)); err != nil {
		return fmt.Errorf("update main state: %w", err)
	}
	s.main = main
	s.notify(ctx, main.ID, models.NotificationUpdated)
	return nil
}

func (s *conflictSession[C]) upload(ctx context.Context, rec models.Record[C]) error {
	tag, err := s.cloud.Upload(ctx, rec, "")
	if err != nil {
		return fmt.Errorf("upload: %w", err)
	}
	if err := s.local.UpdateState(ctx, rec.ID, models.SyncedState(tag)); err != nil {
		return fmt.Errorf("update state: %w", err)
	}
	s.notify(ctx, rec.ID, models.NotificationUpdated)
	return nil
}

// download takes the remote copy. When its natural key is held by another
// local record, the item stays conflicted as a duplicate of that record.
func (s *conflictSession[C]) download(ctx context.Context, id string) error {
	err := s.local.UpdateContent(ctx, id, s.remote.Content, s.remote.Updated)
	if errors.Is(err, store.ErrDuplicateNaturalKey) {
		return s.downloadDuplicate(ctx, id)
	}
	if err != nil {
		return fmt.Errorf("update content: %w", err)
	}
	if err := s.local.UpdateState(ctx, id, models.SyncedState(s.remoteTag)); err != nil {
		return fmt.Errorf("update state: %w", err)
	}
	s.notify(ctx, id, models.NotificationUpdated)
	return nil
}

func (s *conflictSession[C]) downloadDuplicate(ctx context.Context, id string) error {
	if err := s.local.UpdateState(ctx, id, models.DuplicatedState(s.remoteTag)); err != nil {
		return fmt.Errorf("mark duplicated: %w", err)
	}
	if err := s.local.UpdateContent(ctx, id, s.remote.Content, s.remote.Updated); err != nil {
		return fmt.Errorf("update duplicate content: %w", err)
	}
	s.logger.Info().Str("key", s.remote.Content.NaturalKey()).Msg("remote copy collides with a local record, kept as duplicate")
	s.notify(ctx, id, models.NotificationUpdated)
	return nil
}

func (s *conflictSession[C]) notify(ctx context.Context, id string, kind models.NotificationKind) {
	if s.sink == nil {
		return
	}
	s.sink.Notify(ctx, models.Notification{Collection: s.collection, ID: id, Kind: kind})
}

func isNotConflicted(err error) bool {
	return errors.Is(err, ErrNotConflicted)
}
